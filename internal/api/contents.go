package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	apperrors "studyforge_go_backend/internal/errors"
	"studyforge_go_backend/internal/generation"
	"studyforge_go_backend/internal/models"
	"studyforge_go_backend/internal/render"
)

func generateContentHandler(db *gorm.DB, generator *generation.GenerationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		set, ok := ownedStudySet(c, db, id)
		if !ok {
			return
		}

		var request struct {
			Kind                string   `json:"kind" binding:"required"`
			Count               *int     `json:"count"`
			Difficulty          string   `json:"difficulty"`
			QuestionTypes       []string `json:"question_types"`
			IncludeExplanations bool     `json:"include_explanations"`
			Length              string   `json:"length"`
			Format              string   `json:"format"`
			Instructions        string   `json:"instructions"`
		}
		if err := c.ShouldBindJSON(&request); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		kind := models.ContentKind(request.Kind)
		switch kind {
		case models.KindFlashcards, models.KindPracticeTest, models.KindSummary:
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid content kind"})
			return
		}

		content, err := generator.Generate(c.Request.Context(), generation.GenerateRequest{
			StudySetID: set.ID,
			Kind:       kind,
			Options: generation.Options{
				Count:               request.Count,
				Difficulty:          request.Difficulty,
				QuestionTypes:       request.QuestionTypes,
				IncludeExplanations: request.IncludeExplanations,
				Length:              request.Length,
				Format:              request.Format,
			},
			Instructions: request.Instructions,
		})
		if err != nil {
			apperrors.HandleError(c, err)
			return
		}

		c.JSON(http.StatusCreated, content)
	}
}

// downloadContentHandler renders the stored content as a PDF and streams it
// back as an attachment.
func downloadContentHandler(db *gorm.DB, renderer *render.Renderer) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}

		content, set, ok := ownedContent(c, db, id)
		if !ok {
			return
		}

		pdfBytes, err := renderer.Render(content, set.Name)
		if err != nil {
			apperrors.HandleError(c, err)
			return
		}

		fileName := fmt.Sprintf("%s-%d.pdf", content.Kind, content.ID)
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
		c.Data(http.StatusOK, "application/pdf", pdfBytes)
	}
}

func deleteContentHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}

		content, _, ok := ownedContent(c, db, id)
		if !ok {
			return
		}

		if err := db.Select("Flashcards").Delete(content).Error; err != nil {
			apperrors.HandleError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Content deleted"})
	}
}

// ownedContent loads a generated content row with its flashcards and checks
// the parent study set belongs to the authenticated user.
func ownedContent(c *gin.Context, db *gorm.DB, id uint) (*models.GeneratedContent, *models.StudySet, bool) {
	var content models.GeneratedContent
	if err := db.Preload("Flashcards").First(&content, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Content not found"})
		} else {
			apperrors.HandleError(c, err)
		}
		return nil, nil, false
	}

	set, ok := ownedStudySet(c, db, content.StudySetID)
	if !ok {
		return nil, nil, false
	}

	return &content, set, true
}
