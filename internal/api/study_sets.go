package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"studyforge_go_backend/internal/auth"
	apperrors "studyforge_go_backend/internal/errors"
	"studyforge_go_backend/internal/generation"
	"studyforge_go_backend/internal/models"
)

func createStudySetHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := auth.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
			return
		}

		var request struct {
			Name string `json:"name"`
		}
		if err := c.ShouldBindJSON(&request); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		set := models.StudySet{UserID: user.ID, Name: request.Name}
		if err := db.Create(&set).Error; err != nil {
			apperrors.HandleError(c, err)
			return
		}

		c.JSON(http.StatusCreated, set)
	}
}

func listStudySetsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := auth.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
			return
		}

		var sets []models.StudySet
		if err := db.Where("user_id = ?", user.ID).Order("created_at desc").Find(&sets).Error; err != nil {
			apperrors.HandleError(c, err)
			return
		}

		c.JSON(http.StatusOK, sets)
	}
}

func getStudySetHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		set, ok := ownedStudySet(c, db, id)
		if !ok {
			return
		}

		if err := db.Preload("Documents").Preload("Contents").First(set, set.ID).Error; err != nil {
			apperrors.HandleError(c, err)
			return
		}

		c.JSON(http.StatusOK, set)
	}
}

func deleteStudySetHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		set, ok := ownedStudySet(c, db, id)
		if !ok {
			return
		}

		if err := db.Select("Documents", "Contents").Delete(set).Error; err != nil {
			apperrors.HandleError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Study set deleted"})
	}
}

// suggestTestNameHandler asks the AI for a short test name based on the
// set's extracted material and stores it on the set. Rate limiting never
// fails this call; a dated default name comes back instead.
func suggestTestNameHandler(db *gorm.DB, generator *generation.GenerationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		set, ok := ownedStudySet(c, db, id)
		if !ok {
			return
		}

		name, err := generator.SuggestTestName(c.Request.Context(), set.ID)
		if err != nil {
			apperrors.HandleError(c, err)
			return
		}

		if err := db.Model(set).Update("name", name).Error; err != nil {
			apperrors.HandleError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"name": name})
	}
}
