package api

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"studyforge_go_backend/internal/config"
	apperrors "studyforge_go_backend/internal/errors"
	"studyforge_go_backend/internal/models"
	"studyforge_go_backend/internal/storage"
	"studyforge_go_backend/internal/tasks"
)

var allowedUploadExtensions = map[string]bool{
	".pdf":  true,
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".txt":  true,
	".md":   true,
}

// uploadDocumentHandler accepts one file, stores it, records the document
// as uploaded and queues text extraction. The response is 202: extraction
// finishes in the background and is observed via the status endpoint.
func uploadDocumentHandler(db *gorm.DB, store storage.FileStore, queue tasks.Queue, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		set, ok := ownedStudySet(c, db, id)
		if !ok {
			return
		}

		fileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing file upload"})
			return
		}

		maxBytes := cfg.Storage.MaxUploadSizeMB * 1024 * 1024
		if fileHeader.Size > maxBytes {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{
				"error": fmt.Sprintf("File exceeds the %d MB upload limit", cfg.Storage.MaxUploadSizeMB),
			})
			return
		}

		ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
		if !allowedUploadExtensions[ext] {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported file type"})
			return
		}

		file, err := fileHeader.Open()
		if err != nil {
			apperrors.HandleError(c, err)
			return
		}
		defer file.Close()

		storePath := fmt.Sprintf("documents/%d/%s%s", set.ID, uuid.New().String(), ext)
		if err := store.Write(c.Request.Context(), storePath, file); err != nil {
			apperrors.HandleError(c, err)
			return
		}

		document := models.SourceDocument{
			StudySetID: set.ID,
			FileName:   fileHeader.Filename,
			FilePath:   storePath,
			MimeType:   fileHeader.Header.Get("Content-Type"),
			Status:     models.StatusUploaded,
		}
		if err := db.Create(&document).Error; err != nil {
			apperrors.HandleError(c, err)
			return
		}

		if err := queue.Enqueue(&tasks.ExtractionTask{DocumentID: document.ID}); err != nil {
			apperrors.HandleError(c, err)
			return
		}

		c.JSON(http.StatusAccepted, document)
	}
}

// documentStatusHandler reports where a document is in the extraction flow.
func documentStatusHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}

		var document models.SourceDocument
		if err := db.First(&document, id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
			} else {
				apperrors.HandleError(c, err)
			}
			return
		}

		if _, ok := ownedStudySet(c, db, document.StudySetID); !ok {
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"id":        document.ID,
			"file_name": document.FileName,
			"status":    document.Status,
			"has_text":  document.ExtractedText != nil && *document.ExtractedText != "",
		})
	}
}
