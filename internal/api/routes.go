package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"studyforge_go_backend/internal/auth"
	"studyforge_go_backend/internal/config"
	"studyforge_go_backend/internal/generation"
	"studyforge_go_backend/internal/models"
	"studyforge_go_backend/internal/render"
	"studyforge_go_backend/internal/storage"
	"studyforge_go_backend/internal/tasks"
	"studyforge_go_backend/internal/usage"
)

func SetupRoutes(
	r *gin.Engine,
	db *gorm.DB,
	store storage.FileStore,
	queue tasks.Queue,
	generator *generation.GenerationService,
	renderer *render.Renderer,
	ledger *usage.Ledger,
	cfg *config.Config,
) {
	api := r.Group("/api")
	{
		api.POST("/study-sets", auth.AuthMiddleware(), createStudySetHandler(db))
		api.GET("/study-sets", auth.AuthMiddleware(), listStudySetsHandler(db))
		api.GET("/study-sets/:id", auth.AuthMiddleware(), getStudySetHandler(db))
		api.DELETE("/study-sets/:id", auth.AuthMiddleware(), deleteStudySetHandler(db))
		api.POST("/study-sets/:id/name-suggestion", auth.AuthMiddleware(), suggestTestNameHandler(db, generator))

		api.POST("/study-sets/:id/documents", auth.AuthMiddleware(), uploadDocumentHandler(db, store, queue, cfg))
		api.GET("/documents/:id/status", auth.AuthMiddleware(), documentStatusHandler(db))

		api.POST("/study-sets/:id/generate", auth.AuthMiddleware(), generateContentHandler(db, generator))
		api.GET("/contents/:id/download", auth.AuthMiddleware(), downloadContentHandler(db, renderer))
		api.DELETE("/contents/:id", auth.AuthMiddleware(), deleteContentHandler(db))

		api.GET("/usage", auth.AuthMiddleware(), usageReportHandler(ledger))
	}
}

// pathID parses the numeric :id path parameter.
func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return 0, false
	}
	return uint(id), true
}

// ownedStudySet loads a study set and verifies the authenticated user owns
// it. It writes the error response itself on failure.
func ownedStudySet(c *gin.Context, db *gorm.DB, id uint) (*models.StudySet, bool) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return nil, false
	}

	var set models.StudySet
	if err := db.First(&set, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Study set not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return nil, false
	}

	if set.UserID != user.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Study set belongs to another user"})
		return nil, false
	}

	return &set, true
}
