package main

import (
	"context"
	"log"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"studyforge_go_backend/internal/ai"
	"studyforge_go_backend/internal/api"
	"studyforge_go_backend/internal/auth"
	"studyforge_go_backend/internal/config"
	"studyforge_go_backend/internal/database"
	"studyforge_go_backend/internal/extraction"
	"studyforge_go_backend/internal/generation"
	"studyforge_go_backend/internal/ocr"
	"studyforge_go_backend/internal/render"
	"studyforge_go_backend/internal/storage"
	"studyforge_go_backend/internal/tasks"
	"studyforge_go_backend/internal/usage"
	"studyforge_go_backend/pkg/logger"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(os.Getenv("LOG_LEVEL"))
	gin.SetMode(cfg.Server.Mode)

	ctx := context.Background()

	database.InitDB(&cfg.Database)

	store, err := buildFileStore(ctx, &cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to initialize file store: %v", err)
	}

	recognizer, err := ocr.NewRecognizer(ctx, &cfg.OCR)
	if err != nil {
		log.Fatalf("Failed to initialize OCR engine: %v", err)
	}

	preprocessor := extraction.NewImagePreprocessor(cfg.OCR.MaxDimension)
	extractor := extraction.NewExtractionService(
		database.DB,
		store,
		recognizer,
		preprocessor,
		cfg.OCR.Language,
		cfg.OCR.RasterDPI,
	)

	queue := tasks.NewQueue(&cfg.Redis)
	defer queue.Close()

	processDocument := func(ctx context.Context, task *tasks.ExtractionTask) error {
		extractor.ProcessDocument(ctx, task.DocumentID)
		return nil
	}

	if syncQueue, ok := queue.(*tasks.SyncQueue); ok {
		syncQueue.SetProcessor(processDocument)
	} else {
		worker := tasks.NewWorker(&cfg.Redis)
		worker.SetProcessor(processDocument)
		if err := worker.Start(); err != nil {
			log.Fatalf("Failed to start extraction worker: %v", err)
		}
		defer worker.Stop()
	}

	gateway := ai.NewGateway(&cfg.AI)
	ledger := usage.NewLedger(database.DB, &cfg.RateLimit)
	generator := generation.NewGenerationService(database.DB, gateway, ledger)
	renderer := render.NewRenderer()

	r := gin.New()
	r.Use(logger.GinLogger(), logger.GinRecovery())

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		allowedOrigins = "http://localhost:5173"
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Split(allowedOrigins, ","),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api.SetupRoutes(r, database.DB, store, queue, generator, renderer, ledger, cfg)
	auth.SetupRoutes(r)

	addr := cfg.Server.Host + ":" + cfg.Server.Port
	logger.Infof("[Server] Starting on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func buildFileStore(ctx context.Context, cfg *config.StorageConfig) (storage.FileStore, error) {
	if cfg.Backend == "gcs" {
		return storage.NewGCSFileStore(ctx, cfg.GCSBucket)
	}
	return storage.NewLocalFileStore(cfg.LocalDir)
}
