package ocr

import (
	"context"
	"fmt"

	"studyforge_go_backend/internal/config"
)

// Recognizer turns one raster image into text. Implementations may shell out
// to a local engine or call a cloud recognition service; the extraction
// pipeline treats them interchangeably.
type Recognizer interface {
	Recognize(ctx context.Context, imageBytes []byte, languageHint string) (string, error)
	Name() string
}

// NewRecognizer selects the configured recognition backend.
func NewRecognizer(ctx context.Context, cfg *config.OCRConfig) (Recognizer, error) {
	switch cfg.Engine {
	case "vision":
		return NewVisionRecognizer(ctx)
	case "tesseract", "":
		return NewTesseractRecognizer(cfg.TesseractPath), nil
	default:
		return nil, fmt.Errorf("unknown OCR engine %q", cfg.Engine)
	}
}
