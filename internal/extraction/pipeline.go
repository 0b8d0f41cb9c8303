package extraction

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"path/filepath"
	"strings"

	"studyforge_go_backend/internal/models"
	"studyforge_go_backend/internal/ocr"
	"studyforge_go_backend/internal/storage"
	"studyforge_go_backend/pkg/logger"

	"github.com/gen2brain/go-fitz"
	"github.com/ledongthuc/pdf"
	"gorm.io/gorm"
)

// pageMarker separates per-page recognition output in the extracted text.
const pageMarker = "--- Page %d ---"

// ExtractionService turns a stored SourceDocument into extracted text.
// Digital text is preferred; scanned pages fall back to rasterization and
// recognition. Failures are recorded on the document status, never returned.
type ExtractionService struct {
	db           *gorm.DB
	store        storage.FileStore
	recognizer   ocr.Recognizer
	preprocessor *ImagePreprocessor
	languageHint string
	rasterDPI    float64
}

func NewExtractionService(db *gorm.DB, store storage.FileStore, recognizer ocr.Recognizer, preprocessor *ImagePreprocessor, languageHint string, rasterDPI int) *ExtractionService {
	if rasterDPI <= 0 {
		rasterDPI = 200
	}
	return &ExtractionService{
		db:           db,
		store:        store,
		recognizer:   recognizer,
		preprocessor: preprocessor,
		languageHint: languageHint,
		rasterDPI:    float64(rasterDPI),
	}
}

// ProcessDocument runs the full pipeline for one document. It is safe to
// re-trigger on the same document: the stored text and status are simply
// overwritten.
func (s *ExtractionService) ProcessDocument(ctx context.Context, documentID uint) {
	var doc models.SourceDocument
	if err := s.db.First(&doc, documentID).Error; err != nil {
		logger.Errorf("[Extraction] Document %d not found: %v", documentID, err)
		return
	}

	s.updateStatus(&doc, models.StatusOcrInProgress, nil)

	text, err := s.extract(ctx, &doc)
	if err != nil {
		logger.Warnf("[Extraction] Document %d (%s) failed: %v", doc.ID, doc.FileName, err)
		s.updateStatus(&doc, models.StatusOcrFailed, nil)
		return
	}

	if strings.TrimSpace(text) == "" {
		logger.Warnf("[Extraction] Document %d (%s) produced no text", doc.ID, doc.FileName)
		s.updateStatus(&doc, models.StatusOcrFailed, nil)
		return
	}

	s.updateStatus(&doc, models.StatusOcrCompleted, &text)
	logger.Infof("[Extraction] Document %d (%s) completed: %d chars", doc.ID, doc.FileName, len(text))
}

func (s *ExtractionService) updateStatus(doc *models.SourceDocument, status models.DocumentStatus, text *string) {
	doc.Status = status
	doc.ExtractedText = text
	if err := s.db.Model(doc).Select("status", "extracted_text").Updates(map[string]interface{}{
		"status":         status,
		"extracted_text": text,
	}).Error; err != nil {
		logger.Errorf("[Extraction] Failed to persist status %s for document %d: %v", status, doc.ID, err)
	}
}

func (s *ExtractionService) extract(ctx context.Context, doc *models.SourceDocument) (string, error) {
	exists, err := s.store.Exists(ctx, doc.FilePath)
	if err != nil {
		return "", fmt.Errorf("failed to check file: %w", err)
	}
	if !exists {
		return "", fmt.Errorf("file %s does not exist", doc.FilePath)
	}

	raw, err := s.store.Read(ctx, doc.FilePath)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	switch classifyFile(doc.FileName, doc.MimeType) {
	case fileKindText:
		return string(raw), nil
	case fileKindPDF:
		return s.extractPDF(ctx, raw)
	case fileKindImage:
		return s.recognizeImageBytes(ctx, raw)
	default:
		return "", fmt.Errorf("unsupported file type %q", filepath.Ext(doc.FileName))
	}
}

// extractPDF walks every page for digital text first. A blank result means a
// scanned PDF, which falls back to per-page rasterization and recognition.
func (s *ExtractionService) extractPDF(ctx context.Context, raw []byte) (string, error) {
	text, err := extractDigitalText(raw)
	if err == nil && strings.TrimSpace(text) != "" {
		return text, nil
	}

	return s.recognizeScannedPDF(ctx, raw)
}

func extractDigitalText(raw []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	var content strings.Builder
	totalPage := reader.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		p := reader.Page(pageIndex)
		if p.V.IsNull() {
			continue
		}

		text, err := p.GetPlainText(nil)
		if err != nil {
			continue
		}
		content.WriteString(text)
		content.WriteString("\n\n")
	}

	// The page separator also lands after the last page; the stored text
	// should not carry it.
	return strings.TrimSpace(content.String()), nil
}

// recognizeScannedPDF rasterizes the PDF page by page. Each page bitmap is
// released before the next page is rendered to bound memory on large scans.
func (s *ExtractionService) recognizeScannedPDF(ctx context.Context, raw []byte) (string, error) {
	doc, err := fitz.NewFromMemory(raw)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF for rasterization: %w", err)
	}
	defer doc.Close()

	var content strings.Builder
	totalPage := doc.NumPage()

	for pageIndex := 0; pageIndex < totalPage; pageIndex++ {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		img, err := doc.ImageDPI(pageIndex, s.rasterDPI)
		if err != nil {
			return "", fmt.Errorf("failed to rasterize page %d: %w", pageIndex+1, err)
		}

		pageText, err := s.recognizeImage(ctx, img)
		if err != nil {
			return "", fmt.Errorf("recognition failed on page %d: %w", pageIndex+1, err)
		}

		if content.Len() > 0 {
			content.WriteString("\n\n")
		}
		content.WriteString(fmt.Sprintf(pageMarker, pageIndex+1))
		content.WriteString("\n")
		content.WriteString(pageText)
	}

	return content.String(), nil
}

func (s *ExtractionService) recognizeImageBytes(ctx context.Context, raw []byte) (string, error) {
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}
	return s.recognizeImage(ctx, img)
}

func (s *ExtractionService) recognizeImage(ctx context.Context, img image.Image) (string, error) {
	processed := s.preprocessor.Process(img)
	encoded, err := s.preprocessor.EncodePNG(processed)
	if err != nil {
		return "", fmt.Errorf("failed to encode preprocessed image: %w", err)
	}
	return s.recognizer.Recognize(ctx, encoded, s.languageHint)
}

type fileKind int

const (
	fileKindUnknown fileKind = iota
	fileKindText
	fileKindPDF
	fileKindImage
)

func classifyFile(fileName, mimeType string) fileKind {
	switch mimeType {
	case "text/plain":
		return fileKindText
	case "application/pdf":
		return fileKindPDF
	case "image/png", "image/jpeg":
		return fileKindImage
	}

	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".txt", ".md":
		return fileKindText
	case ".pdf":
		return fileKindPDF
	case ".png", ".jpg", ".jpeg":
		return fileKindImage
	default:
		return fileKindUnknown
	}
}
