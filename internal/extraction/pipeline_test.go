package extraction

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/jung-kurt/gofpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"studyforge_go_backend/internal/models"
	"studyforge_go_backend/internal/storage"
)

// fakeRecognizer returns canned text without any OCR engine. When pages is
// set, each call pops the next entry, so per-page output can differ.
type fakeRecognizer struct {
	text  string
	pages []string
	err   error
	calls int
	hints []string
}

func (f *fakeRecognizer) Recognize(ctx context.Context, imageBytes []byte, languageHint string) (string, error) {
	f.calls++
	f.hints = append(f.hints, languageHint)
	if f.err != nil {
		return "", f.err
	}
	if len(f.pages) > 0 {
		text := f.pages[0]
		f.pages = f.pages[1:]
		return text, nil
	}
	return f.text, nil
}

func (f *fakeRecognizer) Name() string { return "fake" }

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.StudySet{}, &models.SourceDocument{}))
	return db
}

func newTestPipeline(t *testing.T, recognizer *fakeRecognizer) (*ExtractionService, *gorm.DB, storage.FileStore) {
	t.Helper()

	db := newTestDB(t)
	store, err := storage.NewLocalFileStore(t.TempDir())
	require.NoError(t, err)

	service := NewExtractionService(db, store, recognizer, NewImagePreprocessor(2500), "swe+eng", 200)
	return service, db, store
}

func seedDocument(t *testing.T, db *gorm.DB, store storage.FileStore, fileName, path string, raw []byte) *models.SourceDocument {
	t.Helper()

	if raw != nil {
		require.NoError(t, store.Write(context.Background(), path, bytes.NewReader(raw)))
	}

	doc := models.SourceDocument{
		StudySetID: 1,
		FileName:   fileName,
		FilePath:   path,
		Status:     models.StatusUploaded,
	}
	require.NoError(t, db.Create(&doc).Error)
	return &doc
}

func reload(t *testing.T, db *gorm.DB, id uint) *models.SourceDocument {
	t.Helper()
	var doc models.SourceDocument
	require.NoError(t, db.First(&doc, id).Error)
	return &doc
}

func createTestPDF(t *testing.T, lines ...string) []byte {
	t.Helper()

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "", 12)
	for _, line := range lines {
		pdf.Cell(40, 10, line)
		pdf.Ln(10)
	}

	var buf bytes.Buffer
	require.NoError(t, pdf.Output(&buf))
	return buf.Bytes()
}

func createTestPNG(t *testing.T) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			img.Set(x, y, color.White)
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestProcessDocument_PlainText(t *testing.T) {
	recognizer := &fakeRecognizer{}
	service, db, store := newTestPipeline(t, recognizer)
	doc := seedDocument(t, db, store, "notes.txt", "documents/1/notes.txt", []byte("Anteckningar om fotosyntesen"))

	service.ProcessDocument(context.Background(), doc.ID)

	got := reload(t, db, doc.ID)
	assert.Equal(t, models.StatusOcrCompleted, got.Status)
	require.NotNil(t, got.ExtractedText)
	assert.Equal(t, "Anteckningar om fotosyntesen", *got.ExtractedText)
	assert.Zero(t, recognizer.calls)
}

func TestProcessDocument_DigitalPDF(t *testing.T) {
	recognizer := &fakeRecognizer{text: "should not be used"}
	service, db, store := newTestPipeline(t, recognizer)
	raw := createTestPDF(t, "Kalmarunionen grundades 1397")
	doc := seedDocument(t, db, store, "historia.pdf", "documents/1/historia.pdf", raw)

	service.ProcessDocument(context.Background(), doc.ID)

	got := reload(t, db, doc.ID)
	assert.Equal(t, models.StatusOcrCompleted, got.Status)
	require.NotNil(t, got.ExtractedText)
	assert.Contains(t, *got.ExtractedText, "Kalmarunionen")
	// No page separator left dangling at either end.
	assert.Equal(t, strings.TrimSpace(*got.ExtractedText), *got.ExtractedText)
	// Digital text was found, so no page was rasterized or recognized.
	assert.Zero(t, recognizer.calls)
}

func TestProcessDocument_ScannedPDF(t *testing.T) {
	recognizer := &fakeRecognizer{pages: []string{"Första sidan", "Andra sidan"}}
	service, db, store := newTestPipeline(t, recognizer)

	// Two pages without a text layer force the raster fallback.
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.Rect(20, 20, 100, 100, "D")
	pdf.AddPage()
	pdf.Rect(20, 20, 100, 100, "D")
	var buf bytes.Buffer
	require.NoError(t, pdf.Output(&buf))

	doc := seedDocument(t, db, store, "scan.pdf", "documents/1/scan.pdf", buf.Bytes())

	service.ProcessDocument(context.Background(), doc.ID)

	got := reload(t, db, doc.ID)
	assert.Equal(t, models.StatusOcrCompleted, got.Status)
	require.NotNil(t, got.ExtractedText)
	assert.Equal(t,
		"--- Page 1 ---\nFörsta sidan\n\n--- Page 2 ---\nAndra sidan",
		*got.ExtractedText)
	assert.Equal(t, 2, recognizer.calls)
}

func TestProcessDocument_Image(t *testing.T) {
	recognizer := &fakeRecognizer{text: "Tavlans text"}
	service, db, store := newTestPipeline(t, recognizer)
	doc := seedDocument(t, db, store, "whiteboard.png", "documents/1/whiteboard.png", createTestPNG(t))

	service.ProcessDocument(context.Background(), doc.ID)

	got := reload(t, db, doc.ID)
	assert.Equal(t, models.StatusOcrCompleted, got.Status)
	require.NotNil(t, got.ExtractedText)
	assert.Equal(t, "Tavlans text", *got.ExtractedText)
	assert.Equal(t, 1, recognizer.calls)
	assert.Equal(t, []string{"swe+eng"}, recognizer.hints)
}

func TestProcessDocument_RecognizerFailure(t *testing.T) {
	recognizer := &fakeRecognizer{err: errors.New("engine crashed")}
	service, db, store := newTestPipeline(t, recognizer)
	doc := seedDocument(t, db, store, "photo.jpg", "documents/1/photo.jpg", createTestPNG(t))

	service.ProcessDocument(context.Background(), doc.ID)

	got := reload(t, db, doc.ID)
	assert.Equal(t, models.StatusOcrFailed, got.Status)
	assert.Nil(t, got.ExtractedText)
}

func TestProcessDocument_BlankRecognitionFails(t *testing.T) {
	recognizer := &fakeRecognizer{text: "   \n  "}
	service, db, store := newTestPipeline(t, recognizer)
	doc := seedDocument(t, db, store, "blank.png", "documents/1/blank.png", createTestPNG(t))

	service.ProcessDocument(context.Background(), doc.ID)

	got := reload(t, db, doc.ID)
	assert.Equal(t, models.StatusOcrFailed, got.Status)
}

func TestProcessDocument_MissingFile(t *testing.T) {
	recognizer := &fakeRecognizer{}
	service, db, store := newTestPipeline(t, recognizer)
	doc := seedDocument(t, db, store, "gone.pdf", "documents/1/gone.pdf", nil)

	service.ProcessDocument(context.Background(), doc.ID)

	got := reload(t, db, doc.ID)
	assert.Equal(t, models.StatusOcrFailed, got.Status)
}

func TestProcessDocument_UnsupportedType(t *testing.T) {
	recognizer := &fakeRecognizer{}
	service, db, store := newTestPipeline(t, recognizer)
	doc := seedDocument(t, db, store, "slides.pptx", "documents/1/slides.pptx", []byte("not really"))

	service.ProcessDocument(context.Background(), doc.ID)

	got := reload(t, db, doc.ID)
	assert.Equal(t, models.StatusOcrFailed, got.Status)
}

func TestProcessDocument_Retrigger(t *testing.T) {
	recognizer := &fakeRecognizer{}
	service, db, store := newTestPipeline(t, recognizer)
	doc := seedDocument(t, db, store, "notes.txt", "documents/1/notes.txt", []byte("första versionen"))

	service.ProcessDocument(context.Background(), doc.ID)
	require.Equal(t, models.StatusOcrCompleted, reload(t, db, doc.ID).Status)

	// Replace the stored file and re-run; the result is simply overwritten.
	require.NoError(t, store.Write(context.Background(), doc.FilePath, strings.NewReader("andra versionen")))
	service.ProcessDocument(context.Background(), doc.ID)

	got := reload(t, db, doc.ID)
	assert.Equal(t, models.StatusOcrCompleted, got.Status)
	assert.Equal(t, "andra versionen", *got.ExtractedText)
}

func TestExtractDigitalText_MultiPage(t *testing.T) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()
	pdf.Cell(40, 10, "Sida ett")
	pdf.AddPage()
	pdf.Cell(40, 10, "Sida två")

	var buf bytes.Buffer
	require.NoError(t, pdf.Output(&buf))

	text, err := extractDigitalText(buf.Bytes())
	require.NoError(t, err)
	first := strings.Index(text, "Sida ett")
	second := strings.Index(text, "Sida tv")
	assert.GreaterOrEqual(t, first, 0)
	assert.Greater(t, second, first)
}

func TestClassifyFile(t *testing.T) {
	assert.Equal(t, fileKindText, classifyFile("notes.TXT", ""))
	assert.Equal(t, fileKindText, classifyFile("readme.md", ""))
	assert.Equal(t, fileKindPDF, classifyFile("book.pdf", ""))
	assert.Equal(t, fileKindPDF, classifyFile("weird.bin", "application/pdf"))
	assert.Equal(t, fileKindImage, classifyFile("scan.JPG", ""))
	assert.Equal(t, fileKindImage, classifyFile("upload", "image/png"))
	assert.Equal(t, fileKindUnknown, classifyFile("slides.pptx", ""))
}
