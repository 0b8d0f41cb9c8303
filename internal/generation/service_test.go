package generation

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"studyforge_go_backend/internal/ai"
	"studyforge_go_backend/internal/config"
	apperrors "studyforge_go_backend/internal/errors"
	"studyforge_go_backend/internal/models"
	"studyforge_go_backend/internal/usage"
)

// fakeSender returns canned responses without touching any provider.
type fakeSender struct {
	response *ai.Response
	err      error
	requests []ai.Request
}

func (f *fakeSender) Send(ctx context.Context, req ai.Request) (*ai.Response, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return f.response, nil
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.StudySet{},
		&models.SourceDocument{},
		&models.GeneratedContent{},
		&models.FlashcardItem{},
		&models.DailyUsage{},
	))
	return db
}

func seedStudySet(t *testing.T, db *gorm.DB, texts ...string) *models.StudySet {
	t.Helper()

	set := models.StudySet{Name: "Biologi"}
	require.NoError(t, db.Create(&set).Error)

	for i, text := range texts {
		doc := models.SourceDocument{
			StudySetID:    set.ID,
			FileName:      fmt.Sprintf("chapter-%d.pdf", i+1),
			FilePath:      fmt.Sprintf("documents/%d/%d.pdf", set.ID, i+1),
			Status:        models.StatusOcrCompleted,
			ExtractedText: &text,
		}
		require.NoError(t, db.Create(&doc).Error)
	}
	return &set
}

func newTestService(t *testing.T, db *gorm.DB, sender *fakeSender, limit int64) *GenerationService {
	t.Helper()
	ledger := usage.NewLedger(db, &config.RateLimitConfig{Enabled: true, DailyTokenLimit: limit})
	return NewGenerationService(db, sender, ledger)
}

func TestGenerate_Flashcards(t *testing.T) {
	db := newTestDB(t)
	set := seedStudySet(t, db, "Fotosyntesen omvandlar ljusenergi till kemisk energi.")

	sender := &fakeSender{response: &ai.Response{
		Text:         `[{"question":"Vad är fotosyntes?","answer":"Energiomvandling i växter"},{"question":"Var sker den?","answer":"I kloroplasterna"}]`,
		InputTokens:  120,
		OutputTokens: 60,
		Provider:     "gemini",
	}}
	service := newTestService(t, db, sender, 1_000_000)

	count := 2
	content, err := service.Generate(context.Background(), GenerateRequest{
		StudySetID: set.ID,
		Kind:       models.KindFlashcards,
		Options:    Options{Count: &count},
	})
	require.NoError(t, err)

	assert.Equal(t, models.KindFlashcards, content.Kind)
	require.Len(t, content.Flashcards, 2)
	assert.Equal(t, 0, content.Flashcards[0].OrderIndex)
	assert.Equal(t, 1, content.Flashcards[1].OrderIndex)
	assert.Equal(t, "Vad är fotosyntes?", content.Flashcards[0].Question)

	// Aggregated material reaches the model wrapped per document.
	require.Len(t, sender.requests, 1)
	assert.Contains(t, sender.requests[0].UserPrompt, "<title>chapter-1.pdf</title>")
	assert.Contains(t, sender.requests[0].UserPrompt, "Fotosyntesen")

	// Token usage lands in the ledger.
	record, err := usage.NewLedger(db, &config.RateLimitConfig{Enabled: true, DailyTokenLimit: 1}).TodayUsage()
	require.NoError(t, err)
	assert.Equal(t, int64(180), record.TotalTokens())
}

func TestGenerate_PracticeTestStoresRawText(t *testing.T) {
	db := newTestDB(t)
	set := seedStudySet(t, db, "Kalmarunionen grundades 1397.")

	raw := "1. När grundades Kalmarunionen?\n\n## Facit\n1. 1397"
	sender := &fakeSender{response: &ai.Response{Text: raw, InputTokens: 50, OutputTokens: 40}}
	service := newTestService(t, db, sender, 1_000_000)

	content, err := service.Generate(context.Background(), GenerateRequest{
		StudySetID: set.ID,
		Kind:       models.KindPracticeTest,
		Options:    Options{Difficulty: DifficultyMedium},
	})
	require.NoError(t, err)

	assert.Equal(t, raw, content.RawText)
	assert.Empty(t, content.Flashcards)
	assert.WithinDuration(t, time.Now().UTC(), content.GeneratedAt, time.Minute)
}

func TestGenerate_RateLimited(t *testing.T) {
	db := newTestDB(t)
	set := seedStudySet(t, db, "text")

	sender := &fakeSender{}
	service := newTestService(t, db, sender, 100)
	require.NoError(t, service.ledger.Record(200, 0))

	_, err := service.Generate(context.Background(), GenerateRequest{
		StudySetID: set.ID,
		Kind:       models.KindSummary,
	})
	assert.ErrorIs(t, err, apperrors.ErrRateLimitExceeded)
	assert.Empty(t, sender.requests)
}

func TestGenerate_NoTextAvailable(t *testing.T) {
	db := newTestDB(t)
	set := seedStudySet(t, db) // no documents

	sender := &fakeSender{}
	service := newTestService(t, db, sender, 1_000_000)

	_, err := service.Generate(context.Background(), GenerateRequest{
		StudySetID: set.ID,
		Kind:       models.KindSummary,
	})
	assert.ErrorIs(t, err, apperrors.ErrNoTextAvailable)
}

func TestGenerate_FailedDocumentsAreExcluded(t *testing.T) {
	db := newTestDB(t)
	set := seedStudySet(t, db)

	text := "skannad text"
	failed := models.SourceDocument{
		StudySetID: set.ID, FileName: "blurry.jpg", FilePath: "documents/x",
		Status: models.StatusOcrFailed,
	}
	require.NoError(t, db.Create(&failed).Error)
	ok := models.SourceDocument{
		StudySetID: set.ID, FileName: "clear.pdf", FilePath: "documents/y",
		Status: models.StatusOcrCompleted, ExtractedText: &text,
	}
	require.NoError(t, db.Create(&ok).Error)

	sender := &fakeSender{response: &ai.Response{Text: "# Sammanfattning"}}
	service := newTestService(t, db, sender, 1_000_000)

	_, err := service.Generate(context.Background(), GenerateRequest{
		StudySetID: set.ID,
		Kind:       models.KindSummary,
	})
	require.NoError(t, err)

	require.Len(t, sender.requests, 1)
	assert.Contains(t, sender.requests[0].UserPrompt, "clear.pdf")
	assert.NotContains(t, sender.requests[0].UserPrompt, "blurry.jpg")
}

func TestGenerate_MalformedFlashcardResponse(t *testing.T) {
	db := newTestDB(t)
	set := seedStudySet(t, db, "text")

	sender := &fakeSender{response: &ai.Response{Text: "Sorry, I cannot help with that."}}
	service := newTestService(t, db, sender, 1_000_000)

	_, err := service.Generate(context.Background(), GenerateRequest{
		StudySetID: set.ID,
		Kind:       models.KindFlashcards,
	})
	assert.ErrorIs(t, err, apperrors.ErrMalformedResponse)

	// Nothing half-parsed gets persisted.
	var count int64
	require.NoError(t, db.Model(&models.GeneratedContent{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestGenerate_ProviderErrorPropagates(t *testing.T) {
	db := newTestDB(t)
	set := seedStudySet(t, db, "text")

	sender := &fakeSender{err: errors.New("upstream exploded")}
	service := newTestService(t, db, sender, 1_000_000)

	_, err := service.Generate(context.Background(), GenerateRequest{
		StudySetID: set.ID,
		Kind:       models.KindSummary,
	})
	assert.Error(t, err)
}

func TestSuggestTestName(t *testing.T) {
	db := newTestDB(t)
	set := seedStudySet(t, db, "Andra världskriget 1939-1945.")

	sender := &fakeSender{response: &ai.Response{Text: "\"Historia: Andra världskriget\"\n"}}
	service := newTestService(t, db, sender, 1_000_000)

	name, err := service.SuggestTestName(context.Background(), set.ID)
	require.NoError(t, err)
	assert.Equal(t, "Historia: Andra världskriget", name)
}

func TestSuggestTestName_DegradesUnderRateLimit(t *testing.T) {
	db := newTestDB(t)
	set := seedStudySet(t, db, "text")

	sender := &fakeSender{}
	service := newTestService(t, db, sender, 100)
	require.NoError(t, service.ledger.Record(200, 0))

	name, err := service.SuggestTestName(context.Background(), set.ID)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("Test - %s", time.Now().UTC().Format("2006-01-02")), name)
	assert.Empty(t, sender.requests)
}

func TestSuggestTestName_EmptyResponseFallsBack(t *testing.T) {
	db := newTestDB(t)
	set := seedStudySet(t, db, "text")

	sender := &fakeSender{response: &ai.Response{Text: "  \"\"  "}}
	service := newTestService(t, db, sender, 1_000_000)

	name, err := service.SuggestTestName(context.Background(), set.ID)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("Test - %s", time.Now().UTC().Format("2006-01-02")), name)
}
