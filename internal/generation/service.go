package generation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"studyforge_go_backend/internal/ai"
	apperrors "studyforge_go_backend/internal/errors"
	"studyforge_go_backend/internal/models"
	"studyforge_go_backend/internal/usage"
	"studyforge_go_backend/pkg/logger"

	"gorm.io/gorm"
)

// Sender is the slice of the AI gateway the generators use.
type Sender interface {
	Send(ctx context.Context, req ai.Request) (*ai.Response, error)
}

// GenerationService aggregates extracted document text, prompts a provider,
// and parses the response into a persisted GeneratedContent.
type GenerationService struct {
	db      *gorm.DB
	gateway Sender
	ledger  *usage.Ledger
}

func NewGenerationService(db *gorm.DB, gateway Sender, ledger *usage.Ledger) *GenerationService {
	return &GenerationService{db: db, gateway: gateway, ledger: ledger}
}

// Generate runs one generation request end to end.
func (s *GenerationService) Generate(ctx context.Context, req GenerateRequest) (*models.GeneratedContent, error) {
	admitted, err := s.ledger.Admit()
	if err != nil {
		return nil, fmt.Errorf("failed to check rate limit: %w", err)
	}
	if !admitted {
		return nil, apperrors.ErrRateLimitExceeded
	}

	aggregated, err := s.aggregateText(req.StudySetID)
	if err != nil {
		return nil, err
	}

	var aiReq ai.Request
	switch req.Kind {
	case models.KindFlashcards:
		aiReq = ai.Request{
			SystemPrompt: flashcardSystemPrompt(req.Options),
			Temperature:  flashcardTemperature,
		}
	case models.KindPracticeTest:
		aiReq = ai.Request{
			SystemPrompt: practiceTestSystemPrompt(req.Options),
			Temperature:  practiceTemperature,
		}
	case models.KindSummary:
		aiReq = ai.Request{
			SystemPrompt: summarySystemPrompt(req.Options),
			Temperature:  summaryTemperature,
		}
	default:
		return nil, fmt.Errorf("unknown content kind %q", req.Kind)
	}
	aiReq.UserPrompt = userPrompt(aggregated, req.Instructions)
	aiReq.MaxTokens = generationMaxTokens
	aiReq.CacheHint = true

	resp, err := s.gateway.Send(ctx, aiReq)
	if err != nil {
		return nil, err
	}

	if err := s.ledger.Record(resp.InputTokens, resp.OutputTokens); err != nil {
		// Usage bookkeeping must not fail the request; the error is logged by
		// the ledger.
		logger.Warnf("[Generation] Usage recording failed for set %d", req.StudySetID)
	}

	content := &models.GeneratedContent{
		StudySetID:  req.StudySetID,
		Kind:        req.Kind,
		Title:       defaultTitle(req.Kind),
		RawText:     resp.Text,
		GeneratedAt: time.Now().UTC(),
	}

	if req.Kind == models.KindFlashcards {
		items, err := parseFlashcards(resp.Text)
		if err != nil {
			return nil, err
		}
		content.Flashcards = items
	}

	if err := s.db.Create(content).Error; err != nil {
		return nil, fmt.Errorf("failed to save generated content: %w", err)
	}

	logger.Infof("[Generation] %s generated for set %d via %s (%d in / %d out tokens)",
		req.Kind, req.StudySetID, resp.Provider, resp.InputTokens, resp.OutputTokens)
	return content, nil
}

// SuggestTestName asks the model for a short test name based on the set's
// material. Under rate limiting it degrades to a timestamp-based default
// instead of failing; naming is cosmetic and should never block a teacher.
func (s *GenerationService) SuggestTestName(ctx context.Context, studySetID uint) (string, error) {
	admitted, err := s.ledger.Admit()
	if err != nil {
		return "", fmt.Errorf("failed to check rate limit: %w", err)
	}
	if !admitted {
		return defaultTestName(), nil
	}

	aggregated, err := s.aggregateText(studySetID)
	if err != nil {
		return "", err
	}

	resp, err := s.gateway.Send(ctx, ai.Request{
		SystemPrompt: namingSystemPrompt(),
		UserPrompt:   userPrompt(truncate(aggregated, 4000), ""),
		Temperature:  namingTemperature,
		MaxTokens:    namingMaxTokens,
	})
	if err != nil {
		return "", err
	}

	if err := s.ledger.Record(resp.InputTokens, resp.OutputTokens); err != nil {
		logger.Warnf("[Generation] Usage recording failed for set %d", studySetID)
	}

	name := strings.TrimSpace(strings.Trim(strings.TrimSpace(resp.Text), `"`))
	if name == "" {
		return defaultTestName(), nil
	}
	return name, nil
}

// aggregateText concatenates the extracted text of every processed document
// in the set.
func (s *GenerationService) aggregateText(studySetID uint) (string, error) {
	var docs []models.SourceDocument
	err := s.db.
		Where("study_set_id = ? AND status = ?", studySetID, models.StatusOcrCompleted).
		Order("id ASC").
		Find(&docs).Error
	if err != nil {
		return "", fmt.Errorf("failed to load documents: %w", err)
	}

	var aggregated strings.Builder
	for _, doc := range docs {
		if doc.ExtractedText == nil || strings.TrimSpace(*doc.ExtractedText) == "" {
			continue
		}
		aggregated.WriteString(fmt.Sprintf("<Document>\n<title>%s</title>\n%s\n</Document>\n", doc.FileName, *doc.ExtractedText))
	}

	if aggregated.Len() == 0 {
		return "", apperrors.ErrNoTextAvailable
	}
	return aggregated.String(), nil
}

func defaultTitle(kind models.ContentKind) string {
	switch kind {
	case models.KindFlashcards:
		return "Flashcards"
	case models.KindPracticeTest:
		return "Practice Test"
	case models.KindSummary:
		return "Summary"
	default:
		return string(kind)
	}
}

func defaultTestName() string {
	return fmt.Sprintf("Test - %s", time.Now().UTC().Format("2006-01-02"))
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
