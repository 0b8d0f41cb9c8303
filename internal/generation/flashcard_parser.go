package generation

import (
	"encoding/json"
	"fmt"
	"strings"

	apperrors "studyforge_go_backend/internal/errors"
	"studyforge_go_backend/internal/models"
)

type flashcardPayload struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// parseFlashcards extracts the JSON array from a model response and turns it
// into ordered flashcard items. Models occasionally wrap the array in prose
// or a markdown fence, so parsing starts at the outermost brackets.
func parseFlashcards(response string) ([]models.FlashcardItem, error) {
	start := strings.Index(response, "[")
	end := strings.LastIndex(response, "]")
	if start == -1 || end == -1 || end < start {
		return nil, fmt.Errorf("%w: no JSON array found", apperrors.ErrMalformedResponse)
	}

	var payload []flashcardPayload
	if err := json.Unmarshal([]byte(response[start:end+1]), &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrMalformedResponse, err)
	}

	var items []models.FlashcardItem
	for _, card := range payload {
		question := strings.TrimSpace(card.Question)
		answer := strings.TrimSpace(card.Answer)
		if question == "" || answer == "" {
			continue
		}
		items = append(items, models.FlashcardItem{
			Question:   question,
			Answer:     answer,
			OrderIndex: len(items),
		})
	}

	if len(items) == 0 {
		return nil, fmt.Errorf("%w: response contained no flashcards", apperrors.ErrMalformedResponse)
	}
	return items, nil
}
