package render

import (
	"fmt"

	apperrors "studyforge_go_backend/internal/errors"
	"studyforge_go_backend/internal/models"
)

// Renderer turns stored generated content into a downloadable PDF.
type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render produces the PDF bytes for one piece of generated content. The
// document title is the study set's test name when one exists, otherwise
// the content's own title, otherwise a default for the kind. Rendering is
// all-or-nothing: on failure no partial document is returned.
func (r *Renderer) Render(content *models.GeneratedContent, testName string) ([]byte, error) {
	title := resolveTitle(content, testName)
	c := newComposer(title, content.GeneratedAt)

	switch content.Kind {
	case models.KindFlashcards:
		renderFlashcards(c, content.Flashcards)
	case models.KindPracticeTest:
		renderPracticeTest(c, content.RawText)
	case models.KindSummary:
		renderSummary(c, content.RawText)
	default:
		return nil, fmt.Errorf("%w: unknown content kind %q", apperrors.ErrRenderFailed, content.Kind)
	}

	out, err := c.output()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrRenderFailed, err)
	}
	return out, nil
}

func resolveTitle(content *models.GeneratedContent, testName string) string {
	if testName != "" {
		return testName
	}
	if content.Title != "" {
		return content.Title
	}
	switch content.Kind {
	case models.KindFlashcards:
		return "Flashcards"
	case models.KindPracticeTest:
		return "Practice Test"
	case models.KindSummary:
		return "Summary"
	}
	return "Study Material"
}
