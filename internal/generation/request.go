package generation

import "studyforge_go_backend/internal/models"

// Difficulty tags accepted by the generators. Passed through to the prompt;
// the model does the interpretation.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// Question types a practice test can be asked to contain.
const (
	QuestionMultipleChoice = "multiple_choice"
	QuestionOpenEnded      = "open_ended"
	QuestionTrueFalse      = "true_false"
)

// Summary length and format tags.
const (
	LengthShort    = "short"
	LengthMedium   = "medium"
	LengthDetailed = "detailed"

	FormatBullets    = "bullets"
	FormatParagraphs = "paragraphs"
)

// Options carries the kind-specific knobs of one generation request. A nil
// Count means the model chooses how many items to produce.
type Options struct {
	Count               *int
	Difficulty          string
	QuestionTypes       []string
	IncludeExplanations bool
	Length              string
	Format              string
}

// GenerateRequest describes what to generate. It is constructed per call and
// never persisted.
type GenerateRequest struct {
	StudySetID   uint
	Kind         models.ContentKind
	Options      Options
	Instructions string
}
