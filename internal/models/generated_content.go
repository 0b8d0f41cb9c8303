package models

import (
	"time"

	"gorm.io/gorm"
)

// ContentKind is the type of study material a generation call produces.
type ContentKind string

const (
	KindFlashcards   ContentKind = "flashcards"
	KindPracticeTest ContentKind = "practice_test"
	KindSummary      ContentKind = "summary"
)

// GeneratedContent is the persisted output of one successful generation call.
// Flashcard content carries its items; the other kinds carry only RawText.
type GeneratedContent struct {
	gorm.Model
	StudySetID  uint        `gorm:"index"`
	Kind        ContentKind `gorm:"type:varchar(20);index"`
	Title       string
	RawText     string `gorm:"type:text"`
	GeneratedAt time.Time
	Flashcards  []FlashcardItem `gorm:"constraint:OnDelete:CASCADE"`
}

// FlashcardItem is one question/answer pair. OrderIndex is contiguous from 0
// within its owning GeneratedContent.
type FlashcardItem struct {
	gorm.Model
	GeneratedContentID uint `gorm:"index"`
	Question           string
	Answer             string
	OrderIndex         int
}
