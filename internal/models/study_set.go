package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StudySet groups the uploaded documents and generated material for one test.
type StudySet struct {
	gorm.Model
	UserID    uuid.UUID `gorm:"type:uuid;index"`
	Name      string
	Documents []SourceDocument   `gorm:"constraint:OnDelete:CASCADE"`
	Contents  []GeneratedContent `gorm:"constraint:OnDelete:CASCADE"`
}
