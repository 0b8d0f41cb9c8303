package models

import "gorm.io/gorm"

// DocumentStatus tracks a document through the extraction pipeline.
type DocumentStatus string

const (
	StatusUploaded      DocumentStatus = "uploaded"
	StatusOcrInProgress DocumentStatus = "ocr_in_progress"
	StatusOcrCompleted  DocumentStatus = "ocr_completed"
	StatusOcrFailed     DocumentStatus = "ocr_failed"
)

type SourceDocument struct {
	gorm.Model
	StudySetID    uint   `gorm:"index"`
	FileName      string
	FilePath      string // opaque handle into the file store
	MimeType      string
	Status        DocumentStatus `gorm:"type:varchar(20);index;default:'uploaded'"`
	ExtractedText *string
}
