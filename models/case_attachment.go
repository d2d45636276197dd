package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CaseAttachment is the metadata row for a file stored against a case.
// The bytes live in object storage under Key.
type CaseAttachment struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	CaseID string `gorm:"not null;index" json:"case_id"`
	FirmID string `gorm:"type:uuid;not null;index" json:"firm_id"`

	Key              string `gorm:"not null" json:"-"` // storage key, never exposed directly
	FileName         string `gorm:"not null" json:"file_name"`
	FileOriginalName string `gorm:"not null" json:"file_original_name"`
	FileSize         int64  `gorm:"not null" json:"file_size"`
	MimeType         string `gorm:"not null" json:"mime_type"`
}

// BeforeCreate hook to generate UUID
func (a *CaseAttachment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for CaseAttachment model
func (CaseAttachment) TableName() string {
	return "case_attachments"
}
