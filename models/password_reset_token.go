package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PasswordResetToken struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	AccountID string    `gorm:"type:uuid;not null;index" json:"account_id"`
	Token     string    `gorm:"uniqueIndex;not null" json:"-"` // Don't expose token in JSON
	ExpiresAt time.Time `gorm:"not null;index" json:"expires_at"`

	// Relationships
	Account *Account `gorm:"foreignKey:AccountID" json:"account,omitempty"`
}

// BeforeCreate hook to generate UUID
func (p *PasswordResetToken) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

// IsExpired checks if the token has expired
func (p *PasswordResetToken) IsExpired() bool {
	return time.Now().After(p.ExpiresAt)
}

// TableName specifies the table name for PasswordResetToken model
func (PasswordResetToken) TableName() string {
	return "password_reset_tokens"
}
