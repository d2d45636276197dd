package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Account is an identity-provider principal. One account owns one firm;
// the firm display name lives in the firm profile document keyed by the
// account ID, not here.
type Account struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Password string `gorm:"not null" json:"-"`

	IsActive    bool       `gorm:"not null;default:true" json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at"`

	FailedLoginAttempts int        `gorm:"not null;default:0" json:"-"`
	LockoutUntil        *time.Time `json:"-"`
}

// BeforeCreate hook to generate UUID
func (a *Account) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for Account model
func (Account) TableName() string {
	return "accounts"
}

// IsLockedOut checks if the account is currently locked out
func (a *Account) IsLockedOut() bool {
	return a.LockoutUntil != nil && time.Now().Before(*a.LockoutUntil)
}

// FirmUser is the enriched authenticated identity: the principal plus the
// firm display name read from the firm profile document. FirmName is empty
// when the profile document does not exist yet (registration race).
type FirmUser struct {
	UID       string `json:"uid"`
	Email     string `json:"email"`
	FirmName  string `json:"firmName"`
	CreatedAt int64  `json:"createdAt"`
}
