package services

import (
	"fmt"
	"log"
	"strings"

	"lexcase_app_go/docstore"
	"lexcase_app_go/models"

	"gorm.io/gorm"
)

const firmsCollection = "firms"

// Register creates a new firm: an identity-provider principal plus a firm
// profile document keyed by the principal ID. The firm name must be unique
// across all profiles; the check runs before the principal is created.
//
// The two writes are not atomic. If the profile write fails after the
// principal exists, the principal is left behind and the caller sees the
// error; a later login then resolves to an empty firm name.
func Register(db *gorm.DB, docs *docstore.Store, email, password, firmName string) (*models.FirmUser, error) {
	firmName = strings.TrimSpace(firmName)
	if firmName == "" {
		return nil, NewValidationError("firmName", "firm name is required")
	}

	existing, err := docs.Query(firmsCollection, docstore.Where("firmName", firmName))
	if err != nil {
		return nil, NewStoreError("check firm name", err)
	}
	if len(existing) > 0 {
		return nil, ErrDuplicateFirmName
	}

	account, err := CreatePrincipal(db, email, password)
	if err != nil {
		return nil, err
	}

	profile := docstore.Fields{
		"firmName":  firmName,
		"email":     email,
		"createdAt": nowFunc().UnixMilli(),
	}
	if err := docs.Set(firmsCollection, account.ID, profile); err != nil {
		log.Printf("[CRITICAL] principal %s created but firm profile write failed: %v", account.ID, err)
		return nil, NewStoreError("create firm profile", err)
	}

	return &models.FirmUser{
		UID:       account.ID,
		Email:     account.Email,
		FirmName:  firmName,
		CreatedAt: account.CreatedAt.UnixMilli(),
	}, nil
}

// Login authenticates a principal and enriches it with the firm profile.
// A missing profile document is not an error; the firm name comes back empty.
func Login(db *gorm.DB, docs *docstore.Store, email, password string) (*models.FirmUser, error) {
	account, err := Authenticate(db, email, password)
	if err != nil {
		return nil, err
	}
	return EnrichAccount(docs, account), nil
}

// EnrichAccount builds the FirmUser for an authenticated principal by
// reading its firm profile document.
func EnrichAccount(docs *docstore.Store, account *models.Account) *models.FirmUser {
	user := &models.FirmUser{
		UID:       account.ID,
		Email:     account.Email,
		CreatedAt: account.CreatedAt.UnixMilli(),
	}

	doc, err := docs.Get(firmsCollection, account.ID)
	if err != nil {
		if err != docstore.ErrNotFound {
			log.Printf("[WARNING] failed to read firm profile for %s: %v", account.ID, err)
		}
		return user
	}

	if name, ok := doc["firmName"].(string); ok {
		user.FirmName = name
	}
	return user
}

// RequestPasswordReset issues a reset token and mails it. An unknown email
// is not reported to the caller so addresses cannot be enumerated.
func RequestPasswordReset(db *gorm.DB, mailer *EmailService, email string) error {
	var account models.Account
	if err := db.Where("email = ?", email).First(&account).Error; err != nil {
		log.Printf("password reset requested for unknown email")
		return nil
	}

	reset, err := CreatePasswordResetToken(db, account.ID)
	if err != nil {
		return err
	}

	if mailer != nil {
		if err := mailer.SendPasswordReset(account.Email, reset.Token); err != nil {
			return fmt.Errorf("failed to send reset email: %w", err)
		}
	}
	return nil
}
