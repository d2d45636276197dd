package services

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"time"

	"lexcase_app_go/models"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	// BcryptCost is the cost factor for bcrypt hashing
	BcryptCost = 10
	// SessionTokenLength is the length of the session token in bytes (64 chars hex)
	SessionTokenLength = 32
	// DefaultSessionDuration is the default session duration (7 days)
	DefaultSessionDuration = 7 * 24 * time.Hour
	// PasswordResetTokenDuration is how long a reset token stays valid
	PasswordResetTokenDuration = 1 * time.Hour
	// MaxFailedLoginAttempts before a temporary lockout
	MaxFailedLoginAttempts = 5
	// LockoutDuration applied after too many failed attempts
	LockoutDuration = 15 * time.Minute
)

// ErrInvalidCredentials covers both unknown email and wrong password so the
// two are indistinguishable to a caller.
var ErrInvalidCredentials = errors.New("invalid email or password")

// ErrAccountLocked is returned while a lockout window is active.
var ErrAccountLocked = errors.New("account is locked, try again later")

// globalDummyHash is used to equalize timing when the account does not exist.
var globalDummyHash = "$2a$10$X7.G.t8./.t.t.t.t.t.t.t.t.t.t.t.t.t.t.t.t.t.t.t.t"

func init() {
	// Generate a real dummy hash at startup to ensure consistent timing
	hash, _ := HashPassword("dummy_password_for_timing_mitigation")
	if hash != "" {
		globalDummyHash = hash
	}
}

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(bytes), nil
}

// VerifyPassword verifies a password against a bcrypt hash
func VerifyPassword(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}

// CreatePrincipal registers a new identity-provider principal.
func CreatePrincipal(db *gorm.DB, email, password string) (*models.Account, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	account := &models.Account{
		ID:       uuid.New().String(),
		Email:    email,
		Password: hash,
		IsActive: true,
	}
	if err := db.Create(account).Error; err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}
	return account, nil
}

// Authenticate verifies credentials and returns the principal. Failed
// attempts are counted and trip a temporary lockout.
func Authenticate(db *gorm.DB, email, password string) (*models.Account, error) {
	var account models.Account
	err := db.Where("email = ?", email).First(&account).Error
	if err != nil {
		// Timing attack mitigation: always run a bcrypt comparison
		VerifyPassword(globalDummyHash, password)
		return nil, ErrInvalidCredentials
	}

	if account.IsLockedOut() {
		return nil, ErrAccountLocked
	}

	if !VerifyPassword(account.Password, password) {
		account.FailedLoginAttempts++
		if account.FailedLoginAttempts >= MaxFailedLoginAttempts {
			lockoutTime := time.Now().Add(LockoutDuration)
			account.LockoutUntil = &lockoutTime
			account.FailedLoginAttempts = 0
		}
		db.Save(&account)
		return nil, ErrInvalidCredentials
	}

	if !account.IsActive {
		return nil, ErrInvalidCredentials
	}

	// Reset failed attempts on success
	if account.FailedLoginAttempts > 0 || account.LockoutUntil != nil {
		account.FailedLoginAttempts = 0
		account.LockoutUntil = nil
		db.Save(&account)
	}

	now := time.Now()
	account.LastLoginAt = &now
	db.Save(&account)

	return &account, nil
}

// GenerateSessionToken generates a cryptographically secure random token
func GenerateSessionToken() (string, error) {
	bytes := make([]byte, SessionTokenLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

// CreateSession creates a new session for an account
func CreateSession(db *gorm.DB, accountID, ipAddress, userAgent string) (*models.Session, error) {
	token, err := GenerateSessionToken()
	if err != nil {
		return nil, err
	}

	session := &models.Session{
		ID:        uuid.New().String(),
		AccountID: accountID,
		Token:     token,
		ExpiresAt: time.Now().Add(DefaultSessionDuration),
		IPAddress: ipAddress,
		UserAgent: userAgent,
	}

	if err := db.Create(session).Error; err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return session, nil
}

// ValidateSession validates a session token and returns the session if valid
func ValidateSession(db *gorm.DB, token string) (*models.Session, error) {
	var session models.Session

	err := db.Preload("Account").
		Where("token = ?", token).
		First(&session).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("session not found")
		}
		return nil, fmt.Errorf("failed to validate session: %w", err)
	}

	if session.IsExpired() {
		// Delete expired session
		db.Delete(&session)
		return nil, fmt.Errorf("session expired")
	}

	return &session, nil
}

// DeleteSession deletes a session (logout)
func DeleteSession(db *gorm.DB, token string) error {
	result := db.Where("token = ?", token).Delete(&models.Session{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete session: %w", result.Error)
	}
	return nil
}

// CleanupExpiredSessions removes all expired sessions from the database
func CleanupExpiredSessions(db *gorm.DB) error {
	result := db.Where("expires_at < ?", time.Now()).Delete(&models.Session{})
	if result.Error != nil {
		return fmt.Errorf("failed to cleanup expired sessions: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		log.Printf("Cleaned up %d expired sessions", result.RowsAffected)
	}
	return nil
}

// DeleteAllAccountSessions deletes all sessions for an account.
// Used when the password is reset.
func DeleteAllAccountSessions(db *gorm.DB, accountID string) error {
	result := db.Where("account_id = ?", accountID).Delete(&models.Session{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete account sessions: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		log.Printf("Deleted %d sessions for account %s (password reset)", result.RowsAffected, accountID)
	}
	return nil
}

// CreatePasswordResetToken issues a reset token for an account, replacing
// any outstanding one.
func CreatePasswordResetToken(db *gorm.DB, accountID string) (*models.PasswordResetToken, error) {
	token, err := GenerateSessionToken()
	if err != nil {
		return nil, err
	}

	// One outstanding token per account
	if err := db.Where("account_id = ?", accountID).Delete(&models.PasswordResetToken{}).Error; err != nil {
		return nil, fmt.Errorf("failed to clear previous reset tokens: %w", err)
	}

	reset := &models.PasswordResetToken{
		AccountID: accountID,
		Token:     token,
		ExpiresAt: time.Now().Add(PasswordResetTokenDuration),
	}
	if err := db.Create(reset).Error; err != nil {
		return nil, fmt.Errorf("failed to create reset token: %w", err)
	}
	return reset, nil
}

// ConsumePasswordResetToken validates a reset token, updates the password,
// deletes the token and revokes all sessions of the account.
func ConsumePasswordResetToken(db *gorm.DB, token, newPassword string) error {
	var reset models.PasswordResetToken
	err := db.Where("token = ?", token).First(&reset).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("reset token not found")
		}
		return fmt.Errorf("failed to look up reset token: %w", err)
	}

	if reset.IsExpired() {
		db.Delete(&reset)
		return fmt.Errorf("reset token expired")
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}

	if err := db.Model(&models.Account{}).Where("id = ?", reset.AccountID).Update("password", hash).Error; err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	db.Delete(&reset)
	return DeleteAllAccountSessions(db, reset.AccountID)
}

// CleanupExpiredTokens removes all expired password reset tokens
func CleanupExpiredTokens(db *gorm.DB) error {
	result := db.Where("expires_at < ?", time.Now()).Delete(&models.PasswordResetToken{})
	if result.Error != nil {
		return fmt.Errorf("failed to cleanup expired tokens: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		log.Printf("Cleaned up %d expired reset tokens", result.RowsAffected)
	}
	return nil
}
