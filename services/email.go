package services

import (
	"fmt"
	"log"
	"strings"

	"lexcase_app_go/config"

	"github.com/resend/resend-go/v2"
)

// Email represents an email message
type Email struct {
	To       []string
	Subject  string
	HTMLBody string
	TextBody string
}

// EmailService sends transactional mail through Resend. In test mode the
// message is logged instead of sent.
type EmailService struct {
	cfg *config.Config
}

func NewEmailService(cfg *config.Config) *EmailService {
	return &EmailService{cfg: cfg}
}

// Send sends an email using the Resend API
func (s *EmailService) Send(email *Email) error {
	if s.cfg.EmailTestMode {
		logEmailToConsole(email)
		return nil
	}

	if s.cfg.ResendAPIKey == "" {
		return fmt.Errorf("RESEND_API_KEY not configured")
	}

	client := resend.NewClient(s.cfg.ResendAPIKey)
	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", s.cfg.EmailFromName, s.cfg.EmailFrom),
		To:      email.To,
		Subject: email.Subject,
	}
	if email.HTMLBody != "" {
		params.Html = email.HTMLBody
	}
	if email.TextBody != "" {
		params.Text = email.TextBody
	}
	if params.Html == "" && params.Text == "" {
		return fmt.Errorf("email must have either HTMLBody or TextBody")
	}

	sent, err := client.Emails.Send(params)
	if err != nil {
		return fmt.Errorf("failed to send email via Resend: %v", err)
	}
	log.Printf("Email sent via Resend (ID: %s) to: %v", sent.Id, email.To)
	return nil
}

// SendAsync sends an email in a goroutine so handlers do not block on the
// Resend round trip.
func (s *EmailService) SendAsync(email *Email) {
	emailCopy := &Email{
		To:       append([]string{}, email.To...),
		Subject:  email.Subject,
		HTMLBody: email.HTMLBody,
		TextBody: email.TextBody,
	}
	go func() {
		if err := s.Send(emailCopy); err != nil {
			log.Printf("Error sending async email: %v", err)
		}
	}()
}

// SendPasswordReset sends the password reset link for a token.
func (s *EmailService) SendPasswordReset(toEmail, token string) error {
	resetLink := fmt.Sprintf("%s/reset-password?token=%s", strings.TrimRight(s.cfg.AppURL, "/"), token)

	email := &Email{
		To:      []string{toEmail},
		Subject: "Reset your password",
		TextBody: fmt.Sprintf(
			"A password reset was requested for your account.\n\n"+
				"Open the link below to choose a new password. The link expires in 1 hour.\n\n%s\n\n"+
				"If you did not request this, you can ignore this email.\n", resetLink),
		HTMLBody: fmt.Sprintf(
			`<p>A password reset was requested for your account.</p>`+
				`<p><a href="%s">Choose a new password</a> (the link expires in 1 hour).</p>`+
				`<p>If you did not request this, you can ignore this email.</p>`, resetLink),
	}
	return s.Send(email)
}

// logEmailToConsole logs email details instead of sending (test mode)
func logEmailToConsole(email *Email) {
	separator := strings.Repeat("=", 80)
	log.Printf("\n%s\nEMAIL (test mode, not sent)\n%s", separator, separator)
	log.Printf("To: %v", email.To)
	log.Printf("Subject: %s", email.Subject)
	log.Printf("\n--- TEXT BODY ---\n%s", email.TextBody)
	log.Printf("%s\n", separator)
}
