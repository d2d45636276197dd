package handlers

import (
	"net/http"
	"strings"

	"lexcase_app_go/config"
	"lexcase_app_go/db"
	"lexcase_app_go/docstore"
	"lexcase_app_go/middleware"
	"lexcase_app_go/services"

	"github.com/labstack/echo/v4"
)

// AuthHandler serves registration, login and password reset
type AuthHandler struct {
	cfg    *config.Config
	docs   *docstore.Store
	mailer *services.EmailService
	gate   *services.SessionGate
}

func NewAuthHandler(cfg *config.Config, docs *docstore.Store, mailer *services.EmailService, gate *services.SessionGate) *AuthHandler {
	return &AuthHandler{cfg: cfg, docs: docs, mailer: mailer, gate: gate}
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FirmName string `json:"firmName"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) secureCookies() bool {
	return h.cfg.Environment == "production"
}

// Register creates a firm account and signs it in
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request body")
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || req.Password == "" {
		return respondError(c, http.StatusBadRequest, "email and password are required")
	}
	if len(req.Password) < 8 {
		return respondError(c, http.StatusBadRequest, "password must be at least 8 characters")
	}

	user, err := services.Register(db.DB, h.docs, req.Email, req.Password, req.FirmName)
	if err != nil {
		return respondServiceError(c, err)
	}

	session, err := services.CreateSession(db.DB, user.UID, c.RealIP(), c.Request().UserAgent())
	if err != nil {
		return respondServiceError(c, err)
	}
	middleware.SetSessionCookie(c, session, h.secureCookies())
	h.gate.SignIn(user)

	return respondData(c, http.StatusCreated, user)
}

// Login authenticates and opens a session
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request body")
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || req.Password == "" {
		return respondError(c, http.StatusBadRequest, "email and password are required")
	}

	user, err := services.Login(db.DB, h.docs, req.Email, req.Password)
	if err != nil {
		return respondServiceError(c, err)
	}

	session, err := services.CreateSession(db.DB, user.UID, c.RealIP(), c.Request().UserAgent())
	if err != nil {
		return respondServiceError(c, err)
	}
	middleware.SetSessionCookie(c, session, h.secureCookies())
	h.gate.SignIn(user)

	return respondData(c, http.StatusOK, user)
}

// Logout deletes the session and clears the cookie
func (h *AuthHandler) Logout(c echo.Context) error {
	if cookie, err := c.Cookie(middleware.SessionCookieName); err == nil {
		if err := services.DeleteSession(db.DB, cookie.Value); err != nil {
			return respondServiceError(c, err)
		}
	}
	middleware.ClearSessionCookie(c, h.secureCookies())
	h.gate.SignOut()
	return respondData(c, http.StatusOK, "signed out")
}

// Me returns the authenticated firm user
func (h *AuthHandler) Me(c echo.Context) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return respondError(c, http.StatusUnauthorized, "authentication required")
	}
	return respondData(c, http.StatusOK, user)
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

// ForgotPassword issues a reset token by email. The response is the same
// whether or not the address exists.
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req forgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request body")
	}

	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email == "" {
		return respondError(c, http.StatusBadRequest, "email is required")
	}

	if err := services.RequestPasswordReset(db.DB, h.mailer, email); err != nil {
		return respondServiceError(c, err)
	}
	return respondData(c, http.StatusOK, "if the address exists, a reset email was sent")
}

type resetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// ResetPassword consumes a reset token and sets the new password
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request body")
	}
	if req.Token == "" || len(req.Password) < 8 {
		return respondError(c, http.StatusBadRequest, "token and a password of at least 8 characters are required")
	}

	if err := services.ConsumePasswordResetToken(db.DB, req.Token, req.Password); err != nil {
		return respondError(c, http.StatusBadRequest, "reset link is invalid or expired")
	}
	return respondData(c, http.StatusOK, "password updated")
}
