package middleware

import (
	"net/http"

	"lexcase_app_go/db"
	"lexcase_app_go/docstore"
	"lexcase_app_go/models"
	"lexcase_app_go/services"

	"github.com/labstack/echo/v4"
)

const (
	// SessionCookieName is the name of the session cookie
	SessionCookieName = "lexcase_session"
	// ContextKeyUser is the context key for the authenticated firm user
	ContextKeyUser = "user"
	// ContextKeySession is the context key for the session
	ContextKeySession = "session"
)

// RequireAuth validates the session cookie and puts the enriched firm
// user on the request context. Requests without a valid session get a
// JSON 401; the cookie is cleared when it no longer maps to a session.
func RequireAuth(docs *docstore.Store) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(SessionCookieName)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}

			session, err := services.ValidateSession(db.DB, cookie.Value)
			if err != nil {
				ClearSessionCookie(c, isSecureRequest(c))
				return echo.NewHTTPError(http.StatusUnauthorized, "session invalid or expired")
			}

			if !session.Account.IsActive {
				ClearSessionCookie(c, isSecureRequest(c))
				return echo.NewHTTPError(http.StatusUnauthorized, "account disabled")
			}

			c.Set(ContextKeyUser, services.EnrichAccount(docs, &session.Account))
			c.Set(ContextKeySession, session)
			return next(c)
		}
	}
}

// GetCurrentUser retrieves the authenticated firm user from context
func GetCurrentUser(c echo.Context) *models.FirmUser {
	user, ok := c.Get(ContextKeyUser).(*models.FirmUser)
	if !ok {
		return nil
	}
	return user
}

// GetCurrentSession retrieves the validated session from context
func GetCurrentSession(c echo.Context) *models.Session {
	session, ok := c.Get(ContextKeySession).(*models.Session)
	if !ok {
		return nil
	}
	return session
}

// SetSessionCookie writes the session cookie for a freshly created session
func SetSessionCookie(c echo.Context, session *models.Session, secure bool) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookieName,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie expires the session cookie
func ClearSessionCookie(c echo.Context, secure bool) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func isSecureRequest(c echo.Context) bool {
	return c.Scheme() == "https" || c.Request().Header.Get("X-Forwarded-Proto") == "https"
}
