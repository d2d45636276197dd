package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lexcase_app_go/db"
	"lexcase_app_go/docstore"
	"lexcase_app_go/models"
	"lexcase_app_go/services"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupMiddleware(t *testing.T) *docstore.Store {
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	assert.NoError(t, err)
	assert.NoError(t, gdb.AutoMigrate(&models.Account{}, &models.Session{}))
	db.DB = gdb

	docs := docstore.New(gdb)
	assert.NoError(t, docs.AutoMigrate())
	return docs
}

func authedRequest(t *testing.T, docs *docstore.Store) (*models.Account, *models.Session) {
	account, err := services.CreatePrincipal(db.DB, "owner@iusta.example", "s3cret-pass")
	assert.NoError(t, err)
	assert.NoError(t, docs.Set("firms", account.ID, docstore.Fields{"firmName": "Iusta & Partners"}))

	session, err := services.CreateSession(db.DB, account.ID, "127.0.0.1", "test")
	assert.NoError(t, err)
	return account, session
}

func runWithAuth(docs *docstore.Store, cookie *http.Cookie) (*httptest.ResponseRecorder, error) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/cases", nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := RequireAuth(docs)(func(c echo.Context) error {
		user := GetCurrentUser(c)
		return c.JSON(http.StatusOK, user)
	})
	return rec, handler(c)
}

func TestRequireAuthRejectsMissingCookie(t *testing.T) {
	docs := setupMiddleware(t)

	_, err := runWithAuth(docs, nil)
	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestRequireAuthRejectsUnknownToken(t *testing.T) {
	docs := setupMiddleware(t)

	_, err := runWithAuth(docs, &http.Cookie{Name: SessionCookieName, Value: "bogus"})
	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestRequireAuthAcceptsValidSession(t *testing.T) {
	docs := setupMiddleware(t)
	account, session := authedRequest(t, docs)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/cases", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: session.Token})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var seen *models.FirmUser
	handler := RequireAuth(docs)(func(c echo.Context) error {
		seen = GetCurrentUser(c)
		return c.NoContent(http.StatusOK)
	})

	assert.NoError(t, handler(c))
	assert.NotNil(t, seen)
	assert.Equal(t, account.ID, seen.UID)
	assert.Equal(t, "Iusta & Partners", seen.FirmName)
	assert.NotNil(t, GetCurrentSession(c))
}

func TestRequireAuthRejectsExpiredSession(t *testing.T) {
	docs := setupMiddleware(t)
	account, _ := authedRequest(t, docs)

	stale := &models.Session{
		AccountID: account.ID,
		Token:     "stale-token",
		ExpiresAt: time.Now().Add(-time.Hour),
	}
	assert.NoError(t, db.DB.Create(stale).Error)

	rec, err := runWithAuth(docs, &http.Cookie{Name: SessionCookieName, Value: "stale-token"})
	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)

	// Cookie is cleared on rejection
	cookies := rec.Result().Cookies()
	assert.NotEmpty(t, cookies)
	assert.Equal(t, SessionCookieName, cookies[0].Name)
	assert.Equal(t, -1, cookies[0].MaxAge)
}

func TestRequireAuthRejectsInactiveAccount(t *testing.T) {
	docs := setupMiddleware(t)
	account, session := authedRequest(t, docs)

	assert.NoError(t, db.DB.Model(account).Update("is_active", false).Error)

	_, err := runWithAuth(docs, &http.Cookie{Name: SessionCookieName, Value: session.Token})
	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}
