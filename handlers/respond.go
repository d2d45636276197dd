package handlers

import (
	"errors"
	"net/http"

	"lexcase_app_go/docstore"
	"lexcase_app_go/services"

	"github.com/labstack/echo/v4"
)

// envelope is the uniform JSON response shape
type envelope struct {
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

func respondData(c echo.Context, status int, data interface{}) error {
	return c.JSON(status, envelope{Data: data})
}

func respondError(c echo.Context, status int, message string) error {
	return c.JSON(status, envelope{Error: message})
}

// respondServiceError maps service-layer errors to HTTP statuses
func respondServiceError(c echo.Context, err error) error {
	var validationErr *services.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return respondError(c, http.StatusBadRequest, validationErr.Error())
	case errors.Is(err, services.ErrNotFound), errors.Is(err, docstore.ErrNotFound):
		return respondError(c, http.StatusNotFound, "not found")
	case errors.Is(err, services.ErrDuplicateFirmName):
		return respondError(c, http.StatusConflict, "firm name already taken")
	case errors.Is(err, services.ErrInvalidCredentials):
		return respondError(c, http.StatusUnauthorized, "invalid email or password")
	case errors.Is(err, services.ErrAccountLocked):
		return respondError(c, http.StatusTooManyRequests, "account is locked, try again later")
	default:
		c.Logger().Error(err)
		return respondError(c, http.StatusInternalServerError, "internal error")
	}
}
