package handlers

import (
	"net/http"

	"lexcase_app_go/services"

	"github.com/labstack/echo/v4"
)

// NotificationHandler exposes the transient status message slot
type NotificationHandler struct {
	notifier *services.Notifier
}

func NewNotificationHandler(notifier *services.Notifier) *NotificationHandler {
	return &NotificationHandler{notifier: notifier}
}

// Current returns the visible notification, or null when none is showing
func (h *NotificationHandler) Current(c echo.Context) error {
	return respondData(c, http.StatusOK, h.notifier.Current())
}

// Dismiss clears the current notification
func (h *NotificationHandler) Dismiss(c echo.Context) error {
	h.notifier.Clear()
	return c.NoContent(http.StatusNoContent)
}
