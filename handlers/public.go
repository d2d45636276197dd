package handlers

import (
	"net/http"

	"lexcase_app_go/models"
	"lexcase_app_go/services"

	"github.com/labstack/echo/v4"
)

// PublicHandler serves the unauthenticated public case directory
type PublicHandler struct {
	cases *services.CaseStore
}

func NewPublicHandler(cases *services.CaseStore) *PublicHandler {
	return &PublicHandler{cases: cases}
}

// List returns the restricted view of all published cases
func (h *PublicHandler) List(c echo.Context) error {
	records, err := h.cases.LoadPublicCases()
	if err != nil {
		return respondServiceError(c, err)
	}

	views := make([]models.PublicCaseView, 0, len(records))
	for _, record := range records {
		views = append(views, record.PublicView())
	}
	return respondData(c, http.StatusOK, views)
}

// Get returns one published case by ID
func (h *PublicHandler) Get(c echo.Context) error {
	if _, err := h.cases.LoadPublicCases(); err != nil {
		return respondServiceError(c, err)
	}

	record, ok := h.cases.PublicCaseByID(c.Param("id"))
	if !ok {
		return respondError(c, http.StatusNotFound, "not found")
	}
	return respondData(c, http.StatusOK, record.PublicView())
}
