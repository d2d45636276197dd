package handlers

import (
	"net/http"

	"lexcase_app_go/docstore"
	"lexcase_app_go/middleware"
	"lexcase_app_go/services"

	"github.com/labstack/echo/v4"
)

// CaseHandler serves the firm-scoped case collection
type CaseHandler struct {
	cases    *services.CaseStore
	tasks    *services.TaskStore
	notifier *services.Notifier
}

func NewCaseHandler(cases *services.CaseStore, tasks *services.TaskStore, notifier *services.Notifier) *CaseHandler {
	return &CaseHandler{cases: cases, tasks: tasks, notifier: notifier}
}

// ownedCase loads a case and checks it belongs to the requesting firm.
// A foreign case reads as not found so case IDs cannot be probed.
func (h *CaseHandler) ownedCase(c echo.Context, caseID string) (string, error) {
	user := middleware.GetCurrentUser(c)
	record, err := h.cases.GetCase(caseID)
	if err != nil {
		return "", err
	}
	if record.FirmID != user.UID {
		return "", services.ErrNotFound
	}
	return user.UID, nil
}

// List returns all cases of the requesting firm, loading them from the
// backing collection.
func (h *CaseHandler) List(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	records, err := h.cases.LoadFirmCases(user.UID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return respondData(c, http.StatusOK, records)
}

// Get returns a single case of the requesting firm
func (h *CaseHandler) Get(c echo.Context) error {
	caseID := c.Param("id")
	if _, err := h.ownedCase(c, caseID); err != nil {
		return respondServiceError(c, err)
	}

	record, err := h.cases.GetCase(caseID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return respondData(c, http.StatusOK, record)
}

// Create adds a case to the requesting firm
func (h *CaseHandler) Create(c echo.Context) error {
	var input services.CaseInput
	if err := c.Bind(&input); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request body")
	}

	user := middleware.GetCurrentUser(c)
	record, err := h.cases.CreateCase(input, *user)
	if err != nil {
		return respondServiceError(c, err)
	}
	h.notifier.Success("Case " + record.Reference() + " created")
	return respondData(c, http.StatusCreated, record)
}

// Update applies a partial update to a case
func (h *CaseHandler) Update(c echo.Context) error {
	caseID := c.Param("id")
	if _, err := h.ownedCase(c, caseID); err != nil {
		return respondServiceError(c, err)
	}

	var partial docstore.Fields
	if err := c.Bind(&partial); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request body")
	}
	if len(partial) == 0 {
		return respondError(c, http.StatusBadRequest, "empty update")
	}

	record, err := h.cases.UpdateCase(caseID, partial)
	if err != nil {
		return respondServiceError(c, err)
	}
	return respondData(c, http.StatusOK, record)
}

// Delete removes a case and its tasks
func (h *CaseHandler) Delete(c echo.Context) error {
	caseID := c.Param("id")
	if _, err := h.ownedCase(c, caseID); err != nil {
		return respondServiceError(c, err)
	}

	// Remove the case's tasks first so none are orphaned
	caseTasks, err := h.tasks.LoadCaseTasks(caseID)
	if err != nil {
		return respondServiceError(c, err)
	}
	for _, task := range caseTasks {
		if _, err := h.tasks.DeleteTask(task.ID); err != nil {
			return respondServiceError(c, err)
		}
	}

	deletedID, err := h.cases.DeleteCase(caseID)
	if err != nil {
		return respondServiceError(c, err)
	}
	h.notifier.Success("Case deleted")
	return respondData(c, http.StatusOK, map[string]string{"id": deletedID})
}

// ToggleStar flips the starred flag on a case
func (h *CaseHandler) ToggleStar(c echo.Context) error {
	caseID := c.Param("id")
	if _, err := h.ownedCase(c, caseID); err != nil {
		return respondServiceError(c, err)
	}

	record, err := h.cases.GetCase(caseID)
	if err != nil {
		return respondServiceError(c, err)
	}

	updated, err := h.cases.UpdateCase(caseID, docstore.Fields{"isStarred": !record.IsStarred})
	if err != nil {
		return respondServiceError(c, err)
	}
	return respondData(c, http.StatusOK, updated)
}
