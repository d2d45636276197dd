package handlers

import (
	"net/http"

	"lexcase_app_go/docstore"
	"lexcase_app_go/middleware"
	"lexcase_app_go/services"

	"github.com/labstack/echo/v4"
)

// TaskHandler serves tasks scoped to cases of the requesting firm
type TaskHandler struct {
	cases    *services.CaseStore
	tasks    *services.TaskStore
	notifier *services.Notifier
}

func NewTaskHandler(cases *services.CaseStore, tasks *services.TaskStore, notifier *services.Notifier) *TaskHandler {
	return &TaskHandler{cases: cases, tasks: tasks, notifier: notifier}
}

func (h *TaskHandler) ownedTask(c echo.Context, taskID string) error {
	user := middleware.GetCurrentUser(c)
	task, err := h.tasks.GetTask(taskID)
	if err != nil {
		return err
	}
	if task.FirmID != user.UID {
		return services.ErrNotFound
	}
	return nil
}

// ListForCase returns the tasks of one case
func (h *TaskHandler) ListForCase(c echo.Context) error {
	caseID := c.Param("caseId")

	user := middleware.GetCurrentUser(c)
	record, err := h.cases.GetCase(caseID)
	if err != nil {
		return respondServiceError(c, err)
	}
	if record.FirmID != user.UID {
		return respondServiceError(c, services.ErrNotFound)
	}

	tasks, err := h.tasks.LoadCaseTasks(caseID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return respondData(c, http.StatusOK, tasks)
}

// ListForFirm returns every task across the firm's cases
func (h *TaskHandler) ListForFirm(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	tasks, err := h.tasks.LoadFirmTasks(user.UID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return respondData(c, http.StatusOK, tasks)
}

// Board returns the firm's tasks grouped into board columns
func (h *TaskHandler) Board(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	tasks, err := h.tasks.LoadFirmTasks(user.UID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return respondData(c, http.StatusOK, services.TaskBoard(tasks))
}

// Create adds a task to one of the firm's cases
func (h *TaskHandler) Create(c echo.Context) error {
	var input services.TaskInput
	if err := c.Bind(&input); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request body")
	}

	user := middleware.GetCurrentUser(c)

	// The parent case must exist and belong to the firm
	record, err := h.cases.GetCase(input.CaseID)
	if err != nil {
		return respondServiceError(c, err)
	}
	if record.FirmID != user.UID {
		return respondServiceError(c, services.ErrNotFound)
	}

	task, err := h.tasks.CreateTask(input, *user)
	if err != nil {
		return respondServiceError(c, err)
	}
	h.notifier.Success("Task created")
	return respondData(c, http.StatusCreated, task)
}

// Update applies a partial update to a task
func (h *TaskHandler) Update(c echo.Context) error {
	taskID := c.Param("id")
	if err := h.ownedTask(c, taskID); err != nil {
		return respondServiceError(c, err)
	}

	var partial docstore.Fields
	if err := c.Bind(&partial); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request body")
	}
	if len(partial) == 0 {
		return respondError(c, http.StatusBadRequest, "empty update")
	}

	task, err := h.tasks.UpdateTask(taskID, partial)
	if err != nil {
		return respondServiceError(c, err)
	}
	return respondData(c, http.StatusOK, task)
}

// Delete removes a task
func (h *TaskHandler) Delete(c echo.Context) error {
	taskID := c.Param("id")
	if err := h.ownedTask(c, taskID); err != nil {
		return respondServiceError(c, err)
	}

	deletedID, err := h.tasks.DeleteTask(taskID)
	if err != nil {
		return respondServiceError(c, err)
	}
	h.notifier.Success("Task deleted")
	return respondData(c, http.StatusOK, map[string]string{"id": deletedID})
}
