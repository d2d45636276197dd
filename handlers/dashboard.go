package handlers

import (
	"net/http"
	"time"

	"lexcase_app_go/middleware"
	"lexcase_app_go/services"

	"github.com/labstack/echo/v4"
)

// DashboardHandler serves the firm's aggregate views
type DashboardHandler struct {
	cases *services.CaseStore
	tasks *services.TaskStore
}

func NewDashboardHandler(cases *services.CaseStore, tasks *services.TaskStore) *DashboardHandler {
	return &DashboardHandler{cases: cases, tasks: tasks}
}

// dashboardPayload bundles everything the dashboard shows in one response
type dashboardPayload struct {
	Stats       services.DashboardStats  `json:"stats"`
	RecentCases interface{}              `json:"recentCases"`
	RecentTasks interface{}              `json:"recentTasks"`
	Upcoming    []services.TimelineGroup `json:"upcoming"`
}

// Summary returns stats, recent activity and the upcoming hearings window
func (h *DashboardHandler) Summary(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	cases, err := h.cases.LoadFirmCases(user.UID)
	if err != nil {
		return respondServiceError(c, err)
	}
	tasks, err := h.tasks.LoadFirmTasks(user.UID)
	if err != nil {
		return respondServiceError(c, err)
	}

	today := time.Now()
	return respondData(c, http.StatusOK, dashboardPayload{
		Stats:       services.ComputeDashboardStats(cases, tasks),
		RecentCases: services.RecentCases(cases, 5),
		RecentTasks: services.RecentTasks(tasks, 5),
		Upcoming:    services.UpcomingTimeline(cases, today),
	})
}

// Stats returns just the dashboard counters
func (h *DashboardHandler) Stats(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	cases, err := h.cases.LoadFirmCases(user.UID)
	if err != nil {
		return respondServiceError(c, err)
	}
	tasks, err := h.tasks.LoadFirmTasks(user.UID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return respondData(c, http.StatusOK, services.ComputeDashboardStats(cases, tasks))
}

// Upcoming returns hearings in the next 30 days grouped by day
func (h *DashboardHandler) Upcoming(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	cases, err := h.cases.LoadFirmCases(user.UID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return respondData(c, http.StatusOK, services.UpcomingTimeline(cases, time.Now()))
}
