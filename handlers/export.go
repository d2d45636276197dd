package handlers

import (
	"fmt"
	"net/http"
	"time"

	"lexcase_app_go/config"
	"lexcase_app_go/middleware"
	"lexcase_app_go/services"

	"github.com/labstack/echo/v4"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler produces downloadable artifacts from a firm's data
type ExportHandler struct {
	cfg   *config.Config
	cases *services.CaseStore
	tasks *services.TaskStore
}

func NewExportHandler(cfg *config.Config, cases *services.CaseStore, tasks *services.TaskStore) *ExportHandler {
	return &ExportHandler{cfg: cfg, cases: cases, tasks: tasks}
}

// CaseRegister downloads the firm's full case register as xlsx
func (h *ExportHandler) CaseRegister(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	cases, err := h.cases.LoadFirmCases(user.UID)
	if err != nil {
		return respondServiceError(c, err)
	}

	buf, err := services.ExportCaseRegister(user.FirmName, cases)
	if err != nil {
		return respondServiceError(c, err)
	}

	filename := fmt.Sprintf("case-register-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Blob(http.StatusOK, xlsxContentType, buf.Bytes())
}

// CaseSummaryPDF downloads a printable summary of one case
func (h *ExportHandler) CaseSummaryPDF(c echo.Context) error {
	user := middleware.GetCurrentUser(c)
	caseID := c.Param("id")

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

	pdf, err := services.GenerateCaseSummaryPDF(record, tasks, h.cfg.ChromePath)
	if err != nil {
		return respondServiceError(c, err)
	}

	filename := fmt.Sprintf("case-%s-%s.pdf", record.CaseNumber, record.CaseYear)
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Blob(http.StatusOK, "application/pdf", pdf)
}
