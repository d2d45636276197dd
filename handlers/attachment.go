package handlers

import (
	"fmt"
	"io"
	"net/http"

	"lexcase_app_go/db"
	"lexcase_app_go/middleware"
	"lexcase_app_go/models"
	"lexcase_app_go/services"

	"github.com/labstack/echo/v4"
)

// MaxAttachmentSize caps uploads at 25 MB
const MaxAttachmentSize = 25 << 20

// AttachmentHandler stores files against cases. Metadata lives in the
// relational store, bytes in the configured storage provider.
type AttachmentHandler struct {
	cases *services.CaseStore
}

func NewAttachmentHandler(cases *services.CaseStore) *AttachmentHandler {
	return &AttachmentHandler{cases: cases}
}

func (h *AttachmentHandler) ownedCase(c echo.Context, caseID string) (string, error) {
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

// Upload attaches a multipart file to a case
func (h *AttachmentHandler) Upload(c echo.Context) error {
	caseID := c.Param("caseId")
	firmID, err := h.ownedCase(c, caseID)
	if err != nil {
		return respondServiceError(c, err)
	}

	file, err := c.FormFile("file")
	if err != nil {
		return respondError(c, http.StatusBadRequest, "file is required")
	}
	if file.Size > MaxAttachmentSize {
		return respondError(c, http.StatusRequestEntityTooLarge, "file exceeds the 25 MB limit")
	}

	key := services.GenerateAttachmentKey(firmID, caseID, file.Filename)
	result, err := services.Storage.Upload(c.Request().Context(), file, key)
	if err != nil {
		return respondServiceError(c, fmt.Errorf("failed to store attachment: %w", err))
	}

	attachment := &models.CaseAttachment{
		CaseID:           caseID,
		FirmID:           firmID,
		Key:              result.Key,
		FileName:         result.FileName,
		FileOriginalName: file.Filename,
		FileSize:         result.FileSize,
		MimeType:         result.MimeType,
	}
	if err := db.DB.Create(attachment).Error; err != nil {
		// Roll back the stored object so no orphan bytes remain
		_ = services.Storage.Delete(c.Request().Context(), result.Key)
		return respondServiceError(c, fmt.Errorf("failed to save attachment metadata: %w", err))
	}

	return respondData(c, http.StatusCreated, attachment)
}

// List returns a case's attachment metadata
func (h *AttachmentHandler) List(c echo.Context) error {
	caseID := c.Param("caseId")
	firmID, err := h.ownedCase(c, caseID)
	if err != nil {
		return respondServiceError(c, err)
	}

	var attachments []models.CaseAttachment
	if err := db.DB.Where("case_id = ? AND firm_id = ?", caseID, firmID).
		Order("created_at DESC").Find(&attachments).Error; err != nil {
		return respondServiceError(c, err)
	}
	return respondData(c, http.StatusOK, attachments)
}

func (h *AttachmentHandler) ownedAttachment(c echo.Context) (*models.CaseAttachment, error) {
	user := middleware.GetCurrentUser(c)

	var attachment models.CaseAttachment
	err := db.DB.Where("id = ? AND firm_id = ?", c.Param("id"), user.UID).First(&attachment).Error
	if err != nil {
		return nil, services.ErrNotFound
	}
	return &attachment, nil
}

// Download streams an attachment's bytes
func (h *AttachmentHandler) Download(c echo.Context) error {
	attachment, err := h.ownedAttachment(c)
	if err != nil {
		return respondServiceError(c, err)
	}

	reader, contentType, err := services.Storage.Get(c.Request().Context(), attachment.Key)
	if err != nil {
		return respondServiceError(c, err)
	}
	defer reader.Close()

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="%s"`, attachment.FileOriginalName))
	c.Response().Header().Set(echo.HeaderContentType, contentType)
	c.Response().WriteHeader(http.StatusOK)
	_, err = io.Copy(c.Response().Writer, reader)
	return err
}

// Delete removes an attachment's metadata and bytes
func (h *AttachmentHandler) Delete(c echo.Context) error {
	attachment, err := h.ownedAttachment(c)
	if err != nil {
		return respondServiceError(c, err)
	}

	if err := services.Storage.Delete(c.Request().Context(), attachment.Key); err != nil {
		return respondServiceError(c, err)
	}
	if err := db.DB.Delete(attachment).Error; err != nil {
		return respondServiceError(c, err)
	}
	return respondData(c, http.StatusOK, map[string]string{"id": attachment.ID})
}
