package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/ememohq/ememo_backend/internal/apperrors"
	portssvc "github.com/ememohq/ememo_backend/internal/core/ports/services"
	"github.com/ememohq/ememo_backend/internal/middleware"

	"github.com/gin-gonic/gin"
)

// attachmentHandler handles attachment upload and download-link requests.
type attachmentHandler struct {
	attachmentService portssvc.AttachmentSvcFacade
	memoService       portssvc.MemoSvcFacade
}

func newAttachmentHandler(as portssvc.AttachmentSvcFacade, ms portssvc.MemoSvcFacade) *attachmentHandler {
	return &attachmentHandler{
		attachmentService: as,
		memoService:       ms,
	}
}

// registerAttachmentRoutes registers attachment upload and download routes.
func registerAttachmentRoutes(rg *gin.RouterGroup, attachmentService portssvc.AttachmentSvcFacade, memoService portssvc.MemoSvcFacade) {
	h := newAttachmentHandler(attachmentService, memoService)

	rg.POST("/memos/:id/attachments", h.uploadAttachment)
	rg.GET("/attachments/download", h.resolveDownload)
}

// uploadAttachment godoc
// @Summary Upload an attachment payload
// @Description Stores a file under the memo's namespace and returns the attachment reference
// @Tags attachments
// @Accept  multipart/form-data
// @Produce  json
// @Param   id path string true "Memo ID"
// @Param   file formData file true "File to upload"
// @Success 201 {object} dto.AttachmentPayload
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /memos/{id}/attachments [post]
func (h *attachmentHandler) uploadAttachment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	memoID := c.Param("id")
	if _, err := h.memoService.GetMemoByID(c.Request.Context(), userID, memoID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Memo not found"})
			return
		}
		logger.Error("Failed to load memo for attachment upload", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to upload attachment"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Missing file form field"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		logger.Error("Failed to open uploaded file", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to read uploaded file"})
		return
	}
	defer file.Close()

	attachment, err := h.attachmentService.Upload(
		c.Request.Context(),
		userID,
		memoID,
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		fileHeader.Size,
		file,
	)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		logger.Error("Failed to store attachment", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to upload attachment"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"name": attachment.Name, "url": attachment.URL})
}

// resolveDownload godoc
// @Summary Resolve an attachment download link
// @Description Returns a time-limited URL for a stored attachment object key
// @Tags attachments
// @Produce  json
// @Param   key query string true "Attachment object key"
// @Success 200 {object} map[string]string
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /attachments/download [get]
func (h *attachmentHandler) resolveDownload(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	if _, ok := middleware.GetUserIDFromContext(c); !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	objectKey := c.Query("key")
	if objectKey == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Missing key query parameter"})
		return
	}

	url, err := h.attachmentService.ResolveDownloadURL(c.Request.Context(), objectKey)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		logger.Error("Failed to resolve download URL", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to resolve download URL"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}
