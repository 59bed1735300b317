package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/ememohq/ememo_backend/internal/apperrors"
	portssvc "github.com/ememohq/ememo_backend/internal/core/ports/services"
	"github.com/ememohq/ememo_backend/internal/dto"
	"github.com/ememohq/ememo_backend/internal/middleware"

	"github.com/gin-gonic/gin"
)

// memoHandler handles HTTP requests related to memos and their review flow.
type memoHandler struct {
	memoService  portssvc.MemoSvcFacade
	userService  portssvc.UserSvcFacade
	auditService portssvc.AuditReaderSvc
}

// newMemoHandler creates a new memoHandler.
func newMemoHandler(ms portssvc.MemoSvcFacade, us portssvc.UserSvcFacade, as portssvc.AuditReaderSvc) *memoHandler {
	return &memoHandler{
		memoService:  ms,
		userService:  us,
		auditService: as,
	}
}

// registerMemoRoutes registers all memo-related routes.
func registerMemoRoutes(rg *gin.RouterGroup, memoService portssvc.MemoSvcFacade, userService portssvc.UserSvcFacade, auditService portssvc.AuditReaderSvc) {
	h := newMemoHandler(memoService, userService, auditService)

	memos := rg.Group("/memos")
	{
		memos.GET("", h.listMemos)
		memos.POST("", h.createDraft)
		memos.GET("/:id", h.getMemo)
		memos.PUT("/:id", h.updateDraft)
		memos.DELETE("/:id", h.deleteMemo)
		memos.POST("/:id/send", h.sendMemo)
		memos.POST("/:id/minutes", h.appendMinute)
		memos.POST("/:id/archive", h.archiveMemo)
		memos.POST("/:id/unarchive", h.unarchiveMemo)
		memos.POST("/:id/force-status", h.forceStatus)
		memos.GET("/:id/audit", h.listAuditEvents)
	}
}

// listMemos godoc
// @Summary List memos
// @Description Retrieves the caller's memos for a box (inbox, sent, archived)
// @Tags memos
// @Produce  json
// @Param   box query string false "Box to list" Enums(inbox, sent, archived) default(inbox)
// @Param   status query string false "Filter by status" Enums(initiated, pending, reviewed, approved)
// @Param   isFinancial query bool false "Filter by financial flag"
// @Param   limit query int false "Limit number of results" default(20)
// @Param   offset query int false "Offset for pagination" default(0)
// @Success 200 {object} dto.ListMemosResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /memos [get]
func (h *memoHandler) listMemos(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var params dto.ListMemosParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	memos, err := h.memoService.ListMemos(c.Request.Context(), userID, params)
	if err != nil {
		logger.Error("Failed to list memos", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list memos"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListMemosResponse(memos))
}

// getMemo godoc
// @Summary Get a memo by ID
// @Description Retrieves a memo with its minutes, if the caller is a party to it
// @Tags memos
// @Produce  json
// @Param   id path string true "Memo ID"
// @Success 200 {object} dto.MemoResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /memos/{id} [get]
func (h *memoHandler) getMemo(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	memo, err := h.memoService.GetMemoByID(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Memo not found"})
			return
		}
		logger.Error("Failed to get memo", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve memo"})
		return
	}

	c.JSON(http.StatusOK, dto.ToMemoResponse(memo))
}

// createDraft godoc
// @Summary Create a memo draft
// @Description Creates a memo in initiated status, visible only to its sender
// @Tags memos
// @Accept  json
// @Produce  json
// @Param   memo body dto.CreateMemoRequest true "Memo details"
// @Success 201 {object} dto.MemoResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /memos [post]
func (h *memoHandler) createDraft(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.CreateMemoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	memo, err := h.memoService.CreateDraft(c.Request.Context(), userID, req)
	if err != nil {
		logger.Error("Failed to create memo draft", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to create memo"})
		return
	}

	c.JSON(http.StatusCreated, dto.ToMemoResponse(memo))
}

// updateDraft godoc
// @Summary Update a memo draft
// @Description Updates allow-listed fields of a memo still in initiated status
// @Tags memos
// @Accept  json
// @Produce  json
// @Param   id path string true "Memo ID"
// @Param   memo body dto.UpdateMemoRequest true "Fields to update"
// @Success 200 {object} dto.MemoResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse "Not the sender"
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Memo already sent"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /memos/{id} [put]
func (h *memoHandler) updateDraft(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.UpdateMemoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	memo, err := h.memoService.UpdateDraft(c.Request.Context(), userID, c.Param("id"), req)
	if err != nil {
		h.respondMemoError(c, logger, err, "Failed to update memo")
		return
	}

	c.JSON(http.StatusOK, dto.ToMemoResponse(memo))
}

// sendMemo godoc
// @Summary Send a memo
// @Description Transitions the memo initiated -> pending, making it visible to recipients
// @Tags memos
// @Produce  json
// @Param   id path string true "Memo ID"
// @Success 200 {object} dto.MemoResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse "Not the sender"
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Memo is not a draft"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /memos/{id}/send [post]
func (h *memoHandler) sendMemo(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	memo, err := h.memoService.Send(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.respondMemoError(c, logger, err, "Failed to send memo")
		return
	}

	c.JSON(http.StatusOK, dto.ToMemoResponse(memo))
}

// deleteMemo godoc
// @Summary Delete a memo
// @Description Hard-deletes a draft the caller authored; admins may delete any memo
// @Tags memos
// @Produce  json
// @Param   id path string true "Memo ID"
// @Success 204 "No Content"
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Sent memos cannot be deleted by their sender"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /memos/{id} [delete]
func (h *memoHandler) deleteMemo(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	user, ok := currentUser(c, h.userService)
	if !ok {
		return
	}

	if err := h.memoService.DeleteMemo(c.Request.Context(), user, c.Param("id")); err != nil {
		h.respondMemoError(c, logger, err, "Failed to delete memo")
		return
	}

	c.Status(http.StatusNoContent)
}

// appendMinute godoc
// @Summary Append a review minute
// @Description Appends a minute with a verdict; an approving minute closes the memo
// @Tags memos
// @Accept  json
// @Produce  json
// @Param   id path string true "Memo ID"
// @Param   minute body dto.AppendMinuteRequest true "Minute details"
// @Success 200 {object} dto.MemoResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse "Caller may not review memos"
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Memo already approved or not yet sent"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /memos/{id}/minutes [post]
func (h *memoHandler) appendMinute(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.AppendMinuteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	reviewer, ok := currentUser(c, h.userService)
	if !ok {
		return
	}

	memo, err := h.memoService.AppendMinute(c.Request.Context(), reviewer, c.Param("id"), req)
	if err != nil {
		h.respondMemoError(c, logger, err, "Failed to append minute")
		return
	}

	c.JSON(http.StatusOK, dto.ToMemoResponse(memo))
}

// archiveMemo godoc
// @Summary Archive a memo
// @Description Hides the memo from the active boxes without touching its status
// @Tags memos
// @Produce  json
// @Param   id path string true "Memo ID"
// @Success 204 "No Content"
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /memos/{id}/archive [post]
func (h *memoHandler) archiveMemo(c *gin.Context) {
	h.setArchived(c, true)
}

// unarchiveMemo godoc
// @Summary Unarchive a memo
// @Description Returns the memo to the active boxes
// @Tags memos
// @Produce  json
// @Param   id path string true "Memo ID"
// @Success 204 "No Content"
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /memos/{id}/unarchive [post]
func (h *memoHandler) unarchiveMemo(c *gin.Context) {
	h.setArchived(c, false)
}

func (h *memoHandler) setArchived(c *gin.Context, archived bool) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var err error
	if archived {
		err = h.memoService.Archive(c.Request.Context(), userID, c.Param("id"))
	} else {
		err = h.memoService.Unarchive(c.Request.Context(), userID, c.Param("id"))
	}
	if err != nil {
		h.respondMemoError(c, logger, err, "Failed to update memo archive flag")
		return
	}

	c.Status(http.StatusNoContent)
}

// forceStatus godoc
// @Summary Force a memo status
// @Description Administrative override of the memo status; records an audit event
// @Tags memos
// @Accept  json
// @Produce  json
// @Param   id path string true "Memo ID"
// @Param   override body dto.ForceStatusRequest true "Target status and reason"
// @Success 200 {object} dto.MemoResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse "Caller may not force statuses"
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /memos/{id}/force-status [post]
func (h *memoHandler) forceStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.ForceStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	actor, ok := currentUser(c, h.userService)
	if !ok {
		return
	}

	memo, err := h.memoService.ForceStatus(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		h.respondMemoError(c, logger, err, "Failed to force memo status")
		return
	}

	c.JSON(http.StatusOK, dto.ToMemoResponse(memo))
}

// listAuditEvents godoc
// @Summary List a memo's audit trail
// @Description Retrieves the administrative override events recorded for a memo
// @Tags memos
// @Produce  json
// @Param   id path string true "Memo ID"
// @Param   limit query int false "Limit number of results" default(50)
// @Success 200 {array} domain.AuditEvent
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse "Caller may not read audit trails"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /memos/{id}/audit [get]
func (h *memoHandler) listAuditEvents(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	actor, ok := currentUser(c, h.userService)
	if !ok {
		return
	}

	limit := 50
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid limit parameter"})
			return
		}
		limit = parsed
	}

	events, err := h.auditService.ListMemoAuditEvents(c.Request.Context(), actor, c.Param("id"), limit)
	if err != nil {
		if errors.Is(err, apperrors.ErrForbidden) {
			c.JSON(http.StatusForbidden, ErrorResponse{Error: "Forbidden"})
			return
		}
		logger.Error("Failed to list audit events", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list audit events"})
		return
	}

	c.JSON(http.StatusOK, events)
}

// respondMemoError maps memo service errors onto HTTP status codes.
func (h *memoHandler) respondMemoError(c *gin.Context, logger *slog.Logger, err error, fallback string) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Memo not found"})
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "Forbidden"})
	case errors.Is(err, apperrors.ErrStateConflict):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "Operation not permitted in the memo's current status"})
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	default:
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: fallback})
	}
}
