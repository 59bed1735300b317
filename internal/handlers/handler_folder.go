package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/ememohq/ememo_backend/internal/apperrors"
	"github.com/ememohq/ememo_backend/internal/core/domain"
	portssvc "github.com/ememohq/ememo_backend/internal/core/ports/services"
	"github.com/ememohq/ememo_backend/internal/dto"
	"github.com/ememohq/ememo_backend/internal/middleware"

	"github.com/gin-gonic/gin"
)

// folderHandler handles HTTP requests related to folders and document filing.
type folderHandler struct {
	folderService portssvc.FolderSvcFacade
}

// newFolderHandler creates a new folderHandler.
func newFolderHandler(fs portssvc.FolderSvcFacade) *folderHandler {
	return &folderHandler{
		folderService: fs,
	}
}

// registerFolderRoutes registers all folder-related routes.
func registerFolderRoutes(rg *gin.RouterGroup, folderService portssvc.FolderSvcFacade) {
	h := newFolderHandler(folderService)

	folders := rg.Group("/folders")
	{
		folders.GET("", h.listFolders)
		folders.GET("/tree", h.getFolderTree)
		folders.POST("", h.createFolder)
		folders.PUT("/:id", h.renameFolder)
		folders.PUT("/:id/move", h.moveFolder)
		folders.DELETE("/:id", h.deleteFolder)
	}

	documents := rg.Group("/documents")
	{
		documents.PUT("/move", h.moveDocument)
		documents.DELETE("/:id/filing", h.removeDocument)
	}
}

// listFolders godoc
// @Summary List folders
// @Description Retrieves the caller's folders with document and subfolder counts
// @Tags folders
// @Produce  json
// @Success 200 {object} dto.ListFoldersResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /folders [get]
func (h *folderHandler) listFolders(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ownerID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	folders, err := h.folderService.ListFolders(c.Request.Context(), ownerID)
	if err != nil {
		logger.Error("Failed to list folders", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list folders"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListFoldersResponse(folders))
}

// getFolderTree godoc
// @Summary Get the folder tree
// @Description Retrieves the caller's folders assembled into a forest of roots
// @Tags folders
// @Produce  json
// @Success 200 {object} dto.FolderTreeResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse "Stored hierarchy is inconsistent"
// @Security BearerAuth
// @Router /folders/tree [get]
func (h *folderHandler) getFolderTree(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ownerID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	roots, err := h.folderService.GetFolderTree(c.Request.Context(), ownerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrIntegrity) {
			logger.Error("Folder hierarchy is inconsistent", slog.String("owner_id", ownerID))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Folder hierarchy is inconsistent"})
			return
		}
		logger.Error("Failed to build folder tree", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to build folder tree"})
		return
	}

	c.JSON(http.StatusOK, dto.ToFolderTreeResponse(roots))
}

// createFolder godoc
// @Summary Create a folder
// @Description Creates a folder, optionally nested under an existing one
// @Tags folders
// @Accept  json
// @Produce  json
// @Param   folder body dto.CreateFolderRequest true "Folder details"
// @Success 201 {object} dto.FolderResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Parent folder not found"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /folders [post]
func (h *folderHandler) createFolder(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ownerID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.CreateFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	folder, err := h.folderService.CreateFolder(c.Request.Context(), ownerID, req)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Parent folder not found"})
			return
		}
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		logger.Error("Failed to create folder", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to create folder"})
		return
	}

	c.JSON(http.StatusCreated, dto.ToFolderResponse(&domain.FolderWithCounts{Folder: *folder}))
}

// renameFolder godoc
// @Summary Rename a folder
// @Description Renames a folder in place
// @Tags folders
// @Accept  json
// @Produce  json
// @Param   id path string true "Folder ID"
// @Param   folder body dto.RenameFolderRequest true "New name"
// @Success 200 {object} dto.FolderResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /folders/{id} [put]
func (h *folderHandler) renameFolder(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ownerID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}
	folderID := c.Param("id")

	var req dto.RenameFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	folder, err := h.folderService.RenameFolder(c.Request.Context(), ownerID, folderID, req)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Folder not found"})
			return
		}
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		logger.Error("Failed to rename folder", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to rename folder"})
		return
	}

	c.JSON(http.StatusOK, dto.ToFolderResponse(&domain.FolderWithCounts{Folder: *folder}))
}

// moveFolder godoc
// @Summary Move a folder
// @Description Re-parents a folder; moves creating a cycle are rejected
// @Tags folders
// @Accept  json
// @Produce  json
// @Param   id path string true "Folder ID"
// @Param   move body dto.MoveFolderRequest true "New parent"
// @Success 200 {object} dto.FolderResponse
// @Failure 400 {object} ErrorResponse "Move would create a cycle"
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /folders/{id}/move [put]
func (h *folderHandler) moveFolder(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ownerID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}
	folderID := c.Param("id")

	var req dto.MoveFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	folder, err := h.folderService.MoveFolder(c.Request.Context(), ownerID, folderID, req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Folder not found"})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Move would place the folder inside its own subtree"})
		default:
			logger.Error("Failed to move folder", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to move folder"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToFolderResponse(&domain.FolderWithCounts{Folder: *folder}))
}

// deleteFolder godoc
// @Summary Delete a folder
// @Description Deletes the folder and its whole subtree; filed documents are detached, not deleted
// @Tags folders
// @Produce  json
// @Param   id path string true "Folder ID"
// @Success 204 "No Content"
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /folders/{id} [delete]
func (h *folderHandler) deleteFolder(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ownerID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}
	folderID := c.Param("id")

	if err := h.folderService.DeleteFolder(c.Request.Context(), ownerID, folderID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Folder not found"})
			return
		}
		logger.Error("Failed to delete folder", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to delete folder"})
		return
	}

	c.Status(http.StatusNoContent)
}

// moveDocument godoc
// @Summary File a document into a folder
// @Description Files the document into the target folder, replacing any prior filing
// @Tags documents
// @Accept  json
// @Produce  json
// @Param   move body dto.MoveDocumentRequest true "Document and target folder"
// @Success 200 {object} dto.AssociationResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Target folder not found"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /documents/move [put]
func (h *folderHandler) moveDocument(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ownerID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.MoveDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	assoc, err := h.folderService.MoveDocument(c.Request.Context(), ownerID, req)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Target folder not found"})
			return
		}
		logger.Error("Failed to file document", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to file document"})
		return
	}

	c.JSON(http.StatusOK, dto.ToAssociationResponse(assoc))
}

// removeDocument godoc
// @Summary Unfile a document
// @Description Detaches the document from whichever folder holds it
// @Tags documents
// @Produce  json
// @Param   id path string true "Document ID"
// @Success 204 "No Content"
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /documents/{id}/filing [delete]
func (h *folderHandler) removeDocument(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ownerID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}
	documentID := c.Param("id")

	if err := h.folderService.RemoveDocument(c.Request.Context(), ownerID, documentID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Folder not found"})
			return
		}
		logger.Error("Failed to unfile document", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to unfile document"})
		return
	}

	c.Status(http.StatusNoContent)
}
