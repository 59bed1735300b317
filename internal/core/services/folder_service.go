package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ememohq/ememo_backend/internal/apperrors"
	"github.com/ememohq/ememo_backend/internal/core/domain"
	portsrepo "github.com/ememohq/ememo_backend/internal/core/ports/repositories"
	portssvc "github.com/ememohq/ememo_backend/internal/core/ports/services"
	"github.com/ememohq/ememo_backend/internal/dto"
	"github.com/google/uuid"
)

// folderService implements the FolderSvcFacade interface
type folderService struct {
	BaseService
	folderRepo portsrepo.FolderRepositoryFacade
	dashboard  portssvc.DashboardSvcFacade
}

// FolderServiceOption is a functional option for configuring the folder service
type FolderServiceOption func(*folderService)

// WithFolderDashboard makes folder mutations invalidate the owner's dashboard cache
func WithFolderDashboard(dashboard portssvc.DashboardSvcFacade) FolderServiceOption {
	return func(s *folderService) {
		s.dashboard = dashboard
	}
}

// NewFolderService creates a new folder service with the provided options
func NewFolderService(folderRepo portsrepo.FolderRepositoryFacade, options ...FolderServiceOption) portssvc.FolderSvcFacade {
	svc := &folderService{folderRepo: folderRepo}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure folderService implements the FolderSvcFacade interface
var _ portssvc.FolderSvcFacade = (*folderService)(nil)

func (s *folderService) invalidateDashboard(ctx context.Context, ownerID string) {
	if s.dashboard != nil {
		s.dashboard.InvalidateCounts(ctx, ownerID)
	}
}

// findOwnedFolder retrieves a folder and enforces ownership. A folder owned
// by someone else reads as not found, so folder ids never leak across users.
func (s *folderService) findOwnedFolder(ctx context.Context, ownerID, folderID string) (*domain.Folder, error) {
	folder, err := s.folderRepo.FindFolderByID(ctx, folderID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find folder by ID",
				slog.String("folder_id", folderID))
		}
		return nil, err
	}
	if folder.OwnerID != ownerID {
		return nil, apperrors.ErrNotFound
	}
	return folder, nil
}

// GetFolderByID retrieves a folder owned by ownerID.
func (s *folderService) GetFolderByID(ctx context.Context, ownerID string, folderID string) (*domain.Folder, error) {
	return s.findOwnedFolder(ctx, ownerID, folderID)
}

// ListFolders retrieves all folders owned by ownerID with live counts.
func (s *folderService) ListFolders(ctx context.Context, ownerID string) ([]domain.FolderWithCounts, error) {
	folders, err := s.folderRepo.ListFoldersWithCounts(ctx, ownerID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list folders",
			slog.String("owner_id", ownerID))
		return nil, err
	}
	if folders == nil {
		return []domain.FolderWithCounts{}, nil
	}
	return folders, nil
}

// GetFolderTree assembles the owner's folders into a forest of roots.
func (s *folderService) GetFolderTree(ctx context.Context, ownerID string) ([]*domain.FolderNode, error) {
	folders, err := s.ListFolders(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	roots, err := domain.BuildFolderTree(folders)
	if err != nil {
		s.LogError(ctx, err, "Folder forest contains a parent cycle",
			slog.String("owner_id", ownerID))
		return nil, err
	}
	return roots, nil
}

// CreateFolder creates a folder, optionally under a parent the owner holds.
func (s *folderService) CreateFolder(ctx context.Context, ownerID string, req dto.CreateFolderRequest) (*domain.Folder, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: folder name must not be blank", apperrors.ErrValidation)
	}

	parentID := ""
	if req.ParentFolderID != nil && *req.ParentFolderID != "" {
		parent, err := s.findOwnedFolder(ctx, ownerID, *req.ParentFolderID)
		if err != nil {
			return nil, err
		}
		parentID = parent.FolderID
	}

	now := time.Now()
	folder := domain.Folder{
		FolderID:       uuid.NewString(),
		OwnerID:        ownerID,
		Name:           name,
		ParentFolderID: parentID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     ownerID,
			LastUpdatedAt: now,
			LastUpdatedBy: ownerID,
		},
	}

	if err := s.folderRepo.SaveFolder(ctx, folder); err != nil {
		s.LogError(ctx, err, "Failed to save folder",
			slog.String("owner_id", ownerID),
			slog.String("folder_name", req.Name))
		return nil, err
	}

	s.invalidateDashboard(ctx, ownerID)
	s.LogInfo(ctx, "Folder created",
		slog.String("folder_id", folder.FolderID),
		slog.String("owner_id", ownerID))
	return &folder, nil
}

// RenameFolder renames a folder in place.
func (s *folderService) RenameFolder(ctx context.Context, ownerID string, folderID string, req dto.RenameFolderRequest) (*domain.Folder, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: folder name must not be blank", apperrors.ErrValidation)
	}

	folder, err := s.findOwnedFolder(ctx, ownerID, folderID)
	if err != nil {
		return nil, err
	}

	folder.Name = name
	folder.LastUpdatedAt = time.Now()
	folder.LastUpdatedBy = ownerID

	if err := s.folderRepo.UpdateFolder(ctx, *folder); err != nil {
		s.LogError(ctx, err, "Failed to rename folder",
			slog.String("folder_id", folderID))
		return nil, err
	}
	return folder, nil
}

// MoveFolder re-parents a folder. Moving a folder under itself or under one
// of its own descendants is rejected, so the forest stays acyclic.
func (s *folderService) MoveFolder(ctx context.Context, ownerID string, folderID string, req dto.MoveFolderRequest) (*domain.Folder, error) {
	folder, err := s.findOwnedFolder(ctx, ownerID, folderID)
	if err != nil {
		return nil, err
	}

	newParentID := ""
	if req.NewParentID != nil && *req.NewParentID != "" {
		parent, err := s.findOwnedFolder(ctx, ownerID, *req.NewParentID)
		if err != nil {
			return nil, err
		}

		all, err := s.folderRepo.ListFoldersByOwner(ctx, ownerID)
		if err != nil {
			s.LogError(ctx, err, "Failed to list folders for move check",
				slog.String("owner_id", ownerID))
			return nil, err
		}
		if domain.IsAncestor(folderID, parent.FolderID, all) {
			s.LogDebug(ctx, "Rejected folder move that would create a cycle",
				slog.String("folder_id", folderID),
				slog.String("new_parent_id", parent.FolderID))
			return nil, apperrors.ErrValidation
		}
		newParentID = parent.FolderID
	}

	folder.ParentFolderID = newParentID
	folder.LastUpdatedAt = time.Now()
	folder.LastUpdatedBy = ownerID

	if err := s.folderRepo.UpdateFolder(ctx, *folder); err != nil {
		s.LogError(ctx, err, "Failed to move folder",
			slog.String("folder_id", folderID))
		return nil, err
	}
	return folder, nil
}

// DeleteFolder deletes the folder and its whole subtree. Documents filed
// anywhere in the subtree are detached, never deleted.
func (s *folderService) DeleteFolder(ctx context.Context, ownerID string, folderID string) error {
	if _, err := s.findOwnedFolder(ctx, ownerID, folderID); err != nil {
		return err
	}

	all, err := s.folderRepo.ListFoldersByOwner(ctx, ownerID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list folders for cascade delete",
			slog.String("owner_id", ownerID))
		return err
	}

	folderIDs := append(domain.DescendantFolderIDs(folderID, all), folderID)
	if err := s.folderRepo.DeleteFolderTree(ctx, folderIDs); err != nil {
		s.LogError(ctx, err, "Failed to delete folder tree",
			slog.String("folder_id", folderID),
			slog.Int("folder_count", len(folderIDs)))
		return err
	}

	s.invalidateDashboard(ctx, ownerID)
	s.LogInfo(ctx, "Folder tree deleted",
		slog.String("folder_id", folderID),
		slog.String("owner_id", ownerID),
		slog.Int("folder_count", len(folderIDs)))
	return nil
}

// MoveDocument files the document into the target folder. A document lives in
// at most one folder, so any prior filing is replaced.
func (s *folderService) MoveDocument(ctx context.Context, ownerID string, req dto.MoveDocumentRequest) (*domain.FolderDocument, error) {
	if _, err := s.findOwnedFolder(ctx, ownerID, req.TargetFolderID); err != nil {
		return nil, err
	}

	assoc := domain.FolderDocument{
		DocumentID: req.DocumentID,
		FolderID:   req.TargetFolderID,
		AddedAt:    time.Now(),
		AddedBy:    ownerID,
	}

	if err := s.folderRepo.UpsertAssociation(ctx, assoc); err != nil {
		s.LogError(ctx, err, "Failed to file document",
			slog.String("document_id", req.DocumentID),
			slog.String("folder_id", req.TargetFolderID))
		return nil, err
	}

	s.invalidateDashboard(ctx, ownerID)
	s.LogInfo(ctx, "Document filed",
		slog.String("document_id", req.DocumentID),
		slog.String("folder_id", req.TargetFolderID))
	return &assoc, nil
}

// RemoveDocument detaches the document from whichever folder holds it.
func (s *folderService) RemoveDocument(ctx context.Context, ownerID string, documentID string) error {
	assoc, err := s.folderRepo.FindAssociationByDocumentID(ctx, documentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// Already unfiled.
			return nil
		}
		s.LogError(ctx, err, "Failed to find document association",
			slog.String("document_id", documentID))
		return err
	}

	// The holding folder must belong to the caller.
	if _, err := s.findOwnedFolder(ctx, ownerID, assoc.FolderID); err != nil {
		return err
	}

	if err := s.folderRepo.DeleteAssociation(ctx, documentID); err != nil {
		s.LogError(ctx, err, "Failed to detach document",
			slog.String("document_id", documentID))
		return err
	}

	s.invalidateDashboard(ctx, ownerID)
	return nil
}
