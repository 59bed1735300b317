package repositories

import (
	"context"

	"github.com/ememohq/ememo_backend/internal/core/domain"
)

// FolderReader defines read operations for folder data.
type FolderReader interface {
	// FindFolderByID retrieves a specific folder by its unique identifier.
	FindFolderByID(ctx context.Context, folderID string) (*domain.Folder, error)

	// ListFoldersByOwner retrieves every folder owned by ownerID.
	ListFoldersByOwner(ctx context.Context, ownerID string) ([]domain.Folder, error)

	// ListFoldersWithCounts retrieves every folder owned by ownerID, each
	// annotated with its live document and subfolder counts.
	ListFoldersWithCounts(ctx context.Context, ownerID string) ([]domain.FolderWithCounts, error)
}

// FolderWriter defines write operations for folder data.
type FolderWriter interface {
	// SaveFolder persists a new folder.
	SaveFolder(ctx context.Context, folder domain.Folder) error

	// UpdateFolder updates an existing folder's details.
	UpdateFolder(ctx context.Context, folder domain.Folder) error

	// DeleteFolderTree deletes the given folders and detaches (never
	// deletes) every document association pointing into them, as one
	// atomic unit.
	DeleteFolderTree(ctx context.Context, folderIDs []string) error
}

// AssociationRepository manages folder-document associations. A document has
// at most one active association; MoveDocument semantics are replace, not add.
type AssociationRepository interface {
	// FindAssociationByDocumentID retrieves the current association for a
	// document, or apperrors.ErrNotFound when the document is unfiled.
	FindAssociationByDocumentID(ctx context.Context, documentID string) (*domain.FolderDocument, error)

	// UpsertAssociation replaces any existing association for the document
	// with the given one.
	UpsertAssociation(ctx context.Context, assoc domain.FolderDocument) error

	// DeleteAssociation detaches the document from its folder. Deleting an
	// absent association is a no-op.
	DeleteAssociation(ctx context.Context, documentID string) error

	// ListAssociationsByFolder retrieves the associations filed directly in
	// a folder.
	ListAssociationsByFolder(ctx context.Context, folderID string) ([]domain.FolderDocument, error)
}

// FolderRepositoryFacade combines all folder-related repository interfaces.
type FolderRepositoryFacade interface {
	FolderReader
	FolderWriter
	AssociationRepository
}
