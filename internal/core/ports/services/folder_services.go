package services

import (
	"context"

	"github.com/ememohq/ememo_backend/internal/core/domain"
	"github.com/ememohq/ememo_backend/internal/dto"
)

// FolderReaderSvc defines read operations over a user's folder forest.
type FolderReaderSvc interface {
	// GetFolderByID retrieves a folder owned by ownerID.
	GetFolderByID(ctx context.Context, ownerID string, folderID string) (*domain.Folder, error)

	// ListFolders retrieves all folders owned by ownerID, each annotated
	// with live-computed document and subfolder counts.
	ListFolders(ctx context.Context, ownerID string) ([]domain.FolderWithCounts, error)

	// GetFolderTree assembles the owner's folders into a forest of roots.
	GetFolderTree(ctx context.Context, ownerID string) ([]*domain.FolderNode, error)
}

// FolderWriterSvc defines write operations over a user's folder forest.
type FolderWriterSvc interface {
	// CreateFolder creates a folder, optionally under a parent the owner holds.
	CreateFolder(ctx context.Context, ownerID string, req dto.CreateFolderRequest) (*domain.Folder, error)

	// RenameFolder renames a folder in place.
	RenameFolder(ctx context.Context, ownerID string, folderID string, req dto.RenameFolderRequest) (*domain.Folder, error)

	// MoveFolder re-parents a folder; moves that would create a cycle are rejected.
	MoveFolder(ctx context.Context, ownerID string, folderID string, req dto.MoveFolderRequest) (*domain.Folder, error)

	// DeleteFolder deletes the folder and its whole subtree, detaching
	// filed documents.
	DeleteFolder(ctx context.Context, ownerID string, folderID string) error
}

// DocumentFilerSvc manages folder-document associations.
type DocumentFilerSvc interface {
	// MoveDocument files the document into the target folder, replacing any
	// existing filing.
	MoveDocument(ctx context.Context, ownerID string, req dto.MoveDocumentRequest) (*domain.FolderDocument, error)

	// RemoveDocument detaches the document from whichever folder holds it.
	RemoveDocument(ctx context.Context, ownerID string, documentID string) error
}

// FolderSvcFacade combines all folder-related service interfaces.
type FolderSvcFacade interface {
	FolderReaderSvc
	FolderWriterSvc
	DocumentFilerSvc
}
