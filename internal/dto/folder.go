package dto

import (
	"time"

	"github.com/ememohq/ememo_backend/internal/core/domain"
)

// CreateFolderRequest defines the data needed to create a new folder.
type CreateFolderRequest struct {
	Name           string  `json:"name" binding:"required"`
	ParentFolderID *string `json:"parentFolderID"` // Optional, use pointer for nullability
}

// RenameFolderRequest defines the data allowed for renaming a folder.
type RenameFolderRequest struct {
	Name string `json:"name" binding:"required"`
}

// MoveFolderRequest re-parents a folder. A nil NewParentID moves it to the root.
type MoveFolderRequest struct {
	NewParentID *string `json:"newParentID"`
}

// MoveDocumentRequest files a document into a folder, replacing any prior filing.
type MoveDocumentRequest struct {
	DocumentID     string `json:"documentID" binding:"required"`
	TargetFolderID string `json:"targetFolderID" binding:"required"`
}

// FolderResponse defines the data returned for a folder.
type FolderResponse struct {
	FolderID       string    `json:"folderID"`
	OwnerID        string    `json:"ownerID"`
	Name           string    `json:"name"`
	ParentFolderID string    `json:"parentFolderID"` // Empty string if root
	DocumentCount  int       `json:"documentCount"`
	SubfolderCount int       `json:"subfolderCount"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// FolderTreeNode is a FolderResponse with resolved children.
type FolderTreeNode struct {
	FolderResponse
	Children []FolderTreeNode `json:"children"`
}

// AssociationResponse describes where a document is currently filed.
type AssociationResponse struct {
	DocumentID string    `json:"documentID"`
	FolderID   string    `json:"folderID"`
	AddedAt    time.Time `json:"addedAt"`
	AddedBy    string    `json:"addedBy"`
}

// ListFoldersResponse wraps the flat folder listing.
type ListFoldersResponse struct {
	Folders []FolderResponse `json:"folders"`
}

// FolderTreeResponse wraps the assembled folder forest.
type FolderTreeResponse struct {
	Roots []FolderTreeNode `json:"roots"`
}

// ToFolderResponse converts a domain.FolderWithCounts to FolderResponse.
func ToFolderResponse(f *domain.FolderWithCounts) FolderResponse {
	return FolderResponse{
		FolderID:       f.FolderID,
		OwnerID:        f.OwnerID,
		Name:           f.Name,
		ParentFolderID: f.ParentFolderID,
		DocumentCount:  f.DocumentCount,
		SubfolderCount: f.SubfolderCount,
		CreatedAt:      f.CreatedAt,
		UpdatedAt:      f.LastUpdatedAt,
	}
}

// ToListFoldersResponse converts a slice of domain.FolderWithCounts.
func ToListFoldersResponse(folders []domain.FolderWithCounts) ListFoldersResponse {
	res := make([]FolderResponse, len(folders))
	for i := range folders {
		res[i] = ToFolderResponse(&folders[i])
	}
	return ListFoldersResponse{Folders: res}
}

// ToFolderTreeNode converts a domain.FolderNode subtree.
func ToFolderTreeNode(n *domain.FolderNode) FolderTreeNode {
	node := FolderTreeNode{
		FolderResponse: ToFolderResponse(&n.FolderWithCounts),
		Children:       make([]FolderTreeNode, len(n.Children)),
	}
	for i, child := range n.Children {
		node.Children[i] = ToFolderTreeNode(child)
	}
	return node
}

// ToFolderTreeResponse converts the forest returned by domain.BuildFolderTree.
func ToFolderTreeResponse(roots []*domain.FolderNode) FolderTreeResponse {
	res := FolderTreeResponse{Roots: make([]FolderTreeNode, len(roots))}
	for i, root := range roots {
		res.Roots[i] = ToFolderTreeNode(root)
	}
	return res
}

// ToAssociationResponse converts a domain.FolderDocument.
func ToAssociationResponse(a *domain.FolderDocument) AssociationResponse {
	return AssociationResponse{
		DocumentID: a.DocumentID,
		FolderID:   a.FolderID,
		AddedAt:    a.AddedAt,
		AddedBy:    a.AddedBy,
	}
}
