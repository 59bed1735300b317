package models

import "time"

// Folder is the database representation of a folder row.
type Folder struct {
	FolderID       string `db:"folder_id"`
	OwnerID        string `db:"owner_id"`
	Name           string `db:"name"`
	ParentFolderID string `db:"parent_folder_id"` // empty when root (NULL column)
	AuditFields
}

// FolderDocument is the database representation of a folder-document
// association row. document_id carries a unique constraint, which is what
// enforces the at-most-one-filing invariant at the store.
type FolderDocument struct {
	DocumentID string    `db:"document_id"`
	FolderID   string    `db:"folder_id"`
	AddedAt    time.Time `db:"added_at"`
	AddedBy    string    `db:"added_by"`
}
