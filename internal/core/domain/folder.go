package domain

import (
	"time"

	"github.com/ememohq/ememo_backend/internal/apperrors"
)

// Folder is a user-private named container for organizing document
// references. Folders nest through ParentFolderID; an empty ParentFolderID
// marks a root folder.
type Folder struct {
	FolderID       string `json:"folderID"` // Primary Key (e.g., UUID)
	OwnerID        string `json:"ownerID"`  // FK -> users.user_id
	Name           string `json:"name"`
	ParentFolderID string `json:"parentFolderID"` // Nullable FK -> folders.folder_id (self-referencing)
	AuditFields
}

// FolderWithCounts is a Folder annotated with counts computed at read time.
// The counts are derived, never stored.
type FolderWithCounts struct {
	Folder
	DocumentCount  int `json:"documentCount"`
	SubfolderCount int `json:"subfolderCount"`
}

// FolderNode is a Folder with its resolved children, as produced by
// BuildFolderTree.
type FolderNode struct {
	FolderWithCounts
	Children []*FolderNode `json:"children"`
}

// FolderDocument links one document to the folder it currently resides in.
// A document lives in at most one folder at a time.
type FolderDocument struct {
	DocumentID string    `json:"documentID"`
	FolderID   string    `json:"folderID"`
	AddedAt    time.Time `json:"addedAt"`
	AddedBy    string    `json:"addedBy"` // UserID reference
}

// BuildFolderTree assembles a flat folder list into a forest of root nodes.
// It is a pure function: no store access, input order of siblings preserved.
//
// The assembly is O(n): an id->node index first, then a single pass hanging
// each node off its parent (or the root list). Folders referencing a parent
// that is not present in the input are promoted to roots rather than
// dropped. A parent cycle in the input, including a folder naming itself as
// parent, makes part of the forest unreachable from any root; that case
// returns apperrors.ErrIntegrity instead of recursing forever.
func BuildFolderTree(folders []FolderWithCounts) ([]*FolderNode, error) {
	index := make(map[string]*FolderNode, len(folders))
	for i := range folders {
		index[folders[i].FolderID] = &FolderNode{FolderWithCounts: folders[i]}
	}

	roots := make([]*FolderNode, 0)
	for i := range folders {
		node := index[folders[i].FolderID]
		parentID := folders[i].ParentFolderID
		if parentID == "" {
			roots = append(roots, node)
			continue
		}
		parent, ok := index[parentID]
		if !ok {
			roots = append(roots, node)
			continue
		}
		if parent == node {
			return nil, apperrors.ErrIntegrity
		}
		parent.Children = append(parent.Children, node)
	}

	// Every node must be reachable from a root; a shortfall means the
	// parent relation contains a cycle.
	reachable := 0
	stack := make([]*FolderNode, len(roots))
	copy(stack, roots)
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		reachable++
		stack = append(stack, node.Children...)
	}
	if reachable != len(folders) {
		return nil, apperrors.ErrIntegrity
	}

	return roots, nil
}

// DescendantFolderIDs returns the ids of every folder in the subtree rooted
// at rootID (rootID excluded), computed over a full per-owner forest scan.
// Traversal is breadth-first over a parent index, so a stored cycle cannot
// cause unbounded recursion: each folder is visited at most once.
func DescendantFolderIDs(rootID string, folders []Folder) []string {
	children := make(map[string][]string, len(folders))
	for i := range folders {
		if folders[i].ParentFolderID != "" {
			children[folders[i].ParentFolderID] = append(children[folders[i].ParentFolderID], folders[i].FolderID)
		}
	}

	var out []string
	seen := map[string]bool{rootID: true}
	queue := append([]string(nil), children[rootID]...)
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
		queue = append(queue, children[id]...)
	}
	return out
}

// IsAncestor reports whether candidateID is rootID itself or one of its
// descendants, used to reject folder moves that would create a cycle.
func IsAncestor(rootID, candidateID string, folders []Folder) bool {
	if rootID == candidateID {
		return true
	}
	for _, id := range DescendantFolderIDs(rootID, folders) {
		if id == candidateID {
			return true
		}
	}
	return false
}
