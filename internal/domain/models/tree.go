package models

import "time"

// WorkspaceTree is the root of the folder/drawing tree.
type WorkspaceTree struct {
	Folders  []*FolderTreeNode `json:"folders"`
	Drawings []DrawingTreeNode `json:"drawings"`
}

// FolderTreeNode represents a folder in the tree with nested children
type FolderTreeNode struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	ParentID  *string           `json:"parent_id"`
	CreatedAt time.Time         `json:"created_at"`
	Folders   []*FolderTreeNode `json:"folders"` // Pointers for proper nesting
	Drawings  []DrawingTreeNode `json:"drawings"`
}

// DrawingTreeNode represents a drawing in the tree (metadata only, no content)
type DrawingTreeNode struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	FolderID  *string   `json:"folder_id"`
	UpdatedAt time.Time `json:"updated_at"`
}
