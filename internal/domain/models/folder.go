package models

import (
	"time"
)

type Folder struct {
	ID        string    `json:"id" db:"id"`
	OwnerID   string    `json:"owner_id" db:"owner_id"`
	ParentID  *string   `json:"parent_id" db:"parent_id"` // NULL = root level
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type CreateFolderRequest struct {
	ParentID *string `json:"parent_id,omitempty"`
	Name     string  `json:"name"`
}

// OptionalParent tracks tri-state semantics for parent reassignment (RFC 7396 PATCH).
// Transport-agnostic (no JSON tags) - handler maps from httputil.OptionalString.
//   - Present=false: field absent from request (don't move)
//   - Present=true, Value=nil: move to root
//   - Present=true, Value=&id: move under that folder
type OptionalParent struct {
	Present bool
	Value   *string
}

// UpdateFolderRequest supports partial updates - only provided fields change.
type UpdateFolderRequest struct {
	Name     *string        `json:"name,omitempty"`
	ParentID OptionalParent `json:"-"`
}

// PathSegment is one breadcrumb step on the walk from root to a folder.
type PathSegment struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// FolderDetail is a folder together with its breadcrumb path (root first).
type FolderDetail struct {
	Folder
	Path []PathSegment `json:"path"`
}

// FolderContents holds the immediate children of a folder (or of the root
// when Folder is nil).
type FolderContents struct {
	Folder   *Folder   `json:"folder,omitempty"`
	Folders  []Folder  `json:"folders"`
	Drawings []Drawing `json:"drawings"`
}
