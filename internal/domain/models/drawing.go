package models

import (
	"encoding/json"
	"time"
)

type Drawing struct {
	ID        string          `json:"id" db:"id"`
	OwnerID   string          `json:"owner_id" db:"owner_id"`
	FolderID  *string         `json:"folder_id" db:"folder_id"` // NULL = root level
	Name      string          `json:"name" db:"name"`
	Content   json.RawMessage `json:"content,omitempty" db:"content"` // Opaque canvas payload; nil in list views
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt time.Time       `json:"updated_at" db:"updated_at"`
}

type CreateDrawingRequest struct {
	FolderID *string         `json:"folder_id,omitempty"`
	Name     string          `json:"name"`
	Content  json.RawMessage `json:"content,omitempty"`
}

// UpdateDrawingRequest supports partial updates - only provided fields change.
// FolderID carries move semantics: absent = stay, null = move to root.
type UpdateDrawingRequest struct {
	Name     *string         `json:"name,omitempty"`
	FolderID OptionalParent  `json:"-"`
	Content  json.RawMessage `json:"content,omitempty"`
}
