package model

import "time"

// Item is a chat, prompt, file, tool or model record. Entity-specific fields
// live in Data and are opaque to the editor.
type Item struct {
	ID          int64          `json:"id"`
	UserID      int64          `json:"user_id"`
	ContentType ContentType    `json:"content_type"`
	WorkspaceID *int64         `json:"workspace_id,omitempty"` // chats only
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Data        map[string]any `json:"data,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// ItemPatch holds pending field edits. Nil fields are left untouched and Data
// is merged key by key into the stored data.
type ItemPatch struct {
	Name        *string
	Description *string
	Data        map[string]any
}

func (p ItemPatch) IsEmpty() bool {
	return p.Name == nil && p.Description == nil && len(p.Data) == 0
}
