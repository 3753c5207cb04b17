package model

import "time"

type Workspace struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Name      string    `json:"name"`
	IsHome    bool      `json:"is_home"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// WorkspaceIDs returns the IDs of workspaces in order.
func WorkspaceIDs(workspaces []Workspace) []int64 {
	ids := make([]int64, len(workspaces))
	for i, ws := range workspaces {
		ids[i] = ws.ID
	}
	return ids
}

// ContainsWorkspace reports whether a workspace with the given ID is present.
func ContainsWorkspace(workspaces []Workspace, id int64) bool {
	for _, ws := range workspaces {
		if ws.ID == id {
			return true
		}
	}
	return false
}
