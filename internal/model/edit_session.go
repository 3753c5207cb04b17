package model

import (
	"encoding/json"
	"time"
)

type SessionState string

const (
	SessionStateLoading SessionState = "loading"
	SessionStateReady   SessionState = "ready"
	SessionStateClosed  SessionState = "closed"
)

// EditSession is one open edit panel. Starting is the reconciliation baseline
// and never changes after the session is opened; Selected follows the user's
// workspace toggles. Available lists the workspaces the user may pick from.
type EditSession struct {
	ID                int64           `json:"id"`
	UserID            int64           `json:"user_id"`
	ContentType       ContentType     `json:"content_type"`
	Item              Item            `json:"item"`
	ActiveWorkspaceID *int64          `json:"active_workspace_id,omitempty"`
	ShowWorkspaces    bool            `json:"show_workspaces"`
	Available         []Workspace     `json:"available_workspaces,omitempty"`
	Starting          []Workspace     `json:"starting_workspaces"`
	Selected          []Workspace     `json:"selected_workspaces"`
	State             SessionState    `json:"state"`
	Typing            bool            `json:"typing"`
	Pending           json.RawMessage `json:"pending,omitempty"`
	FormState         map[string]any  `json:"form_state,omitempty"`
	OpenedAt          time.Time       `json:"opened_at"`
	TouchedAt         time.Time       `json:"touched_at"`
}

// Clone returns a copy that shares no slices or maps with s.
func (s *EditSession) Clone() *EditSession {
	out := *s
	out.Available = append([]Workspace(nil), s.Available...)
	out.Starting = append([]Workspace(nil), s.Starting...)
	out.Selected = append([]Workspace(nil), s.Selected...)
	if s.Pending != nil {
		out.Pending = append(json.RawMessage(nil), s.Pending...)
	}
	if s.FormState != nil {
		out.FormState = make(map[string]any, len(s.FormState))
		for k, v := range s.FormState {
			out.FormState[k] = v
		}
	}
	if s.ActiveWorkspaceID != nil {
		active := *s.ActiveWorkspaceID
		out.ActiveWorkspaceID = &active
	}
	return &out
}
