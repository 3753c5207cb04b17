package dto

import (
	"encoding/json"
	"strconv"
	"time"

	"basegraph.app/assign/internal/model"
	"basegraph.app/assign/internal/service"
)

// IDs travel as strings so JavaScript clients keep full precision.

type OpenEditSessionRequest struct {
	ContentType       string  `json:"content_type" binding:"required"`
	ItemID            string  `json:"item_id" binding:"required"`
	ActiveWorkspaceID *string `json:"active_workspace_id,omitempty"`
}

type ToggleWorkspaceRequest struct {
	WorkspaceID string `json:"workspace_id" binding:"required"`
}

type SetTypingRequest struct {
	Typing *bool `json:"typing" binding:"required"`
}

type SaveRequest struct {
	Fields json.RawMessage `json:"fields,omitempty"`
}

type KeyDownRequest struct {
	Key    string          `json:"key" binding:"required,max=32"`
	Shift  bool            `json:"shift"`
	Fields json.RawMessage `json:"fields,omitempty"`
}

type WorkspaceResponse struct {
	ID     int64  `json:"id,string"`
	Name   string `json:"name"`
	IsHome bool   `json:"is_home"`
}

type ItemResponse struct {
	ID          int64          `json:"id,string"`
	ContentType string         `json:"content_type"`
	WorkspaceID *string        `json:"workspace_id,omitempty"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Data        map[string]any `json:"data,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

type EditSessionResponse struct {
	ID                  int64               `json:"id,string"`
	ContentType         string              `json:"content_type"`
	Item                ItemResponse        `json:"item"`
	ActiveWorkspaceID   *string             `json:"active_workspace_id,omitempty"`
	ShowWorkspaces      bool                `json:"show_workspaces"`
	AvailableWorkspaces []WorkspaceResponse `json:"available_workspaces"`
	SelectedWorkspaces  []WorkspaceResponse `json:"selected_workspaces"`
	State               string              `json:"state"`
	Typing              bool                `json:"typing"`
	FormState           map[string]any      `json:"form_state,omitempty"`
	OpenedAt            time.Time           `json:"opened_at"`
}

type SaveResponse struct {
	Status  string               `json:"status"`
	Session *EditSessionResponse `json:"session,omitempty"`
	Item    *ItemResponse        `json:"item,omitempty"`
}

func formatID(id *int64) *string {
	if id == nil {
		return nil
	}
	s := strconv.FormatInt(*id, 10)
	return &s
}

func ToWorkspaceResponses(workspaces []model.Workspace) []WorkspaceResponse {
	out := make([]WorkspaceResponse, len(workspaces))
	for i, ws := range workspaces {
		out[i] = WorkspaceResponse{ID: ws.ID, Name: ws.Name, IsHome: ws.IsHome}
	}
	return out
}

func ToItemResponse(item *model.Item) *ItemResponse {
	return &ItemResponse{
		ID:          item.ID,
		ContentType: string(item.ContentType),
		WorkspaceID: formatID(item.WorkspaceID),
		Name:        item.Name,
		Description: item.Description,
		Data:        item.Data,
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
	}
}

func ToItemResponses(items []model.Item) []ItemResponse {
	out := make([]ItemResponse, len(items))
	for i := range items {
		out[i] = *ToItemResponse(&items[i])
	}
	return out
}

func ToEditSessionResponse(s *model.EditSession) *EditSessionResponse {
	return &EditSessionResponse{
		ID:                  s.ID,
		ContentType:         string(s.ContentType),
		Item:                *ToItemResponse(&s.Item),
		ActiveWorkspaceID:   formatID(s.ActiveWorkspaceID),
		ShowWorkspaces:      s.ShowWorkspaces,
		AvailableWorkspaces: ToWorkspaceResponses(s.Available),
		SelectedWorkspaces:  ToWorkspaceResponses(s.Selected),
		State:               string(s.State),
		Typing:              s.Typing,
		FormState:           s.FormState,
		OpenedAt:            s.OpenedAt,
	}
}

func ToSaveResponse(r *service.SaveResult) *SaveResponse {
	resp := &SaveResponse{Status: string(r.Status)}
	if r.Session != nil && r.Session.State != model.SessionStateClosed {
		resp.Session = ToEditSessionResponse(r.Session)
	}
	if r.Item != nil {
		resp.Item = ToItemResponse(r.Item)
	}
	return resp
}
