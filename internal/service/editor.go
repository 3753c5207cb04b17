package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"basegraph.app/assign/common/id"
	"basegraph.app/assign/common/logger"
	"basegraph.app/assign/internal/assign"
	"basegraph.app/assign/internal/cache"
	"basegraph.app/assign/internal/model"
	"basegraph.app/assign/internal/notify"
	"basegraph.app/assign/internal/store"
)

var (
	ErrSessionNotFound       = errors.New("edit session not found")
	ErrSessionClosed         = errors.New("edit session is closed")
	ErrItemNotFound          = errors.New("item not found")
	ErrWorkspaceNotFound     = errors.New("workspace not found")
	ErrForbidden             = errors.New("item belongs to another user")
	ErrWorkspacesUnavailable = errors.New("workspace assignment is not available for this item")
)

// StoreProvider exposes the stores the editor needs. *store.Stores satisfies it.
type StoreProvider interface {
	Workspaces() store.WorkspaceStore
	Items(ct model.ContentType) (store.ItemStore, error)
	Associations(ct model.ContentType) (store.AssociationStore, bool)
}

type OpenParams struct {
	UserID            int64
	ContentType       model.ContentType
	ItemID            int64
	ActiveWorkspaceID *int64
}

type KeyEvent struct {
	Key   string
	Shift bool
}

type SaveStatus string

const (
	SaveStatusSaved      SaveStatus = "saved"
	SaveStatusSuppressed SaveStatus = "suppressed"
	SaveStatusIgnored    SaveStatus = "ignored"
)

type SaveResult struct {
	Status    SaveStatus
	Session   *model.EditSession
	Item      *model.Item
	Reconcile assign.Result
}

type EditorService interface {
	Open(ctx context.Context, params OpenParams) (*model.EditSession, error)
	Get(ctx context.Context, userID, sessionID int64) (*model.EditSession, error)
	ToggleWorkspace(ctx context.Context, userID, sessionID, workspaceID int64) (*model.EditSession, error)
	SetTyping(ctx context.Context, userID, sessionID int64, typing bool) (*model.EditSession, error)
	Save(ctx context.Context, userID, sessionID int64, fields json.RawMessage) (*SaveResult, error)
	HandleKey(ctx context.Context, userID, sessionID int64, key KeyEvent, fields json.RawMessage) (*SaveResult, error)
	Cancel(ctx context.Context, userID, sessionID int64) error
	// Sweep closes sessions untouched for longer than idle and returns how many it closed.
	Sweep(ctx context.Context, idle time.Duration) int
}

type EditorServiceConfig struct {
	Stores   StoreProvider
	Lists    cache.ItemLists
	Notifier notify.Notifier
	Aux      AuxLoaders
	Now      func() time.Time
}

type editorService struct {
	stores   StoreProvider
	lists    cache.ItemLists
	notifier notify.Notifier
	aux      AuxLoaders
	now      func() time.Time
	sessions *sessionRegistry
}

func NewEditorService(cfg EditorServiceConfig) EditorService {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	notifier := cfg.Notifier
	if notifier == nil {
		notifier = notify.NewLogNotifier(nil)
	}
	return &editorService{
		stores:   cfg.Stores,
		lists:    cfg.Lists,
		notifier: notifier,
		aux:      cfg.Aux,
		now:      now,
		sessions: newSessionRegistry(),
	}
}

func (s *editorService) Open(ctx context.Context, params OpenParams) (*model.EditSession, error) {
	if !params.ContentType.Valid() {
		return nil, fmt.Errorf("%w: %q", model.ErrUnknownContentType, params.ContentType)
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{
		ItemID:      &params.ItemID,
		UserID:      &params.UserID,
		WorkspaceID: params.ActiveWorkspaceID,
		ContentType: logger.Ptr(string(params.ContentType)),
		Component:   "assign.service.editor",
	})

	items, err := s.stores.Items(params.ContentType)
	if err != nil {
		return nil, err
	}

	item, err := items.GetByID(ctx, params.ItemID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("fetching %s: %w", params.ContentType.Singular(), err)
	}
	if item.UserID != params.UserID {
		return nil, ErrForbidden
	}

	if params.ActiveWorkspaceID != nil {
		active, err := s.stores.Workspaces().GetByID(ctx, *params.ActiveWorkspaceID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, ErrWorkspaceNotFound
			}
			return nil, fmt.Errorf("fetching active workspace: %w", err)
		}
		if active.UserID != params.UserID {
			return nil, ErrWorkspaceNotFound
		}
	}

	now := s.now()
	session := &model.EditSession{
		ID:                id.New(),
		UserID:            params.UserID,
		ContentType:       params.ContentType,
		Item:              *item,
		ActiveWorkspaceID: params.ActiveWorkspaceID,
		State:             model.SessionStateLoading,
		OpenedAt:          now,
		TouchedAt:         now,
	}
	ctx = logger.WithLogFields(ctx, logger.LogFields{SessionID: &session.ID})

	workspaces, err := s.stores.Workspaces().ListByUser(ctx, params.UserID)
	if err != nil {
		return nil, fmt.Errorf("listing workspaces: %w", err)
	}

	// With a single workspace there is nothing to assign.
	if len(workspaces) > 1 {
		if links, ok := s.stores.Associations(params.ContentType); ok {
			current, err := links.ListWorkspaces(ctx, item.ID)
			if err != nil {
				return nil, fmt.Errorf("fetching %s workspaces: %w", params.ContentType.Singular(), err)
			}
			session.ShowWorkspaces = true
			session.Available = workspaces
			session.Starting = current
			session.Selected = append([]model.Workspace(nil), current...)
		}
	}

	if loader, ok := s.aux[params.ContentType]; ok && loader != nil {
		formState, err := loader.Load(ctx, *item)
		if err != nil {
			return nil, fmt.Errorf("loading %s form data: %w", params.ContentType.Singular(), err)
		}
		session.FormState = formState
	}

	session.State = model.SessionStateReady
	s.sessions.put(session)

	slog.InfoContext(ctx, "edit session opened",
		"show_workspaces", session.ShowWorkspaces,
		"starting_workspaces", len(session.Starting))

	return session.Clone(), nil
}

func (s *editorService) Get(ctx context.Context, userID, sessionID int64) (*model.EditSession, error) {
	var out *model.EditSession
	err := s.withSession(userID, sessionID, false, func(session *model.EditSession) error {
		out = session.Clone()
		return nil
	})
	return out, err
}

func (s *editorService) ToggleWorkspace(ctx context.Context, userID, sessionID, workspaceID int64) (*model.EditSession, error) {
	var out *model.EditSession
	err := s.withSession(userID, sessionID, true, func(session *model.EditSession) error {
		if !session.ShowWorkspaces {
			return ErrWorkspacesUnavailable
		}

		var picked *model.Workspace
		for i := range session.Available {
			if session.Available[i].ID == workspaceID {
				picked = &session.Available[i]
				break
			}
		}
		if picked == nil {
			return ErrWorkspaceNotFound
		}

		if model.ContainsWorkspace(session.Selected, workspaceID) {
			selected := session.Selected[:0:0]
			for _, ws := range session.Selected {
				if ws.ID != workspaceID {
					selected = append(selected, ws)
				}
			}
			session.Selected = selected
		} else {
			session.Selected = append(session.Selected, *picked)
		}

		out = session.Clone()
		return nil
	})
	return out, err
}

func (s *editorService) SetTyping(ctx context.Context, userID, sessionID int64, typing bool) (*model.EditSession, error) {
	var out *model.EditSession
	err := s.withSession(userID, sessionID, true, func(session *model.EditSession) error {
		session.Typing = typing
		out = session.Clone()
		return nil
	})
	return out, err
}

func (s *editorService) HandleKey(ctx context.Context, userID, sessionID int64, key KeyEvent, fields json.RawMessage) (*SaveResult, error) {
	if key.Key != "Enter" || key.Shift {
		session, err := s.Get(ctx, userID, sessionID)
		if err != nil {
			return nil, err
		}
		return &SaveResult{Status: SaveStatusIgnored, Session: session}, nil
	}
	return s.Save(ctx, userID, sessionID, fields)
}

func (s *editorService) Save(ctx context.Context, userID, sessionID int64, fields json.RawMessage) (*SaveResult, error) {
	// A started save always runs to completion, even if the caller goes away.
	ctx = context.WithoutCancel(ctx)

	var result *SaveResult
	err := s.withSession(userID, sessionID, true, func(session *model.EditSession) error {
		if session.Typing {
			slog.DebugContext(ctx, "save suppressed while typing", "session_id", session.ID)
			result = &SaveResult{Status: SaveStatusSuppressed, Session: session.Clone()}
			return nil
		}

		var err error
		result, err = s.save(ctx, session, fields)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *editorService) save(ctx context.Context, session *model.EditSession, fields json.RawMessage) (*SaveResult, error) {
	ct := session.ContentType
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		SessionID:   &session.ID,
		ItemID:      &session.Item.ID,
		UserID:      &session.UserID,
		WorkspaceID: session.ActiveWorkspaceID,
		ContentType: logger.Ptr(string(ct)),
		Component:   "assign.service.editor",
	})

	raw := session.Pending
	if len(fields) > 0 {
		raw = fields
	}
	patch, err := model.DecodePatch(ct, raw)
	if err != nil {
		return nil, err
	}
	// Only edits that decode are kept for a retry.
	session.Pending = append(json.RawMessage(nil), raw...)

	sc := logger.StartSpan(ctx, "editor.save")
	defer sc.End()
	ctx = sc.Context()

	items, err := s.stores.Items(ct)
	if err != nil {
		return nil, err
	}

	updated, err := items.Update(ctx, session.Item.ID, patch)
	if err != nil {
		sc.RecordError(err)
		return nil, s.fail(ctx, session, err)
	}

	var reconciled assign.Result
	if links, ok := s.stores.Associations(ct); ok && session.ShowWorkspaces {
		reconciled, err = assign.Reconcile(ctx, assign.Params{
			Starting:          session.Starting,
			Selected:          session.Selected,
			ItemID:            session.Item.ID,
			ActiveWorkspaceID: session.ActiveWorkspaceID,
			Linker:            links,
			ForeignKey:        ct.ForeignKey(),
		})
		if err != nil {
			sc.RecordError(err)
			return nil, s.fail(ctx, session, err)
		}
	}

	s.updateLists(ctx, session, *updated, reconciled)

	session.Item = *updated
	session.State = model.SessionStateClosed
	s.sessions.remove(session.ID)

	s.notify(ctx, session, notify.LevelSuccess, fmt.Sprintf("%s updated successfully", ct.Singular()))

	slog.InfoContext(ctx, "item saved",
		"deleted_links", len(reconciled.Deleted),
		"created_links", len(reconciled.Created))

	return &SaveResult{
		Status:    SaveStatusSaved,
		Session:   session.Clone(),
		Item:      updated,
		Reconcile: reconciled,
	}, nil
}

// fail reports a failed save. The session stays open with its pending edits
// and workspace selection untouched so the user can retry.
func (s *editorService) fail(ctx context.Context, session *model.EditSession, err error) error {
	ct := session.ContentType
	slog.ErrorContext(ctx, "save failed", "error", err)
	s.notify(ctx, session, notify.LevelError, fmt.Sprintf("Error updating %s. %v", ct.Singular(), err))
	return fmt.Errorf("saving %s: %w", ct.Singular(), err)
}

// updateLists applies a finished save to the cached lists: the item leaves the
// lists of workspaces it was unlinked from, its fields are refreshed wherever
// it is still listed, and lists of newly linked workspaces are reloaded on
// next read. Cache failures are logged; the save itself already succeeded.
func (s *editorService) updateLists(ctx context.Context, session *model.EditSession, updated model.Item, reconciled assign.Result) {
	if s.lists == nil {
		return
	}
	ct := session.ContentType

	for _, wsID := range reconciled.Deleted {
		if err := s.lists.Mutate(ctx, wsID, ct, cache.RemoveItem(updated.ID)); err != nil {
			slog.WarnContext(ctx, "failed to drop item from cached list", "error", err, "list_workspace_id", wsID)
		}
	}

	for _, record := range reconciled.Created {
		if err := s.lists.Invalidate(ctx, record.WorkspaceID, ct); err != nil {
			slog.WarnContext(ctx, "failed to invalidate cached list", "error", err, "list_workspace_id", record.WorkspaceID)
		}
	}

	// Without a reconcile the item is still linked where it started.
	linked := session.Selected
	if reconciled.Skipped {
		linked = session.Starting
	}

	refresh := make(map[int64]bool)
	if session.ActiveWorkspaceID != nil {
		refresh[*session.ActiveWorkspaceID] = true
	}
	if updated.WorkspaceID != nil {
		refresh[*updated.WorkspaceID] = true
	}
	for _, ws := range linked {
		refresh[ws.ID] = true
	}
	for _, wsID := range reconciled.Deleted {
		delete(refresh, wsID)
	}
	for _, record := range reconciled.Created {
		delete(refresh, record.WorkspaceID)
	}

	for wsID := range refresh {
		if err := s.lists.Mutate(ctx, wsID, ct, cache.ReplaceItem(updated)); err != nil {
			slog.WarnContext(ctx, "failed to refresh cached list", "error", err, "list_workspace_id", wsID)
		}
	}
}

func (s *editorService) notify(ctx context.Context, session *model.EditSession, level notify.Level, message string) {
	if err := s.notifier.Notify(ctx, notify.Notification{
		Level:     level,
		Message:   message,
		UserID:    session.UserID,
		SessionID: session.ID,
		CreatedAt: s.now(),
	}); err != nil {
		slog.WarnContext(ctx, "failed to deliver notification", "error", err, "level", level)
	}
}

func (s *editorService) Cancel(ctx context.Context, userID, sessionID int64) error {
	return s.withSession(userID, sessionID, true, func(session *model.EditSession) error {
		session.State = model.SessionStateClosed
		s.sessions.remove(session.ID)
		slog.DebugContext(ctx, "edit session cancelled", "session_id", session.ID)
		return nil
	})
}

func (s *editorService) Sweep(ctx context.Context, idle time.Duration) int {
	cutoff := s.now().Add(-idle)
	closed := 0

	for _, entry := range s.sessions.snapshot() {
		entry.mu.Lock()
		if entry.session.State != model.SessionStateClosed && entry.idle(cutoff) {
			entry.session.State = model.SessionStateClosed
			s.sessions.remove(entry.session.ID)
			closed++
		}
		entry.mu.Unlock()
	}

	if closed > 0 {
		slog.InfoContext(ctx, "closed idle edit sessions", "count", closed, "open", s.sessions.len())
	}
	return closed
}

// withSession runs fn with the session locked. Sessions of other users look
// like missing sessions.
func (s *editorService) withSession(userID, sessionID int64, touch bool, fn func(session *model.EditSession) error) error {
	entry, ok := s.sessions.get(sessionID)
	if !ok {
		return ErrSessionNotFound
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if entry.session.UserID != userID {
		return ErrSessionNotFound
	}
	if entry.session.State == model.SessionStateClosed {
		return ErrSessionClosed
	}
	if touch {
		entry.session.TouchedAt = s.now()
	}
	return fn(entry.session)
}
