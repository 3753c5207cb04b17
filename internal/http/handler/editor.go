package handler

import (
	"log/slog"
	"net/http"

	"basegraph.app/assign/common/id"
	"basegraph.app/assign/internal/http/dto"
	"basegraph.app/assign/internal/http/middleware"
	"basegraph.app/assign/internal/model"
	"basegraph.app/assign/internal/service"
	"github.com/gin-gonic/gin"
)

type EditorHandler struct {
	editor service.EditorService
}

func NewEditorHandler(editor service.EditorService) *EditorHandler {
	return &EditorHandler{editor: editor}
}

func (h *EditorHandler) Open(c *gin.Context) {
	ctx := c.Request.Context()
	userID, _ := middleware.UserID(ctx)

	var req dto.OpenEditSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ct, err := model.ParseContentType(req.ContentType)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	itemID, err := id.Parse(req.ItemID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item_id"})
		return
	}

	params := service.OpenParams{UserID: userID, ContentType: ct, ItemID: itemID}
	if req.ActiveWorkspaceID != nil {
		wsID, err := id.Parse(*req.ActiveWorkspaceID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid active_workspace_id"})
			return
		}
		params.ActiveWorkspaceID = &wsID
	}

	session, err := h.editor.Open(ctx, params)
	if err != nil {
		respondError(c, err, "failed to open edit session")
		return
	}

	c.JSON(http.StatusCreated, dto.ToEditSessionResponse(session))
}

func (h *EditorHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()
	userID, _ := middleware.UserID(ctx)

	sessionID, ok := sessionIDParam(c)
	if !ok {
		return
	}

	session, err := h.editor.Get(ctx, userID, sessionID)
	if err != nil {
		respondError(c, err, "failed to get edit session")
		return
	}

	c.JSON(http.StatusOK, dto.ToEditSessionResponse(session))
}

func (h *EditorHandler) ToggleWorkspace(c *gin.Context) {
	ctx := c.Request.Context()
	userID, _ := middleware.UserID(ctx)

	sessionID, ok := sessionIDParam(c)
	if !ok {
		return
	}

	var req dto.ToggleWorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	wsID, err := id.Parse(req.WorkspaceID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid workspace_id"})
		return
	}

	session, err := h.editor.ToggleWorkspace(ctx, userID, sessionID, wsID)
	if err != nil {
		respondError(c, err, "failed to toggle workspace")
		return
	}

	c.JSON(http.StatusOK, dto.ToEditSessionResponse(session))
}

func (h *EditorHandler) SetTyping(c *gin.Context) {
	ctx := c.Request.Context()
	userID, _ := middleware.UserID(ctx)

	sessionID, ok := sessionIDParam(c)
	if !ok {
		return
	}

	var req dto.SetTypingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.editor.SetTyping(ctx, userID, sessionID, *req.Typing)
	if err != nil {
		respondError(c, err, "failed to update typing state")
		return
	}

	c.JSON(http.StatusOK, dto.ToEditSessionResponse(session))
}

func (h *EditorHandler) Save(c *gin.Context) {
	ctx := c.Request.Context()
	userID, _ := middleware.UserID(ctx)

	sessionID, ok := sessionIDParam(c)
	if !ok {
		return
	}

	var req dto.SaveRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	result, err := h.editor.Save(ctx, userID, sessionID, req.Fields)
	if err != nil {
		respondError(c, err, "failed to save item")
		return
	}

	c.JSON(http.StatusOK, dto.ToSaveResponse(result))
}

func (h *EditorHandler) KeyDown(c *gin.Context) {
	ctx := c.Request.Context()
	userID, _ := middleware.UserID(ctx)

	sessionID, ok := sessionIDParam(c)
	if !ok {
		return
	}

	var req dto.KeyDownRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.editor.HandleKey(ctx, userID, sessionID, service.KeyEvent{Key: req.Key, Shift: req.Shift}, req.Fields)
	if err != nil {
		respondError(c, err, "failed to save item")
		return
	}

	c.JSON(http.StatusOK, dto.ToSaveResponse(result))
}

func (h *EditorHandler) Cancel(c *gin.Context) {
	ctx := c.Request.Context()
	userID, _ := middleware.UserID(ctx)

	sessionID, ok := sessionIDParam(c)
	if !ok {
		return
	}

	if err := h.editor.Cancel(ctx, userID, sessionID); err != nil {
		respondError(c, err, "failed to cancel edit session")
		return
	}

	c.Status(http.StatusNoContent)
}

func sessionIDParam(c *gin.Context) (int64, bool) {
	sessionID, err := id.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session id"})
		return 0, false
	}
	return sessionID, true
}
