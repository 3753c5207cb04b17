package handler

import (
	"net/http"

	"basegraph.app/assign/common/id"
	"basegraph.app/assign/internal/http/dto"
	"basegraph.app/assign/internal/http/middleware"
	"basegraph.app/assign/internal/model"
	"basegraph.app/assign/internal/service"
	"github.com/gin-gonic/gin"
)

type ItemHandler struct {
	items service.ItemService
}

func NewItemHandler(items service.ItemService) *ItemHandler {
	return &ItemHandler{items: items}
}

// ListByWorkspace serves GET /workspaces/:id/items/:type.
func (h *ItemHandler) ListByWorkspace(c *gin.Context) {
	ctx := c.Request.Context()
	userID, _ := middleware.UserID(ctx)

	wsID, err := id.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid workspace id"})
		return
	}
	ct, err := model.ParseContentType(c.Param("type"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	items, err := h.items.ListByWorkspace(ctx, userID, wsID, ct)
	if err != nil {
		respondError(c, err, "failed to list items")
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": dto.ToItemResponses(items)})
}

// Schema serves the JSON schema the edit form renders for a content type.
func (h *ItemHandler) Schema(c *gin.Context) {
	ct, err := model.ParseContentType(c.Param("type"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	schema, err := model.FieldSchema(ct)
	if err != nil {
		respondError(c, err, "failed to build schema")
		return
	}

	c.JSON(http.StatusOK, schema)
}
