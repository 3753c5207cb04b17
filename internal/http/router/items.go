package router

import (
	"basegraph.app/assign/internal/http/handler"
	"github.com/gin-gonic/gin"
)

// ContentTypeRouter serves form metadata and needs no acting user.
func ContentTypeRouter(rg *gin.RouterGroup, h *handler.ItemHandler) {
	rg.GET("/:type/schema", h.Schema)
}

func WorkspaceRouter(rg *gin.RouterGroup, h *handler.ItemHandler) {
	rg.GET("/:id/items/:type", h.ListByWorkspace)
}
