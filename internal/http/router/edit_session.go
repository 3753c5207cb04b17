package router

import (
	"basegraph.app/assign/internal/http/handler"
	"github.com/gin-gonic/gin"
)

func EditSessionRouter(rg *gin.RouterGroup, h *handler.EditorHandler) {
	rg.POST("", h.Open)
	rg.GET("/:id", h.Get)
	rg.DELETE("/:id", h.Cancel)
	rg.POST("/:id/workspaces/toggle", h.ToggleWorkspace)
	rg.PUT("/:id/typing", h.SetTyping)
	rg.POST("/:id/save", h.Save)
	rg.POST("/:id/keydown", h.KeyDown)
}
