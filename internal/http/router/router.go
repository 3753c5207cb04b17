package router

import (
	"net/http"

	"basegraph.app/assign/internal/http/handler"
	"basegraph.app/assign/internal/http/middleware"
	"basegraph.app/assign/internal/service"
	"github.com/gin-gonic/gin"
)

type RouterConfig struct {
	APIKey string
}

func SetupRoutes(router *gin.Engine, services *service.Services, cfg RouterConfig) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")
	v1.Use(middleware.RequireAPIKey(cfg.APIKey))
	{
		itemHandler := handler.NewItemHandler(services.Items())
		ContentTypeRouter(v1.Group("/content-types"), itemHandler)

		authed := v1.Group("")
		authed.Use(middleware.RequireUser())

		editorHandler := handler.NewEditorHandler(services.Editor())
		EditSessionRouter(authed.Group("/edit-sessions"), editorHandler)

		WorkspaceRouter(authed.Group("/workspaces"), itemHandler)
	}
}
