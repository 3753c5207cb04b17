package middleware

import (
	"log/slog"
	"strings"
	"time"

	"basegraph.app/assign/common/id"
	"basegraph.app/assign/common/logger"
	"github.com/gin-gonic/gin"
)

const (
	editSessionRoutePrefix = "/api/v1/edit-sessions/:id"
	workspaceRoutePrefix   = "/api/v1/workspaces/:id"
)

// Logger tags the request context with the session, workspace and content
// type named in the route, then writes one line per request. Handlers and
// services below inherit the same fields.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		route := c.FullPath()

		ctx := logger.WithLogFields(c.Request.Context(), routeLogFields(c, route))
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		// RequireUser may have replaced the request context with one carrying the user.
		ctx = c.Request.Context()
		status := c.Writer.Status()

		attrs := []any{
			"method", c.Request.Method,
			"route", route,
			"status", status,
			"latency_ms", time.Since(start).Milliseconds(),
		}
		if route == "" {
			attrs = append(attrs, "path", c.Request.URL.Path)
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, "errors", c.Errors.String())
		}

		switch {
		case status >= 500:
			slog.ErrorContext(ctx, "request failed", attrs...)
		case status >= 400:
			slog.WarnContext(ctx, "request rejected", attrs...)
		case route == "/health":
			slog.DebugContext(ctx, "health check", attrs...)
		default:
			slog.InfoContext(ctx, "request served", attrs...)
		}
	}
}

func routeLogFields(c *gin.Context, route string) logger.LogFields {
	fields := logger.LogFields{Component: "assign.http"}

	// Malformed ids are left for the handler to reject.
	switch {
	case strings.HasPrefix(route, editSessionRoutePrefix):
		if sessionID, err := id.Parse(c.Param("id")); err == nil {
			fields.SessionID = &sessionID
		}
	case strings.HasPrefix(route, workspaceRoutePrefix):
		if workspaceID, err := id.Parse(c.Param("id")); err == nil {
			fields.WorkspaceID = &workspaceID
		}
	}
	if ct := c.Param("type"); ct != "" {
		fields.ContentType = &ct
	}
	return fields
}
