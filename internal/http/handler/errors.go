package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"basegraph.app/assign/internal/model"
	"basegraph.app/assign/internal/service"
	"github.com/gin-gonic/gin"
)

// respondError maps service errors to status codes. Anything unrecognised is
// logged and reported as a 500 with the given message.
func respondError(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, model.ErrInvalidFields),
		errors.Is(err, model.ErrUnknownContentType),
		errors.Is(err, service.ErrWorkspacesUnavailable):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, service.ErrItemNotFound),
		errors.Is(err, service.ErrWorkspaceNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrSessionClosed):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		slog.ErrorContext(c.Request.Context(), message, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": message})
	}
}
