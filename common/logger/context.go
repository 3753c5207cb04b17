package logger

import "context"

type contextKey string

const logFieldsKey contextKey = "log_fields"

// LogFields contains structured fields automatically added to all logs within a context.
// Handlers and services enrich the context once and every downstream log line
// carries the edit session, item and workspace it belongs to.
type LogFields struct {
	SessionID   *int64  // Edit session ID
	ItemID      *int64  // Item being edited
	WorkspaceID *int64  // Active workspace
	UserID      *int64  // Owner of the item
	ContentType *string // chats, prompts, files, tools, models
	Component   string  // e.g. "assign.service.editor"
}

// WithLogFields enriches context with structured log fields.
// Multiple calls merge fields, with newer non-nil/non-empty values taking precedence.
func WithLogFields(ctx context.Context, fields LogFields) context.Context {
	existing := GetLogFields(ctx)
	merged := mergeFields(existing, fields)
	return context.WithValue(ctx, logFieldsKey, merged)
}

// GetLogFields retrieves log fields from context.
// Returns empty LogFields if none are set.
func GetLogFields(ctx context.Context) LogFields {
	if fields, ok := ctx.Value(logFieldsKey).(LogFields); ok {
		return fields
	}
	return LogFields{}
}

func mergeFields(existing, new LogFields) LogFields {
	result := existing

	if new.SessionID != nil {
		result.SessionID = new.SessionID
	}
	if new.ItemID != nil {
		result.ItemID = new.ItemID
	}
	if new.WorkspaceID != nil {
		result.WorkspaceID = new.WorkspaceID
	}
	if new.UserID != nil {
		result.UserID = new.UserID
	}
	if new.ContentType != nil {
		result.ContentType = new.ContentType
	}
	if new.Component != "" {
		result.Component = new.Component
	}

	return result
}

// Ptr is a helper to create a pointer from a value.
// Useful for setting LogFields inline: logger.WithLogFields(ctx, logger.LogFields{ItemID: logger.Ptr(id)})
func Ptr[T any](v T) *T {
	return &v
}
