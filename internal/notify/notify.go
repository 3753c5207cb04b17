// Package notify delivers the success and failure messages shown to the user
// after an edit.
package notify

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

type Notification struct {
	Level     Level
	Message   string
	UserID    int64
	SessionID int64
	CreatedAt time.Time
}

type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

type logNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier writes notifications to the structured log.
func NewLogNotifier(logger *slog.Logger) Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &logNotifier{logger: logger}
}

func (l *logNotifier) Notify(ctx context.Context, n Notification) error {
	level := slog.LevelInfo
	if n.Level == LevelError {
		level = slog.LevelWarn
	}
	l.logger.Log(ctx, level, "user notification",
		"level", n.Level,
		"message", n.Message,
		"user_id", n.UserID,
		"session_id", n.SessionID)
	return nil
}

type multiNotifier struct {
	notifiers []Notifier
}

// Multi sends every notification to all notifiers, returning the joined errors.
func Multi(notifiers ...Notifier) Notifier {
	return &multiNotifier{notifiers: notifiers}
}

func (m *multiNotifier) Notify(ctx context.Context, n Notification) error {
	var errs []error
	for _, notifier := range m.notifiers {
		if err := notifier.Notify(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
