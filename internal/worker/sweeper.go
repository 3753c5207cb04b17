package worker

import (
	"context"
	"log/slog"
	"time"

	"basegraph.app/assign/common/logger"
)

// Sweeper is the part of the editor the session sweeper drives.
type Sweeper interface {
	Sweep(ctx context.Context, idle time.Duration) int
}

type SessionSweeperConfig struct {
	IdleTimeout time.Duration
	Interval    time.Duration
}

// SessionSweeper periodically closes edit sessions the user walked away from
// without saving or cancelling.
type SessionSweeper struct {
	sweeper Sweeper
	cfg     SessionSweeperConfig

	stopCh    chan struct{}
	stoppedCh chan struct{}
}

func NewSessionSweeper(sweeper Sweeper, cfg SessionSweeperConfig) *SessionSweeper {
	return &SessionSweeper{
		sweeper:   sweeper,
		cfg:       cfg,
		stopCh:    make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}
}

// Run starts the sweep loop. Blocks until Stop() is called or ctx is done.
func (s *SessionSweeper) Run(ctx context.Context) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		Component: "assign.worker.sweeper",
	})

	defer close(s.stoppedCh)

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	slog.InfoContext(ctx, "session sweeper started",
		"interval", s.cfg.Interval,
		"idle_timeout", s.cfg.IdleTimeout)

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopCh:
			slog.InfoContext(ctx, "session sweeper stopping")
			return
		case <-ticker.C:
			if closed := s.sweeper.Sweep(ctx, s.cfg.IdleTimeout); closed > 0 {
				slog.DebugContext(ctx, "sweep cycle finished", "closed", closed)
			}
		}
	}
}

// Stop signals the sweeper to stop and waits for the loop to exit.
func (s *SessionSweeper) Stop() {
	close(s.stopCh)
	<-s.stoppedCh
}
