package cleanup

import (
	"context"
	"log/slog"
	"time"

	"github.com/terra-clan/closet-profile/internal/metrics"
	"github.com/terra-clan/closet-profile/internal/models"
)

// Sessions is the part of the session service the cleaner needs
type Sessions interface {
	GetExpired(ctx context.Context) ([]*models.Session, error)
	Delete(ctx context.Context, token string) error
}

// Cleaner handles periodic removal of expired sessions
type Cleaner struct {
	sessions Sessions
	interval time.Duration
}

// NewCleaner creates a new cleanup worker
func NewCleaner(sessions Sessions, interval time.Duration) *Cleaner {
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	return &Cleaner{
		sessions: sessions,
		interval: interval,
	}
}

// Start begins the cleanup worker in a goroutine
func (c *Cleaner) Start(ctx context.Context) {
	go c.run(ctx)
}

// run is the main loop for the cleanup worker
func (c *Cleaner) run(ctx context.Context) {
	slog.Info("cleanup worker started", "interval", c.interval)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	// Run immediately on start
	c.cleanup(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info("cleanup worker stopped")
			return
		case <-ticker.C:
			c.cleanup(ctx)
		}
	}
}

// cleanup finds and removes expired sessions, returning how many were deleted
func (c *Cleaner) cleanup(ctx context.Context) int {
	slog.Debug("running cleanup cycle")

	expired, err := c.sessions.GetExpired(ctx)
	if err != nil {
		slog.Error("failed to get expired sessions", "error", err)
		return 0
	}

	if len(expired) == 0 {
		slog.Debug("no expired sessions found")
		return 0
	}

	slog.Info("found expired sessions", "count", len(expired))

	deleted := 0
	for _, s := range expired {
		if err := c.sessions.Delete(ctx, s.Token); err != nil {
			slog.Error("failed to delete expired session",
				"error", err,
				"id", s.ID,
			)
			continue
		}

		deleted++
		metrics.SessionsExpired.Inc()
		slog.Info("expired session deleted",
			"id", s.ID,
			"token", s.MaskedToken(),
			"status", s.Status,
			"expired_at", s.ExpiresAt,
		)
	}
	return deleted
}
