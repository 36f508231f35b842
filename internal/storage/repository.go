package storage

import (
	"context"
	"errors"
	"time"

	"github.com/terra-clan/closet-profile/internal/models"
)

// ErrNotFound is returned by writes that target a missing session.
// Reads return nil, nil instead.
var ErrNotFound = errors.New("session not found")

// Repository defines the interface for session persistence
type Repository interface {
	// Sessions
	CreateSession(ctx context.Context, s *models.Session) error
	GetSession(ctx context.Context, token string) (*models.Session, error)
	UpdateSession(ctx context.Context, s *models.Session) error
	DeleteSession(ctx context.Context, token string) error
	GetExpiredSessions(ctx context.Context) ([]*models.Session, error)

	// Export guard. Acquire returns false while another export holds the lock.
	AcquireExportLock(ctx context.Context, token string, ttl time.Duration) (bool, error)
	ReleaseExportLock(ctx context.Context, token string) error

	// Health
	Ping(ctx context.Context) error
	Close() error
}

// cloneSession deep-copies s so callers never share state with a store
func cloneSession(s *models.Session) *models.Session {
	c := *s
	if s.Form != nil {
		c.Form = s.Form.Clone()
	}
	if s.CompletedAt != nil {
		t := *s.CompletedAt
		c.CompletedAt = &t
	}
	return &c
}
