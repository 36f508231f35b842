package storage

import (
	"context"
	"sync"
	"time"

	"github.com/terra-clan/closet-profile/internal/models"
)

// MemoryRepository implements Repository in process memory
type MemoryRepository struct {
	mu       sync.RWMutex
	sessions map[string]*models.Session
	locks    map[string]time.Time
	now      func() time.Time
}

// NewMemoryRepository creates an empty in-memory repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		sessions: make(map[string]*models.Session),
		locks:    make(map[string]time.Time),
		now:      time.Now,
	}
}

// Ping always succeeds
func (r *MemoryRepository) Ping(ctx context.Context) error {
	return nil
}

// Close drops all sessions
func (r *MemoryRepository) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions = make(map[string]*models.Session)
	r.locks = make(map[string]time.Time)
	return nil
}

// CreateSession stores a copy of s
func (r *MemoryRepository) CreateSession(ctx context.Context, s *models.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.Token] = cloneSession(s)
	return nil
}

// GetSession returns a copy of the session, or nil when missing
func (r *MemoryRepository) GetSession(ctx context.Context, token string) (*models.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[token]
	if !ok {
		return nil, nil
	}
	return cloneSession(s), nil
}

// UpdateSession replaces a stored session
func (r *MemoryRepository) UpdateSession(ctx context.Context, s *models.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[s.Token]; !ok {
		return ErrNotFound
	}
	r.sessions[s.Token] = cloneSession(s)
	return nil
}

// DeleteSession removes a session and its export lock
func (r *MemoryRepository) DeleteSession(ctx context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[token]; !ok {
		return ErrNotFound
	}
	delete(r.sessions, token)
	delete(r.locks, token)
	return nil
}

// GetExpiredSessions returns sessions whose TTL has elapsed
func (r *MemoryRepository) GetExpiredSessions(ctx context.Context) ([]*models.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	now := r.now()
	var sessions []*models.Session
	for _, s := range r.sessions {
		if now.After(s.ExpiresAt) {
			sessions = append(sessions, cloneSession(s))
		}
	}
	return sessions, nil
}

// AcquireExportLock takes the lock unless an unexpired one is held
func (r *MemoryRepository) AcquireExportLock(ctx context.Context, token string, ttl time.Duration) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if until, ok := r.locks[token]; ok && now.Before(until) {
		return false, nil
	}
	r.locks[token] = now.Add(ttl)
	return true, nil
}

// ReleaseExportLock drops the lock
func (r *MemoryRepository) ReleaseExportLock(ctx context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.locks, token)
	return nil
}
