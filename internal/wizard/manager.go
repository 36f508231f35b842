package wizard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/terra-clan/closet-profile/internal/catalog"
	"github.com/terra-clan/closet-profile/internal/export"
	"github.com/terra-clan/closet-profile/internal/metrics"
	"github.com/terra-clan/closet-profile/internal/models"
	"github.com/terra-clan/closet-profile/internal/storage"
)

// Common errors
var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrSessionExpired   = errors.New("session has expired")
	ErrStepNotFound     = errors.New("step not found")
	ErrIncomplete       = errors.New("questionnaire is incomplete")
	ErrInvalidAction    = errors.New("invalid action")
	ErrExportInProgress = errors.New("export already in progress")
	ErrNotCompleted     = errors.New("session is not completed")
)

// Exporter renders answers into a document
type Exporter interface {
	Export(ctx context.Context, form *models.FormState, now time.Time) (*export.Document, error)
}

// Config holds session lifecycle settings
type Config struct {
	SessionTTL    time.Duration
	ExportLockTTL time.Duration
}

// Manager loads, mutates and saves sessions. All operations on one token are
// serialised, so a session behaves as if it had a single thread.
type Manager struct {
	cat      *catalog.Catalog
	repo     storage.Repository
	exporter Exporter
	cfg      Config
	locks    *keyedMutex
	now      func() time.Time
}

// NewManager creates a new Manager
func NewManager(cat *catalog.Catalog, repo storage.Repository, exporter Exporter, cfg Config) *Manager {
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 2 * time.Hour
	}
	if cfg.ExportLockTTL <= 0 {
		cfg.ExportLockTTL = 30 * time.Second
	}

	return &Manager{
		cat:      cat,
		repo:     repo,
		exporter: exporter,
		cfg:      cfg,
		locks:    newKeyedMutex(),
		now:      time.Now,
	}
}

// Catalog returns the flow sessions run through
func (m *Manager) Catalog() *catalog.Catalog {
	return m.cat
}

// Wizard binds sess to the manager's catalog
func (m *Manager) Wizard(sess *models.Session) *Wizard {
	return New(m.cat, sess)
}

// Ping checks the session store
func (m *Manager) Ping(ctx context.Context) error {
	if err := m.repo.Ping(ctx); err != nil {
		return fmt.Errorf("session store ping failed: %w", err)
	}
	return nil
}

// Create starts a new session on the first step
func (m *Manager) Create(ctx context.Context) (*models.Session, error) {
	token, err := models.GenerateSessionToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	now := m.now()
	sess := &models.Session{
		ID:        uuid.New().String(),
		Token:     token,
		Status:    models.SessionInProgress,
		Form:      m.cat.NewFormState(),
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(m.cfg.SessionTTL),
	}

	if err := m.repo.CreateSession(ctx, sess); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	metrics.SessionsCreated.Inc()
	slog.Info("session created",
		"id", sess.ID,
		"token", sess.MaskedToken(),
		"expires_at", sess.ExpiresAt,
	)

	return sess, nil
}

// Get loads a live session
func (m *Manager) Get(ctx context.Context, token string) (*models.Session, error) {
	sess, err := m.repo.GetSession(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	if sess == nil {
		return nil, ErrSessionNotFound
	}

	if sess.ExpiresAt.Before(m.now()) {
		return nil, ErrSessionExpired
	}

	// Repair state decoded from an older catalog
	New(m.cat, sess)
	return sess, nil
}

// Apply performs actions in order and saves the result. An invalid action
// discards the whole batch. ErrIncomplete from finish is returned together
// with the saved session, which now points at the first failing step.
func (m *Manager) Apply(ctx context.Context, token string, actions ...Action) (*models.Session, error) {
	unlock := m.locks.Lock(token)
	defer unlock()

	sess, err := m.Get(ctx, token)
	if err != nil {
		return nil, err
	}

	now := m.now()
	w := m.Wizard(sess)
	wasCompleted := sess.IsCompleted()

	var finishErr error
	for _, a := range actions {
		from := w.Current()
		err := w.Apply(a, now)
		if errors.Is(err, ErrIncomplete) {
			finishErr = err
			break
		}
		if err != nil {
			return nil, err
		}
		metrics.Actions.WithLabelValues(string(a.Kind)).Inc()
		if a.Kind == ActionAdvance && sess.Nav.ShowErrors {
			metrics.ValidationFailures.WithLabelValues(from.ID).Inc()
		}
	}

	sess.UpdatedAt = now
	sess.ExpiresAt = now.Add(m.cfg.SessionTTL)
	if err := m.repo.UpdateSession(ctx, sess); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	if !wasCompleted && sess.IsCompleted() {
		metrics.SessionsCompleted.Inc()
		slog.Info("session completed", "id", sess.ID, "token", sess.MaskedToken())
	}

	return sess, finishErr
}

// Delete removes a session
func (m *Manager) Delete(ctx context.Context, token string) error {
	unlock := m.locks.Lock(token)
	defer unlock()

	if err := m.repo.DeleteSession(ctx, token); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrSessionNotFound
		}
		return fmt.Errorf("failed to delete session: %w", err)
	}

	slog.Info("session deleted", "token", models.MaskToken(token))
	return nil
}

// Export renders the summary of a completed session. A second export of the
// same session while one is running fails with ErrExportInProgress.
func (m *Manager) Export(ctx context.Context, token string) (*export.Document, *models.Session, error) {
	sess, err := m.Get(ctx, token)
	if err != nil {
		return nil, nil, err
	}

	if !sess.IsCompleted() {
		return nil, nil, ErrNotCompleted
	}

	ok, err := m.repo.AcquireExportLock(ctx, token, m.cfg.ExportLockTTL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to lock export: %w", err)
	}
	if !ok {
		metrics.Exports.WithLabelValues("rejected").Inc()
		return nil, nil, ErrExportInProgress
	}
	defer func() {
		if err := m.repo.ReleaseExportLock(context.WithoutCancel(ctx), token); err != nil {
			slog.Warn("failed to release export lock", "error", err, "token", sess.MaskedToken())
		}
	}()

	start := time.Now()
	doc, err := m.exporter.Export(ctx, sess.Form, m.now())
	metrics.ExportDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.Exports.WithLabelValues("failed").Inc()
		slog.Error("summary export failed", "error", err, "token", sess.MaskedToken())
		return nil, nil, fmt.Errorf("failed to export summary: %w", err)
	}

	metrics.Exports.WithLabelValues("ok").Inc()
	slog.Info("summary exported", "token", sess.MaskedToken(), "bytes", len(doc.Bytes))

	return doc, sess, nil
}

// GetExpired returns sessions past their expiry
func (m *Manager) GetExpired(ctx context.Context) ([]*models.Session, error) {
	sessions, err := m.repo.GetExpiredSessions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get expired sessions: %w", err)
	}

	return sessions, nil
}

// Close releases the session store
func (m *Manager) Close() error {
	return m.repo.Close()
}

// keyedMutex hands out one mutex per key and forgets it when unused
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*refMutex
}

type refMutex struct {
	sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*refMutex)}
}

// Lock blocks until key is free and returns its unlock function
func (k *keyedMutex) Lock(key string) func() {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &refMutex{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()
		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
