package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/terra-clan/closet-profile/internal/models"
)

// PostgresRepository implements Repository using PostgreSQL
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// PostgresConfig holds PostgreSQL connection configuration
type PostgresConfig struct {
	DSN          string
	MaxOpenConns int32
	MaxIdleConns int32
	MaxLifetime  time.Duration
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(ctx context.Context, cfg PostgresConfig) (*PostgresRepository, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DSN: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		poolConfig.MaxConns = cfg.MaxOpenConns
	} else {
		poolConfig.MaxConns = 10
	}

	if cfg.MaxIdleConns > 0 {
		poolConfig.MinConns = cfg.MaxIdleConns
	} else {
		poolConfig.MinConns = 2
	}

	if cfg.MaxLifetime > 0 {
		poolConfig.MaxConnLifetime = cfg.MaxLifetime
	} else {
		poolConfig.MaxConnLifetime = 30 * time.Minute
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Test connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresRepository{pool: pool}, nil
}

// Pool exposes the connection pool for migrations
func (r *PostgresRepository) Pool() *pgxpool.Pool {
	return r.pool
}

// Ping checks database connectivity
func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// Close closes the database connection pool
func (r *PostgresRepository) Close() error {
	r.pool.Close()
	return nil
}

const (
	sessionColumns = `id, token, status, form, nav, created_at, updated_at, expires_at, completed_at`
	selectColumns  = `id::text, token, status, form, nav, created_at, updated_at, expires_at, completed_at`
)

// CreateSession creates a new session record
func (r *PostgresRepository) CreateSession(ctx context.Context, s *models.Session) error {
	formJSON, navJSON, err := marshalState(s)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO sessions (` + sessionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err = r.pool.Exec(ctx, query,
		s.ID,
		s.Token,
		string(s.Status),
		formJSON,
		navJSON,
		s.CreatedAt,
		s.UpdatedAt,
		s.ExpiresAt,
		nullTime(s.CompletedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	return nil
}

// GetSession retrieves a session by its token
func (r *PostgresRepository) GetSession(ctx context.Context, token string) (*models.Session, error) {
	query := `SELECT ` + selectColumns + ` FROM sessions WHERE token = $1`

	s, err := scanSession(r.pool.QueryRow(ctx, query, token))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return s, nil
}

// UpdateSession updates an existing session
func (r *PostgresRepository) UpdateSession(ctx context.Context, s *models.Session) error {
	formJSON, navJSON, err := marshalState(s)
	if err != nil {
		return err
	}

	query := `
		UPDATE sessions
		SET status = $2, form = $3, nav = $4, updated_at = $5, expires_at = $6, completed_at = $7
		WHERE token = $1
	`

	result, err := r.pool.Exec(ctx, query,
		s.Token,
		string(s.Status),
		formJSON,
		navJSON,
		s.UpdatedAt,
		s.ExpiresAt,
		nullTime(s.CompletedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// DeleteSession deletes a session; its export lock goes with it
func (r *PostgresRepository) DeleteSession(ctx context.Context, token string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE token = $1`, token)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// GetExpiredSessions returns sessions past their expiry
func (r *PostgresRepository) GetExpiredSessions(ctx context.Context) ([]*models.Session, error) {
	query := `
		SELECT ` + selectColumns + `
		FROM sessions
		WHERE expires_at < NOW()
		ORDER BY expires_at ASC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get expired sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*models.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, s)
	}

	return sessions, rows.Err()
}

// AcquireExportLock inserts the lock row, or takes over an expired one
func (r *PostgresRepository) AcquireExportLock(ctx context.Context, token string, ttl time.Duration) (bool, error) {
	query := `
		INSERT INTO export_locks (token, expires_at)
		VALUES ($1, $2)
		ON CONFLICT (token) DO UPDATE SET expires_at = EXCLUDED.expires_at
		WHERE export_locks.expires_at < NOW()
	`

	result, err := r.pool.Exec(ctx, query, token, time.Now().Add(ttl))
	if err != nil {
		return false, fmt.Errorf("failed to acquire export lock: %w", err)
	}

	return result.RowsAffected() == 1, nil
}

// ReleaseExportLock removes the lock row
func (r *PostgresRepository) ReleaseExportLock(ctx context.Context, token string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM export_locks WHERE token = $1`, token); err != nil {
		return fmt.Errorf("failed to release export lock: %w", err)
	}
	return nil
}

func marshalState(s *models.Session) ([]byte, []byte, error) {
	formJSON, err := json.Marshal(s.Form)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal form: %w", err)
	}

	navJSON, err := json.Marshal(s.Nav)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal nav: %w", err)
	}

	return formJSON, navJSON, nil
}

func scanSession(row pgx.Row) (*models.Session, error) {
	var s models.Session
	var statusStr string
	var completedAt sql.NullTime
	var formJSON, navJSON []byte

	err := row.Scan(
		&s.ID,
		&s.Token,
		&statusStr,
		&formJSON,
		&navJSON,
		&s.CreatedAt,
		&s.UpdatedAt,
		&s.ExpiresAt,
		&completedAt,
	)
	if err != nil {
		return nil, err
	}

	s.Status = models.SessionStatus(statusStr)
	if completedAt.Valid {
		s.CompletedAt = &completedAt.Time
	}

	if formJSON != nil {
		if err := json.Unmarshal(formJSON, &s.Form); err != nil {
			return nil, fmt.Errorf("failed to unmarshal form: %w", err)
		}
	}
	if navJSON != nil {
		if err := json.Unmarshal(navJSON, &s.Nav); err != nil {
			return nil, fmt.Errorf("failed to unmarshal nav: %w", err)
		}
	}

	return &s, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
