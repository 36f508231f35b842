package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/terra-clan/closet-profile/internal/models"
)

const (
	sessionKeyPrefix = "closet:session:"
	lockKeyPrefix    = "closet:export:"
)

// RedisRepository implements Repository on Redis.
// Session keys carry the session TTL, so Redis expires them on its own.
type RedisRepository struct {
	client *redis.Client
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisRepository connects to Redis and verifies the connection
func NewRedisRepository(ctx context.Context, cfg RedisConfig) (*RedisRepository, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisRepository{client: client}, nil
}

// NewRedisRepositoryFromClient wraps an existing client
func NewRedisRepositoryFromClient(client *redis.Client) *RedisRepository {
	return &RedisRepository{client: client}
}

// Ping checks Redis connectivity
func (r *RedisRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close closes the client
func (r *RedisRepository) Close() error {
	return r.client.Close()
}

// CreateSession stores s with a TTL matching its expiry
func (r *RedisRepository) CreateSession(ctx context.Context, s *models.Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	ok, err := r.client.SetNX(ctx, sessionKeyPrefix+s.Token, data, keyTTL(s)).Result()
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	if !ok {
		return fmt.Errorf("failed to create session: token already in use")
	}
	return nil
}

// GetSession loads a session, or nil when missing or expired
func (r *RedisRepository) GetSession(ctx context.Context, token string) (*models.Session, error) {
	data, err := r.client.Get(ctx, sessionKeyPrefix+token).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var s models.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &s, nil
}

// UpdateSession overwrites an existing session and refreshes its TTL
func (r *RedisRepository) UpdateSession(ctx context.Context, s *models.Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	ok, err := r.client.SetXX(ctx, sessionKeyPrefix+s.Token, data, keyTTL(s)).Result()
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

// DeleteSession removes the session and its export lock
func (r *RedisRepository) DeleteSession(ctx context.Context, token string) error {
	n, err := r.client.Del(ctx, sessionKeyPrefix+token, lockKeyPrefix+token).Result()
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// GetExpiredSessions is always empty: Redis evicts expired keys itself
func (r *RedisRepository) GetExpiredSessions(ctx context.Context) ([]*models.Session, error) {
	return nil, nil
}

// AcquireExportLock sets the lock key only if absent
func (r *RedisRepository) AcquireExportLock(ctx context.Context, token string, ttl time.Duration) (bool, error) {
	ok, err := r.client.SetNX(ctx, lockKeyPrefix+token, time.Now().UTC().Format(time.RFC3339Nano), ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire export lock: %w", err)
	}
	return ok, nil
}

// ReleaseExportLock deletes the lock key
func (r *RedisRepository) ReleaseExportLock(ctx context.Context, token string) error {
	if err := r.client.Del(ctx, lockKeyPrefix+token).Err(); err != nil {
		return fmt.Errorf("failed to release export lock: %w", err)
	}
	return nil
}

func keyTTL(s *models.Session) time.Duration {
	ttl := time.Until(s.ExpiresAt)
	if ttl < time.Second {
		ttl = time.Second
	}
	return ttl
}
