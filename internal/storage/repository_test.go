package storage

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terra-clan/closet-profile/internal/models"
)

func newTestSession(t *testing.T, ttl time.Duration) *models.Session {
	t.Helper()
	token, err := models.GenerateSessionToken()
	require.NoError(t, err)

	now := time.Now().UTC().Truncate(time.Millisecond)
	form := models.NewFormState()
	form.ToggleRanked("Shoes", 3)
	form.SetBalance(30)
	form.SetDual("pulls_handles", "Gold · Style 1")

	return &models.Session{
		ID:        uuid.New().String(),
		Token:     token,
		Status:    models.SessionInProgress,
		Form:      form,
		Nav:       models.NavigationState{Index: 2},
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// exerciseRepository runs the behaviour every store must share
func exerciseRepository(t *testing.T, repo Repository) {
	ctx := context.Background()
	require.NoError(t, repo.Ping(ctx))

	t.Run("missing session reads as nil", func(t *testing.T) {
		s, err := repo.GetSession(ctx, "does-not-exist")
		require.NoError(t, err)
		assert.Nil(t, s)
	})

	t.Run("create get update delete", func(t *testing.T) {
		s := newTestSession(t, time.Hour)
		require.NoError(t, repo.CreateSession(ctx, s))

		got, err := repo.GetSession(ctx, s.Token)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, s.ID, got.ID)
		assert.Equal(t, []string{"Shoes"}, got.Form.Ranked)
		assert.Equal(t, 30, got.Form.Balance)
		assert.Equal(t, "Gold · Style 1", got.Form.DualValue("pulls_handles"))
		assert.Equal(t, 2, got.Nav.Index)

		got.Form.SetBinary(models.BinaryYes)
		got.Status = models.SessionCompleted
		done := time.Now().UTC().Truncate(time.Millisecond)
		got.CompletedAt = &done
		require.NoError(t, repo.UpdateSession(ctx, got))

		again, err := repo.GetSession(ctx, s.Token)
		require.NoError(t, err)
		require.NotNil(t, again)
		assert.Equal(t, models.BinaryYes, again.Form.Binary)
		assert.True(t, again.IsCompleted())
		require.NotNil(t, again.CompletedAt)

		require.NoError(t, repo.DeleteSession(ctx, s.Token))
		gone, err := repo.GetSession(ctx, s.Token)
		require.NoError(t, err)
		assert.Nil(t, gone)

		assert.ErrorIs(t, repo.DeleteSession(ctx, s.Token), ErrNotFound)
		assert.ErrorIs(t, repo.UpdateSession(ctx, s), ErrNotFound)
	})

	t.Run("returned sessions are copies", func(t *testing.T) {
		s := newTestSession(t, time.Hour)
		require.NoError(t, repo.CreateSession(ctx, s))
		t.Cleanup(func() { _ = repo.DeleteSession(ctx, s.Token) })

		s.Form.ToggleRanked("Hamper", 3)

		got, err := repo.GetSession(ctx, s.Token)
		require.NoError(t, err)
		assert.Equal(t, []string{"Shoes"}, got.Form.Ranked)
	})

	t.Run("export lock is exclusive", func(t *testing.T) {
		s := newTestSession(t, time.Hour)
		require.NoError(t, repo.CreateSession(ctx, s))
		t.Cleanup(func() { _ = repo.DeleteSession(ctx, s.Token) })

		ok, err := repo.AcquireExportLock(ctx, s.Token, time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = repo.AcquireExportLock(ctx, s.Token, time.Minute)
		require.NoError(t, err)
		assert.False(t, ok)

		require.NoError(t, repo.ReleaseExportLock(ctx, s.Token))

		ok, err = repo.AcquireExportLock(ctx, s.Token, time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)
		require.NoError(t, repo.ReleaseExportLock(ctx, s.Token))
	})
}

func TestMemoryRepository(t *testing.T) {
	exerciseRepository(t, NewMemoryRepository())
}

func TestMemoryRepositoryExpiry(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	live := newTestSession(t, time.Hour)
	dead := newTestSession(t, -time.Minute)
	require.NoError(t, repo.CreateSession(ctx, live))
	require.NoError(t, repo.CreateSession(ctx, dead))

	expired, err := repo.GetExpiredSessions(ctx)
	require.NoError(t, err)
	require.Len(t, expired, 1)
	assert.Equal(t, dead.Token, expired[0].Token)
}

func TestMemoryRepositoryLockExpires(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	now := time.Now()
	repo.now = func() time.Time { return now }

	ok, err := repo.AcquireExportLock(ctx, "tok", time.Second)
	require.NoError(t, err)
	require.True(t, ok)

	now = now.Add(2 * time.Second)
	ok, err = repo.AcquireExportLock(ctx, "tok", time.Second)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisRepository(t *testing.T) {
	mr := miniredis.RunT(t)
	repo := NewRedisRepositoryFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { repo.Close() })

	exerciseRepository(t, repo)
}

func TestRedisRepositoryKeyTTL(t *testing.T) {
	mr := miniredis.RunT(t)
	repo := NewRedisRepositoryFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { repo.Close() })
	ctx := context.Background()

	s := newTestSession(t, 10*time.Minute)
	require.NoError(t, repo.CreateSession(ctx, s))

	ttl := mr.TTL(sessionKeyPrefix + s.Token)
	assert.Greater(t, ttl, 9*time.Minute)
	assert.LessOrEqual(t, ttl, 10*time.Minute)

	// Redis drops the key itself once the TTL passes
	mr.FastForward(11 * time.Minute)
	got, err := repo.GetSession(ctx, s.Token)
	require.NoError(t, err)
	assert.Nil(t, got)

	expired, err := repo.GetExpiredSessions(ctx)
	require.NoError(t, err)
	assert.Empty(t, expired)
}

func TestPostgresRepository(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN not set, skipping")
	}

	ctx := context.Background()
	repo, err := NewPostgresRepository(ctx, PostgresConfig{DSN: dsn})
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	require.NoError(t, RunMigrations(ctx, repo.Pool(), Migrations()))

	exerciseRepository(t, repo)
}
