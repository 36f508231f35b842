package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	down := errors.New("connection refused")

	r.Register("store", NewChecker("redis", func(ctx context.Context) error { return nil }))
	r.Register("export", NewChecker("pdf", func(ctx context.Context) error { return down }))

	assert.Equal(t, []string{"export", "store"}, r.List())
	require.NotNil(t, r.Get("store"))
	assert.Equal(t, "redis", r.Get("store").Type())

	results := r.HealthCheckAll(context.Background())
	assert.NoError(t, results["store"])
	assert.ErrorIs(t, results["export"], down)

	r.Unregister("export")
	assert.Nil(t, r.Get("export"))
	assert.Len(t, r.HealthCheckAll(context.Background()), 1)
}
