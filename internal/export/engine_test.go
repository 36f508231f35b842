package export

import (
	"bytes"
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngineExportCoreFonts(t *testing.T) {
	e := NewEngine(EngineConfig{Signature: "Studio  ·  555-0100"})
	require.NoError(t, e.Init())

	now := time.Date(2024, 3, 5, 9, 30, 0, 0, time.UTC)
	doc, err := e.Export(context.Background(), sampleForm(), now)
	require.NoError(t, err)

	assert.Equal(t, ContentType, doc.ContentType)
	assert.Equal(t, now, doc.GeneratedAt)
	assert.True(t, bytes.HasPrefix(doc.Bytes, []byte("%PDF-")))
}

func TestEngineInitFailureIsCached(t *testing.T) {
	calls := 0
	e := NewEngine(EngineConfig{FontDir: "/nonexistent"})
	e.readFile = func(string) ([]byte, error) {
		calls++
		return nil, os.ErrNotExist
	}

	for i := 0; i < 3; i++ {
		_, err := e.Export(context.Background(), sampleForm(), time.Now())
		assert.ErrorIs(t, err, ErrEngineUnavailable)
	}
	assert.Equal(t, 1, calls)
	assert.ErrorIs(t, e.Init(), ErrEngineUnavailable)
}

func TestEngineBadLogoStillExports(t *testing.T) {
	e := NewEngine(EngineConfig{LogoPath: "logo.png"})
	e.readFile = func(path string) ([]byte, error) {
		return []byte("definitely not a png"), nil
	}

	doc, err := e.Export(context.Background(), sampleForm(), time.Now())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(doc.Bytes, []byte("%PDF-")))
}

func TestEngineMissingLogoStillExports(t *testing.T) {
	e := NewEngine(EngineConfig{LogoPath: "logo.png"})
	e.readFile = func(path string) ([]byte, error) {
		return nil, errors.New("no such file")
	}

	_, err := e.Export(context.Background(), sampleForm(), time.Now())
	assert.NoError(t, err)
}

func TestEngineHonoursCancelledContext(t *testing.T) {
	e := NewEngine(EngineConfig{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Export(ctx, sampleForm(), time.Now())
	assert.ErrorIs(t, err, context.Canceled)
}
