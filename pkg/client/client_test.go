package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terra-clan/closet-profile/internal/api"
	"github.com/terra-clan/closet-profile/internal/catalog"
	"github.com/terra-clan/closet-profile/internal/config"
	"github.com/terra-clan/closet-profile/internal/delivery"
	"github.com/terra-clan/closet-profile/internal/export"
	"github.com/terra-clan/closet-profile/internal/models"
	"github.com/terra-clan/closet-profile/internal/storage"
	"github.com/terra-clan/closet-profile/internal/wizard"
)

type stubExporter struct{}

func (stubExporter) Export(ctx context.Context, form *models.FormState, now time.Time) (*export.Document, error) {
	return &export.Document{Bytes: []byte("%PDF-1.3 stub"), ContentType: export.ContentType, GeneratedAt: now}, nil
}

func newTestClient(t *testing.T) *Client {
	t.Helper()
	manager := wizard.NewManager(catalog.Default(), storage.NewMemoryRepository(), stubExporter{}, wizard.Config{})
	server := api.NewServer(config.ServerConfig{RequestTimeout: 5 * time.Second}, manager, delivery.NewAdapter(nil), nil)

	ts := httptest.NewServer(server.Router())
	t.Cleanup(ts.Close)
	return NewClient(ts.URL+"/", WithTimeout(5*time.Second))
}

func act(kind, value string) models.ActionRequest {
	return models.ActionRequest{Kind: kind, Value: value}
}

func TestClientWalkthrough(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, c.Health(ctx))

	created, err := c.CreateSession(ctx)
	require.NoError(t, err)
	assert.Len(t, created.Token, 48)
	assert.Equal(t, "/s/"+created.Token+"/", created.StartURL)

	state, err := c.GetSession(ctx, created.Token)
	require.NoError(t, err)
	assert.Equal(t, "welcome", state.View.StepID)
	assert.NotEmpty(t, state.View.Actions)

	// Confirming early lands on the first unanswered step
	state, err = c.Apply(ctx, created.Token, act("edit", "review"), act("finish", ""))
	require.NoError(t, err)
	assert.Equal(t, "q1", state.View.StepID)
	assert.Equal(t, wizard.MsgRanked, state.Message)

	state, err = c.Apply(ctx, created.Token,
		act("toggle_ranked", "Shoes"),
		act("edit", "q4"),
		act("select_single", "Natural Oak"),
		act("advance", ""),
		act("select_dual", "pulls_handles=Gold · Style 1"),
		act("select_dual", "hanging_rods=Chrome · Style 2"),
		act("edit", "q7"),
		act("set_binary", "No"),
		act("advance", ""),
		act("set_contact_field", "name=Ana Lopez"),
		act("set_contact_field", "email=ana@example.com"),
		act("set_contact_field", "address=1 Main St"),
		act("advance", ""),
		act("finish", ""),
	)
	require.NoError(t, err)
	assert.True(t, state.Session.IsCompleted())
	require.Len(t, state.Review, 8)
	assert.Equal(t, "Shoes", state.Review[0].Value)

	summary, err := c.DownloadSummary(ctx, created.Token)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(summary.Filename, "Ana Lopez - "))
	assert.Equal(t, "%PDF-1.3 stub", string(summary.Bytes))

	require.NoError(t, c.DeleteSession(ctx, created.Token))

	_, err = c.GetSession(ctx, created.Token)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "not_found", apiErr.Code)
}

func TestClientErrors(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	created, err := c.CreateSession(ctx)
	require.NoError(t, err)

	_, err = c.Apply(ctx, created.Token, act("explode", ""))
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "invalid_action", apiErr.Code)

	_, err = c.DownloadSummary(ctx, created.Token)
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusConflict, apiErr.Status)
	assert.Equal(t, "not_completed", apiErr.Code)
}

func TestClientCatalog(t *testing.T) {
	c := newTestClient(t)

	cat, err := c.GetCatalog(context.Background())
	require.NoError(t, err)
	assert.Equal(t, catalog.Default().Len(), cat.Total)
	assert.Len(t, cat.Steps, cat.Total)
	assert.Equal(t, catalog.Default().NumberedCount(), cat.Numbered)
}

func TestDecodeErrorWithoutEnvelope(t *testing.T) {
	err := decodeError(http.StatusBadGateway, []byte("upstream down\n"))

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "http_error", apiErr.Code)
	assert.Equal(t, "upstream down", apiErr.Message)
	assert.Contains(t, err.Error(), "HTTP 502")
}
