package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/terra-clan/closet-profile/internal/models"
)

// Client is a Go SDK for the closet-profile API
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures the client
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout sets the client timeout
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new closet-profile client
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError is a failed call answered with the error envelope
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (HTTP %d): %s - %s", e.Status, e.Code, e.Message)
}

// View is the rendered active step
type View struct {
	StepID   string                 `json:"step_id"`
	Kind     string                 `json:"kind"`
	Section  string                 `json:"section,omitempty"`
	Title    string                 `json:"title,omitempty"`
	Subtitle string                 `json:"subtitle,omitempty"`
	Number   int                    `json:"number,omitempty"`
	Total    int                    `json:"total"`
	Progress string                 `json:"progress,omitempty"`
	Percent  int                    `json:"percent"`
	Message  string                 `json:"message,omitempty"`
	Body     json.RawMessage        `json:"body,omitempty"`
	Actions  []models.ActionRequest `json:"actions"`
}

// ReviewLine is one answer as shown on the review step
type ReviewLine struct {
	StepID  string `json:"step_id"`
	Section string `json:"section"`
	Value   string `json:"value"`
}

// SessionState is a session with its active step and review lines
type SessionState struct {
	Session *models.Session `json:"session"`
	View    View            `json:"view"`
	Review  []ReviewLine    `json:"review"`
	Message string          `json:"message,omitempty"`
}

// Catalog describes the question flow
type Catalog struct {
	Steps    []json.RawMessage `json:"steps"`
	Total    int               `json:"total"`
	Numbered int               `json:"numbered"`
}

// Summary is a downloaded PDF
type Summary struct {
	Filename string
	Bytes    []byte
}

// CreateSession starts a new questionnaire
func (c *Client) CreateSession(ctx context.Context) (*models.CreateSessionResponse, error) {
	var out models.CreateSessionResponse
	if err := c.call(ctx, http.MethodPost, "/api/v1/sessions", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetSession retrieves a session with its active step
func (c *Client) GetSession(ctx context.Context, token string) (*SessionState, error) {
	var out SessionState
	if err := c.call(ctx, http.MethodGet, "/api/v1/sessions/"+token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Apply performs actions in order. An unfinished questionnaire is not an
// error: the returned state then sits on the first unanswered step.
func (c *Client) Apply(ctx context.Context, token string, actions ...models.ActionRequest) (*SessionState, error) {
	body, err := json.Marshal(map[string]interface{}{"actions": actions})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	var out SessionState
	if err := c.call(ctx, http.MethodPost, "/api/v1/sessions/"+token+"/actions", bytes.NewReader(body), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteSession removes a session
func (c *Client) DeleteSession(ctx context.Context, token string) error {
	return c.call(ctx, http.MethodDelete, "/api/v1/sessions/"+token, nil, nil)
}

// DownloadSummary fetches the PDF of a completed session
func (c *Client) DownloadSummary(ctx context.Context, token string) (*Summary, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/v1/sessions/"+token+"/summary.pdf", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return nil, decodeError(resp.StatusCode, data)
	}

	summary := &Summary{Bytes: data}
	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil {
		summary.Filename = params["filename"]
	}
	return summary, nil
}

// GetCatalog retrieves the question flow
func (c *Client) GetCatalog(ctx context.Context) (*Catalog, error) {
	var out Catalog
	if err := c.call(ctx, http.MethodGet, "/api/v1/catalog", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Health checks if the service is healthy
func (c *Client) Health(ctx context.Context) error {
	return c.call(ctx, http.MethodGet, "/health", nil, nil)
}

// call performs a request and unwraps the response envelope into out
func (c *Client) call(ctx context.Context, method, path string, body io.Reader, out interface{}) error {
	resp, err := c.doRequest(ctx, method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return decodeError(resp.StatusCode, data)
	}

	var result struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if out == nil || len(result.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(result.Data, out); err != nil {
		return fmt.Errorf("failed to unmarshal response data: %w", err)
	}
	return nil
}

// doRequest performs an HTTP request
func (c *Client) doRequest(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	return resp, nil
}

func decodeError(status int, data []byte) error {
	var result struct {
		Error *struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(data, &result); err != nil || result.Error == nil {
		return &APIError{Status: status, Code: "http_error", Message: strings.TrimSpace(string(data))}
	}
	return &APIError{Status: status, Code: result.Error.Code, Message: result.Error.Message}
}
