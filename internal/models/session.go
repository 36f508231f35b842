package models

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// SessionStatus represents where the visitor is in the questionnaire
type SessionStatus string

const (
	SessionInProgress SessionStatus = "in_progress" // Answering steps
	SessionCompleted  SessionStatus = "completed"   // Review confirmed, summary available
)

// NavigationState is the active step index plus the error-display flag
type NavigationState struct {
	Index      int  `json:"index"`
	ShowErrors bool `json:"show_errors"`
}

// Session is the context object for one visitor: answers, navigation and
// lifecycle timestamps. Renderer, validator and exporter receive it (or its
// parts) explicitly; nothing about a session lives in package state.
type Session struct {
	ID          string          `json:"id"`
	Token       string          `json:"token"`
	Status      SessionStatus   `json:"status"`
	Form        *FormState      `json:"form"`
	Nav         NavigationState `json:"nav"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	ExpiresAt   time.Time       `json:"expires_at"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
}

// IsCompleted returns true once the review step was confirmed
func (s *Session) IsCompleted() bool {
	return s.Status == SessionCompleted
}

// IsExpired checks if the session TTL has elapsed
func (s *Session) IsExpired() bool {
	return !s.ExpiresAt.IsZero() && time.Now().After(s.ExpiresAt)
}

// TimeRemaining returns the duration until expiry (0 if expired)
func (s *Session) TimeRemaining() time.Duration {
	remaining := time.Until(s.ExpiresAt)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// MaskedToken returns the first 8 characters of the token for logging
func (s *Session) MaskedToken() string {
	return MaskToken(s.Token)
}

// MaskToken shortens a token for logs
func MaskToken(token string) string {
	if len(token) < 8 {
		return "***"
	}
	return token[:8] + "..."
}

// GenerateSessionToken creates a cryptographically random 48-char hex token
func GenerateSessionToken() (string, error) {
	bytes := make([]byte, 24)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// CreateSessionResponse is returned after creating a session
type CreateSessionResponse struct {
	ID        string        `json:"id"`
	Token     string        `json:"token"`
	Status    SessionStatus `json:"status"`
	StartURL  string        `json:"start_url"`
	CreatedAt time.Time     `json:"created_at"`
	ExpiresAt time.Time     `json:"expires_at"`
}

// ActionRequest is the JSON body of an interaction
type ActionRequest struct {
	Kind  string `json:"kind"`
	Value string `json:"value,omitempty"`
}
