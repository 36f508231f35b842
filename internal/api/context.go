package api

import (
	"context"

	"github.com/terra-clan/closet-profile/internal/models"
)

type contextKey string

const sessionContextKey contextKey = "session"

// SessionFromContext extracts the loaded session from context
func SessionFromContext(ctx context.Context) *models.Session {
	sess, ok := ctx.Value(sessionContextKey).(*models.Session)
	if !ok {
		return nil
	}
	return sess
}

// ContextWithSession adds a session to context
func ContextWithSession(ctx context.Context, sess *models.Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, sess)
}
