package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/terra-clan/closet-profile/internal/models"
	"github.com/terra-clan/closet-profile/internal/wizard"
)

// ErrorWriter answers a request that failed with err
type ErrorWriter func(w http.ResponseWriter, r *http.Request, err error)

// SessionMiddleware resolves the {token} URL parameter to a live session
type SessionMiddleware struct {
	manager *wizard.Manager
}

// NewSessionMiddleware creates new session middleware
func NewSessionMiddleware(manager *wizard.Manager) *SessionMiddleware {
	return &SessionMiddleware{manager: manager}
}

// Load returns middleware that loads the session named by {token} into the
// request context. Missing or expired sessions are answered by onError.
func (m *SessionMiddleware) Load(onError ErrorWriter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := chi.URLParam(r, "token")
			if token == "" {
				onError(w, r, wizard.ErrSessionNotFound)
				return
			}

			sess, err := m.manager.Get(r.Context(), token)
			if err != nil {
				onError(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(ContextWithSession(r.Context(), sess)))
		})
	}
}

// maskPath shortens session tokens embedded in a request path for logging
func maskPath(path string) string {
	parts := strings.Split(path, "/")
	for i := 1; i < len(parts); i++ {
		if parts[i] != "" && (parts[i-1] == "s" || parts[i-1] == "sessions") {
			parts[i] = models.MaskToken(parts[i])
		}
	}
	return strings.Join(parts, "/")
}
