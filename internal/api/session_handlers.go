package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/terra-clan/closet-profile/internal/delivery"
	"github.com/terra-clan/closet-profile/internal/models"
	"github.com/terra-clan/closet-profile/internal/render"
	"github.com/terra-clan/closet-profile/internal/wizard"
)

// sessionResponse is a session plus the rendered active step
type sessionResponse struct {
	Session *models.Session     `json:"session"`
	View    render.View         `json:"view"`
	Review  []wizard.ReviewLine `json:"review"`
	Message string              `json:"message,omitempty"`
}

// applyActionsRequest is the body of POST /sessions/{token}/actions
type applyActionsRequest struct {
	Actions []wizard.Action `json:"actions"`
}

func (s *Server) sessionResponse(sess *models.Session) sessionResponse {
	return sessionResponse{
		Session: sess,
		View:    render.Step(s.manager.Catalog(), sess),
		Review:  wizard.ReviewLines(s.manager.Catalog(), sess.Form),
		Message: s.manager.Wizard(sess).Message(),
	}
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.manager.Create(r.Context())
	if err != nil {
		slog.Error("failed to create session", "error", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to create session")
		return
	}

	respondJSON(w, http.StatusCreated, models.CreateSessionResponse{
		ID:        sess.ID,
		Token:     sess.Token,
		Status:    sess.Status,
		StartURL:  pageURL(sess.Token),
		CreatedAt: sess.CreatedAt,
		ExpiresAt: sess.ExpiresAt,
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())
	if sess == nil {
		respondError(w, http.StatusNotFound, "not_found", "session not found")
		return
	}
	respondJSON(w, http.StatusOK, s.sessionResponse(sess))
}

func (s *Server) handleApplyActions(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	var req applyActionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if len(req.Actions) == 0 {
		respondError(w, http.StatusBadRequest, "validation_error", "actions must not be empty")
		return
	}
	for _, a := range req.Actions {
		if err := a.Validate(); err != nil {
			respondError(w, http.StatusBadRequest, "invalid_action", err.Error())
			return
		}
	}

	sess, err := s.manager.Apply(r.Context(), token, req.Actions...)
	if err != nil && !errors.Is(err, wizard.ErrIncomplete) {
		writeJSONError(w, r, err)
		return
	}

	// An incomplete finish is a normal outcome: the session now sits on the
	// first failing step with its message.
	respondJSON(w, http.StatusOK, s.sessionResponse(sess))
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	doc, sess, err := s.manager.Export(r.Context(), token)
	if err != nil {
		writeJSONError(w, r, err)
		return
	}

	filename := delivery.Filename(sess.Form.Contact.Name, doc.GeneratedAt)
	if err := (delivery.HTTPDownload{W: w}).Download(filename, doc); err != nil {
		slog.Error("failed to write summary", "token", sess.MaskedToken(), "error", err)
	}
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	if err := s.manager.Delete(r.Context(), token); err != nil {
		writeJSONError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "session deleted",
	})
}
