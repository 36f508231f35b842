package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/terra-clan/closet-profile/internal/wizard"
)

// Response helpers

type apiResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *apiError   `json:"error,omitempty"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := apiResponse{
		Success: status >= 200 && status < 300,
		Data:    data,
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := apiResponse{
		Success: false,
		Error: &apiError{
			Code:    code,
			Message: message,
		},
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode error response", "error", err)
	}
}

// errorStatus maps service errors onto HTTP status, code and message
func errorStatus(err error) (int, string, string) {
	switch {
	case errors.Is(err, wizard.ErrSessionNotFound):
		return http.StatusNotFound, "not_found", "session not found"
	case errors.Is(err, wizard.ErrSessionExpired):
		return http.StatusGone, "session_expired", "session has expired"
	case errors.Is(err, wizard.ErrStepNotFound):
		return http.StatusBadRequest, "step_not_found", err.Error()
	case errors.Is(err, wizard.ErrInvalidAction):
		return http.StatusBadRequest, "invalid_action", err.Error()
	case errors.Is(err, wizard.ErrNotCompleted):
		return http.StatusConflict, "not_completed", "questionnaire is not completed"
	case errors.Is(err, wizard.ErrExportInProgress):
		return http.StatusConflict, "export_in_progress", "summary export already in progress"
	}
	return http.StatusInternalServerError, "internal_error", "internal server error"
}

func writeJSONError(w http.ResponseWriter, r *http.Request, err error) {
	status, code, message := errorStatus(err)
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "error", err, "path", maskPath(r.URL.Path))
	}
	respondError(w, status, code, message)
}

// Health handlers

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if err := s.manager.Ping(r.Context()); err != nil {
		slog.Warn("readiness check failed", "check", "session_store", "error", err)
		respondError(w, http.StatusServiceUnavailable, "not_ready", "service not ready")
		return
	}

	checks := map[string]string{}
	ready := true
	for name, err := range s.registry.HealthCheckAll(r.Context()) {
		if err != nil {
			slog.Warn("readiness check failed", "check", name, "error", err)
			checks[name] = err.Error()
			ready = false
			continue
		}
		checks[name] = "ok"
	}

	if !ready {
		respondError(w, http.StatusServiceUnavailable, "not_ready", "service not ready")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ready",
		"checks": checks,
	})
}
