package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Catalog handlers: read-only view of the flow sessions run through

func (s *Server) handleGetCatalog(w http.ResponseWriter, r *http.Request) {
	cat := s.manager.Catalog()
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"steps":    cat.Steps(),
		"total":    cat.Len(),
		"numbered": cat.NumberedCount(),
	})
}

func (s *Server) handleGetStep(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	cat := s.manager.Catalog()

	step, ok := cat.Step(cat.IndexOf(id))
	if !ok {
		respondError(w, http.StatusNotFound, "not_found", "step not found")
		return
	}
	respondJSON(w, http.StatusOK, step)
}
