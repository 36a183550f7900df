package server

import (
	"encoding/json"
	"net/http"

	"distance-tracker/internal/middleware"
)

// requireAdmin writes the refusal itself; callers bail out on false.
func (s *Server) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	person, _ := middleware.PersonFromContext(r.Context())

	isAdmin, err := s.admin.IsAdmin(r.Context(), person.ID)
	if err != nil {
		s.respondError(w, r, err)
		return false
	}
	if !isAdmin {
		respondErrorMessage(w, http.StatusForbidden, "admin access required")
		return false
	}
	return true
}

// handlePeople lists everyone, for picking draw participants.
func (s *Server) handlePeople(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}

	people, err := s.teams.People(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondData(w, people)
}

// handleRandomize shuffles the selected people into two fresh teams,
// replacing every existing assignment.
func (s *Server) handleRandomize(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}

	var req struct {
		PersonIDs []string `json:"personIds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErrorMessage(w, http.StatusBadRequest, "malformed request body")
		return
	}

	draw, err := s.teams.Randomize(r.Context(), req.PersonIDs)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondMessage(w, "Teams saved successfully!", draw)
}

// handleReconcile sweeps the object store for proof files no ledger row
// references and removes them.
func (s *Server) handleReconcile(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}

	removed, err := s.reconciler.Sweep(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondMessage(w, "Reconcile complete.", map[string]any{
		"removed": removed,
	})
}
