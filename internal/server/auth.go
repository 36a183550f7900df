package server

import (
	"encoding/json"
	"net/http"

	"distance-tracker/internal/middleware"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErrorMessage(w, http.StatusBadRequest, "malformed request body")
		return
	}

	person, err := s.auth.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	respondMessage(w, "User created!", person)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErrorMessage(w, http.StatusBadRequest, "malformed request body")
		return
	}

	person, token, err := s.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	respondMessage(w, "Logged in!", map[string]any{
		"person": person,
		"token":  token,
	})
}

// Tokens are stateless, so logout is a client-side discard. The endpoint
// exists so the UI has a single call for both token styles.
func (s *Server) handleLogout(w http.ResponseWriter, _ *http.Request) {
	respondMessage(w, "Logged out.", nil)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	person, ok := middleware.PersonFromContext(r.Context())
	if !ok {
		respondErrorMessage(w, http.StatusUnauthorized, "no active session")
		return
	}

	total, err := s.ledger.PersonTotal(r.Context(), person.ID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	respondData(w, map[string]any{
		"person": person,
		"total":  total,
	})
}
