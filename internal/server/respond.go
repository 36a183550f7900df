package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"distance-tracker/internal/domain"
	"distance-tracker/internal/middleware"
)

// APIResponse is the uniform envelope: every operation resolves to an
// explicit success or failure with a human-readable message, never an
// unhandled error escaping to the client.
type APIResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondData(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: data})
}

func respondMessage(w http.ResponseWriter, msg string, data any) {
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Message: msg, Data: data})
}

// respondError maps the error to a status and a user-facing message. The
// raw error carries internals (SQL detail, object paths) and stays in the
// server log; clients get the mapped message only.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := mapError(err)

	s.logger.Error().
		Err(err).
		Str("request_id", middleware.GetRequestID(r.Context())).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Int("status", status).
		Msg("request failed")

	writeJSON(w, status, APIResponse{Success: false, Error: msg, Message: msg})
}

func respondErrorMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, APIResponse{Success: false, Error: msg, Message: msg})
}

func mapError(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, "Enter valid input."
	case errors.Is(err, domain.ErrNoTeamAssigned):
		return http.StatusConflict, "Select a team before adding activity."
	case errors.Is(err, domain.ErrAlreadyHasProof):
		return http.StatusConflict, "This entry already has a proof."
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "Not found."
	case errors.Is(err, domain.ErrPartialFailure):
		return http.StatusBadGateway, "The operation only partially completed."
	case errors.Is(err, domain.ErrRemoteFailure):
		return http.StatusBadGateway, "Backend call failed. Please try again."
	}
	return http.StatusInternalServerError, "Something went wrong."
}
