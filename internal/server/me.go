package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"distance-tracker/internal/domain"
	"distance-tracker/internal/middleware"

	"github.com/gorilla/mux"
)

const maxProofUploadBytes = 10 << 20

func (s *Server) handleSetTeam(w http.ResponseWriter, r *http.Request) {
	person, _ := middleware.PersonFromContext(r.Context())

	var req struct {
		Team string `json:"team"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErrorMessage(w, http.StatusBadRequest, "malformed request body")
		return
	}

	if err := s.teams.SetTeam(r.Context(), person.ID, req.Team); err != nil {
		s.respondError(w, r, err)
		return
	}
	respondMessage(w, "Team selected!", nil)
}

func (s *Server) handleRename(w http.ResponseWriter, r *http.Request) {
	person, _ := middleware.PersonFromContext(r.Context())

	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErrorMessage(w, http.StatusBadRequest, "malformed request body")
		return
	}

	if err := s.teams.Rename(r.Context(), person.ID, req.Name); err != nil {
		s.respondError(w, r, err)
		return
	}
	respondMessage(w, "Name updated.", nil)
}

func (s *Server) handleRecordActivity(w http.ResponseWriter, r *http.Request) {
	person, _ := middleware.PersonFromContext(r.Context())

	var req struct {
		DistanceKm float64 `json:"distanceKm"`
		Activity   string  `json:"activity"`
		Sign       int     `json:"sign"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErrorMessage(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if req.Sign == 0 {
		req.Sign = 1
	}

	entry, err := s.ledger.RecordActivity(r.Context(), person.ID, req.DistanceKm, domain.Activity(req.Activity), req.Sign)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	msg := fmt.Sprintf("%+.2f pts added.", entry.Km)
	if entry.Km < 0 {
		msg = fmt.Sprintf("%.2f pts subtracted.", entry.Km)
	}
	respondMessage(w, msg, entry)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	person, _ := middleware.PersonFromContext(r.Context())

	history, err := s.ledger.History(r.Context(), person.ID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondData(w, history)
}

func (s *Server) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	person, _ := middleware.PersonFromContext(r.Context())
	entryID := mux.Vars(r)["id"]

	if err := s.ledger.DeleteEntry(r.Context(), entryID, person.ID); err != nil {
		s.respondError(w, r, err)
		return
	}
	respondMessage(w, "Entry deleted.", nil)
}

func (s *Server) handleStreak(w http.ResponseWriter, r *http.Request) {
	person, _ := middleware.PersonFromContext(r.Context())

	streak, err := s.ledger.Streak(r.Context(), person.ID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondData(w, map[string]int{"streak": streak})
}

func (s *Server) handleGallery(w http.ResponseWriter, r *http.Request) {
	person, _ := middleware.PersonFromContext(r.Context())

	items, err := s.proofs.Gallery(r.Context(), person.ID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondData(w, items)
}

func (s *Server) handleAttachProof(w http.ResponseWriter, r *http.Request) {
	s.attachProof(w, r, mux.Vars(r)["id"])
}

// handleAttachProofLatest targets the person's most recent entry, the
// "log distance, then upload the screenshot" flow.
func (s *Server) handleAttachProofLatest(w http.ResponseWriter, r *http.Request) {
	s.attachProof(w, r, "")
}

func (s *Server) attachProof(w http.ResponseWriter, r *http.Request, entryID string) {
	person, _ := middleware.PersonFromContext(r.Context())

	image, err := readProofUpload(r)
	if err != nil {
		respondErrorMessage(w, http.StatusBadRequest, "no image uploaded")
		return
	}

	entry, err := s.proofs.AttachProof(r.Context(), person.ID, entryID, image)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondMessage(w, "Proof uploaded!", entry)
}

func (s *Server) handleDetachProof(w http.ResponseWriter, r *http.Request) {
	person, _ := middleware.PersonFromContext(r.Context())
	entryID := mux.Vars(r)["id"]

	if err := s.proofs.DetachProof(r.Context(), person.ID, entryID); err != nil {
		s.respondError(w, r, err)
		return
	}
	respondMessage(w, "Photo deleted.", nil)
}

func readProofUpload(r *http.Request) ([]byte, error) {
	if err := r.ParseMultipartForm(maxProofUploadBytes); err != nil {
		return nil, err
	}
	file, _, err := r.FormFile("image")
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(io.LimitReader(file, maxProofUploadBytes))
}
