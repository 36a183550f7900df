package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"distance-tracker/internal/domain"

	"github.com/gorilla/mux"
)

func teamFromPath(r *http.Request) (int, error) {
	switch mux.Vars(r)["team"] {
	case "A", "blue":
		return domain.TeamBlue, nil
	case "B", "red":
		return domain.TeamRed, nil
	default:
		return 0, fmt.Errorf("unknown team %q", mux.Vars(r)["team"])
	}
}

func (s *Server) handleStandings(w http.ResponseWriter, r *http.Request) {
	team, err := teamFromPath(r)
	if err != nil {
		respondErrorMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	sortField := r.URL.Query().Get("sort")
	descending := r.URL.Query().Get("order") != "asc"

	standings, err := s.board.Standings(r.Context(), team, sortField, descending)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondData(w, standings)
}

func (s *Server) handleTeamTotal(w http.ResponseWriter, r *http.Request) {
	team, err := teamFromPath(r)
	if err != nil {
		respondErrorMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	total, err := s.board.TeamTotal(r.Context(), team)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondData(w, map[string]float64{"total": total})
}

// handleTeamFeed streams ledger change events for one team as
// server-sent events. Consumers re-query the standings on each event.
func (s *Server) handleTeamFeed(w http.ResponseWriter, r *http.Request) {
	team, err := teamFromPath(r)
	if err != nil {
		respondErrorMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		respondErrorMessage(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	sub := s.notifier.Subscribe(team)
	defer sub.Unsubscribe()

	for {
		select {
		case <-r.Context().Done():
			return
		case event, open := <-sub.C:
			if !open {
				return
			}
			payload, err := json.Marshal(event)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: change\ndata: %s\n\n", payload)
			flusher.Flush()
		}
	}
}
