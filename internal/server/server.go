// Package server exposes the application operations over a JSON HTTP API.
package server

import (
	"net/http"

	"distance-tracker/internal/feed"
	"distance-tracker/internal/middleware"
	"distance-tracker/internal/reconcile"
	"distance-tracker/internal/service"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

type Server struct {
	auth       *service.AuthService
	teams      *service.TeamService
	ledger     *service.LedgerService
	proofs     *service.ProofService
	board      *service.LeaderboardService
	admin      service.AdminPolicy
	reconciler *reconcile.Reconciler
	notifier   *feed.Notifier
	logger     zerolog.Logger
}

func New(
	auth *service.AuthService,
	teams *service.TeamService,
	ledger *service.LedgerService,
	proofs *service.ProofService,
	board *service.LeaderboardService,
	admin service.AdminPolicy,
	reconciler *reconcile.Reconciler,
	notifier *feed.Notifier,
	logger zerolog.Logger,
) *Server {
	return &Server{
		auth:       auth,
		teams:      teams,
		ledger:     ledger,
		proofs:     proofs,
		board:      board,
		admin:      admin,
		reconciler: reconciler,
		notifier:   notifier,
		logger:     logger,
	}
}

func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()

	handle := func(sub *mux.Router, route, path string, h http.HandlerFunc, methods ...string) {
		sub.Handle(path, middleware.Metrics(route, h)).Methods(methods...)
	}

	// Public surface.
	handle(api, "register", "/auth/register", s.handleRegister, http.MethodPost)
	handle(api, "login", "/auth/login", s.handleLogin, http.MethodPost)
	handle(api, "logout", "/auth/logout", s.handleLogout, http.MethodPost)
	handle(api, "standings", "/teams/{team}/standings", s.handleStandings, http.MethodGet)
	handle(api, "team_total", "/teams/{team}/total", s.handleTeamTotal, http.MethodGet)
	handle(api, "team_feed", "/teams/{team}/feed", s.handleTeamFeed, http.MethodGet)

	// Everything under /me requires a session.
	unauthorized := func(w http.ResponseWriter, msg string) {
		respondErrorMessage(w, http.StatusUnauthorized, msg)
	}
	authed := api.NewRoute().Subrouter()
	authed.Use(middleware.Auth(s.auth, unauthorized))

	handle(authed, "me", "/me", s.handleMe, http.MethodGet)
	handle(authed, "set_team", "/me/team", s.handleSetTeam, http.MethodPut)
	handle(authed, "rename", "/me/name", s.handleRename, http.MethodPut)
	handle(authed, "record", "/me/entries", s.handleRecordActivity, http.MethodPost)
	handle(authed, "history", "/me/entries", s.handleHistory, http.MethodGet)
	handle(authed, "delete_entry", "/me/entries/{id}", s.handleDeleteEntry, http.MethodDelete)
	handle(authed, "streak", "/me/streak", s.handleStreak, http.MethodGet)
	handle(authed, "gallery", "/me/gallery", s.handleGallery, http.MethodGet)
	handle(authed, "attach_proof", "/me/entries/{id}/proof", s.handleAttachProof, http.MethodPost)
	handle(authed, "attach_proof_latest", "/me/proof", s.handleAttachProofLatest, http.MethodPost)
	handle(authed, "detach_proof", "/me/entries/{id}/proof", s.handleDetachProof, http.MethodDelete)
	handle(authed, "admin_people", "/admin/people", s.handlePeople, http.MethodGet)
	handle(authed, "randomize", "/admin/randomize", s.handleRandomize, http.MethodPost)
	handle(authed, "reconcile", "/admin/reconcile", s.handleReconcile, http.MethodPost)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
