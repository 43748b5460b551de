// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/danielhkuo/ballotbox/cliparse"
	"github.com/danielhkuo/ballotbox/handlers"
	"github.com/danielhkuo/ballotbox/middleware"
	"github.com/danielhkuo/ballotbox/session"
)

func NewRouter(db *sql.DB, cfg cliparse.Config, sessions *session.Manager) http.Handler {
	mux := http.NewServeMux()

	// Initialize handlers
	accountHandler := handlers.NewAccountHandler(db, cfg, sessions)
	ballotHandler := handlers.NewBallotHandler(db, cfg)
	adminHandler := handlers.NewAdminHandler(db, cfg)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Accounts (public)
	mux.HandleFunc("GET /register", middleware.WithLogging(accountHandler.ShowRegister))
	mux.HandleFunc("POST /register", middleware.WithLogging(accountHandler.Register))
	mux.HandleFunc("GET /login", middleware.WithLogging(accountHandler.ShowLogin))
	mux.HandleFunc("POST /login", middleware.WithLogging(accountHandler.Login))
	mux.HandleFunc("GET /logout", middleware.WithLogging(accountHandler.Logout))
	mux.HandleFunc("POST /logout", middleware.WithLogging(accountHandler.Logout))

	// Voting (signed in)
	mux.HandleFunc("GET /ballots", middleware.WithLogging(middleware.RequireIdentity(ballotHandler.List)))
	mux.HandleFunc("GET /ballots/{id}/vote", middleware.WithLogging(middleware.RequireIdentity(ballotHandler.ShowVote)))
	mux.HandleFunc("POST /ballots/{id}/vote", middleware.WithLogging(middleware.RequireIdentity(ballotHandler.CastVote)))
	mux.HandleFunc("GET /ballots/{id}/results", middleware.WithLogging(middleware.RequireIdentity(ballotHandler.Results)))

	// Results API (public, read-only)
	mux.Handle("GET /api/ballots/{id}/results", middleware.CORS(middleware.WithLogging(ballotHandler.ResultsJSON)))
	mux.Handle("OPTIONS /api/ballots/{id}/results", middleware.CORS(http.NotFoundHandler()))

	// Administration
	mux.HandleFunc("GET /admin/ballots", middleware.WithLogging(middleware.RequireAdmin(adminHandler.List)))
	mux.HandleFunc("GET /admin/ballots/new", middleware.WithLogging(middleware.RequireAdmin(adminHandler.ShowNew)))
	mux.HandleFunc("POST /admin/ballots/new", middleware.WithLogging(middleware.RequireAdmin(adminHandler.Create)))
	mux.HandleFunc("POST /admin/ballots/{id}/reset", middleware.WithLogging(middleware.RequireAdmin(adminHandler.Reset)))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/ballots", http.StatusSeeOther)
	})

	return middleware.WithTracing(sessions.Middleware(mux))
}
