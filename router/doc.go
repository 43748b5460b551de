// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router wires URL patterns to handlers.

NewRouter returns the whole application as one http.Handler: the
ServeMux wrapped in session loading and request tracing.

	handler := router.NewRouter(db, cfg, sessions)

# Routes

	GET  /health                        OK
	GET  /                              redirect to /ballots
	GET  /register, POST /register      create a voter and sign in
	GET  /login, POST /login            sign in
	GET  /logout, POST /logout          sign out
	GET  /ballots                       open ballots (signed in)
	GET  /ballots/{id}/vote             vote form (signed in)
	POST /ballots/{id}/vote             cast a vote (signed in)
	GET  /ballots/{id}/results          tally and winners (signed in)
	GET  /api/ballots/{id}/results      tally and winners as JSON
	GET  /admin/ballots                 all ballots (admin)
	GET  /admin/ballots/new             ballot form (admin)
	POST /admin/ballots/new             create a ballot (admin)
	POST /admin/ballots/{id}/reset      delete every vote on a ballot (admin)
*/
package router
