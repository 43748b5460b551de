// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains the HTTP handlers for ballotbox.

# Handler Types

Each handler is a struct built from the database and config:

  - AccountHandler: Registration, login and logout
  - BallotHandler: Active ballots, vote casting and results
  - AdminHandler: Ballot creation and vote reset

Handlers are created via constructor functions:

	ballots := handlers.NewBallotHandler(db, cfg)
	accounts := handlers.NewAccountHandler(db, cfg, sessions)

# Accounts

	GET/POST /register → ShowRegister / Register
	GET/POST /login    → ShowLogin / Login
	POST /logout       → Logout

A successful register or login starts a session and redirects with 303.

# Voting Flow

	GET /ballots                   → List (ballots open right now)
	GET /ballots/{id}/vote         → ShowVote
	POST /ballots/{id}/vote        → CastVote (redirects to results)
	GET /ballots/{id}/results      → Results
	GET /api/ballots/{id}/results  → ResultsJSON

A voter who already voted is sent to the results page instead of the form.
Casting re-renders the form with 409 when the voter already voted or the
ballot is not open, and with 400 when the option is not on the ballot.

# Errors

Every voting error maps to one status and one user-facing message in
render.go. Storage failures render a generic 500 page and only the log
carries the cause.
*/
package handlers
