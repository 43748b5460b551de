// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types.

# Request Types

Form submissions decoded by the handlers and checked with validator tags:

  - RegisterRequest: email, password, confirm
  - LoginRequest: email, password
  - CreateBallotRequest: topic, options, abstain label, window

# Response Types

  - ResultsResponse: ballot, state, tally, total, winners
  - ErrorResponse: error, message

# Domain Types

  - Identity: registered voter or administrator
  - Ballot: topic, ordered options, voting window
  - Option: a choice on exactly one ballot
  - Vote: one (identity, ballot, option) record
  - Tally / OptionCount: per-option counts in declaration order

# Constants

Roles:

	RoleVoter = "voter"
	RoleAdmin = "admin"

Window states:

	StateScheduled = "scheduled"
	StateOpen      = "open"
	StateClosed    = "closed"
*/
package models
