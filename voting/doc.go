// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package voting implements identities, ballots, the voting window, the vote
ledger, and tallies.

# Components

  - IdentityStore: Register, Authenticate, Get
  - BallotCatalog: Create, Get, List, ListActive
  - VoteLedger: Cast, HasVoted, VoteOf, Reset
  - TallyEngine: Tally, plus the pure Winners and Summary

# Voting Window

A ballot accepts votes on the half-open interval [opens_at, closes_at).
StateAt is the only window check; Cast and every display use it.

# One Vote Per Identity

Cast never reads before writing. The unique (identity_id, ballot_id) index
rejects a second vote and the violation is reported as ErrAlreadyVoted, so
concurrent casts for the same identity and ballot yield exactly one vote.

# Errors

Failures are reported with sentinel errors (ErrBallotNotFound,
ErrBallotNotOpen, ErrOptionNotInBallot, ErrAlreadyVoted, ...). Storage
failures wrap ErrStorageUnavailable and are recorded on the active span.
*/
package voting
