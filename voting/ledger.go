// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/danielhkuo/ballotbox/db"
	"github.com/danielhkuo/ballotbox/models"
)

// CastRequest is one attempt to vote.
type CastRequest struct {
	IdentityID string
	BallotID   string
	OptionID   string
	At         time.Time
	IPHash     string
	UserAgent  string
}

// VoteLedger records votes. At most one vote exists per identity and
// ballot; the storage engine enforces this.
type VoteLedger struct {
	db      *sql.DB
	catalog *BallotCatalog
}

func NewVoteLedger(conn *sql.DB, catalog *BallotCatalog) *VoteLedger {
	return &VoteLedger{db: conn, catalog: catalog}
}

// Cast records a vote. Checks run in order: ballot exists, ballot is open
// at req.At, option belongs to the ballot. The insert itself detects a
// prior vote.
func (l *VoteLedger) Cast(ctx context.Context, req CastRequest) (models.Vote, error) {
	ctx, span := tracer.Start(ctx, "Voting.VoteLedger.Cast")
	defer span.End()

	ballot, err := l.catalog.Get(ctx, req.BallotID)
	if err != nil {
		return models.Vote{}, err
	}

	if !IsOpen(ballot, req.At) {
		return models.Vote{}, ErrBallotNotOpen
	}

	if _, ok := ballot.Option(req.OptionID); !ok {
		return models.Vote{}, ErrOptionNotInBallot
	}

	id, err := uuid.NewV7()
	if err != nil {
		return models.Vote{}, errors.Wrap(err, "generate vote id")
	}

	vote := models.Vote{
		ID:         id.String(),
		IdentityID: req.IdentityID,
		BallotID:   ballot.ID,
		OptionID:   req.OptionID,
		CastAt:     req.At.UTC(),
	}
	if req.IPHash != "" {
		vote.IPHash = &req.IPHash
	}
	if req.UserAgent != "" {
		vote.UserAgent = &req.UserAgent
	}

	// No existence check first: the unique (identity_id, ballot_id) index
	// decides between concurrent casts.
	_, err = l.db.ExecContext(ctx, `
		INSERT INTO vote (id, identity_id, ballot_id, option_id, cast_at, ip_hash, user_agent)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, vote.ID, vote.IdentityID, vote.BallotID, vote.OptionID, vote.CastAt, vote.IPHash, vote.UserAgent)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return models.Vote{}, ErrAlreadyVoted
		}
		if db.IsForeignKeyViolation(err) {
			// Identity or ballot deleted between the checks and the insert
			return models.Vote{}, ErrNotFound
		}
		return models.Vote{}, storageFailure(span, err, "insert vote")
	}

	slog.Info("vote cast", "ballot_id", vote.BallotID, "vote_id", vote.ID)

	return vote, nil
}

// HasVoted reports whether identityID has a vote on ballotID.
func (l *VoteLedger) HasVoted(ctx context.Context, identityID, ballotID string) (bool, error) {
	ctx, span := tracer.Start(ctx, "Voting.VoteLedger.HasVoted")
	defer span.End()

	var count int
	err := l.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM vote
		WHERE identity_id = $1 AND ballot_id = $2
	`, identityID, ballotID).Scan(&count)
	if err != nil {
		return false, storageFailure(span, err, "count votes")
	}

	return count > 0, nil
}

// VoteOf returns the vote identityID cast on ballotID.
func (l *VoteLedger) VoteOf(ctx context.Context, identityID, ballotID string) (models.Vote, error) {
	ctx, span := tracer.Start(ctx, "Voting.VoteLedger.VoteOf")
	defer span.End()

	var v models.Vote
	err := l.db.QueryRowContext(ctx, `
		SELECT id, identity_id, ballot_id, option_id, cast_at, ip_hash, user_agent
		FROM vote
		WHERE identity_id = $1 AND ballot_id = $2
	`, identityID, ballotID).Scan(&v.ID, &v.IdentityID, &v.BallotID, &v.OptionID, &v.CastAt, &v.IPHash, &v.UserAgent)
	if err == sql.ErrNoRows {
		return models.Vote{}, errors.Wrap(ErrNotFound, "vote")
	}
	if err != nil {
		return models.Vote{}, storageFailure(span, err, "query vote")
	}
	v.CastAt = v.CastAt.UTC()

	return v, nil
}

// Totals returns the number of votes per ballot ID. Ballots without votes
// are absent from the map.
func (l *VoteLedger) Totals(ctx context.Context) (map[string]int, error) {
	ctx, span := tracer.Start(ctx, "Voting.VoteLedger.Totals")
	defer span.End()

	rows, err := l.db.QueryContext(ctx, `
		SELECT ballot_id, COUNT(*) FROM vote
		GROUP BY ballot_id
	`)
	if err != nil {
		return nil, storageFailure(span, err, "count votes per ballot")
	}
	defer rows.Close()

	totals := make(map[string]int)
	for rows.Next() {
		var ballotID string
		var count int
		if err := rows.Scan(&ballotID, &count); err != nil {
			return nil, storageFailure(span, err, "scan vote totals")
		}
		totals[ballotID] = count
	}
	if err := rows.Err(); err != nil {
		return nil, storageFailure(span, err, "iterate vote totals")
	}

	return totals, nil
}

// Reset deletes every vote on a ballot and returns how many were removed.
func (l *VoteLedger) Reset(ctx context.Context, ballotID string) (int64, error) {
	ctx, span := tracer.Start(ctx, "Voting.VoteLedger.Reset")
	defer span.End()

	var exists int
	err := l.db.QueryRowContext(ctx, `SELECT 1 FROM ballot WHERE id = $1`, ballotID).Scan(&exists)
	if err == sql.ErrNoRows {
		return 0, ErrBallotNotFound
	}
	if err != nil {
		return 0, storageFailure(span, err, "query ballot")
	}

	result, err := l.db.ExecContext(ctx, `DELETE FROM vote WHERE ballot_id = $1`, ballotID)
	if err != nil {
		return 0, storageFailure(span, err, "delete votes")
	}

	removed, err := result.RowsAffected()
	if err != nil {
		return 0, storageFailure(span, err, "count deleted votes")
	}

	slog.Info("ballot reset", "ballot_id", ballotID, "votes_removed", removed)

	return removed, nil
}
