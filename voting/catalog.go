// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/danielhkuo/ballotbox/models"
)

// BallotSpec describes a ballot to be created.
type BallotSpec struct {
	Topic    string
	Options  []string
	Abstain  string // optional label for an abstain option, listed last
	OpensAt  time.Time
	ClosesAt time.Time
	// CreatedBy is the creating identity, if any.
	CreatedBy string
}

// BallotCatalog stores ballots and their options.
type BallotCatalog struct {
	db *sql.DB
}

func NewBallotCatalog(conn *sql.DB) *BallotCatalog {
	return &BallotCatalog{db: conn}
}

// normalize trims names and checks the spec is well formed.
func (s BallotSpec) normalize() (BallotSpec, error) {
	s.Topic = strings.TrimSpace(s.Topic)
	s.Abstain = strings.TrimSpace(s.Abstain)
	if s.Topic == "" {
		return s, invalidSchedule("topic is required")
	}

	seen := make(map[string]bool)
	var opts []string
	for _, name := range s.Options {
		name = strings.TrimSpace(name)
		if name == "" {
			return s, invalidSchedule("option names must not be empty")
		}
		if seen[name] {
			return s, invalidSchedule(fmt.Sprintf("duplicate option %q", name))
		}
		seen[name] = true
		opts = append(opts, name)
	}
	if len(opts) < 2 {
		return s, invalidSchedule("at least two options are required")
	}
	if s.Abstain != "" && seen[s.Abstain] {
		return s, invalidSchedule(fmt.Sprintf("abstain option %q duplicates an option", s.Abstain))
	}
	s.Options = opts

	if s.OpensAt.IsZero() || s.ClosesAt.IsZero() {
		return s, invalidSchedule("opening and closing times are required")
	}
	if !s.ClosesAt.After(s.OpensAt) {
		return s, invalidSchedule("closing time must be after opening time")
	}
	return s, nil
}

// Create stores a ballot and its options in one transaction.
func (c *BallotCatalog) Create(ctx context.Context, spec BallotSpec) (models.Ballot, error) {
	ctx, span := tracer.Start(ctx, "Voting.BallotCatalog.Create")
	defer span.End()

	spec, err := spec.normalize()
	if err != nil {
		return models.Ballot{}, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return models.Ballot{}, errors.Wrap(err, "generate ballot id")
	}

	ballot := models.Ballot{
		ID:        id.String(),
		Topic:     spec.Topic,
		OpensAt:   spec.OpensAt.UTC(),
		ClosesAt:  spec.ClosesAt.UTC(),
		CreatedAt: time.Now().UTC(),
	}
	if spec.CreatedBy != "" {
		createdBy := spec.CreatedBy
		ballot.CreatedBy = &createdBy
	}

	names := spec.Options
	if spec.Abstain != "" {
		names = append(names[:len(names):len(names)], spec.Abstain)
	}
	for i, name := range names {
		optID, err := uuid.NewV7()
		if err != nil {
			return models.Ballot{}, errors.Wrap(err, "generate option id")
		}
		ballot.Options = append(ballot.Options, models.Option{
			ID:       optID.String(),
			BallotID: ballot.ID,
			Name:     name,
			Position: i,
			Abstain:  spec.Abstain != "" && i == len(names)-1,
		})
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Ballot{}, storageFailure(span, err, "begin transaction")
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO ballot (id, topic, opens_at, closes_at, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, ballot.ID, ballot.Topic, ballot.OpensAt, ballot.ClosesAt, ballot.CreatedBy, ballot.CreatedAt)
	if err != nil {
		return models.Ballot{}, storageFailure(span, err, "insert ballot")
	}

	for _, opt := range ballot.Options {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO ballot_option (id, ballot_id, name, position, abstain)
			VALUES ($1, $2, $3, $4, $5)
		`, opt.ID, opt.BallotID, opt.Name, opt.Position, opt.Abstain)
		if err != nil {
			return models.Ballot{}, storageFailure(span, err, "insert option")
		}
	}

	if err := tx.Commit(); err != nil {
		return models.Ballot{}, storageFailure(span, err, "commit ballot")
	}

	slog.Info("ballot created", "ballot_id", ballot.ID, "topic", ballot.Topic, "options", len(ballot.Options))

	return ballot, nil
}

// Get returns a ballot with its options in declaration order.
func (c *BallotCatalog) Get(ctx context.Context, id string) (models.Ballot, error) {
	ctx, span := tracer.Start(ctx, "Voting.BallotCatalog.Get")
	defer span.End()

	var b models.Ballot
	err := c.db.QueryRowContext(ctx, `
		SELECT id, topic, opens_at, closes_at, created_by, created_at
		FROM ballot
		WHERE id = $1
	`, id).Scan(&b.ID, &b.Topic, &b.OpensAt, &b.ClosesAt, &b.CreatedBy, &b.CreatedAt)
	if err == sql.ErrNoRows {
		return models.Ballot{}, ErrBallotNotFound
	}
	if err != nil {
		return models.Ballot{}, storageFailure(span, err, "query ballot")
	}
	normalizeTimes(&b)

	rows, err := c.db.QueryContext(ctx, `
		SELECT id, ballot_id, name, position, abstain
		FROM ballot_option
		WHERE ballot_id = $1
		ORDER BY position
	`, id)
	if err != nil {
		return models.Ballot{}, storageFailure(span, err, "query options")
	}
	defer rows.Close()

	for rows.Next() {
		var opt models.Option
		if err := rows.Scan(&opt.ID, &opt.BallotID, &opt.Name, &opt.Position, &opt.Abstain); err != nil {
			return models.Ballot{}, storageFailure(span, err, "scan option")
		}
		b.Options = append(b.Options, opt)
	}
	if err := rows.Err(); err != nil {
		return models.Ballot{}, storageFailure(span, err, "iterate options")
	}

	return b, nil
}

// List returns every ballot, without options, ordered by opening time.
func (c *BallotCatalog) List(ctx context.Context) ([]models.Ballot, error) {
	ctx, span := tracer.Start(ctx, "Voting.BallotCatalog.List")
	defer span.End()

	rows, err := c.db.QueryContext(ctx, `
		SELECT id, topic, opens_at, closes_at, created_by, created_at
		FROM ballot
	`)
	if err != nil {
		return nil, storageFailure(span, err, "query ballots")
	}
	defer rows.Close()

	ballots := []models.Ballot{}
	for rows.Next() {
		var b models.Ballot
		if err := rows.Scan(&b.ID, &b.Topic, &b.OpensAt, &b.ClosesAt, &b.CreatedBy, &b.CreatedAt); err != nil {
			return nil, storageFailure(span, err, "scan ballot")
		}
		normalizeTimes(&b)
		ballots = append(ballots, b)
	}
	if err := rows.Err(); err != nil {
		return nil, storageFailure(span, err, "iterate ballots")
	}

	sort.SliceStable(ballots, func(i, j int) bool {
		if ballots[i].OpensAt.Equal(ballots[j].OpensAt) {
			return ballots[i].ID < ballots[j].ID
		}
		return ballots[i].OpensAt.Before(ballots[j].OpensAt)
	})

	return ballots, nil
}

// ListActive returns the ballots whose window contains at.
func (c *BallotCatalog) ListActive(ctx context.Context, at time.Time) ([]models.Ballot, error) {
	all, err := c.List(ctx)
	if err != nil {
		return nil, err
	}

	active := []models.Ballot{}
	for _, b := range all {
		if IsOpen(b, at) {
			active = append(active, b)
		}
	}
	return active, nil
}

func normalizeTimes(b *models.Ballot) {
	b.OpensAt = b.OpensAt.UTC()
	b.ClosesAt = b.ClosesAt.UTC()
	b.CreatedAt = b.CreatedAt.UTC()
}
