// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import (
	"context"
	"database/sql"
	"strings"

	"github.com/danielhkuo/ballotbox/models"
)

// TallyEngine counts votes. Counts are read from storage on every call.
type TallyEngine struct {
	db      *sql.DB
	catalog *BallotCatalog
}

func NewTallyEngine(conn *sql.DB, catalog *BallotCatalog) *TallyEngine {
	return &TallyEngine{db: conn, catalog: catalog}
}

// Tally returns one count per option, zero counts included, in
// declaration order.
func (e *TallyEngine) Tally(ctx context.Context, ballotID string) (models.Ballot, models.Tally, error) {
	ctx, span := tracer.Start(ctx, "Voting.TallyEngine.Tally")
	defer span.End()

	ballot, err := e.catalog.Get(ctx, ballotID)
	if err != nil {
		return models.Ballot{}, models.Tally{}, err
	}

	rows, err := e.db.QueryContext(ctx, `
		SELECT option_id, COUNT(*)
		FROM vote
		WHERE ballot_id = $1
		GROUP BY option_id
	`, ballotID)
	if err != nil {
		return models.Ballot{}, models.Tally{}, storageFailure(span, err, "count votes")
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var optionID string
		var count int
		if err := rows.Scan(&optionID, &count); err != nil {
			return models.Ballot{}, models.Tally{}, storageFailure(span, err, "scan count")
		}
		counts[optionID] = count
	}
	if err := rows.Err(); err != nil {
		return models.Ballot{}, models.Tally{}, storageFailure(span, err, "iterate counts")
	}

	tally := models.Tally{
		BallotID: ballot.ID,
		Options:  make([]models.OptionCount, 0, len(ballot.Options)),
	}
	for _, opt := range ballot.Options {
		n := counts[opt.ID]
		tally.Options = append(tally.Options, models.OptionCount{
			OptionID: opt.ID,
			Name:     opt.Name,
			Abstain:  opt.Abstain,
			Count:    n,
		})
		tally.Total += n
	}

	return ballot, tally, nil
}

// Winners returns the names of the non-abstain options holding the highest
// count. It is empty when that count is zero; more than one name is a tie.
func Winners(t models.Tally) []string {
	max := 0
	for _, oc := range t.Options {
		if !oc.Abstain && oc.Count > max {
			max = oc.Count
		}
	}

	winners := []string{}
	if max == 0 {
		return winners
	}
	for _, oc := range t.Options {
		if !oc.Abstain && oc.Count == max {
			winners = append(winners, oc.Name)
		}
	}
	return winners
}

// Summary describes the outcome in one sentence.
func Summary(winners []string) string {
	switch len(winners) {
	case 0:
		return "No option has received votes yet."
	case 1:
		return "Winner: " + winners[0]
	default:
		return "Tie between: " + strings.Join(winners, ", ")
	}
}
