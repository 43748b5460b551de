// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package seed

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/go-yaml/yaml"

	"github.com/danielhkuo/ballotbox/models"
	"github.com/danielhkuo/ballotbox/voting"
)

type File struct {
	Admins  []Admin  `yaml:"admins"`
	Ballots []Ballot `yaml:"ballots"`
}

type Admin struct {
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
}

type Ballot struct {
	Topic    string   `yaml:"topic"`
	Options  []string `yaml:"options"`
	Abstain  string   `yaml:"abstain"`
	OpensAt  string   `yaml:"opens_at"`
	ClosesAt string   `yaml:"closes_at"`
}

// Report counts what Apply did.
type Report struct {
	AdminsCreated  int
	AdminsSkipped  int
	BallotsCreated int
}

func Load(path string) (File, error) {
	file, err := os.Open(path)
	if err != nil {
		return File{}, err
	}
	defer file.Close()

	var f File
	if err := yaml.NewDecoder(file).Decode(&f); err != nil {
		return File{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return f, nil
}

// Apply creates the admins and ballots in f. Admins that already exist
// are skipped; ballots are always created.
func Apply(ctx context.Context, db *sql.DB, f File) (Report, error) {
	var report Report
	identities := voting.NewIdentityStore(db)
	catalog := voting.NewBallotCatalog(db)

	for _, a := range f.Admins {
		_, err := identities.Register(ctx, a.Email, a.Password, models.RoleAdmin)
		if errors.Is(err, voting.ErrDuplicateIdentity) {
			slog.Info("admin already exists, skipped", "email", voting.FoldEmail(a.Email))
			report.AdminsSkipped++
			continue
		}
		if err != nil {
			return report, fmt.Errorf("admin %s: %w", a.Email, err)
		}
		report.AdminsCreated++
	}

	for i, b := range f.Ballots {
		opensAt, err := time.Parse(time.RFC3339, b.OpensAt)
		if err != nil {
			return report, fmt.Errorf("ballot %d (%s): opens_at: %w", i+1, b.Topic, err)
		}
		closesAt, err := time.Parse(time.RFC3339, b.ClosesAt)
		if err != nil {
			return report, fmt.Errorf("ballot %d (%s): closes_at: %w", i+1, b.Topic, err)
		}

		_, err = catalog.Create(ctx, voting.BallotSpec{
			Topic:    b.Topic,
			Options:  b.Options,
			Abstain:  b.Abstain,
			OpensAt:  opensAt,
			ClosesAt: closesAt,
		})
		if err != nil {
			return report, fmt.Errorf("ballot %d (%s): %w", i+1, b.Topic, err)
		}
		report.BallotsCreated++
	}

	return report, nil
}
