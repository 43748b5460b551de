// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// SchemaSQL returns the authoritative schema.
func SchemaSQL() string {
	return schema
}

// Timestamps are always written in UTC by the application, so the same
// TIMESTAMP columns work for Postgres and SQLite.
const schema = `
-- Identities
CREATE TABLE IF NOT EXISTS identity (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    role TEXT NOT NULL DEFAULT 'voter' CHECK (role IN ('voter', 'admin')),
    created_at TIMESTAMP NOT NULL
);

-- Ballots
CREATE TABLE IF NOT EXISTS ballot (
    id TEXT PRIMARY KEY,
    topic TEXT NOT NULL,
    opens_at TIMESTAMP NOT NULL,
    closes_at TIMESTAMP NOT NULL,
    created_by TEXT REFERENCES identity(id) ON DELETE SET NULL,
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_ballot_opens_at ON ballot(opens_at);

-- Options
CREATE TABLE IF NOT EXISTS ballot_option (
    id TEXT PRIMARY KEY,
    ballot_id TEXT NOT NULL REFERENCES ballot(id) ON DELETE CASCADE,
    name TEXT NOT NULL,
    position INTEGER NOT NULL,
    abstain BOOLEAN NOT NULL DEFAULT FALSE,
    UNIQUE (ballot_id, name),
    UNIQUE (ballot_id, position),
    UNIQUE (id, ballot_id)
);

CREATE INDEX IF NOT EXISTS idx_ballot_option_ballot_id ON ballot_option(ballot_id);

-- Votes
CREATE TABLE IF NOT EXISTS vote (
    id TEXT PRIMARY KEY,
    identity_id TEXT NOT NULL REFERENCES identity(id) ON DELETE RESTRICT,
    ballot_id TEXT NOT NULL REFERENCES ballot(id) ON DELETE CASCADE,
    option_id TEXT NOT NULL,
    cast_at TIMESTAMP NOT NULL,
    ip_hash TEXT,
    user_agent TEXT,
    UNIQUE (identity_id, ballot_id),
    FOREIGN KEY (option_id, ballot_id) REFERENCES ballot_option(id, ballot_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_vote_ballot_id ON vote(ballot_id);
CREATE INDEX IF NOT EXISTS idx_vote_option_id ON vote(option_id);
`
