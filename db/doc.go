// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the database and creates the schema.

# Connections

Open selects a driver by database type:

	conn, err := db.Open(db.TypePostgres, "postgres://...")
	conn, err := db.Open(db.TypeSQLite, "file:ballotbox.db")

SQLite connections are limited to a single pooled connection with foreign
keys enabled. Postgres uses the default database/sql pool.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.
The same statements run on both Postgres and SQLite.

# Tables

  - identity: Registered voters and administrators (email is unique, stored folded)
  - ballot: Topic and voting window [opens_at, closes_at)
  - ballot_option: Ordered options per ballot
  - vote: One vote per identity per ballot

# Relationships

	ballot 1──* ballot_option
	ballot 1──* vote
	identity 1──* vote
	ballot_option 1──* vote (same ballot only)

Options and votes cascade when their ballot is deleted. Deleting an identity
that has votes is restricted.

# Constraint Errors

IsUniqueViolation and IsForeignKeyViolation classify driver errors from
either database so callers never match on error strings:

	if db.IsUniqueViolation(err) {
		return ErrAlreadyVoted
	}
*/
package db
