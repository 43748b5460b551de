// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the ballotbox server.

Ballotbox runs ballots with a fixed voting window. Registered identities
cast at most one vote per ballot, and results show per-option counts and
the winner or tie.

# Starting the Server

	SESSION_SECRET=... ballotbox serve -d ballotbox.db

Or against Postgres:

	ballotbox serve -t postgres -d "postgres://..."

Before the first run, create an administrator and optionally seed ballots:

	ballotbox admin create --email admin@example.com --password ...
	ballotbox seed --file seed.yaml

# Configuration

Settings come from flags, then the environment, then a .env file:

  - DATABASE_URL (-d): Database connection string or SQLite path
  - DATABASE_TYPE (-t): sqlite (default) or postgres
  - SESSION_SECRET (--session-secret): Session cookie signing secret
  - IP_HASH_SALT (--ip-salt): Salt for stored voter IP hashes
  - SESSION_STORE (--session-store): memory (default) or redis
  - REDIS_ADDR, REDIS_PASSWORD, REDIS_DB: Redis session store
  - TRACE_ENDPOINT (--trace-endpoint): OTLP/HTTP collector URL
  - PORT (-p): Server port (default: 3318)

# Architecture

  - cli: Cobra commands (serve, migrate, admin, seed)
  - router: Route definitions using Go 1.22+ routing
  - handlers: HTML and JSON request handlers
  - voting: Identities, catalog, window gate, vote ledger and tallies
  - session: Cookie sessions with memory or Redis storage
  - views: Embedded HTML templates
  - middleware: Logging, tracing, access control, CORS
  - models: Domain and response types
  - auth: Password hashing and token signing
  - db: Connections and schema creation
  - cliparse: Configuration parsing
  - seed: YAML seed files
  - tracing: OpenTelemetry setup

See package documentation for each component.
*/
package main
