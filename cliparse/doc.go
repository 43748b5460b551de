// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line flags and configuration.

# Configuration

Commands register the flags on their cobra flag set and resolve after
parsing:

	cliparse.RegisterFlags(cmd.Flags(), &cfg)
	// ... cobra parses ...
	err := cliparse.Resolve(cmd.Flags(), &cfg)

ParseFlags does all of it in one call:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# CLI Flags

	-p, --port            Server port (default 3318)
	-d, --database-url    Database URL
	-t, --database-type   sqlite or postgres (default sqlite)
	--session-secret      Session signing secret
	--session-store       memory or redis (default memory)
	--session-ttl         Session lifetime (default 12h)
	--secure-cookies      Mark cookies Secure
	--redis-addr          Redis address
	--redis-password      Redis password
	--redis-db            Redis database number
	--ip-salt             IP hash salt
	--trace-endpoint      OTLP/HTTP trace endpoint

# Environment Variables

Flags fall back to environment variables:

	PORT            → -p
	DATABASE_URL    → -d
	DATABASE_TYPE   → -t
	SESSION_SECRET  → --session-secret
	SESSION_STORE   → --session-store
	SESSION_TTL     → --session-ttl
	SECURE_COOKIES  → --secure-cookies
	REDIS_ADDR      → --redis-addr
	REDIS_PASSWORD  → --redis-password
	REDIS_DB        → --redis-db
	IP_HASH_SALT    → --ip-salt
	TRACE_ENDPOINT  → --trace-endpoint

CLI flags take precedence over environment variables. LoadDotEnv reads a
.env file into the environment without overriding variables already set.

# Validation

RequireDatabase needs DATABASE_URL and a known database type.
RequireServer additionally needs SESSION_SECRET, and REDIS_ADDR when the
redis session store is selected.
*/
package cliparse
