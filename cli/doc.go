// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cli holds the ballotbox commands.

	ballotbox serve                                  run the HTTP server
	ballotbox migrate                                create the schema and exit
	ballotbox admin create --email E --password P    add an administrator
	ballotbox seed --file seed.yaml                  load admins and ballots

Every command shares the persistent flags from package cliparse. Settings
resolve in this order: flag, environment, .env file, default. The serve
command shuts down gracefully on SIGINT or SIGTERM.
*/
package cli
