// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package seed loads administrators and ballots from a YAML file.

	admins:
	  - email: admin@example.org
	    password: change-me
	ballots:
	  - topic: "Board election"
	    options: ["Party A", "Party B", "Party C"]
	    abstain: "Abstain"
	    opens_at: "2026-10-20T08:00:00Z"
	    closes_at: "2026-10-20T20:00:00Z"

Times are RFC 3339.
*/
package seed
