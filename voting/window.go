// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import (
	"time"

	"github.com/danielhkuo/ballotbox/models"
)

// StateAt reports where at falls in the ballot's half-open window
// [OpensAt, ClosesAt). at == OpensAt is open, at == ClosesAt is closed.
func StateAt(b models.Ballot, at time.Time) models.WindowState {
	switch {
	case at.Before(b.OpensAt):
		return models.StateScheduled
	case at.Before(b.ClosesAt):
		return models.StateOpen
	default:
		return models.StateClosed
	}
}

// IsOpen reports whether votes are accepted at the given time.
func IsOpen(b models.Ballot, at time.Time) bool {
	return StateAt(b, at) == models.StateOpen
}
