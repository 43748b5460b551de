// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import (
	"fmt"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("voting")

var (
	ErrNotFound           = errors.New("not found")
	ErrBallotNotFound     = fmt.Errorf("ballot %w", ErrNotFound)
	ErrDuplicateIdentity  = errors.New("identity already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidSchedule    = errors.New("invalid schedule")
	ErrBallotNotOpen      = errors.New("ballot is not open for voting")
	ErrOptionNotInBallot  = errors.New("option does not belong to ballot")
	ErrAlreadyVoted       = errors.New("already voted in this ballot")
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// storageFailure records err on the span and returns it wrapped so that
// errors.Is(err, ErrStorageUnavailable) holds.
func storageFailure(span trace.Span, err error, op string) error {
	err = errors.Wrap(err, op)
	span.RecordError(err)
	return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
}

func invalidSchedule(reason string) error {
	return fmt.Errorf("%w: %s", ErrInvalidSchedule, reason)
}
