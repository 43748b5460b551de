// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("session not found")

// Data is what a session carries between requests.
type Data struct {
	IdentityID string `json:"identity_id"`
	Email      string `json:"email"`
	Admin      bool   `json:"admin"`
}

// Store keeps session data by opaque token.
type Store interface {
	Get(ctx context.Context, token string) (Data, error)
	Set(ctx context.Context, token string, data Data, ttl time.Duration) error
	Delete(ctx context.Context, token string) error
}

type contextKey struct{}

// NewContext returns ctx carrying data.
func NewContext(ctx context.Context, data Data) context.Context {
	return context.WithValue(ctx, contextKey{}, data)
}

// FromContext returns the session data attached by Manager.Middleware.
func FromContext(ctx context.Context) (Data, bool) {
	data, ok := ctx.Value(contextKey{}).(Data)
	return data, ok
}
