// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/danielhkuo/ballotbox/auth"
	"github.com/danielhkuo/ballotbox/db"
	"github.com/danielhkuo/ballotbox/models"
)

// IdentityStore holds registered voters and administrators.
type IdentityStore struct {
	db *sql.DB
}

func NewIdentityStore(conn *sql.DB) *IdentityStore {
	return &IdentityStore{db: conn}
}

// FoldEmail normalizes an email for storage and lookup. Emails are
// compared case-insensitively.
func FoldEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an identity. An empty role registers a voter.
func (s *IdentityStore) Register(ctx context.Context, email, secret, role string) (models.Identity, error) {
	ctx, span := tracer.Start(ctx, "Voting.IdentityStore.Register")
	defer span.End()

	email = FoldEmail(email)
	if email == "" || secret == "" {
		return models.Identity{}, errors.New("email and secret are required")
	}
	if role == "" {
		role = models.RoleVoter
	}
	if role != models.RoleVoter && role != models.RoleAdmin {
		return models.Identity{}, fmt.Errorf("unknown role %q", role)
	}

	hash, err := auth.HashSecret(secret)
	if err != nil {
		return models.Identity{}, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return models.Identity{}, errors.Wrap(err, "generate identity id")
	}

	ident := models.Identity{
		ID:           id.String(),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}

	// The unique index on email is the only duplicate check
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO identity (id, email, password_hash, role, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, ident.ID, ident.Email, ident.PasswordHash, ident.Role, ident.CreatedAt)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return models.Identity{}, ErrDuplicateIdentity
		}
		return models.Identity{}, storageFailure(span, err, "insert identity")
	}

	return ident, nil
}

// Authenticate returns the identity for email if secret matches its hash.
func (s *IdentityStore) Authenticate(ctx context.Context, email, secret string) (models.Identity, error) {
	ctx, span := tracer.Start(ctx, "Voting.IdentityStore.Authenticate")
	defer span.End()

	ident, err := s.scanOne(ctx, `
		SELECT id, email, password_hash, role, created_at
		FROM identity
		WHERE email = $1
	`, FoldEmail(email))
	if err == sql.ErrNoRows {
		auth.CompareDummy(secret)
		return models.Identity{}, ErrInvalidCredentials
	}
	if err != nil {
		return models.Identity{}, storageFailure(span, err, "query identity")
	}

	if err := auth.CompareSecret(ident.PasswordHash, secret); err != nil {
		return models.Identity{}, ErrInvalidCredentials
	}

	return ident, nil
}

// Get returns the identity with the given ID.
func (s *IdentityStore) Get(ctx context.Context, id string) (models.Identity, error) {
	ctx, span := tracer.Start(ctx, "Voting.IdentityStore.Get")
	defer span.End()

	ident, err := s.scanOne(ctx, `
		SELECT id, email, password_hash, role, created_at
		FROM identity
		WHERE id = $1
	`, id)
	if err == sql.ErrNoRows {
		return models.Identity{}, fmt.Errorf("identity %w", ErrNotFound)
	}
	if err != nil {
		return models.Identity{}, storageFailure(span, err, "query identity")
	}

	return ident, nil
}

func (s *IdentityStore) scanOne(ctx context.Context, query string, arg any) (models.Identity, error) {
	var ident models.Identity
	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&ident.ID, &ident.Email, &ident.PasswordHash, &ident.Role, &ident.CreatedAt,
	)
	ident.CreatedAt = ident.CreatedAt.UTC()
	return ident, err
}
