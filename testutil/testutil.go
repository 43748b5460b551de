// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/danielhkuo/ballotbox/auth"
	"github.com/danielhkuo/ballotbox/cliparse"
	"github.com/danielhkuo/ballotbox/db"
	"github.com/danielhkuo/ballotbox/models"
	"github.com/danielhkuo/ballotbox/session"
	"github.com/danielhkuo/ballotbox/voting"
)

// TestPassword is the password of every identity created by CreateTestIdentity
const TestPassword = "correct-horse-battery"

func init() {
	// Full-cost bcrypt makes every registration test slow
	auth.HashCost = bcrypt.MinCost
}

// SetupTestDB opens a fresh in-memory database with the full schema
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open(db.TypeSQLite, ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:          3318,
		DatabaseURL:   ":memory:",
		DatabaseType:  db.TypeSQLite,
		SessionSecret: "test-session-secret",
		SessionStore:  cliparse.StoreMemory,
		SessionTTL:    time.Hour,
		IPHashSalt:    "test-ip-salt",
	}
}

// NewTestSessions returns a session manager backed by an in-memory store
func NewTestSessions(cfg cliparse.Config) *session.Manager {
	return session.NewManager(session.NewMemoryStore(cfg.SessionTTL), cfg.SessionSecret, cfg.SessionTTL, false)
}

// CreateTestIdentity registers an identity with TestPassword
func CreateTestIdentity(t *testing.T, conn *sql.DB, email, role string) models.Identity {
	t.Helper()

	ident, err := voting.NewIdentityStore(conn).Register(context.Background(), email, TestPassword, role)
	if err != nil {
		t.Fatalf("Failed to create test identity: %v", err)
	}
	return ident
}

// CreateTestBallot creates a ballot open on [opensAt, closesAt)
func CreateTestBallot(t *testing.T, conn *sql.DB, options []string, opensAt, closesAt time.Time) models.Ballot {
	t.Helper()

	ballot, err := voting.NewBallotCatalog(conn).Create(context.Background(), voting.BallotSpec{
		Topic:    "Test Ballot",
		Options:  options,
		OpensAt:  opensAt,
		ClosesAt: closesAt,
	})
	if err != nil {
		t.Fatalf("Failed to create test ballot: %v", err)
	}
	return ballot
}

// CreateOpenBallot creates a ballot that opened an hour ago and closes in an hour
func CreateOpenBallot(t *testing.T, conn *sql.DB, options ...string) models.Ballot {
	t.Helper()
	now := time.Now().UTC()
	return CreateTestBallot(t, conn, options, now.Add(-time.Hour), now.Add(time.Hour))
}

// ListBallots returns every ballot with its options
func ListBallots(conn *sql.DB) ([]models.Ballot, error) {
	catalog := voting.NewBallotCatalog(conn)
	ballots, err := catalog.List(context.Background())
	if err != nil {
		return nil, err
	}
	for i, b := range ballots {
		if ballots[i], err = catalog.Get(context.Background(), b.ID); err != nil {
			return nil, err
		}
	}
	return ballots, nil
}

// OptionID returns the ID of the named option
func OptionID(t *testing.T, ballot models.Ballot, name string) string {
	t.Helper()
	for _, opt := range ballot.Options {
		if opt.Name == name {
			return opt.ID
		}
	}
	t.Fatalf("Ballot %s has no option %q", ballot.ID, name)
	return ""
}

// CastTestVote records a vote for the named option at the ballot's opening time
func CastTestVote(t *testing.T, conn *sql.DB, identityID string, ballot models.Ballot, option string) models.Vote {
	t.Helper()

	ledger := voting.NewVoteLedger(conn, voting.NewBallotCatalog(conn))
	vote, err := ledger.Cast(context.Background(), voting.CastRequest{
		IdentityID: identityID,
		BallotID:   ballot.ID,
		OptionID:   OptionID(t, ballot, option),
		At:         ballot.OpensAt,
	})
	if err != nil {
		t.Fatalf("Failed to cast test vote: %v", err)
	}
	return vote
}

// SignIn starts a session for ident and returns its cookie
func SignIn(t *testing.T, sessions *session.Manager, ident models.Identity) *http.Cookie {
	t.Helper()

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/login", nil)
	err := sessions.Start(w, r, session.Data{
		IdentityID: ident.ID,
		Email:      ident.Email,
		Admin:      ident.IsAdmin(),
	})
	if err != nil {
		t.Fatalf("Failed to start session: %v", err)
	}

	for _, c := range w.Result().Cookies() {
		if c.Name == session.CookieName {
			return c
		}
	}
	t.Fatal("Session cookie not set")
	return nil
}

// MakeRequest creates an HTTP test request with the given headers
func MakeRequest(method, path string, headers map[string]string) *http.Request {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return req
}

// MakeFormRequest creates a form POST, optionally carrying a session cookie
func MakeFormRequest(path string, form url.Values, cookie *http.Cookie) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertRedirect checks for a 303 to the expected location
func AssertRedirect(t *testing.T, w *httptest.ResponseRecorder, location string) {
	t.Helper()
	if w.Code != http.StatusSeeOther {
		t.Errorf("Expected status %d, got %d. Body: %s", http.StatusSeeOther, w.Code, w.Body.String())
	}
	if got := w.Header().Get("Location"); got != location {
		t.Errorf("Expected redirect to %q, got %q", location, got)
	}
}

// AssertContains checks that the response body contains substr
func AssertContains(t *testing.T, w *httptest.ResponseRecorder, substr string) {
	t.Helper()
	if !strings.Contains(w.Body.String(), substr) {
		t.Errorf("Expected body to contain %q. Body: %s", substr, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
