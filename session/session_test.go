// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"
)

func testStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	if _, err := store.Get(ctx, "missing"); err != ErrNotFound {
		t.Errorf("Get(missing) error = %v, want %v", err, ErrNotFound)
	}

	data := Data{IdentityID: "id-1", Email: "a@example.org", Admin: true}
	if err := store.Set(ctx, "tok", data, time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, err := store.Get(ctx, "tok")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != data {
		t.Errorf("Get() = %+v, want %+v", got, data)
	}

	if err := store.Delete(ctx, "tok"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := store.Get(ctx, "tok"); err != ErrNotFound {
		t.Errorf("Get() after Delete error = %v, want %v", err, ErrNotFound)
	}
}

func TestMemoryStore(t *testing.T) {
	testStore(t, NewMemoryStore(time.Hour))
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	ctx := context.Background()

	store.Set(ctx, "tok", Data{IdentityID: "id-1"}, 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)

	if _, err := store.Get(ctx, "tok"); err != ErrNotFound {
		t.Errorf("expired session still returned, error = %v", err)
	}
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}

	store := NewRedisStore(NewRedisClient(addr, os.Getenv("REDIS_PASSWORD"), 0))
	if err := store.Ping(context.Background()); err != nil {
		t.Skipf("redis unreachable: %v", err)
	}
	testStore(t, store)
}

func TestManagerLifecycle(t *testing.T) {
	m := NewManager(NewMemoryStore(time.Hour), "test-secret", time.Hour, false)
	data := Data{IdentityID: "id-1", Email: "a@example.org"}

	// Start sets a signed cookie
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/login", nil)
	if err := m.Start(w, r, data); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	cookies := w.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != CookieName {
		t.Fatalf("expected one %s cookie, got %v", CookieName, cookies)
	}
	cookie := cookies[0]
	if !cookie.HttpOnly {
		t.Error("session cookie must be HttpOnly")
	}

	// Load with the cookie returns the data
	r = httptest.NewRequest(http.MethodGet, "/ballots", nil)
	r.AddCookie(cookie)
	got, ok := m.Load(r)
	if !ok || got != data {
		t.Fatalf("Load() = %+v, %v; want %+v, true", got, ok, data)
	}

	// Middleware attaches it to the context
	var seen Data
	var present bool
	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, present = FromContext(r.Context())
	}))
	h.ServeHTTP(httptest.NewRecorder(), r)
	if !present || seen != data {
		t.Errorf("FromContext() = %+v, %v; want %+v, true", seen, present, data)
	}

	// End removes it server-side and clears the cookie
	w = httptest.NewRecorder()
	m.End(w, r)
	if c := w.Result().Cookies(); len(c) != 1 || c[0].MaxAge >= 0 {
		t.Errorf("End() did not clear the cookie: %v", c)
	}
	if _, ok := m.Load(r); ok {
		t.Error("Load() succeeded after End()")
	}
}

func TestManagerRejectsForgedCookie(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	store.Set(context.Background(), "known-token", Data{IdentityID: "id-1"}, time.Hour)
	m := NewManager(store, "test-secret", time.Hour, false)

	tests := []struct {
		name  string
		value string
	}{
		{"unsigned", "known-token"},
		{"wrong secret", "known-token.Zm9yZ2Vk"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.AddCookie(&http.Cookie{Name: CookieName, Value: tt.value})
			if _, ok := m.Load(r); ok {
				t.Error("Load() accepted a forged cookie")
			}
		})
	}
}

func TestFromContextEmpty(t *testing.T) {
	if _, ok := FromContext(context.Background()); ok {
		t.Error("FromContext() on empty context returned ok")
	}
}

// failingDeleteStore is a MemoryStore whose Delete always fails.
type failingDeleteStore struct {
	*MemoryStore
}

func (s failingDeleteStore) Delete(context.Context, string) error {
	return errors.New("store unavailable")
}

func TestStartLogsFailedDelete(t *testing.T) {
	var logs bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&logs, nil)))
	defer slog.SetDefault(prev)

	m := NewManager(failingDeleteStore{NewMemoryStore(time.Hour)}, "test-secret", time.Hour, false)

	w := httptest.NewRecorder()
	if err := m.Start(w, httptest.NewRequest(http.MethodPost, "/login", nil), Data{IdentityID: "id-1"}); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	old := w.Result().Cookies()[0]

	// Signing in again presents the old cookie, whose delete fails
	r := httptest.NewRequest(http.MethodPost, "/login", nil)
	r.AddCookie(old)
	w = httptest.NewRecorder()
	if err := m.Start(w, r, Data{IdentityID: "id-2"}); err != nil {
		t.Fatalf("second Start() error = %v", err)
	}

	if !strings.Contains(logs.String(), "failed to delete previous session") {
		t.Errorf("expected the failed delete to be logged, got %q", logs.String())
	}

	r = httptest.NewRequest(http.MethodGet, "/ballots", nil)
	r.AddCookie(w.Result().Cookies()[0])
	if got, ok := m.Load(r); !ok || got.IdentityID != "id-2" {
		t.Errorf("Load() = %+v, %v; want the new session", got, ok)
	}
}
