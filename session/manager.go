// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/ballotbox/auth"
)

// CookieName is the session cookie. Its value is a signed token.
const CookieName = "ballotbox_session"

// Manager issues and reads signed session cookies backed by a Store.
type Manager struct {
	store  Store
	secret string
	ttl    time.Duration
	secure bool
}

func NewManager(store Store, secret string, ttl time.Duration, secure bool) *Manager {
	return &Manager{store: store, secret: secret, ttl: ttl, secure: secure}
}

// Start stores data under a fresh token and sets the cookie.
func (m *Manager) Start(w http.ResponseWriter, r *http.Request, data Data) error {
	// Never reuse a token presented before login
	if token, ok := m.token(r); ok {
		if err := m.store.Delete(r.Context(), token); err != nil {
			slog.Error("failed to delete previous session", "error", err)
		}
	}

	token, err := auth.GenerateSessionToken()
	if err != nil {
		return err
	}
	if err := m.store.Set(r.Context(), token, data, m.ttl); err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    auth.SignToken(token, m.secret),
		Path:     "/",
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Load returns the session for r, if the cookie is valid and known.
func (m *Manager) Load(r *http.Request) (Data, bool) {
	token, ok := m.token(r)
	if !ok {
		return Data{}, false
	}

	data, err := m.store.Get(r.Context(), token)
	if err != nil {
		if err != ErrNotFound {
			slog.Error("failed to load session", "error", err)
		}
		return Data{}, false
	}
	return data, true
}

// End deletes the session and clears the cookie.
func (m *Manager) End(w http.ResponseWriter, r *http.Request) {
	if token, ok := m.token(r); ok {
		if err := m.store.Delete(r.Context(), token); err != nil {
			slog.Error("failed to delete session", "error", err)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Middleware attaches the session, when present, to the request context.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if data, ok := m.Load(r); ok {
			r = r.WithContext(NewContext(r.Context(), data))
		}
		next.ServeHTTP(w, r)
	})
}

func (m *Manager) token(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return "", false
	}
	token, err := auth.VerifyToken(cookie.Value, m.secret)
	if err != nil {
		return "", false
	}
	return token, true
}
