// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/danielhkuo/ballotbox/models"
	"github.com/danielhkuo/ballotbox/session"
	"github.com/danielhkuo/ballotbox/testutil"
)

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == session.CookieName && c.Value != "" {
			return c
		}
	}
	return nil
}

func TestRegister(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	sessions := testutil.NewTestSessions(cfg)
	handler := NewAccountHandler(db, cfg, sessions)

	testutil.CreateTestIdentity(t, db, "taken@example.org", "")

	testCases := []struct {
		name           string
		form           url.Values
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "valid registration",
			form:           url.Values{"email": {"new@example.org"}, "password": {"long-enough"}, "confirm": {"long-enough"}},
			expectedStatus: http.StatusSeeOther,
		},
		{
			name:           "duplicate email differing in case",
			form:           url.Values{"email": {"Taken@Example.org"}, "password": {"long-enough"}, "confirm": {"long-enough"}},
			expectedStatus: http.StatusConflict,
			expectedBody:   "already exists",
		},
		{
			name:           "invalid email",
			form:           url.Values{"email": {"not-an-email"}, "password": {"long-enough"}, "confirm": {"long-enough"}},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "valid email",
		},
		{
			name:           "short password",
			form:           url.Values{"email": {"short@example.org"}, "password": {"short"}, "confirm": {"short"}},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "at least 8",
		},
		{
			name:           "mismatched confirmation",
			form:           url.Values{"email": {"mismatch@example.org"}, "password": {"long-enough"}, "confirm": {"different"}},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "do not match",
		},
		{
			name:           "password over 72 bytes",
			form:           url.Values{"email": {"long@example.org"}, "password": {strings.Repeat("é", 40)}, "confirm": {strings.Repeat("é", 40)}},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "72 bytes",
		},
		{
			name:           "missing email",
			form:           url.Values{"password": {"long-enough"}, "confirm": {"long-enough"}},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "required",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := testutil.MakeFormRequest("/register", tc.form, nil)
			w := httptest.NewRecorder()

			handler.Register(w, req)

			testutil.AssertStatus(t, w, tc.expectedStatus)
			if tc.expectedBody != "" {
				testutil.AssertContains(t, w, tc.expectedBody)
			}

			cookie := sessionCookie(t, w)
			if tc.expectedStatus == http.StatusSeeOther && cookie == nil {
				t.Error("Expected session cookie after registration")
			}
			if tc.expectedStatus != http.StatusSeeOther && cookie != nil {
				t.Error("Expected no session cookie on failure")
			}
		})
	}

	// The registered identity can sign in
	req := testutil.MakeFormRequest("/login", url.Values{"email": {"NEW@example.org"}, "password": {"long-enough"}}, nil)
	w := httptest.NewRecorder()
	handler.Login(w, req)
	testutil.AssertRedirect(t, w, "/ballots")
}

func TestLogin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	sessions := testutil.NewTestSessions(cfg)
	handler := NewAccountHandler(db, cfg, sessions)

	voter := testutil.CreateTestIdentity(t, db, "voter@example.org", models.RoleVoter)
	testutil.CreateTestIdentity(t, db, "admin@example.org", models.RoleAdmin)

	testCases := []struct {
		name             string
		form             url.Values
		expectedStatus   int
		expectedLocation string
		expectAdmin      bool
	}{
		{"valid voter", url.Values{"email": {"voter@example.org"}, "password": {testutil.TestPassword}}, http.StatusSeeOther, "/ballots", false},
		{"valid admin", url.Values{"email": {"admin@example.org"}, "password": {testutil.TestPassword}}, http.StatusSeeOther, "/ballots", true},
		{"next honoured", url.Values{"email": {"voter@example.org"}, "password": {testutil.TestPassword}, "next": {"/ballots/x/vote"}}, http.StatusSeeOther, "/ballots/x/vote", false},
		{"external next ignored", url.Values{"email": {"voter@example.org"}, "password": {testutil.TestPassword}, "next": {"//evil.example"}}, http.StatusSeeOther, "/ballots", false},
		{"wrong password", url.Values{"email": {"voter@example.org"}, "password": {"wrong-password"}}, http.StatusUnauthorized, "", false},
		{"unknown email", url.Values{"email": {"nobody@example.org"}, "password": {testutil.TestPassword}}, http.StatusUnauthorized, "", false},
		{"missing password", url.Values{"email": {"voter@example.org"}}, http.StatusBadRequest, "", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := testutil.MakeFormRequest("/login", tc.form, nil)
			w := httptest.NewRecorder()

			handler.Login(w, req)

			if tc.expectedStatus == http.StatusSeeOther {
				testutil.AssertRedirect(t, w, tc.expectedLocation)
			} else {
				testutil.AssertStatus(t, w, tc.expectedStatus)
			}
			if tc.expectedStatus == http.StatusUnauthorized {
				// Same message for unknown email and wrong password
				testutil.AssertContains(t, w, "Invalid email or password.")
			}

			cookie := sessionCookie(t, w)
			if tc.expectedStatus != http.StatusSeeOther {
				if cookie != nil {
					t.Error("Expected no session cookie on failure")
				}
				return
			}
			if cookie == nil {
				t.Fatal("Expected session cookie")
			}

			check := httptest.NewRequest("GET", "/ballots", nil)
			check.AddCookie(cookie)
			data, ok := sessions.Load(check)
			if !ok {
				t.Fatal("Session not stored")
			}
			if data.Admin != tc.expectAdmin {
				t.Errorf("Expected admin=%v, got %v", tc.expectAdmin, data.Admin)
			}
			if !tc.expectAdmin && data.IdentityID != voter.ID {
				t.Errorf("Expected identity %s, got %s", voter.ID, data.IdentityID)
			}
		})
	}
}

func TestLogout(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	sessions := testutil.NewTestSessions(cfg)
	handler := NewAccountHandler(db, cfg, sessions)

	voter := testutil.CreateTestIdentity(t, db, "voter@example.org", "")
	cookie := testutil.SignIn(t, sessions, voter)

	req := httptest.NewRequest("GET", "/logout", nil)
	req.AddCookie(cookie)
	w := httptest.NewRecorder()

	handler.Logout(w, req)

	testutil.AssertRedirect(t, w, "/login")

	check := httptest.NewRequest("GET", "/ballots", nil)
	check.AddCookie(cookie)
	if _, ok := sessions.Load(check); ok {
		t.Error("Session still valid after logout")
	}
}

func TestSafeNext(t *testing.T) {
	testCases := []struct {
		in, want string
	}{
		{"/ballots", "/ballots"},
		{"/ballots/abc/vote?x=1", "/ballots/abc/vote?x=1"},
		{"", ""},
		{"https://evil.example", ""},
		{"//evil.example", ""},
		{"/\\evil.example", ""},
	}
	for _, tc := range testCases {
		if got := safeNext(tc.in); got != tc.want {
			t.Errorf("safeNext(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
