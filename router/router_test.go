// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/danielhkuo/ballotbox/models"
	"github.com/danielhkuo/ballotbox/session"
	"github.com/danielhkuo/ballotbox/testutil"
)

func newTestRouter(t *testing.T) (http.Handler, *session.Manager) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	sessions := testutil.NewTestSessions(cfg)
	return NewRouter(db, cfg, sessions), sessions
}

func TestHealthEndpoint(t *testing.T) {
	mux, _ := newTestRouter(t)

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	if w.Body.String() != "OK" {
		t.Errorf("Expected body 'OK', got '%s'", w.Body.String())
	}
}

func TestRootEndpoint(t *testing.T) {
	mux, _ := newTestRouter(t)

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	testutil.AssertRedirect(t, w, "/ballots")

	// Unknown paths are not swallowed by the root route
	req = httptest.NewRequest("GET", "/nope", nil)
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown path, got %d", w.Code)
	}
}

func TestRouteExistence(t *testing.T) {
	mux, _ := newTestRouter(t)

	testCases := []struct {
		method string
		path   string
	}{
		{"GET", "/health"},
		{"GET", "/"},
		{"GET", "/register"},
		{"POST", "/register"},
		{"GET", "/login"},
		{"POST", "/login"},
		{"GET", "/logout"},
		{"POST", "/logout"},
		{"GET", "/ballots"},
		{"GET", "/ballots/test-id/vote"},
		{"POST", "/ballots/test-id/vote"},
		{"GET", "/ballots/test-id/results"},
		{"GET", "/api/ballots/test-id/results"},
		{"OPTIONS", "/api/ballots/test-id/results"},
		{"GET", "/admin/ballots"},
		{"GET", "/admin/ballots/new"},
		{"POST", "/admin/ballots/new"},
		{"POST", "/admin/ballots/test-id/reset"},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			if w.Code == http.StatusMethodNotAllowed {
				t.Errorf("Route %s %s returned 405, expected route handler to exist", tc.method, tc.path)
			}
		})
	}
}

func TestSpecificMethodRouting(t *testing.T) {
	mux, _ := newTestRouter(t)

	testCases := []struct {
		name           string
		method         string
		path           string
		expectedStatus int
	}{
		{"POST to health endpoint", "POST", "/health", http.StatusMethodNotAllowed},
		{"DELETE a ballot vote", "DELETE", "/ballots/test-id/vote", http.StatusMethodNotAllowed},
		{"GET reset", "GET", "/admin/ballots/test-id/reset", http.StatusMethodNotAllowed},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			if w.Code != tc.expectedStatus {
				t.Errorf("Expected %d for %s %s, got %d", tc.expectedStatus, tc.method, tc.path, w.Code)
			}
		})
	}
}

func TestAccessControl(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	sessions := testutil.NewTestSessions(cfg)
	mux := NewRouter(db, cfg, sessions)

	voter := testutil.CreateTestIdentity(t, db, "voter@example.org", models.RoleVoter)
	admin := testutil.CreateTestIdentity(t, db, "admin@example.org", models.RoleAdmin)
	voterCookie := testutil.SignIn(t, sessions, voter)
	adminCookie := testutil.SignIn(t, sessions, admin)

	testCases := []struct {
		name           string
		path           string
		cookie         *http.Cookie
		expectedStatus int
	}{
		{"signed out ballots", "/ballots", nil, http.StatusSeeOther},
		{"signed out admin", "/admin/ballots", nil, http.StatusSeeOther},
		{"forged cookie", "/ballots", &http.Cookie{Name: session.CookieName, Value: "forged.token"}, http.StatusSeeOther},
		{"voter ballots", "/ballots", voterCookie, http.StatusOK},
		{"voter admin", "/admin/ballots", voterCookie, http.StatusForbidden},
		{"admin admin", "/admin/ballots", adminCookie, http.StatusOK},
		{"public results API", "/api/ballots/missing/results", nil, http.StatusNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tc.path, nil)
			if tc.cookie != nil {
				req.AddCookie(tc.cookie)
			}
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			testutil.AssertStatus(t, w, tc.expectedStatus)
			if tc.expectedStatus == http.StatusSeeOther {
				if loc := w.Header().Get("Location"); !strings.HasPrefix(loc, "/login") {
					t.Errorf("Expected redirect to login, got %q", loc)
				}
			}
		})
	}
}

// TestFullVotingWorkflow drives the application through the router:
// 1. Admin creates a ballot
// 2. Two voters register
// 3. Both vote, one tries twice
// 4. Results show a tie
// 5. Admin resets the ballot
func TestFullVotingWorkflow(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	sessions := testutil.NewTestSessions(cfg)
	mux := NewRouter(db, cfg, sessions)

	do := func(req *http.Request, cookie *http.Cookie) *httptest.ResponseRecorder {
		if cookie != nil {
			req.AddCookie(cookie)
		}
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, req)
		return w
	}
	cookieFrom := func(w *httptest.ResponseRecorder) *http.Cookie {
		for _, c := range w.Result().Cookies() {
			if c.Name == session.CookieName {
				return c
			}
		}
		t.Fatalf("No session cookie. Status %d", w.Code)
		return nil
	}

	// Step 1: Admin creates a ballot open around now
	admin := testutil.CreateTestIdentity(t, db, "admin@example.org", models.RoleAdmin)
	adminCookie := testutil.SignIn(t, sessions, admin)

	now := time.Now().UTC()
	w := do(testutil.MakeFormRequest("/admin/ballots/new", url.Values{
		"topic":     {"Integration Ballot"},
		"options":   {"Red\nBlue"},
		"opens_at":  {now.Add(-time.Hour).Format(time.RFC3339)},
		"closes_at": {now.Add(time.Hour).Format(time.RFC3339)},
	}, nil), adminCookie)
	testutil.AssertRedirect(t, w, "/admin/ballots")

	ballots, err := testutil.ListBallots(db)
	if err != nil || len(ballots) != 1 {
		t.Fatalf("Step 1 - Expected one ballot, got %d (%v)", len(ballots), err)
	}
	ballot := ballots[0]
	t.Logf("Step 1 - Created ballot: %s", ballot.ID)

	// Step 2: Voters register
	cookies := make([]*http.Cookie, 2)
	for i, email := range []string{"alice@example.org", "bob@example.org"} {
		w := do(testutil.MakeFormRequest("/register", url.Values{
			"email":    {email},
			"password": {"long-enough"},
			"confirm":  {"long-enough"},
		}, nil), nil)
		testutil.AssertRedirect(t, w, "/ballots")
		cookies[i] = cookieFrom(w)
	}

	// The ballot is listed
	w = do(httptest.NewRequest("GET", "/ballots", nil), cookies[0])
	testutil.AssertStatus(t, w, http.StatusOK)
	testutil.AssertContains(t, w, "Integration Ballot")

	// Step 3: Vote
	resultsPath := "/ballots/" + ballot.ID + "/results"
	votePath := "/ballots/" + ballot.ID + "/vote"
	for i, option := range []string{"Red", "Blue"} {
		w := do(testutil.MakeFormRequest(votePath, url.Values{"option_id": {testutil.OptionID(t, ballot, option)}}, nil), cookies[i])
		testutil.AssertRedirect(t, w, resultsPath)
	}

	w = do(testutil.MakeFormRequest(votePath, url.Values{"option_id": {testutil.OptionID(t, ballot, "Blue")}}, nil), cookies[0])
	testutil.AssertStatus(t, w, http.StatusConflict)
	testutil.AssertContains(t, w, "You have already voted in this ballot.")

	// Step 4: Results
	w = do(httptest.NewRequest("GET", resultsPath, nil), cookies[0])
	testutil.AssertStatus(t, w, http.StatusOK)
	testutil.AssertContains(t, w, "Tie between: Red, Blue")

	var resp models.ResultsResponse
	w = do(httptest.NewRequest("GET", "/api/ballots/"+ballot.ID+"/results", nil), nil)
	testutil.AssertJSON(t, w, &resp)
	if resp.Total != 2 || len(resp.Winners) != 2 {
		t.Errorf("Step 4 - Unexpected results: %+v", resp)
	}

	// Step 5: Reset, voters only get 403
	w = do(testutil.MakeFormRequest("/admin/ballots/"+ballot.ID+"/reset", url.Values{}, nil), cookies[0])
	testutil.AssertStatus(t, w, http.StatusForbidden)

	w = do(testutil.MakeFormRequest("/admin/ballots/"+ballot.ID+"/reset", url.Values{}, nil), adminCookie)
	testutil.AssertRedirect(t, w, "/admin/ballots")

	w = do(httptest.NewRequest("GET", resultsPath, nil), cookies[0])
	testutil.AssertContains(t, w, "No option has received votes yet.")

	// Logout ends the session
	w = do(testutil.MakeFormRequest("/logout", url.Values{}, nil), cookies[1])
	testutil.AssertRedirect(t, w, "/login")
	w = do(httptest.NewRequest("GET", "/ballots", nil), cookies[1])
	testutil.AssertStatus(t, w, http.StatusSeeOther)
}

func TestResultsAPICORS(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	mux := NewRouter(db, cfg, testutil.NewTestSessions(cfg))

	ballot := testutil.CreateOpenBallot(t, db, "Yes", "No")
	path := "/api/ballots/" + ballot.ID + "/results"

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("GET", path, map[string]string{"Origin": "https://example.org"}))
	testutil.AssertStatus(t, w, http.StatusOK)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Expected wildcard origin, got %q", got)
	}

	var resp models.ResultsResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Total != 0 || len(resp.Winners) != 0 || len(resp.Tally) != 2 {
		t.Errorf("Unexpected empty results: %+v", resp)
	}

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("OPTIONS", path, map[string]string{
		"Origin":                        "https://example.org",
		"Access-Control-Request-Method": "GET",
	}))
	testutil.AssertStatus(t, w, http.StatusNoContent)

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("GET", "/api/ballots/missing/results", nil))
	testutil.AssertStatus(t, w, http.StatusNotFound)
}
