// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/danielhkuo/ballotbox/auth"
	"github.com/danielhkuo/ballotbox/cliparse"
	"github.com/danielhkuo/ballotbox/middleware"
	"github.com/danielhkuo/ballotbox/models"
	"github.com/danielhkuo/ballotbox/session"
	"github.com/danielhkuo/ballotbox/views"
	"github.com/danielhkuo/ballotbox/voting"
)

const maxUserAgent = 256

type BallotHandler struct {
	catalog *voting.BallotCatalog
	ledger  *voting.VoteLedger
	tallies *voting.TallyEngine
	cfg     cliparse.Config
	now     func() time.Time
}

func NewBallotHandler(db *sql.DB, cfg cliparse.Config) *BallotHandler {
	catalog := voting.NewBallotCatalog(db)
	return &BallotHandler{
		catalog: catalog,
		ledger:  voting.NewVoteLedger(db, catalog),
		tallies: voting.NewTallyEngine(db, catalog),
		cfg:     cfg,
		now:     time.Now,
	}
}

type ballotRow struct {
	Ballot models.Ballot
	Voted  bool
}

type voteView struct {
	Ballot models.Ballot
	State  models.WindowState
}

type resultsView struct {
	Ballot  models.Ballot
	State   models.WindowState
	Tally   []models.OptionCount
	Total   int
	Winners []string
	Summary string
	Choice  string
}

// List handles GET /ballots
func (h *BallotHandler) List(w http.ResponseWriter, r *http.Request) {
	user, _ := session.FromContext(r.Context())
	now := h.now().UTC()

	active, err := h.catalog.ListActive(r.Context(), now)
	if err != nil {
		renderError(w, r, err)
		return
	}

	rows := make([]ballotRow, 0, len(active))
	for _, b := range active {
		voted, err := h.ledger.HasVoted(r.Context(), user.IdentityID, b.ID)
		if err != nil {
			renderError(w, r, err)
			return
		}
		rows = append(rows, ballotRow{Ballot: b, Voted: voted})
	}

	views.Render(w, r, http.StatusOK, "ballots.html", views.Page{
		Title: "Ballots",
		Now:   now,
		Data:  rows,
	})
}

// ShowVote handles GET /ballots/{id}/vote
func (h *BallotHandler) ShowVote(w http.ResponseWriter, r *http.Request) {
	user, _ := session.FromContext(r.Context())
	ballotID := r.PathValue("id")

	ballot, err := h.catalog.Get(r.Context(), ballotID)
	if err != nil {
		renderError(w, r, err)
		return
	}

	voted, err := h.ledger.HasVoted(r.Context(), user.IdentityID, ballot.ID)
	if err != nil {
		renderError(w, r, err)
		return
	}
	if voted {
		http.Redirect(w, r, resultsPath(ballot.ID), http.StatusSeeOther)
		return
	}

	h.renderVote(w, r, http.StatusOK, ballot, "")
}

// CastVote handles POST /ballots/{id}/vote
func (h *BallotHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	user, _ := session.FromContext(r.Context())
	ballotID := r.PathValue("id")

	// An empty option is rejected by the ledger after the window check
	optionID := strings.TrimSpace(r.PostFormValue("option_id"))

	userAgent := r.UserAgent()
	if len(userAgent) > maxUserAgent {
		userAgent = userAgent[:maxUserAgent]
	}

	_, err := h.ledger.Cast(r.Context(), voting.CastRequest{
		IdentityID: user.IdentityID,
		BallotID:   ballotID,
		OptionID:   optionID,
		At:         h.now(),
		IPHash:     auth.HashIP(middleware.GetClientIP(r), h.cfg.IPHashSalt),
		UserAgent:  userAgent,
	})
	switch {
	case err == nil:
		http.Redirect(w, r, resultsPath(ballotID), http.StatusSeeOther)
	case errors.Is(err, voting.ErrAlreadyVoted),
		errors.Is(err, voting.ErrBallotNotOpen),
		errors.Is(err, voting.ErrOptionNotInBallot):
		status, message := statusFor(err)
		ballot, getErr := h.catalog.Get(r.Context(), ballotID)
		if getErr != nil {
			renderError(w, r, getErr)
			return
		}
		h.renderVote(w, r, status, ballot, message)
	default:
		renderError(w, r, err)
	}
}

// Results handles GET /ballots/{id}/results
func (h *BallotHandler) Results(w http.ResponseWriter, r *http.Request) {
	user, _ := session.FromContext(r.Context())
	ballotID := r.PathValue("id")

	ballot, tally, err := h.tallies.Tally(r.Context(), ballotID)
	if err != nil {
		renderError(w, r, err)
		return
	}

	winners := voting.Winners(tally)
	view := resultsView{
		Ballot:  ballot,
		State:   voting.StateAt(ballot, h.now()),
		Tally:   tally.Options,
		Total:   tally.Total,
		Winners: winners,
		Summary: voting.Summary(winners),
	}

	if user.IdentityID != "" {
		vote, err := h.ledger.VoteOf(r.Context(), user.IdentityID, ballot.ID)
		switch {
		case err == nil:
			if opt, ok := ballot.Option(vote.OptionID); ok {
				view.Choice = opt.Name
			}
		case !errors.Is(err, voting.ErrNotFound):
			renderError(w, r, err)
			return
		}
	}

	views.Render(w, r, http.StatusOK, "results.html", views.Page{
		Title: ballot.Topic,
		Data:  view,
	})
}

// ResultsJSON handles GET /api/ballots/{id}/results
func (h *BallotHandler) ResultsJSON(w http.ResponseWriter, r *http.Request) {
	ballot, tally, err := h.tallies.Tally(r.Context(), r.PathValue("id"))
	if err != nil {
		status, message := statusFor(err)
		if status == http.StatusInternalServerError {
			slog.Error("failed to tally ballot", "error", err)
		}
		middleware.ErrorResponse(w, status, message)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ResultsResponse{
		Ballot:  ballot,
		State:   voting.StateAt(ballot, h.now()),
		Tally:   tally.Options,
		Total:   tally.Total,
		Winners: voting.Winners(tally),
	})
}

func (h *BallotHandler) renderVote(w http.ResponseWriter, r *http.Request, status int, ballot models.Ballot, message string) {
	views.Render(w, r, status, "vote.html", views.Page{
		Title: ballot.Topic,
		Error: message,
		Data:  voteView{Ballot: ballot, State: voting.StateAt(ballot, h.now())},
	})
}

func resultsPath(ballotID string) string {
	return "/ballots/" + ballotID + "/results"
}
