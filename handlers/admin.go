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

	"github.com/danielhkuo/ballotbox/cliparse"
	"github.com/danielhkuo/ballotbox/models"
	"github.com/danielhkuo/ballotbox/session"
	"github.com/danielhkuo/ballotbox/views"
	"github.com/danielhkuo/ballotbox/voting"
)

// Layout of datetime-local inputs. Times are entered in UTC.
const formTimeLayout = "2006-01-02T15:04"

type AdminHandler struct {
	catalog *voting.BallotCatalog
	ledger  *voting.VoteLedger
	cfg     cliparse.Config
	now     func() time.Time
}

func NewAdminHandler(db *sql.DB, cfg cliparse.Config) *AdminHandler {
	catalog := voting.NewBallotCatalog(db)
	return &AdminHandler{
		catalog: catalog,
		ledger:  voting.NewVoteLedger(db, catalog),
		cfg:     cfg,
		now:     time.Now,
	}
}

type adminRow struct {
	Ballot models.Ballot
	State  models.WindowState
	Votes  int
}

// ballotForm holds the raw form values so they can be shown again.
type ballotForm struct {
	Topic        string
	Options      string
	Abstain      bool
	AbstainLabel string
	OpensAt      string
	ClosesAt     string
}

// List handles GET /admin/ballots
func (h *AdminHandler) List(w http.ResponseWriter, r *http.Request) {
	ballots, err := h.catalog.List(r.Context())
	if err != nil {
		renderError(w, r, err)
		return
	}

	totals, err := h.ledger.Totals(r.Context())
	if err != nil {
		renderError(w, r, err)
		return
	}

	now := h.now()
	rows := make([]adminRow, 0, len(ballots))
	for _, b := range ballots {
		rows = append(rows, adminRow{Ballot: b, State: voting.StateAt(b, now), Votes: totals[b.ID]})
	}

	views.Render(w, r, http.StatusOK, "admin_ballots.html", views.Page{
		Title: "All ballots",
		Data:  rows,
	})
}

// ShowNew handles GET /admin/ballots/new
func (h *AdminHandler) ShowNew(w http.ResponseWriter, r *http.Request) {
	opens := h.now().UTC().Truncate(time.Hour).Add(time.Hour)
	views.Render(w, r, http.StatusOK, "admin_new_ballot.html", views.Page{
		Title: "New ballot",
		Data: ballotForm{
			AbstainLabel: "Abstain",
			OpensAt:      opens.Format(formTimeLayout),
			ClosesAt:     opens.Add(24 * time.Hour).Format(formTimeLayout),
		},
	})
}

// Create handles POST /admin/ballots/new
func (h *AdminHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, _ := session.FromContext(r.Context())

	form := ballotForm{
		Topic:        strings.TrimSpace(r.PostFormValue("topic")),
		Options:      r.PostFormValue("options"),
		Abstain:      r.PostFormValue("abstain") != "",
		AbstainLabel: strings.TrimSpace(r.PostFormValue("abstain_label")),
		OpensAt:      r.PostFormValue("opens_at"),
		ClosesAt:     r.PostFormValue("closes_at"),
	}

	opensAt, err := parseFormTime(form.OpensAt)
	if err != nil {
		h.renderNew(w, r, http.StatusBadRequest, "Opening time is not a valid date and time.", form)
		return
	}
	closesAt, err := parseFormTime(form.ClosesAt)
	if err != nil {
		h.renderNew(w, r, http.StatusBadRequest, "Closing time is not a valid date and time.", form)
		return
	}

	req := models.CreateBallotRequest{
		Topic:    form.Topic,
		Options:  splitOptions(form.Options),
		OpensAt:  opensAt,
		ClosesAt: closesAt,
	}
	if form.Abstain {
		req.Abstain = form.AbstainLabel
		if req.Abstain == "" {
			req.Abstain = "Abstain"
		}
	}
	if err := validate.Struct(req); err != nil {
		h.renderNew(w, r, http.StatusBadRequest, validationMessage(err), form)
		return
	}

	ballot, err := h.catalog.Create(r.Context(), voting.BallotSpec{
		Topic:     req.Topic,
		Options:   req.Options,
		Abstain:   req.Abstain,
		OpensAt:   req.OpensAt,
		ClosesAt:  req.ClosesAt,
		CreatedBy: user.IdentityID,
	})
	if errors.Is(err, voting.ErrInvalidSchedule) {
		h.renderNew(w, r, http.StatusBadRequest, scheduleMessage(err), form)
		return
	}
	if err != nil {
		renderError(w, r, err)
		return
	}

	slog.Info("ballot created by admin", "ballot_id", ballot.ID, "identity_id", user.IdentityID)

	http.Redirect(w, r, "/admin/ballots", http.StatusSeeOther)
}

// Reset handles POST /admin/ballots/{id}/reset
func (h *AdminHandler) Reset(w http.ResponseWriter, r *http.Request) {
	user, _ := session.FromContext(r.Context())
	ballotID := r.PathValue("id")

	removed, err := h.ledger.Reset(r.Context(), ballotID)
	if err != nil {
		renderError(w, r, err)
		return
	}

	slog.Info("ballot reset by admin", "ballot_id", ballotID, "identity_id", user.IdentityID, "votes_removed", removed)

	http.Redirect(w, r, "/admin/ballots", http.StatusSeeOther)
}

func (h *AdminHandler) renderNew(w http.ResponseWriter, r *http.Request, status int, message string, form ballotForm) {
	views.Render(w, r, status, "admin_new_ballot.html", views.Page{
		Title: "New ballot",
		Error: message,
		Data:  form,
	})
}

// parseFormTime accepts datetime-local values (UTC) and RFC 3339.
func parseFormTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.ParseInLocation(formTimeLayout, value, time.UTC); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}

// splitOptions reads one option per line. Blank lines are dropped.
func splitOptions(raw string) []string {
	var options []string
	for _, line := range strings.Split(raw, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			options = append(options, line)
		}
	}
	return options
}
