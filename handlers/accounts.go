// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielhkuo/ballotbox/cliparse"
	"github.com/danielhkuo/ballotbox/models"
	"github.com/danielhkuo/ballotbox/session"
	"github.com/danielhkuo/ballotbox/views"
	"github.com/danielhkuo/ballotbox/voting"
)

type AccountHandler struct {
	identities *voting.IdentityStore
	sessions   *session.Manager
	cfg        cliparse.Config
}

func NewAccountHandler(db *sql.DB, cfg cliparse.Config, sessions *session.Manager) *AccountHandler {
	return &AccountHandler{
		identities: voting.NewIdentityStore(db),
		sessions:   sessions,
		cfg:        cfg,
	}
}

type accountForm struct {
	Email string
	Next  string
}

// ShowRegister handles GET /register
func (h *AccountHandler) ShowRegister(w http.ResponseWriter, r *http.Request) {
	views.Render(w, r, http.StatusOK, "register.html", views.Page{Title: "Register"})
}

// Register handles POST /register
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	req := models.RegisterRequest{
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
		Confirm:  r.PostFormValue("confirm"),
	}
	form := accountForm{Email: req.Email}

	if err := validate.Struct(req); err != nil {
		h.renderForm(w, r, "register.html", http.StatusBadRequest, validationMessage(err), form)
		return
	}
	// bcrypt reads at most 72 bytes; the validator counts characters
	if len(req.Password) > 72 {
		h.renderForm(w, r, "register.html", http.StatusBadRequest, "The password must be at most 72 bytes.", form)
		return
	}

	ident, err := h.identities.Register(r.Context(), req.Email, req.Password, models.RoleVoter)
	if errors.Is(err, voting.ErrDuplicateIdentity) {
		h.renderForm(w, r, "register.html", http.StatusConflict, msgDuplicateIdentity, form)
		return
	}
	if err != nil {
		renderError(w, r, err)
		return
	}

	slog.Info("identity registered", "identity_id", ident.ID)

	h.signIn(w, r, ident, "/ballots")
}

// ShowLogin handles GET /login
func (h *AccountHandler) ShowLogin(w http.ResponseWriter, r *http.Request) {
	views.Render(w, r, http.StatusOK, "login.html", views.Page{
		Title: "Log in",
		Data:  accountForm{Next: safeNext(r.URL.Query().Get("next"))},
	})
}

// Login handles POST /login
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	req := models.LoginRequest{
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
	}
	form := accountForm{Email: req.Email, Next: safeNext(r.PostFormValue("next"))}

	if err := validate.Struct(req); err != nil {
		h.renderForm(w, r, "login.html", http.StatusBadRequest, validationMessage(err), form)
		return
	}

	ident, err := h.identities.Authenticate(r.Context(), req.Email, req.Password)
	if errors.Is(err, voting.ErrInvalidCredentials) {
		h.renderForm(w, r, "login.html", http.StatusUnauthorized, msgInvalidCredentials, form)
		return
	}
	if err != nil {
		renderError(w, r, err)
		return
	}

	next := form.Next
	if next == "" {
		next = "/ballots"
	}
	h.signIn(w, r, ident, next)
}

// Logout handles GET and POST /logout
func (h *AccountHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.End(w, r)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *AccountHandler) signIn(w http.ResponseWriter, r *http.Request, ident models.Identity, next string) {
	err := h.sessions.Start(w, r, session.Data{
		IdentityID: ident.ID,
		Email:      ident.Email,
		Admin:      ident.IsAdmin(),
	})
	if err != nil {
		renderError(w, r, err)
		return
	}
	http.Redirect(w, r, next, http.StatusSeeOther)
}

func (h *AccountHandler) renderForm(w http.ResponseWriter, r *http.Request, name string, status int, message string, form accountForm) {
	title := "Log in"
	if name == "register.html" {
		title = "Register"
	}
	views.Render(w, r, status, name, views.Page{Title: title, Error: message, Data: form})
}

// safeNext only allows local absolute paths as redirect targets.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return ""
	}
	return next
}
