// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/danielhkuo/ballotbox/views"
	"github.com/danielhkuo/ballotbox/voting"
)

// Messages shown to users
const (
	msgAlreadyVoted       = "You have already voted in this ballot."
	msgNotOpen            = "This ballot is not open for voting."
	msgOptionNotInBallot  = "Please choose one of the listed options."
	msgDuplicateIdentity  = "An account with this email already exists."
	msgInvalidCredentials = "Invalid email or password."
	msgNotFound           = "The requested page does not exist."
	msgInternal           = "Something went wrong. Please try again."
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type errorView struct {
	Status  int
	Message string
}

// statusFor maps a voting error to an HTTP status and user message.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, voting.ErrAlreadyVoted):
		return http.StatusConflict, msgAlreadyVoted
	case errors.Is(err, voting.ErrDuplicateIdentity):
		return http.StatusConflict, msgDuplicateIdentity
	case errors.Is(err, voting.ErrBallotNotOpen):
		return http.StatusConflict, msgNotOpen
	case errors.Is(err, voting.ErrInvalidCredentials):
		return http.StatusUnauthorized, msgInvalidCredentials
	case errors.Is(err, voting.ErrNotFound):
		return http.StatusNotFound, msgNotFound
	case errors.Is(err, voting.ErrOptionNotInBallot):
		return http.StatusBadRequest, msgOptionNotInBallot
	case errors.Is(err, voting.ErrInvalidSchedule):
		return http.StatusBadRequest, scheduleMessage(err)
	default:
		return http.StatusInternalServerError, msgInternal
	}
}

// renderError renders the error page for err. Unexpected errors are
// logged; their details never reach the page.
func renderError(w http.ResponseWriter, r *http.Request, err error) {
	status, message := statusFor(err)
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	renderStatus(w, r, status, message)
}

func renderStatus(w http.ResponseWriter, r *http.Request, status int, message string) {
	views.Render(w, r, status, "error.html", views.Page{
		Title: http.StatusText(status),
		Data:  errorView{Status: status, Message: message},
	})
}

// scheduleMessage turns "invalid schedule: closing time must be after
// opening time" into "Closing time must be after opening time."
func scheduleMessage(err error) string {
	_, reason, ok := strings.Cut(err.Error(), voting.ErrInvalidSchedule.Error()+": ")
	if !ok || reason == "" {
		return "The ballot is not valid."
	}
	return strings.ToUpper(reason[:1]) + reason[1:] + "."
}

// validationMessage describes the first failed field of a validator error.
func validationMessage(err error) string {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return "The form is not valid."
	}

	fe := errs[0]
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", field)
	case "email":
		return "Please enter a valid email address."
	case "min":
		return fmt.Sprintf("The %s must be at least %s characters.", field, fe.Param())
	case "max":
		return fmt.Sprintf("The %s must be at most %s characters.", field, fe.Param())
	case "eqfield":
		return "The passwords do not match."
	default:
		return fmt.Sprintf("The %s field is not valid.", field)
	}
}
