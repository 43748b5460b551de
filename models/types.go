package models

import "time"

// Identity roles
const (
	RoleVoter = "voter"
	RoleAdmin = "admin"
)

// WindowState is where a point in time falls relative to a ballot's
// voting window.
type WindowState string

const (
	StateScheduled WindowState = "scheduled"
	StateOpen      WindowState = "open"
	StateClosed    WindowState = "closed"
)

// Request types

type RegisterRequest struct {
	Email    string `validate:"required,email,max=254"`
	Password string `validate:"required,min=8,max=72"`
	Confirm  string `validate:"eqfield=Password"`
}

type LoginRequest struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

// Options and schedule are checked by the ballot catalog, so only the shape
// of the form is validated here.
type CreateBallotRequest struct {
	Topic    string    `validate:"required,max=200"`
	Options  []string  `validate:"dive,max=100"`
	Abstain  string    `validate:"max=100"`
	OpensAt  time.Time `validate:"required"`
	ClosesAt time.Time `validate:"required"`
}

// Response types

type ResultsResponse struct {
	Ballot  Ballot        `json:"ballot"`
	State   WindowState   `json:"state"`
	Tally   []OptionCount `json:"tally"`
	Total   int           `json:"total"`
	Winners []string      `json:"winners"`
}

// Domain types

type Identity struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never expose in JSON
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

type Ballot struct {
	ID        string    `json:"id"`
	Topic     string    `json:"topic"`
	OpensAt   time.Time `json:"opens_at"`
	ClosesAt  time.Time `json:"closes_at"`
	CreatedBy *string   `json:"created_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	Options   []Option  `json:"options,omitempty"`
}

// Option returns the ballot's option with the given ID.
func (b Ballot) Option(id string) (Option, bool) {
	for _, opt := range b.Options {
		if opt.ID == id {
			return opt, true
		}
	}
	return Option{}, false
}

type Option struct {
	ID       string `json:"id"`
	BallotID string `json:"ballot_id"`
	Name     string `json:"name"`
	Position int    `json:"position"`
	Abstain  bool   `json:"abstain,omitempty"`
}

type Vote struct {
	ID         string    `json:"id"`
	IdentityID string    `json:"identity_id"`
	BallotID   string    `json:"ballot_id"`
	OptionID   string    `json:"option_id"`
	CastAt     time.Time `json:"cast_at"`
	IPHash     *string   `json:"-"` // Never expose in JSON
	UserAgent  *string   `json:"-"` // Never expose in JSON
}

type OptionCount struct {
	OptionID string `json:"option_id"`
	Name     string `json:"name"`
	Abstain  bool   `json:"abstain,omitempty"`
	Count    int    `json:"count"`
}

// Tally holds one count per option in declaration order.
type Tally struct {
	BallotID string
	Options  []OptionCount
	Total    int
}

// Counts returns the tally keyed by option name.
func (t Tally) Counts() map[string]int {
	counts := make(map[string]int, len(t.Options))
	for _, oc := range t.Options {
		counts[oc.Name] = oc.Count
	}
	return counts
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
