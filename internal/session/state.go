package session

import (
	"github.com/MitsuruMe/momomoving-fe/internal/models"
)

type Status int

const (
	StatusUninitialized Status = iota
	StatusInitializing
	StatusAuthenticated
	StatusUnauthenticated
)

func (s Status) String() string {
	switch s {
	case StatusUninitialized:
		return "uninitialized"
	case StatusInitializing:
		return "initializing"
	case StatusAuthenticated:
		return "authenticated"
	case StatusUnauthenticated:
		return "unauthenticated"
	}
	return "unknown"
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// State is one device's authentication view. Authenticated implies User and
// Token are set. Token never leaves the server.
type State struct {
	Status  Status       `json:"status"`
	User    *models.User `json:"user"`
	Token   *string      `json:"-"`
	Loading bool         `json:"loading"`
	Error   *string      `json:"error"`
}

func (s State) IsAuthenticated() bool {
	return s.Status == StatusAuthenticated
}

// Initial is the state before the stored token has been looked at.
func Initial() State {
	return State{Status: StatusUninitialized, Loading: true}
}

type ActionType int

const (
	ActionLoginStart ActionType = iota
	ActionLoginSuccess
	ActionLoginFailure
	ActionLogout
	ActionSetUser
	ActionClearError
	ActionSetLoading
	ActionExpire
)

type Action struct {
	Type    ActionType
	User    *models.User
	Token   string
	Error   string
	Loading bool
}

const expiredMessage = "authentication expired"

// Reduce is the pure transition function of the session.
func Reduce(s State, a Action) State {
	switch a.Type {
	case ActionLoginStart:
		s.Status = StatusInitializing
		s.Loading = true
		s.Error = nil
	case ActionLoginSuccess:
		if a.User == nil || a.Token == "" {
			return s
		}
		user := *a.User
		token := a.Token
		return State{Status: StatusAuthenticated, User: &user, Token: &token}
	case ActionLoginFailure:
		msg := a.Error
		return State{Status: StatusUnauthenticated, Error: &msg}
	case ActionLogout:
		return State{Status: StatusUnauthenticated}
	case ActionSetUser:
		if s.Status != StatusAuthenticated || a.User == nil {
			return s
		}
		user := *a.User
		s.User = &user
	case ActionClearError:
		s.Error = nil
	case ActionSetLoading:
		s.Loading = a.Loading
		if a.Loading && s.Status == StatusUninitialized {
			s.Status = StatusInitializing
		}
	case ActionExpire:
		msg := expiredMessage
		return State{Status: StatusUnauthenticated, Error: &msg}
	}
	return s
}
