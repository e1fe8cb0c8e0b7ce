// Package session holds the client-side authentication state: a pure reducer
// over four states plus a Store that persists credentials across restarts.
package session

import "fmt"

type Status int

const (
	Idle Status = iota
	LoggingIn
	Authenticated
	Failed
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case LoggingIn:
		return "logging_in"
	case Authenticated:
		return "authenticated"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// User is the sanitized user projection returned by the API.
type User struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	IsAdmin   bool   `json:"isAdmin"`
}

// Credentials are what a successful login or registration yields.
type Credentials struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// State is replaced wholesale on every transition; no partially updated
// session is ever observable.
type State struct {
	Status          Status
	IsAuthenticated bool
	Loading         bool
	User            *User
	Token           string
	Error           string
}

// Initial is the state before hydration has run. It is loading so guards
// render a placeholder instead of redirecting.
func Initial() State {
	return State{Status: Idle, Loading: true}
}

// IsAdmin reports whether an authenticated user carries the admin role.
func (s State) IsAdmin() bool {
	return s.IsAuthenticated && s.User != nil && s.User.IsAdmin
}

type ActionType int

const (
	Hydrated ActionType = iota
	LoginStarted
	LoginSucceeded
	LoginFailed
	LoggedOut
)

type Action struct {
	Type        ActionType
	Credentials *Credentials
	Err         error
}

// Reduce returns the state after applying a. Transitions that make no sense
// from the current state leave it unchanged.
func Reduce(s State, a Action) State {
	switch a.Type {
	case Hydrated:
		if a.Credentials == nil {
			return State{Status: Idle}
		}
		return authenticated(a.Credentials)

	case LoginStarted:
		if s.Status == LoggingIn {
			return s
		}
		return State{Status: LoggingIn, Loading: true}

	case LoginSucceeded:
		if s.Status != LoggingIn || a.Credentials == nil {
			return s
		}
		return authenticated(a.Credentials)

	case LoginFailed:
		if s.Status != LoggingIn {
			return s
		}
		msg := "login failed"
		if a.Err != nil {
			msg = a.Err.Error()
		}
		return State{Status: Failed, Error: msg}

	case LoggedOut:
		return State{Status: Idle}
	}
	return s
}

func authenticated(c *Credentials) State {
	user := c.User
	return State{
		Status:          Authenticated,
		IsAuthenticated: true,
		User:            &user,
		Token:           c.Token,
	}
}
