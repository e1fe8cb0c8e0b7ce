// Package guard decides whether a protected view may render for a session.
package guard

import "github.com/dom/nonprofit-site/internal/session"

type Requirement int

const (
	RequireAuth Requirement = iota
	RequireAdmin
)

type Decision int

const (
	// RedirectLogin is the zero value so an unhandled case denies.
	RedirectLogin Decision = iota
	Placeholder
	Forbidden
	Allow
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case Placeholder:
		return "placeholder"
	case Forbidden:
		return "forbidden"
	}
	return "redirect_login"
}

// Check admits only an authenticated session. While the session is still
// loading it asks for a placeholder rather than redirecting early.
func Check(s session.State, req Requirement) Decision {
	if s.Loading {
		return Placeholder
	}
	if !s.IsAuthenticated || s.Token == "" || s.User == nil {
		return RedirectLogin
	}
	switch req {
	case RequireAuth:
		return Allow
	case RequireAdmin:
		if s.IsAdmin() {
			return Allow
		}
		return Forbidden
	}
	return RedirectLogin
}
