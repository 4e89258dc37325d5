// Package guard decides what a client should show for a requested path given
// the current session state.
package guard

import (
	"net/url"
	"strings"

	"github.com/SscSPs/movie_review_app/internal/client/session"
)

const (
	LoginPath   = "/login"
	SignupPath  = "/signup"
	DefaultPath = "/home"

	fromParam = "from"
)

// Action is what the client should do with a route.
type Action int

const (
	// ActionLoading means the session is not known yet; show a placeholder.
	ActionLoading Action = iota
	// ActionRedirect means navigate to Decision.Location instead.
	ActionRedirect
	// ActionRender means show the view at Decision.Location.
	ActionRender
)

func (a Action) String() string {
	switch a {
	case ActionRedirect:
		return "redirect"
	case ActionRender:
		return "render"
	default:
		return "loading"
	}
}

// Decision is the outcome of resolving one path.
type Decision struct {
	Action   Action
	Location string
}

// SessionState is the part of session.Store the guard reads.
type SessionState interface {
	State() session.State
}

var protectedPaths = map[string]struct{}{
	"/home":      {},
	"/favorites": {},
	"/about":     {},
}

var publicPaths = map[string]struct{}{
	LoginPath:  {},
	SignupPath: {},
}

// Guard resolves paths against a session.
type Guard struct {
	session SessionState
}

func New(s SessionState) *Guard {
	return &Guard{session: s}
}

// IsProtected reports whether path requires an authenticated session.
func IsProtected(path string) bool {
	_, ok := protectedPaths[cleanPath(path)]
	return ok
}

// Resolve returns the decision for path. Unrecognized paths render the login view.
func (g *Guard) Resolve(path string) Decision {
	p := cleanPath(path)

	if _, ok := protectedPaths[p]; ok {
		switch g.session.State() {
		case session.StateAuthenticated:
			return Decision{Action: ActionRender, Location: p}
		case session.StateUnauthenticated:
			return Decision{Action: ActionRedirect, Location: LoginPath + "?" + fromParam + "=" + url.QueryEscape(p)}
		default:
			return Decision{Action: ActionLoading}
		}
	}

	if _, ok := publicPaths[p]; ok {
		return Decision{Action: ActionRender, Location: p}
	}
	return Decision{Action: ActionRender, Location: LoginPath}
}

// PostLoginDestination returns where to go after a successful login. Only
// relative paths on this site are honored; anything else yields DefaultPath.
func PostLoginDestination(from string) string {
	if from == "" || !strings.HasPrefix(from, "/") || strings.HasPrefix(from, "//") || strings.Contains(from, `\`) {
		return DefaultPath
	}
	u, err := url.Parse(from)
	if err != nil || u.IsAbs() || u.Host != "" {
		return DefaultPath
	}
	p := cleanPath(u.Path)
	if _, ok := publicPaths[p]; ok {
		return DefaultPath
	}
	return p
}

// FromLocation extracts the remembered path from a login redirect location.
func FromLocation(location string) string {
	u, err := url.Parse(location)
	if err != nil {
		return ""
	}
	return u.Query().Get(fromParam)
}

func cleanPath(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if path == "" {
		return "/"
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			return "/"
		}
	}
	return path
}
