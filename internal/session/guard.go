package session

import "context"

// LoginRoute is where the guard redirects unauthenticated navigation.
const LoginRoute = "/auth/login"

// Decision is the guard's verdict for one navigation to a protected view.
type Decision struct {
	admit bool
}

// Admitted reports whether the navigation may proceed.
func (d Decision) Admitted() bool {
	return d.admit
}

// Target returns the redirect route, or "" when admitted.
func (d Decision) Target() string {
	if d.admit {
		return ""
	}
	return LoginRoute
}

// Guard gates protected views on session presence. It holds no state and
// caches nothing: every Check re-reads the persisted signal, so a session
// removed mid-navigation is honored on the next check.
type Guard struct {
	sessions *Manager
}

// NewGuard builds a guard over the given session manager.
func NewGuard(sessions *Manager) *Guard {
	return &Guard{sessions: sessions}
}

// Check admits when a session record is present and redirects otherwise.
// A store failure fails closed: no readable session, no admission.
func (g *Guard) Check(ctx context.Context) Decision {
	ok, err := g.sessions.HasSession(ctx)
	if err != nil {
		return Decision{admit: false}
	}
	return Decision{admit: ok}
}
