// Package session exposes the authenticated user identity owned by the
// platform auth layer. The gate only ever reads it.
package session

// Session is a snapshot of the current auth state. Loading is true while the
// auth layer is still resolving credentials at startup or after a change.
type Session struct {
	UserID  string
	Loading bool
}

// Authenticated reports whether a signed-in user is present.
func (s Session) Authenticated() bool { return s.UserID != "" }

// Provider supplies the current session on demand.
type Provider interface {
	Current() Session
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func() Session

func (f ProviderFunc) Current() Session { return f() }

// Static returns a Provider that always yields the given session. Useful for
// tests and for the CLI, where identity is fixed per invocation.
func Static(s Session) Provider {
	return ProviderFunc(func() Session { return s })
}
