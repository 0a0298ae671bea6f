package application

import (
	"context"
	"fmt"

	"github.com/ericfisherdev/watchdeck/internal/domain/port/driven"
)

// SigninPath is where denied navigations are redirected.
const SigninPath = "/signin"

// Decision is the outcome of an access check. When Allow is false,
// RedirectTo names the login entry point and From carries the origin the
// caller was headed to, so a successful login can resume there instead of
// landing on a default page.
type Decision struct {
	Allow      bool
	RedirectTo string
	From       string
}

// AccessGate decides whether a protected view may be entered. It must be
// consulted on every protected entry, deep links and back/forward
// navigation included, not only initial mounts.
type AccessGate struct {
	creds driven.CredentialStore
}

// NewAccessGate creates an AccessGate reading the session slot of creds.
func NewAccessGate(creds driven.CredentialStore) *AccessGate {
	return &AccessGate{creds: creds}
}

// Check evaluates the gate for a navigation to origin.
func (g *AccessGate) Check(ctx context.Context, origin string) (Decision, error) {
	session, err := g.creds.CurrentSession(ctx)
	if err != nil {
		return Decision{}, fmt.Errorf("read session: %w", err)
	}

	if session == nil {
		return Decision{
			Allow:      false,
			RedirectTo: SigninPath,
			From:       origin,
		}, nil
	}

	return Decision{Allow: true}, nil
}
