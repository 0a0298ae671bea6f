// Package driven defines secondary port interfaces for external adapters.
package driven

import (
	"context"
	"errors"

	"github.com/ericfisherdev/watchdeck/internal/domain/model"
)

// ErrDuplicateAccount indicates a registration with an id that already
// exists in the registry. The registry is left unchanged.
var ErrDuplicateAccount = errors.New("account already registered")

// CredentialStore defines the driven port for the durable account registry
// and the single session slot. A malformed persisted record is treated as
// absence by implementations, never surfaced as an error.
type CredentialStore interface {
	// Register appends the account to the registry.
	// Returns ErrDuplicateAccount if the id is already taken.
	Register(ctx context.Context, account model.Account) error

	// FindAccount returns the account matching both id and secret exactly,
	// or (nil, nil) when no such account exists.
	FindAccount(ctx context.Context, id, secret string) (*model.Account, error)

	// CommitSession persists the session record, the remember flag, and the
	// account's secret under the active-key slot for the catalog client.
	// This is the single atomic commit point of a login.
	CommitSession(ctx context.Context, account model.Account, remember bool) error

	// CurrentSession returns the active session, or (nil, nil) when logged
	// out, when the stored record is malformed, or when a non-remembered
	// session has lapsed.
	CurrentSession(ctx context.Context) (*model.Session, error)

	// ClearSession removes the session record, the cached active key, and
	// the remember flag. Clearing an absent session is a no-op.
	ClearSession(ctx context.Context) error

	// ActiveKey returns the cached secret of the active session, or ""
	// when logged out.
	ActiveKey(ctx context.Context) (string, error)
}
