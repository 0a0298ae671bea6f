// Package application holds the session, gate, and watchlist services that
// orchestrate the driven ports.
package application

import "errors"

// User-facing error taxonomy of the session manager. The store-level
// duplicate error (driven.ErrDuplicateAccount) is surfaced unchanged.
var (
	// ErrInvalidEmail indicates the id is not email-shaped.
	ErrInvalidEmail = errors.New("id must be a valid email address")

	// ErrPasswordMismatch indicates a supplied confirmation disagrees with
	// the secret.
	ErrPasswordMismatch = errors.New("secret and confirmation do not match")

	// ErrInvalidCredentials indicates no registered account matches the
	// id/secret pair.
	ErrInvalidCredentials = errors.New("email or secret is incorrect")

	// ErrKeyRejected indicates the account matched locally but its stored
	// secret is not a currently-valid catalog API key. Distinct from
	// ErrInvalidCredentials: the registry is fine, the upstream revoked or
	// never issued the key.
	ErrKeyRejected = errors.New("the stored secret is not a currently-valid API key")
)
