// Package model defines the domain types shared across ports and services.
package model

// Account is a registered identity: an email-shaped id paired with the
// secret used both for local login and, verbatim, as the upstream catalog
// API key. Accounts are immutable after registration.
type Account struct {
	ID     string `json:"id"`
	Secret string `json:"secret"`
}
