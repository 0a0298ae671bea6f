package model

import "time"

// Session is the single active authenticated account. At most one session
// exists per profile; a new login silently replaces the previous one.
// ExpiresAt is zero for remembered sessions, which never lapse on their own.
type Session struct {
	Account   Account
	Remember  bool
	ExpiresAt time.Time
}

// Expired reports whether the session has lapsed. Remembered sessions
// (zero ExpiresAt) never expire.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}
