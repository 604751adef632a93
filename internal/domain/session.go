package domain

import "time"

// User identifies the owner of the active session. Immutable once the
// session is issued.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Session is the single active proof-of-login record. At most one
// session exists per process; absence or expiry means unauthenticated.
type Session struct {
	Token     string    `json:"token"`
	User      User      `json:"user"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// WellFormed reports whether a deserialized session carries every
// required sub-field. Expiry is checked separately so callers can
// distinguish malformed from merely stale.
func (s Session) WellFormed() bool {
	return s.Token != "" && s.User.ID != "" && s.User.Username != "" && !s.ExpiresAt.IsZero()
}

// Expired reports whether the session is stale at the given instant.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}
