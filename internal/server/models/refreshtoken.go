package models

import "time"

// RefreshToken is a single outstanding refresh credential. Token holds the
// encoded JWT itself and is unique system-wide. A token is valid iff
// Revoked is false and ExpiresAt is in the future.
type RefreshToken struct {
	ID        int64
	Token     string
	UserID    string
	CreatedAt time.Time
	ExpiresAt time.Time
	Revoked   bool
}

// Valid reports whether the token is usable at the given instant.
func (t *RefreshToken) Valid(now time.Time) bool {
	return !t.Revoked && t.ExpiresAt.After(now)
}
