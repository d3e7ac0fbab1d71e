package domain

import "time"

// BlacklistedToken is a token invalidated by logout before its natural expiry.
// ExpiresAt is the token's own expiry; once it passes the entry is garbage.
type BlacklistedToken struct {
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
}
