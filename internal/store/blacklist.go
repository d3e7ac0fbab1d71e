package store

import (
	"context"
	"time"
)

// TokenBlacklist records tokens invalidated by logout.
type TokenBlacklist interface {
	// Add records token as revoked. expiresAt is the token's own expiry.
	// Adding a token that is already present is not an error.
	Add(ctx context.Context, token string, expiresAt time.Time) error

	// Contains reports whether token has been revoked.
	Contains(ctx context.Context, token string) (bool, error)
}
