package domain

import (
	"time"

	"github.com/littledragon/assistant/pkg/idx"
)

// AccessToken is an issued credential as returned to a client.
type AccessToken struct {
	Token     string
	TokenType string
	ExpiresAt time.Time
}

// RevokedToken is a blacklist entry keyed by the literal token string.
// Entries outlive their token's expiry unless pruning is enabled, so a
// replayed token stays dead even under clock skew.
type RevokedToken struct {
	ID            idx.ID
	Token         string
	BlacklistedOn time.Time
	ExpiresAt     time.Time
	IsRevoked     bool
}

// Expired reports whether the underlying token has passed its own expiry.
func (r RevokedToken) Expired(now time.Time) bool {
	return !r.ExpiresAt.IsZero() && now.After(r.ExpiresAt)
}
