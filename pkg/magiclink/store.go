package magiclink

import (
	"context"
	"time"
)

// Link is a pending single-use login credential. It exists only between
// issuance and redemption (or expiry); nothing about it outlives consumption.
type Link struct {
	Token     string    `json:"token"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the link's validity window has passed.
func (l Link) Expired() bool {
	return time.Now().After(l.ExpiresAt)
}

// Store persists pending links keyed by their opaque token.
//
// Consume must be atomic: of two concurrent redemptions for the same token,
// exactly one receives the link and the other ErrLinkAlreadyUsed.
type Store interface {
	// Save records a pending link until its expiry.
	Save(ctx context.Context, link Link) error

	// Consume retrieves and permanently invalidates the link. Returns
	// ErrLinkInvalid for unknown tokens and ErrLinkAlreadyUsed for tokens
	// that were redeemed before.
	Consume(ctx context.Context, token string) (Link, error)
}
