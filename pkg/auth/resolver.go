package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/smartbuy/auth/pkg/logger"
	"github.com/smartbuy/auth/pkg/password"
	"github.com/smartbuy/auth/pkg/sanitizer"
)

// Resolver maps a verified external identity (email plus provider-specific
// subject) onto a local user record, provisioning one on first login.
type Resolver struct {
	storage Storage
	logger  *slog.Logger
}

// NewResolver creates a resolver over the given storage.
func NewResolver(storage Storage, log *slog.Logger) *Resolver {
	if log == nil {
		log = logger.Noop()
	}
	return &Resolver{storage: storage, logger: log}
}

// ResolveOrCreate looks up a user by normalized email and returns it
// unchanged when found (no profile sync). When absent it provisions a new
// record with a non-guessable placeholder credential, since this path never
// carries a caller-chosen password.
//
// Lookup-then-create is not atomic; the store's unique constraint decides
// concurrent duplicates. The loser of that race retries as a lookup, so both
// callers observe the same stored user.
func (r *Resolver) ResolveOrCreate(ctx context.Context, email, username string, verified bool) (*User, error) {
	email = sanitizer.NormalizeEmail(email)

	user, err := r.storage.GetUserByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if username = strings.TrimSpace(username); username == "" {
		username = strings.SplitN(email, "@", 2)[0]
	}

	placeholder, err := password.Hash(uuid.NewString())
	if err != nil {
		return nil, fmt.Errorf("failed to create placeholder credential: %w", err)
	}

	created, err := r.storage.CreateUser(ctx, &User{
		Email:        email,
		Username:     username,
		PasswordHash: placeholder,
		Verified:     verified,
	})
	if err == nil {
		r.logger.InfoContext(ctx, "provisioned user on first login",
			logger.UserID(created.ID),
			slog.String("email", created.Email),
			logger.Component("resolver"),
		)
		return created, nil
	}
	if !errors.Is(err, ErrEmailTaken) {
		return nil, fmt.Errorf("failed to provision user: %w", err)
	}

	// Lost a concurrent first-login race; the record now exists.
	user, err = r.storage.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to load user after create conflict: %w", err)
	}
	return user, nil
}
