// Package auth composes the three login flows (password credentials,
// magic-link redemption and the OAuth authorization-code callback) into a
// single service that resolves a local user and mints the uniform session
// token the rest of the application consumes.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/smartbuy/auth/pkg/email"
	"github.com/smartbuy/auth/pkg/jwt"
	"github.com/smartbuy/auth/pkg/logger"
	"github.com/smartbuy/auth/pkg/magiclink"
	"github.com/smartbuy/auth/pkg/oauth"
	"github.com/smartbuy/auth/pkg/password"
	"github.com/smartbuy/auth/pkg/sanitizer"
	"github.com/smartbuy/auth/pkg/validator"
)

// MinPasswordLength is the minimum accepted password length at registration.
const MinPasswordLength = 6

// SubjectPasswordReset tags password reset tokens so they cannot be replayed
// against another token-consuming endpoint.
const SubjectPasswordReset = "password_reset"

// Config holds orchestrator settings loaded from the environment.
type Config struct {
	FrontendURL   string        `env:"FRONTEND_URL,required"`
	ResetTokenTTL time.Duration `env:"RESET_TOKEN_TTL" envDefault:"1h"`
}

// MagicLinkAuthenticator is the passwordless flow capability.
type MagicLinkAuthenticator interface {
	Request(ctx context.Context, email string) (*magiclink.LinkRequest, error)
	Redeem(ctx context.Context, token string) (string, error)
}

// CodeExchanger is the OAuth authorization-code flow capability.
type CodeExchanger interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (oauth.Identity, error)
}

// AuthResult is the uniform outcome of a successful login: the signed
// session token plus the authenticated user.
type AuthResult struct {
	Token string
	User  *User
}

// Service orchestrates the login flows. Flows share no state beyond the
// immutable dependencies wired at construction; each request stands alone.
type Service struct {
	storage     Storage
	sessions    *jwt.Service
	magicLinks  MagicLinkAuthenticator
	exchanger   CodeExchanger
	resolver    *Resolver
	sender      email.EmailSender
	tokenSecret string
	cfg         Config
	logger      *slog.Logger
}

// Option configures the service during construction.
type Option func(*Service)

// WithLogger sets a custom logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithMagicLinks wires the passwordless flow.
func WithMagicLinks(ml MagicLinkAuthenticator) Option {
	return func(s *Service) { s.magicLinks = ml }
}

// WithGoogle wires the OAuth authorization-code flow.
func WithGoogle(ex CodeExchanger) Option {
	return func(s *Service) { s.exchanger = ex }
}

// WithEmailSender wires the outbound mailer used for password reset links.
func WithEmailSender(sender email.EmailSender) Option {
	return func(s *Service) { s.sender = sender }
}

// NewService builds the orchestrator. Flows whose dependencies were not
// wired return ErrUnauthorized-family errors rather than panicking.
func NewService(storage Storage, sessions *jwt.Service, tokenSecret string, cfg Config, opts ...Option) *Service {
	s := &Service{
		storage:     storage,
		sessions:    sessions,
		tokenSecret: tokenSecret,
		cfg:         cfg,
		logger:      logger.Noop(),
	}
	if s.cfg.ResetTokenTTL <= 0 {
		s.cfg.ResetTokenTTL = time.Hour
	}
	for _, opt := range opts {
		opt(s)
	}
	s.resolver = NewResolver(storage, s.logger)
	return s
}

// Register creates a user from email, username and password. Duplicate
// emails fail with ErrEmailTaken; the pre-check keeps the common case cheap
// but the store's unique constraint is what actually guarantees it.
func (s *Service) Register(ctx context.Context, emailAddr, username, plaintext string) (*User, error) {
	emailAddr = sanitizer.NormalizeEmail(emailAddr)
	username = sanitizer.TrimSpace(username)

	if err := validator.Apply(
		validator.ValidEmail("email", emailAddr),
		validator.Required("username", username),
		validator.MinLen("password", plaintext, MinPasswordLength),
	); err != nil {
		return nil, err
	}

	if _, err := s.storage.GetUserByEmail(ctx, emailAddr); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	hash, err := password.Hash(plaintext)
	if err != nil {
		return nil, err
	}

	user, err := s.storage.CreateUser(ctx, &User{
		Email:        emailAddr,
		Username:     username,
		PasswordHash: hash,
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "user registered",
		logger.UserID(user.ID),
		slog.String("email", user.Email),
		logger.Component("auth"),
	)
	return user, nil
}

// Login authenticates email and password and mints a session token. Unknown
// emails fail with ErrUserNotFound and bad passwords with
// ErrInvalidCredentials; the two stay distinguishable for compatibility with
// existing clients even though that leaks account existence.
func (s *Service) Login(ctx context.Context, emailAddr, plaintext string) (*AuthResult, error) {
	emailAddr = sanitizer.NormalizeEmail(emailAddr)

	user, err := s.storage.GetUserByEmail(ctx, emailAddr)
	if err != nil {
		return nil, err
	}

	if !password.Verify(plaintext, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return s.issueSession(ctx, user)
}

// RequestMagicLink issues and dispatches a single-use login link. The
// terminal state for this half of the flow is "sent": success means the
// email provider accepted the message.
func (s *Service) RequestMagicLink(ctx context.Context, emailAddr string) (*magiclink.LinkRequest, error) {
	if s.magicLinks == nil {
		return nil, errors.New("auth: magic link flow is not configured")
	}
	return s.magicLinks.Request(ctx, emailAddr)
}

// RedeemMagicLink consumes a magic-link token, resolves or provisions the
// user for its verified email, and mints a session token. Redeeming a link
// proves control of the mailbox, so the account is marked verified.
func (s *Service) RedeemMagicLink(ctx context.Context, linkToken string) (*AuthResult, error) {
	if s.magicLinks == nil {
		return nil, errors.New("auth: magic link flow is not configured")
	}

	emailAddr, err := s.magicLinks.Redeem(ctx, linkToken)
	if err != nil {
		return nil, err
	}

	user, err := s.resolver.ResolveOrCreate(ctx, emailAddr, "", true)
	if err != nil {
		return nil, err
	}

	if !user.Verified {
		if err := s.storage.SetUserVerified(ctx, user.ID); err != nil {
			s.logger.ErrorContext(ctx, "failed to mark user verified",
				logger.UserID(user.ID),
				logger.Error(err),
				logger.Component("auth"),
			)
		} else {
			user.Verified = true
		}
	}

	return s.issueSession(ctx, user)
}

// GoogleAuthURL returns the provider authorization URL for the redirect
// step of the OAuth flow.
func (s *Service) GoogleAuthURL(state string) (string, error) {
	if s.exchanger == nil {
		return "", errors.New("auth: google flow is not configured")
	}
	return s.exchanger.AuthCodeURL(state), nil
}

// LoginWithGoogle exchanges the callback code for a provider identity,
// resolves or provisions the local user and mints a session token.
func (s *Service) LoginWithGoogle(ctx context.Context, code string) (*AuthResult, error) {
	if s.exchanger == nil {
		return nil, errors.New("auth: google flow is not configured")
	}

	identity, err := s.exchanger.Exchange(ctx, code)
	if err != nil {
		return nil, err
	}

	user, err := s.resolver.ResolveOrCreate(ctx, identity.Email, identity.Name, identity.EmailVerified)
	if err != nil {
		return nil, err
	}

	return s.issueSession(ctx, user)
}

// CurrentUser validates a session token and returns its claims. Expired or
// tampered tokens fail with ErrUnauthorized.
func (s *Service) CurrentUser(tokenString string) (jwt.SessionClaims, error) {
	claims, err := s.sessions.VerifySession(tokenString)
	if err != nil {
		return jwt.SessionClaims{}, ErrUnauthorized
	}
	return claims, nil
}

// ListUsers exposes the administrative read path of the store.
func (s *Service) ListUsers(ctx context.Context) ([]User, error) {
	return s.storage.ListUsers(ctx)
}

func (s *Service) issueSession(ctx context.Context, user *User) (*AuthResult, error) {
	sessionToken, err := s.sessions.IssueSession(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to issue session token: %w", err)
	}

	s.logger.InfoContext(ctx, "session issued",
		logger.UserID(user.ID),
		logger.Component("auth"),
	)
	return &AuthResult{Token: sessionToken, User: user}, nil
}
