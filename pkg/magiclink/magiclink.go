// Package magiclink implements passwordless login links: a cryptographically
// random single-use token is stored with a short TTL, mailed to the user, and
// exchanged exactly once for a verified email address.
package magiclink

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/smartbuy/auth/pkg/email"
	"github.com/smartbuy/auth/pkg/logger"
	"github.com/smartbuy/auth/pkg/sanitizer"
	"github.com/smartbuy/auth/pkg/validator"
)

// Config holds magic link settings loaded from the environment.
type Config struct {
	FrontendURL string        `env:"FRONTEND_URL,required"`
	TTL         time.Duration `env:"MAGIC_LINK_TTL" envDefault:"15m"`
}

// LinkRequest is the outcome of a successful issuance. Success means the
// email dispatch was accepted, not that the recipient acted on it.
type LinkRequest struct {
	Email     string
	URL       string
	ExpiresAt time.Time
}

// Service issues and redeems magic links.
type Service struct {
	store  Store
	sender email.EmailSender
	cfg    Config
	logger *slog.Logger
}

// Option configures the service.
type Option func(*Service)

// WithLogger sets a custom logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// NewService creates a magic link service backed by the given store and
// email sender.
func NewService(store Store, sender email.EmailSender, cfg Config, opts ...Option) *Service {
	s := &Service{
		store:  store,
		sender: sender,
		cfg:    cfg,
		logger: logger.Noop(),
	}
	if s.cfg.TTL <= 0 {
		s.cfg.TTL = 15 * time.Minute
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Request issues a single-use login link for the given email and hands it to
// the email sender. Delivery failures surface as ErrDeliveryFailed; the link
// is stored first, so an accepted retry can still be redeemed.
func (s *Service) Request(ctx context.Context, emailAddr string) (*LinkRequest, error) {
	emailAddr = sanitizer.NormalizeEmail(emailAddr)
	if err := validator.Apply(validator.ValidEmail("email", emailAddr)); err != nil {
		return nil, err
	}

	link := Link{
		Token:     uuid.NewString(),
		Email:     emailAddr,
		ExpiresAt: time.Now().Add(s.cfg.TTL),
	}

	if err := s.store.Save(ctx, link); err != nil {
		return nil, fmt.Errorf("failed to store magic link: %w", err)
	}

	url := fmt.Sprintf("%s/login?token=%s", s.cfg.FrontendURL, link.Token)

	if err := s.sender.SendEmail(ctx, email.SendEmailParams{
		SendTo:   emailAddr,
		Subject:  "Your SmartBuy Magic Login Link",
		BodyHTML: loginEmailBody(url),
		Tag:      "magic-link",
	}); err != nil {
		s.logger.ErrorContext(ctx, "magic link delivery failed",
			slog.String("email", emailAddr),
			logger.Error(err),
			logger.Component("magiclink"),
		)
		return nil, errors.Join(ErrDeliveryFailed, err)
	}

	return &LinkRequest{Email: emailAddr, URL: url, ExpiresAt: link.ExpiresAt}, nil
}

// Redeem consumes the token and returns the email it authenticates. A token
// can be redeemed exactly once; expired, replayed and unknown tokens fail
// with their respective sentinel errors.
func (s *Service) Redeem(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrLinkInvalid
	}

	link, err := s.store.Consume(ctx, token)
	if err != nil {
		return "", err
	}

	if link.Expired() {
		return "", ErrLinkExpired
	}

	return link.Email, nil
}

func loginEmailBody(url string) string {
	return fmt.Sprintf(`<p>Hello 👋</p>
<p>Click below to login securely:</p>
<a href="%s" target="_blank">%s</a>
<p>This link will expire in 15 minutes.</p>`, url, url)
}
