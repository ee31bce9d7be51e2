package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/smartbuy/auth/pkg/email"
	"github.com/smartbuy/auth/pkg/logger"
	"github.com/smartbuy/auth/pkg/sanitizer"
	"github.com/smartbuy/auth/pkg/token"
)

// ErrResetTokenInvalid covers tampered, malformed and expired reset tokens.
// Callers respond to all three the same way.
var ErrResetTokenInvalid = errors.New("invalid or expired reset token")

type resetPayload struct {
	Subject   string    `json:"sub"`
	UserID    int64     `json:"uid"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"exp"`
}

// ForgotPassword emails a signed reset link to the address if an account
// exists. Unknown addresses return ErrUserNotFound so the HTTP layer can
// decide whether to mask it.
func (s *Service) ForgotPassword(ctx context.Context, emailAddr string) error {
	if s.sender == nil {
		return errors.New("auth: password reset flow is not configured")
	}

	emailAddr = sanitizer.NormalizeEmail(emailAddr)

	user, err := s.storage.GetUserByEmail(ctx, emailAddr)
	if err != nil {
		return err
	}

	resetToken, err := token.Generate(resetPayload{
		Subject:   SubjectPasswordReset,
		UserID:    user.ID,
		Email:     user.Email,
		ExpiresAt: time.Now().Add(s.cfg.ResetTokenTTL),
	}, s.tokenSecret)
	if err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}

	resetURL := fmt.Sprintf("%s/reset-password?token=%s", s.cfg.FrontendURL, resetToken)
	err = s.sender.SendEmail(ctx, email.SendEmailParams{
		SendTo:  user.Email,
		Subject: "Reset Your SmartBuy Password",
		BodyHTML: fmt.Sprintf(
			`<p>We received a request to reset your password.</p>
<p><a href=%q>Reset password</a></p>
<p>The link expires in %s. If you did not request this, you can ignore this email.</p>`,
			resetURL, s.cfg.ResetTokenTTL,
		),
		Tag: "password-reset",
	})
	if err != nil {
		return fmt.Errorf("failed to send reset email: %w", err)
	}

	s.logger.InfoContext(ctx, "password reset link sent",
		logger.UserID(user.ID),
		logger.Component("auth"),
	)
	return nil
}

// VerifyResetToken validates a reset token and returns the user it was
// issued for.
func (s *Service) VerifyResetToken(ctx context.Context, resetToken string) (*User, error) {
	payload, err := token.Parse[resetPayload](resetToken, s.tokenSecret)
	if err != nil {
		return nil, ErrResetTokenInvalid
	}
	if payload.Subject != SubjectPasswordReset || time.Now().After(payload.ExpiresAt) {
		return nil, ErrResetTokenInvalid
	}

	user, err := s.storage.GetUserByEmail(ctx, payload.Email)
	if err != nil {
		return nil, ErrResetTokenInvalid
	}
	if user.ID != payload.UserID {
		return nil, ErrResetTokenInvalid
	}
	return user, nil
}
