// Package email abstracts outbound transactional email. The auth flows only
// depend on the EmailSender capability; the concrete transport (Postmark in
// production, a log-only sender in development) is chosen at wiring time.
package email

import (
	"context"
	"fmt"
	"regexp"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// EmailSender dispatches a single email. Implementations report failure so
// callers can surface delivery errors instead of swallowing them.
type EmailSender interface {
	SendEmail(ctx context.Context, params SendEmailParams) error
}

// SendEmailParams describes one outbound message.
type SendEmailParams struct {
	SendTo   string `json:"send_to"`
	Subject  string `json:"subject"`
	BodyHTML string `json:"body_html"`
	Tag      string `json:"tag,omitempty"`
}

// Validate checks that the message is deliverable before handing it to a
// transport.
func (p SendEmailParams) Validate() error {
	if !emailRegex.MatchString(p.SendTo) {
		return fmt.Errorf("%w: invalid recipient address", ErrFailedToSendEmail)
	}
	if p.Subject == "" {
		return fmt.Errorf("%w: subject is required", ErrFailedToSendEmail)
	}
	if p.BodyHTML == "" {
		return fmt.Errorf("%w: body is required", ErrFailedToSendEmail)
	}
	return nil
}
