package email

import (
	"context"
	"log/slog"
)

// devSender logs emails instead of sending them. Used when no Postmark token
// is configured so local flows still complete end to end.
type devSender struct {
	logger *slog.Logger
}

// NewDevSender creates a development email sender that writes each message to
// the given logger at info level.
func NewDevSender(logger *slog.Logger) EmailSender {
	return &devSender{logger: logger}
}

func (d *devSender) SendEmail(ctx context.Context, params SendEmailParams) error {
	if err := params.Validate(); err != nil {
		return err
	}

	d.logger.InfoContext(ctx, "dev email sender: message not dispatched",
		slog.String("to", params.SendTo),
		slog.String("subject", params.Subject),
		slog.String("tag", params.Tag),
		slog.String("body_html", params.BodyHTML),
	)
	return nil
}
