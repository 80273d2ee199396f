package email

import (
	"context"

	"github.com/billforge/billforge/internal/config"
	ierr "github.com/billforge/billforge/internal/errors"
	"github.com/billforge/billforge/internal/logger"
	"github.com/resend/resend-go/v2"
)

// Message is a single outbound email
type Message struct {
	From    string
	ReplyTo string
	To      []string
	Subject string
	HTML    string
	Text    string
}

// Client sends emails. Implementations must be safe for concurrent use.
type Client interface {
	Send(ctx context.Context, msg *Message) error
}

type resendClient struct {
	client      *resend.Client
	fromAddress string
	replyTo     string
	logger      *logger.Logger
}

// NewClient returns the configured email client. When email is disabled the
// returned client logs and drops messages instead of sending them.
func NewClient(cfg *config.Configuration, logger *logger.Logger) Client {
	if !cfg.Email.Enabled || cfg.Email.APIKey == "" {
		logger.Infow("email sending disabled, using noop client")
		return &noopClient{logger: logger}
	}
	return &resendClient{
		client:      resend.NewClient(cfg.Email.APIKey),
		fromAddress: cfg.Email.FromAddress,
		replyTo:     cfg.Email.ReplyTo,
		logger:      logger,
	}
}

func (c *resendClient) Send(ctx context.Context, msg *Message) error {
	from := msg.From
	if from == "" {
		from = c.fromAddress
	}
	replyTo := msg.ReplyTo
	if replyTo == "" {
		replyTo = c.replyTo
	}

	params := &resend.SendEmailRequest{
		From:    from,
		To:      msg.To,
		Subject: msg.Subject,
		Html:    msg.HTML,
		Text:    msg.Text,
		ReplyTo: replyTo,
	}

	sent, err := c.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return ierr.WithError(err).
			WithHint("failed to send email").
			WithReportableDetails(map[string]any{
				"subject": msg.Subject,
			}).
			Mark(ierr.ErrSystem)
	}

	c.logger.Debugw("email sent",
		"email_id", sent.Id,
		"subject", msg.Subject,
	)
	return nil
}

type noopClient struct {
	logger *logger.Logger
}

func (c *noopClient) Send(ctx context.Context, msg *Message) error {
	c.logger.Infow("email suppressed",
		"to", msg.To,
		"subject", msg.Subject,
	)
	return nil
}
