package email

import (
	"context"
	"fmt"
	"strings"

	"github.com/billforge/billforge/internal/logger"
)

// Sender composes the application's transactional emails on top of Client
type Sender struct {
	client Client
	logger *logger.Logger
}

func NewSender(client Client, logger *logger.Logger) *Sender {
	return &Sender{client: client, logger: logger}
}

// SendOTP delivers a registration verification code
func (s *Sender) SendOTP(ctx context.Context, to string, code string, ttlMinutes int) error {
	msg := &Message{
		To:      []string{to},
		Subject: "Your verification code",
		Text: fmt.Sprintf(
			"Your verification code is %s. It expires in %d minutes.",
			code, ttlMinutes,
		),
		HTML: fmt.Sprintf(
			"<p>Your verification code is <strong>%s</strong>.</p><p>It expires in %d minutes.</p>",
			code, ttlMinutes,
		),
	}
	return s.client.Send(ctx, msg)
}

// ReminderParams carries the fields available to reminder templates
type ReminderParams struct {
	To            string
	FromName      string
	FromAddress   string
	ReplyTo       string
	FooterText    string
	ClientName    string
	InvoiceNumber string
	AmountDue     string
	DueDate       string
	Template      string
}

// SendReminder delivers a payment reminder for an unpaid invoice. The
// organization's template may reference {{client_name}}, {{invoice_number}},
// {{amount_due}} and {{due_date}}.
func (s *Sender) SendReminder(ctx context.Context, params ReminderParams) error {
	body := params.Template
	if body == "" {
		body = "Dear {{client_name}},\n\nThis is a reminder that invoice {{invoice_number}} " +
			"for {{amount_due}} is due on {{due_date}}.\n\nThank you."
	}

	replacer := strings.NewReplacer(
		"{{client_name}}", params.ClientName,
		"{{invoice_number}}", params.InvoiceNumber,
		"{{amount_due}}", params.AmountDue,
		"{{due_date}}", params.DueDate,
	)
	body = replacer.Replace(body)
	if params.FooterText != "" {
		body = body + "\n\n" + params.FooterText
	}

	from := ""
	if params.FromAddress != "" {
		from = params.FromAddress
		if params.FromName != "" {
			from = fmt.Sprintf("%s <%s>", params.FromName, params.FromAddress)
		}
	}

	msg := &Message{
		From:    from,
		ReplyTo: params.ReplyTo,
		To:      []string{params.To},
		Subject: fmt.Sprintf("Payment reminder for invoice %s", params.InvoiceNumber),
		Text:    body,
	}
	return s.client.Send(ctx, msg)
}
