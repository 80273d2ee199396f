package service

import (
	"context"
	"time"

	"github.com/billforge/billforge/internal/domain/invoice"
	"github.com/billforge/billforge/internal/domain/settings"
	"github.com/billforge/billforge/internal/email"
	"github.com/billforge/billforge/internal/types"
)

// ReminderService runs the periodic reminder scan: for every organization
// with reminders enabled it emails clients about invoices that are due soon
// or overdue, and moves sent invoices past their due date to OVERDUE.
type ReminderService interface {
	Run(ctx context.Context) error
}

type reminderService struct {
	ServiceParams
	invoiceService InvoiceService
}

func NewReminderService(params ServiceParams) ReminderService {
	return &reminderService{
		ServiceParams:  params,
		invoiceService: NewInvoiceService(params),
	}
}

func (s *reminderService) Run(ctx context.Context) error {
	allSettings, err := s.SettingsRepo.ListReminderEnabled(ctx)
	if err != nil {
		return err
	}

	s.Logger.Infow("running reminder scan", "organizations", len(allSettings))

	for _, orgSettings := range allSettings {
		if err := s.runForOrganization(ctx, orgSettings); err != nil {
			// One organization failing must not starve the rest
			s.Logger.Errorw("reminder scan failed for organization",
				"organization_id", orgSettings.OrganizationID,
				"error", err,
			)
		}
	}
	return nil
}

func (s *reminderService) runForOrganization(ctx context.Context, orgSettings *settings.InvoiceSettings) error {
	orgID := orgSettings.OrganizationID
	ctx = types.SetOrganizationID(ctx, orgID)
	ctx = types.SetUserID(ctx, types.DefaultUserID)

	now := time.Now().UTC()
	cutoff := now.AddDate(0, 0, orgSettings.ReminderDaysBefore)

	invoices, err := s.InvoiceRepo.ListDueForOrganization(ctx, orgID, cutoff)
	if err != nil {
		return err
	}
	if len(invoices) == 0 {
		return nil
	}

	emailSettings, err := s.SettingsRepo.GetEmailSettingsForOrganization(ctx, orgID)
	if err != nil {
		emailSettings = &settings.EmailSettings{OrganizationID: orgID}
	}

	for _, inv := range invoices {
		if err := s.remind(ctx, inv, orgSettings, emailSettings, now); err != nil {
			s.Logger.Errorw("failed to send reminder",
				"invoice_id", inv.ID,
				"error", err,
			)
		}
	}
	return nil
}

func (s *reminderService) remind(ctx context.Context, inv *invoice.Invoice, orgSettings *settings.InvoiceSettings, emailSettings *settings.EmailSettings, now time.Time) error {
	// Move sent invoices past due to OVERDUE before reminding
	if inv.InvoiceStatus == types.InvoiceStatusSent && inv.IsPastDue(now) {
		updated, err := s.invoiceService.ReconcileStatus(ctx, inv.ID)
		if err != nil {
			return err
		}
		inv = updated
	}

	c, err := s.ClientRepo.Get(ctx, inv.ClientID)
	if err != nil {
		return err
	}
	if c.Email == "" {
		s.Logger.Debugw("skipping reminder, client has no email",
			"invoice_id", inv.ID,
			"client_id", c.ID,
		)
		return nil
	}

	dueDate := ""
	if inv.DueDate != nil {
		dueDate = inv.DueDate.Format("2006-01-02")
	}

	if err := s.EmailSender.SendReminder(ctx, reminderEmailParams(c.Name, c.Email, inv, orgSettings, emailSettings, dueDate)); err != nil {
		return err
	}

	s.Logger.Infow("sent payment reminder",
		"invoice_id", inv.ID,
		"invoice_number", inv.InvoiceNumber,
		"client_id", c.ID,
	)

	s.notifyMembers(ctx, inv)
	return nil
}

func reminderEmailParams(clientName, clientEmail string, inv *invoice.Invoice, orgSettings *settings.InvoiceSettings, emailSettings *settings.EmailSettings, dueDate string) email.ReminderParams {
	return email.ReminderParams{
		To:            clientEmail,
		FromName:      emailSettings.FromName,
		FromAddress:   emailSettings.FromAddress,
		ReplyTo:       emailSettings.ReplyTo,
		FooterText:    emailSettings.FooterText,
		ClientName:    clientName,
		InvoiceNumber: inv.InvoiceNumber,
		AmountDue:     inv.AmountDue().StringFixed(2) + " " + inv.Currency,
		DueDate:       dueDate,
		Template:      orgSettings.ReminderTemplate,
	}
}

// notifyMembers publishes an invoice update to every member of the
// invoice's organization
func (s *reminderService) notifyMembers(ctx context.Context, inv *invoice.Invoice) {
	memberships, err := s.OrgRepo.ListMembershipsByOrganization(ctx, inv.OrganizationID)
	if err != nil {
		s.Logger.Warnw("failed to list members for notification",
			"organization_id", inv.OrganizationID,
			"error", err,
		)
		return
	}
	for _, m := range memberships {
		s.Notifier.Publish(ctx, m.UserID, types.NotificationTypeInvoiceUpdate, map[string]any{
			"invoice_id":     inv.ID,
			"invoice_status": inv.InvoiceStatus,
			"reminder":       true,
		})
	}
}
