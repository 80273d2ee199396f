package service

import (
	"context"
	"testing"
	"time"

	"github.com/billforge/billforge/internal/domain/client"
	"github.com/billforge/billforge/internal/domain/invoice"
	"github.com/billforge/billforge/internal/domain/organization"
	"github.com/billforge/billforge/internal/domain/settings"
	"github.com/billforge/billforge/internal/testutil"
	"github.com/billforge/billforge/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type ReminderServiceSuite struct {
	testutil.BaseServiceTestSuite
	service ReminderService
}

func TestReminderService(t *testing.T) {
	suite.Run(t, new(ReminderServiceSuite))
}

func (s *ReminderServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewReminderService(newTestServiceParams(&s.BaseServiceTestSuite))
}

// seedOrganization creates an organization with a member, a client and a
// sent invoice due at the given date
func (s *ReminderServiceSuite) seedOrganization(orgID string, reminderEnabled bool, clientEmail string, dueDate time.Time) *invoice.Invoice {
	ctx := testutil.ContextForOrganization(orgID, "user_"+orgID)
	base := types.GetDefaultBaseModel(ctx)

	s.NoError(s.GetStores().OrgRepo.Create(ctx, &organization.Organization{
		ID:        orgID,
		Name:      orgID + " Inc",
		BaseModel: base,
	}))
	s.NoError(s.GetStores().OrgRepo.CreateMembership(ctx, &organization.Membership{
		ID:             "memb_" + orgID,
		OrganizationID: orgID,
		UserID:         "user_" + orgID,
		Role:           types.MembershipRoleOwner,
		BaseModel:      base,
	}))

	invoiceSettings := settings.DefaultInvoiceSettings(orgID, base)
	invoiceSettings.ReminderEnabled = reminderEnabled
	invoiceSettings.ReminderDaysBefore = 3
	s.NoError(s.GetStores().SettingsRepo.CreateInvoiceSettings(ctx, invoiceSettings))

	s.NoError(s.GetStores().SettingsRepo.CreateEmailSettings(ctx, &settings.EmailSettings{
		OrganizationID: orgID,
		FromName:       orgID + " Inc",
		FromAddress:    "billing@" + orgID + ".test",
		BaseModel:      base,
	}))

	c := &client.Client{
		ID:        "client_" + orgID,
		Name:      "Client of " + orgID,
		Email:     clientEmail,
		BaseModel: base,
	}
	s.NoError(s.GetStores().ClientRepo.Create(ctx, c))

	now := time.Now().UTC()
	inv := &invoice.Invoice{
		ID:            "inv_" + orgID,
		ClientID:      c.ID,
		InvoiceNumber: "INV-" + orgID,
		InvoiceStatus: types.InvoiceStatusSent,
		Currency:      "INR",
		Subtotal:      decimal.NewFromInt(1000),
		Total:         decimal.NewFromInt(1000),
		AmountPaid:    decimal.Zero,
		IssueDate:     now.AddDate(0, 0, -30),
		DueDate:       &dueDate,
		SentAt:        &now,
		BaseModel:     base,
	}
	s.NoError(s.GetStores().InvoiceRepo.Create(ctx, inv))
	return inv
}

func (s *ReminderServiceSuite) TestRunSendsReminders() {
	inv := s.seedOrganization("org_due", true, "client@due.test", time.Now().UTC().AddDate(0, 0, -2))

	s.NoError(s.service.Run(context.Background()))

	messages := s.GetEmailClient().Messages()
	s.Require().Len(messages, 1)
	s.Equal([]string{"client@due.test"}, messages[0].To)
	s.Contains(messages[0].Text, inv.InvoiceNumber)
	s.Contains(messages[0].Text, "1000.00 INR")

	// A sent invoice past its due date moves to OVERDUE during the scan
	ctx := testutil.ContextForOrganization("org_due", "user_org_due")
	stored, err := s.GetStores().InvoiceRepo.Get(ctx, inv.ID)
	s.NoError(err)
	s.Equal(types.InvoiceStatusOverdue, stored.InvoiceStatus)
}

func (s *ReminderServiceSuite) TestRunHonorsReminderWindow() {
	// Due in 2 days with a 3 day window: reminded. Due in 10 days: not yet.
	s.seedOrganization("org_soon", true, "client@soon.test", time.Now().UTC().AddDate(0, 0, 2))
	s.seedOrganization("org_later", true, "client@later.test", time.Now().UTC().AddDate(0, 0, 10))

	s.NoError(s.service.Run(context.Background()))

	messages := s.GetEmailClient().Messages()
	s.Require().Len(messages, 1)
	s.Equal([]string{"client@soon.test"}, messages[0].To)
}

func (s *ReminderServiceSuite) TestRunSkipsDisabledOrganizations() {
	s.seedOrganization("org_disabled", false, "client@disabled.test", time.Now().UTC().AddDate(0, 0, -2))

	s.NoError(s.service.Run(context.Background()))
	s.Len(s.GetEmailClient().Messages(), 0)
}

func (s *ReminderServiceSuite) TestRunSkipsClientsWithoutEmail() {
	inv := s.seedOrganization("org_noemail", true, "", time.Now().UTC().AddDate(0, 0, -2))

	s.NoError(s.service.Run(context.Background()))
	s.Len(s.GetEmailClient().Messages(), 0)

	// The status transition still happens even when no email goes out
	ctx := testutil.ContextForOrganization("org_noemail", "user_org_noemail")
	stored, err := s.GetStores().InvoiceRepo.Get(ctx, inv.ID)
	s.NoError(err)
	s.Equal(types.InvoiceStatusOverdue, stored.InvoiceStatus)
}

func (s *ReminderServiceSuite) TestRunUsesCustomTemplate() {
	s.seedOrganization("org_custom", true, "client@custom.test", time.Now().UTC().AddDate(0, 0, -1))

	ctx := testutil.ContextForOrganization("org_custom", "user_org_custom")
	row, err := s.GetStores().SettingsRepo.GetInvoiceSettings(ctx)
	s.Require().NoError(err)
	row.ReminderTemplate = "Hello {{client_name}}, invoice {{invoice_number}} for {{amount_due}} is waiting."
	s.Require().NoError(s.GetStores().SettingsRepo.UpdateInvoiceSettings(ctx, row))

	s.NoError(s.service.Run(context.Background()))

	messages := s.GetEmailClient().Messages()
	s.Require().Len(messages, 1)
	s.Contains(messages[0].Text, "Hello Client of org_custom")
	s.Contains(messages[0].Text, "invoice INV-org_custom")
}
