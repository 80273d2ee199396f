package service

import (
	"testing"

	"github.com/billforge/billforge/internal/api/dto"
	"github.com/billforge/billforge/internal/domain/organization"
	"github.com/billforge/billforge/internal/domain/settings"
	ierr "github.com/billforge/billforge/internal/errors"
	"github.com/billforge/billforge/internal/testutil"
	"github.com/billforge/billforge/internal/types"
	"github.com/samber/lo"
	"github.com/stretchr/testify/suite"
)

type SettingsServiceSuite struct {
	testutil.BaseServiceTestSuite
	service SettingsService
}

func TestSettingsService(t *testing.T) {
	suite.Run(t, new(SettingsServiceSuite))
}

func (s *SettingsServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewSettingsService(newTestServiceParams(&s.BaseServiceTestSuite))
	s.setupTestData()
}

func (s *SettingsServiceSuite) setupTestData() {
	base := types.GetDefaultBaseModel(s.GetContext())

	memberships := []*organization.Membership{
		{ID: "memb_owner", OrganizationID: testutil.DefaultOrganizationID, UserID: testutil.DefaultTestUserID, Role: types.MembershipRoleOwner, BaseModel: base},
		{ID: "memb_member", OrganizationID: testutil.DefaultOrganizationID, UserID: "user_member", Role: types.MembershipRoleMember, BaseModel: base},
	}
	for _, m := range memberships {
		s.NoError(s.GetStores().OrgRepo.CreateMembership(s.GetContext(), m))
	}

	s.NoError(s.GetStores().SettingsRepo.CreateInvoiceSettings(s.GetContext(),
		settings.DefaultInvoiceSettings(testutil.DefaultOrganizationID, base)))
	s.NoError(s.GetStores().SettingsRepo.CreateCompanySettings(s.GetContext(), &settings.CompanySettings{
		OrganizationID: testutil.DefaultOrganizationID,
		LegalName:      "Acme Billing",
		BaseModel:      base,
	}))
	s.NoError(s.GetStores().SettingsRepo.CreateEmailSettings(s.GetContext(), &settings.EmailSettings{
		OrganizationID: testutil.DefaultOrganizationID,
		FromName:       "Acme Billing",
		BaseModel:      base,
	}))
}

func (s *SettingsServiceSuite) TestGetInvoiceSettingsDefaults() {
	resp, err := s.service.GetInvoiceSettings(s.GetContext())
	s.NoError(err)
	s.Equal("INV-", resp.NumberPrefix)
	s.Equal(int64(1), resp.NextSequence)
	s.Equal(types.InvoiceDefaultDueDays, resp.DefaultDueDays)
	s.False(resp.ReminderEnabled)
}

func (s *SettingsServiceSuite) TestUpdateInvoiceSettingsMerges() {
	resp, err := s.service.UpdateInvoiceSettings(s.GetContext(), &dto.UpdateInvoiceSettingsRequest{
		ReminderEnabled:    lo.ToPtr(true),
		ReminderDaysBefore: lo.ToPtr(5),
	})
	s.NoError(err)
	s.True(resp.ReminderEnabled)
	s.Equal(5, resp.ReminderDaysBefore)
	// Untouched fields keep their values
	s.Equal("INV-", resp.NumberPrefix)
	s.Equal(types.InvoiceDefaultDueDays, resp.DefaultDueDays)
}

func (s *SettingsServiceSuite) TestUpdateInvoiceSettingsValidation() {
	_, err := s.service.UpdateInvoiceSettings(s.GetContext(), &dto.UpdateInvoiceSettingsRequest{
		DefaultDueDays: lo.ToPtr(400),
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))

	_, err = s.service.UpdateInvoiceSettings(s.GetContext(), &dto.UpdateInvoiceSettingsRequest{
		ReminderDaysBefore: lo.ToPtr(-1),
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *SettingsServiceSuite) TestUpdateRequiresManagerRole() {
	memberCtx := testutil.ContextForOrganization(testutil.DefaultOrganizationID, "user_member")

	_, err := s.service.UpdateInvoiceSettings(memberCtx, &dto.UpdateInvoiceSettingsRequest{
		ReminderEnabled: lo.ToPtr(true),
	})
	s.Error(err)
	s.True(ierr.IsPermissionDenied(err))

	// Reading settings is open to every member
	_, err = s.service.GetInvoiceSettings(memberCtx)
	s.NoError(err)
}

func (s *SettingsServiceSuite) TestUpdateCompanySettings() {
	resp, err := s.service.UpdateCompanySettings(s.GetContext(), &dto.UpdateCompanySettingsRequest{
		TaxID:   lo.ToPtr("29ABCDE1234F1Z5"),
		Address: lo.ToPtr("1 MG Road, Bengaluru"),
	})
	s.NoError(err)
	s.Equal("29ABCDE1234F1Z5", resp.TaxID)
	s.Equal("1 MG Road, Bengaluru", resp.Address)
	s.Equal("Acme Billing", resp.LegalName)
}

func (s *SettingsServiceSuite) TestUpdateEmailSettings() {
	resp, err := s.service.UpdateEmailSettings(s.GetContext(), &dto.UpdateEmailSettingsRequest{
		FromAddress: lo.ToPtr("billing@acme.test"),
		ReplyTo:     lo.ToPtr("accounts@acme.test"),
	})
	s.NoError(err)
	s.Equal("billing@acme.test", resp.FromAddress)
	s.Equal("accounts@acme.test", resp.ReplyTo)

	_, err = s.service.UpdateEmailSettings(s.GetContext(), &dto.UpdateEmailSettingsRequest{
		FromAddress: lo.ToPtr("not-an-email"),
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *SettingsServiceSuite) TestSettingsScopedToOrganization() {
	foreignCtx := testutil.ContextForOrganization("org_other", "user_other")

	_, err := s.service.GetInvoiceSettings(foreignCtx)
	s.Error(err)
	s.True(ierr.IsNotFound(err))

	_, err = s.service.GetCompanySettings(foreignCtx)
	s.Error(err)
	s.True(ierr.IsNotFound(err))

	_, err = s.service.GetEmailSettings(foreignCtx)
	s.Error(err)
	s.True(ierr.IsNotFound(err))

	// The owning organization still reads its own rows
	resp, err := s.service.GetInvoiceSettings(s.GetContext())
	s.NoError(err)
	s.Equal("INV-", resp.NumberPrefix)
}
