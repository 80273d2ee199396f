package service

import (
	"testing"

	"github.com/billforge/billforge/internal/api/dto"
	"github.com/billforge/billforge/internal/domain/organization"
	ierr "github.com/billforge/billforge/internal/errors"
	"github.com/billforge/billforge/internal/testutil"
	"github.com/billforge/billforge/internal/types"
	"github.com/samber/lo"
	"github.com/stretchr/testify/suite"
)

type OrganizationServiceSuite struct {
	testutil.BaseServiceTestSuite
	service OrganizationService
}

func TestOrganizationService(t *testing.T) {
	suite.Run(t, new(OrganizationServiceSuite))
}

func (s *OrganizationServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewOrganizationService(newTestServiceParams(&s.BaseServiceTestSuite))
	s.setupTestData()
}

func (s *OrganizationServiceSuite) setupTestData() {
	orgs := []*organization.Organization{
		{ID: testutil.DefaultOrganizationID, Name: "Acme Billing", BaseModel: types.GetDefaultBaseModel(s.GetContext())},
		{ID: "org_other", Name: "Globex Billing", BaseModel: types.GetDefaultBaseModel(s.GetContext())},
	}
	for _, org := range orgs {
		s.NoError(s.GetStores().OrgRepo.Create(s.GetContext(), org))
	}

	memberships := []*organization.Membership{
		{ID: "memb_1", OrganizationID: testutil.DefaultOrganizationID, UserID: testutil.DefaultTestUserID, Role: types.MembershipRoleOwner, BaseModel: types.GetDefaultBaseModel(s.GetContext())},
		{ID: "memb_2", OrganizationID: "org_other", UserID: "user_other", Role: types.MembershipRoleOwner, BaseModel: types.GetDefaultBaseModel(s.GetContext())},
		{ID: "memb_3", OrganizationID: testutil.DefaultOrganizationID, UserID: "user_member", Role: types.MembershipRoleMember, BaseModel: types.GetDefaultBaseModel(s.GetContext())},
	}
	for _, m := range memberships {
		s.NoError(s.GetStores().OrgRepo.CreateMembership(s.GetContext(), m))
	}
}

func (s *OrganizationServiceSuite) TestListMine() {
	resp, err := s.service.ListMine(s.GetContext())
	s.NoError(err)
	s.Require().Len(resp.Items, 1)
	s.Equal(testutil.DefaultOrganizationID, resp.Items[0].ID)
	s.Equal(types.MembershipRoleOwner, resp.Items[0].Role)
}

func (s *OrganizationServiceSuite) TestGetRequiresMembership() {
	resp, err := s.service.Get(s.GetContext(), testutil.DefaultOrganizationID)
	s.NoError(err)
	s.Equal("Acme Billing", resp.Name)

	// A foreign organization is indistinguishable from a missing one
	_, err = s.service.Get(s.GetContext(), "org_other")
	s.Error(err)
	s.True(ierr.IsNotFound(err))

	_, err = s.service.Get(s.GetContext(), "org_missing")
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *OrganizationServiceSuite) TestUpdateRequiresManagerRole() {
	resp, err := s.service.Update(s.GetContext(), &dto.UpdateOrganizationRequest{
		Name:  lo.ToPtr("Acme Billing Pvt Ltd"),
		GSTIN: lo.ToPtr("29ABCDE1234F1Z5"),
	})
	s.NoError(err)
	s.Equal("Acme Billing Pvt Ltd", resp.Name)
	s.Equal("29ABCDE1234F1Z5", resp.GSTIN)

	memberCtx := testutil.ContextForOrganization(testutil.DefaultOrganizationID, "user_member")
	_, err = s.service.Update(memberCtx, &dto.UpdateOrganizationRequest{
		Name: lo.ToPtr("Should Not Work"),
	})
	s.Error(err)
	s.True(ierr.IsPermissionDenied(err))
}

func (s *OrganizationServiceSuite) TestResolveMembership() {
	m, err := s.service.ResolveMembership(s.GetContext(), testutil.DefaultOrganizationID, testutil.DefaultTestUserID)
	s.NoError(err)
	s.Equal(types.MembershipRoleOwner, m.Role)

	// Second call comes from the cache
	m, err = s.service.ResolveMembership(s.GetContext(), testutil.DefaultOrganizationID, testutil.DefaultTestUserID)
	s.NoError(err)
	s.Equal(types.MembershipRoleOwner, m.Role)

	_, err = s.service.ResolveMembership(s.GetContext(), "org_other", testutil.DefaultTestUserID)
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}
