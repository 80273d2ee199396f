package service

import (
	"testing"

	"github.com/billforge/billforge/internal/api/dto"
	ierr "github.com/billforge/billforge/internal/errors"
	"github.com/billforge/billforge/internal/testutil"
	"github.com/billforge/billforge/internal/types"
	"github.com/samber/lo"
	"github.com/stretchr/testify/suite"
)

type ClientServiceSuite struct {
	testutil.BaseServiceTestSuite
	service ClientService
}

func TestClientService(t *testing.T) {
	suite.Run(t, new(ClientServiceSuite))
}

func (s *ClientServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewClientService(newTestServiceParams(&s.BaseServiceTestSuite))
}

func (s *ClientServiceSuite) createClient(name, email string) *dto.ClientResponse {
	resp, err := s.service.CreateClient(s.GetContext(), &dto.CreateClientRequest{
		Name:  name,
		Email: email,
	})
	s.Require().NoError(err)
	return resp
}

func (s *ClientServiceSuite) TestCreateAndGetClient() {
	created := s.createClient("Acme Traders", "billing@acme.test")
	s.Equal(testutil.DefaultOrganizationID, created.OrganizationID)

	got, err := s.service.GetClient(s.GetContext(), created.ID)
	s.NoError(err)
	s.Equal("Acme Traders", got.Name)
	s.Equal("billing@acme.test", got.Email)
}

func (s *ClientServiceSuite) TestCreateClientValidation() {
	_, err := s.service.CreateClient(s.GetContext(), &dto.CreateClientRequest{
		Name:  "",
		Email: "billing@acme.test",
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))

	_, err = s.service.CreateClient(s.GetContext(), &dto.CreateClientRequest{
		Name:  "Acme",
		Email: "not-an-email",
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *ClientServiceSuite) TestUpdateClientMergesFields() {
	created := s.createClient("Acme Traders", "billing@acme.test")

	updated, err := s.service.UpdateClient(s.GetContext(), created.ID, &dto.UpdateClientRequest{
		Phone: lo.ToPtr("+91 98765 43210"),
	})
	s.NoError(err)
	s.Equal("+91 98765 43210", updated.Phone)
	// Unset fields keep their values
	s.Equal("Acme Traders", updated.Name)
	s.Equal("billing@acme.test", updated.Email)
}

func (s *ClientServiceSuite) TestDeleteClient() {
	created := s.createClient("Acme Traders", "billing@acme.test")

	s.NoError(s.service.DeleteClient(s.GetContext(), created.ID))

	_, err := s.service.GetClient(s.GetContext(), created.ID)
	s.Error(err)
	s.True(ierr.IsNotFound(err))

	list, err := s.service.ListClients(s.GetContext(), types.NewNoLimitClientFilter())
	s.NoError(err)
	s.Len(list.Items, 0)
}

func (s *ClientServiceSuite) TestListClientsSearch() {
	s.createClient("Acme Traders", "billing@acme.test")
	s.createClient("Globex Exports", "accounts@globex.test")

	filter := types.NewNoLimitClientFilter()
	filter.Search = "globex"

	list, err := s.service.ListClients(s.GetContext(), filter)
	s.NoError(err)
	s.Require().Len(list.Items, 1)
	s.Equal("Globex Exports", list.Items[0].Name)
	s.Equal(1, list.Pagination.Total)
}

func (s *ClientServiceSuite) TestClientsInvisibleAcrossOrganizations() {
	created := s.createClient("Acme Traders", "billing@acme.test")

	foreignCtx := testutil.ContextForOrganization("org_other", "user_other")

	_, err := s.service.GetClient(foreignCtx, created.ID)
	s.Error(err)
	s.True(ierr.IsNotFound(err))

	_, err = s.service.UpdateClient(foreignCtx, created.ID, &dto.UpdateClientRequest{
		Name: lo.ToPtr("Hijacked"),
	})
	s.Error(err)
	s.True(ierr.IsNotFound(err))

	err = s.service.DeleteClient(foreignCtx, created.ID)
	s.Error(err)
	s.True(ierr.IsNotFound(err))

	list, err := s.service.ListClients(foreignCtx, types.NewNoLimitClientFilter())
	s.NoError(err)
	s.Len(list.Items, 0)

	// The original organization still sees its client untouched
	got, err := s.service.GetClient(s.GetContext(), created.ID)
	s.NoError(err)
	s.Equal("Acme Traders", got.Name)
}
