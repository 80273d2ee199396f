package service

import (
	"sync"
	"testing"
	"time"

	"github.com/billforge/billforge/internal/api/dto"
	"github.com/billforge/billforge/internal/domain/client"
	"github.com/billforge/billforge/internal/domain/settings"
	ierr "github.com/billforge/billforge/internal/errors"
	"github.com/billforge/billforge/internal/testutil"
	"github.com/billforge/billforge/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type InvoiceServiceSuite struct {
	testutil.BaseServiceTestSuite
	service  InvoiceService
	testData struct {
		client *client.Client
	}
}

func TestInvoiceService(t *testing.T) {
	suite.Run(t, new(InvoiceServiceSuite))
}

func (s *InvoiceServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewInvoiceService(newTestServiceParams(&s.BaseServiceTestSuite))

	s.testData.client = &client.Client{
		ID:        "client_test_invoice",
		Name:      "Acme Traders",
		Email:     "billing@acme.test",
		BaseModel: types.GetDefaultBaseModel(s.GetContext()),
	}
	s.NoError(s.GetStores().ClientRepo.Create(s.GetContext(), s.testData.client))
}

func (s *InvoiceServiceSuite) createInvoiceSettings(dueDays int) {
	row := settings.DefaultInvoiceSettings(testutil.DefaultOrganizationID, types.GetDefaultBaseModel(s.GetContext()))
	row.DefaultDueDays = dueDays
	s.NoError(s.GetStores().SettingsRepo.CreateInvoiceSettings(s.GetContext(), row))
}

func (s *InvoiceServiceSuite) createDraft(req *dto.CreateInvoiceRequest) *dto.InvoiceResponse {
	if req == nil {
		req = &dto.CreateInvoiceRequest{
			ClientID: s.testData.client.ID,
			Currency: "INR",
			LineItems: []*dto.InvoiceLineItemRequest{
				{Description: "Consulting", Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(500)},
			},
		}
	}
	resp, err := s.service.CreateInvoice(s.GetContext(), req)
	s.NoError(err)
	s.NotNil(resp)
	return resp
}

func (s *InvoiceServiceSuite) TestCreateInvoiceComputesTotals() {
	resp := s.createDraft(&dto.CreateInvoiceRequest{
		ClientID: s.testData.client.ID,
		Currency: "INR",
		LineItems: []*dto.InvoiceLineItemRequest{
			{Description: "Consulting", Quantity: decimal.NewFromInt(3), UnitPrice: decimal.NewFromFloat(199.99)},
			{Description: "Hosting", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromFloat(400.03)},
		},
		TaxAmount: decimal.NewFromInt(180),
	})

	s.Equal(types.InvoiceStatusDraft, resp.InvoiceStatus)
	s.True(resp.Subtotal.Equal(decimal.NewFromInt(1000)), "subtotal %s", resp.Subtotal)
	s.True(resp.Total.Equal(decimal.NewFromInt(1180)), "total %s", resp.Total)
	s.True(resp.AmountDue.Equal(decimal.NewFromInt(1180)))
	s.Len(resp.LineItems, 2)
	s.True(resp.LineItems[0].Amount.Equal(decimal.NewFromFloat(599.97)))
}

func (s *InvoiceServiceSuite) TestCreateInvoiceDefaultsDueDate() {
	s.createInvoiceSettings(10)

	resp := s.createDraft(nil)
	s.NotNil(resp.DueDate)
	expected := resp.IssueDate.AddDate(0, 0, 10)
	s.WithinDuration(expected, *resp.DueDate, time.Second)
}

func (s *InvoiceServiceSuite) TestCreateInvoiceDefaultDueDateWithoutSettings() {
	resp := s.createDraft(nil)
	s.NotNil(resp.DueDate)
	expected := resp.IssueDate.AddDate(0, 0, types.InvoiceDefaultDueDays)
	s.WithinDuration(expected, *resp.DueDate, time.Second)
}

func (s *InvoiceServiceSuite) TestCreateInvoiceUnknownClient() {
	_, err := s.service.CreateInvoice(s.GetContext(), &dto.CreateInvoiceRequest{
		ClientID: "client_missing",
		Currency: "INR",
		LineItems: []*dto.InvoiceLineItemRequest{
			{Description: "Consulting", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(100)},
		},
	})
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *InvoiceServiceSuite) TestCreateInvoiceValidation() {
	_, err := s.service.CreateInvoice(s.GetContext(), &dto.CreateInvoiceRequest{
		ClientID: s.testData.client.ID,
		Currency: "INR",
		LineItems: []*dto.InvoiceLineItemRequest{
			{Description: "Consulting", Quantity: decimal.Zero, UnitPrice: decimal.NewFromInt(100)},
		},
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))

	_, err = s.service.CreateInvoice(s.GetContext(), &dto.CreateInvoiceRequest{
		ClientID:  s.testData.client.ID,
		Currency:  "RUPEES",
		LineItems: []*dto.InvoiceLineItemRequest{{Description: "x", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(1)}},
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *InvoiceServiceSuite) TestUpdateInvoiceRecomputesTotals() {
	created := s.createDraft(nil)

	resp, err := s.service.UpdateInvoice(s.GetContext(), created.ID, &dto.UpdateInvoiceRequest{
		LineItems: []*dto.InvoiceLineItemRequest{
			{Description: "Consulting", Quantity: decimal.NewFromInt(5), UnitPrice: decimal.NewFromInt(100)},
		},
		TaxAmount: lo.ToPtr(decimal.NewFromInt(90)),
	})
	s.NoError(err)
	s.True(resp.Subtotal.Equal(decimal.NewFromInt(500)))
	s.True(resp.Total.Equal(decimal.NewFromInt(590)))
	s.Len(resp.LineItems, 1)
}

func (s *InvoiceServiceSuite) TestUpdateRejectedAfterSend() {
	s.createInvoiceSettings(15)
	created := s.createDraft(nil)

	_, err := s.service.SendInvoice(s.GetContext(), created.ID)
	s.NoError(err)

	_, err = s.service.UpdateInvoice(s.GetContext(), created.ID, &dto.UpdateInvoiceRequest{
		Notes: lo.ToPtr("too late"),
	})
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))
}

func (s *InvoiceServiceSuite) TestDeleteOnlyDrafts() {
	s.createInvoiceSettings(15)
	created := s.createDraft(nil)

	s.NoError(s.service.DeleteInvoice(s.GetContext(), created.ID))
	_, err := s.service.GetInvoice(s.GetContext(), created.ID)
	s.Error(err)
	s.True(ierr.IsNotFound(err))

	sent := s.createDraft(nil)
	_, err = s.service.SendInvoice(s.GetContext(), sent.ID)
	s.NoError(err)

	err = s.service.DeleteInvoice(s.GetContext(), sent.ID)
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))
}

func (s *InvoiceServiceSuite) TestSendInvoiceAssignsSequentialNumbers() {
	s.createInvoiceSettings(15)

	first := s.createDraft(nil)
	second := s.createDraft(nil)

	sent, err := s.service.SendInvoice(s.GetContext(), first.ID)
	s.NoError(err)
	s.Equal("INV-0001", sent.InvoiceNumber)
	s.Equal(types.InvoiceStatusSent, sent.InvoiceStatus)
	s.NotNil(sent.SentAt)

	sent, err = s.service.SendInvoice(s.GetContext(), second.ID)
	s.NoError(err)
	s.Equal("INV-0002", sent.InvoiceNumber)

	row, err := s.GetStores().SettingsRepo.GetInvoiceSettings(s.GetContext())
	s.NoError(err)
	s.Equal(int64(3), row.NextSequence)
}

func (s *InvoiceServiceSuite) TestConcurrentSendsDrawDistinctNumbers() {
	s.createInvoiceSettings(15)

	first := s.createDraft(nil)
	second := s.createDraft(nil)

	var wg sync.WaitGroup
	numbers := make([]string, 2)
	for i, id := range []string{first.ID, second.ID} {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			sent, err := s.service.SendInvoice(s.GetContext(), id)
			if err == nil {
				numbers[i] = sent.InvoiceNumber
			}
		}(i, id)
	}
	wg.Wait()

	s.NotEmpty(numbers[0])
	s.NotEmpty(numbers[1])
	s.NotEqual(numbers[0], numbers[1])
	s.ElementsMatch([]string{"INV-0001", "INV-0002"}, numbers)

	row, err := s.GetStores().SettingsRepo.GetInvoiceSettings(s.GetContext())
	s.NoError(err)
	s.Equal(int64(3), row.NextSequence)
}

func (s *InvoiceServiceSuite) TestConcurrentDoubleSendConsumesOneNumber() {
	s.createInvoiceSettings(15)
	created := s.createDraft(nil)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.service.SendInvoice(s.GetContext(), created.ID)
		}(i)
	}
	wg.Wait()

	failures := 0
	for _, err := range errs {
		if err != nil {
			s.True(ierr.IsInvalidOperation(err))
			failures++
		}
	}
	s.Equal(1, failures)

	row, err := s.GetStores().SettingsRepo.GetInvoiceSettings(s.GetContext())
	s.NoError(err)
	s.Equal(int64(2), row.NextSequence)
}

func (s *InvoiceServiceSuite) TestSendInvoicePreservesLineItems() {
	s.createInvoiceSettings(15)
	created := s.createDraft(nil)

	_, err := s.service.SendInvoice(s.GetContext(), created.ID)
	s.NoError(err)

	resp, err := s.service.GetInvoice(s.GetContext(), created.ID)
	s.NoError(err)
	s.Len(resp.LineItems, 1)
	s.Equal("Consulting", resp.LineItems[0].Description)
}

func (s *InvoiceServiceSuite) TestSendInvoiceTwiceRejected() {
	s.createInvoiceSettings(15)
	created := s.createDraft(nil)

	_, err := s.service.SendInvoice(s.GetContext(), created.ID)
	s.NoError(err)

	_, err = s.service.SendInvoice(s.GetContext(), created.ID)
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))
}

func (s *InvoiceServiceSuite) TestListInvoicesByStatus() {
	s.createInvoiceSettings(15)

	draft := s.createDraft(nil)
	sent := s.createDraft(nil)
	_, err := s.service.SendInvoice(s.GetContext(), sent.ID)
	s.NoError(err)

	filter := types.NewNoLimitInvoiceFilter()
	filter.InvoiceStatus = []types.InvoiceStatus{types.InvoiceStatusDraft}

	resp, err := s.service.ListInvoices(s.GetContext(), filter)
	s.NoError(err)
	s.Len(resp.Items, 1)
	s.Equal(draft.ID, resp.Items[0].ID)
}

func (s *InvoiceServiceSuite) TestInvoicesInvisibleAcrossOrganizations() {
	created := s.createDraft(nil)

	foreignCtx := testutil.ContextForOrganization("org_other", "user_other")

	_, err := s.service.GetInvoice(foreignCtx, created.ID)
	s.Error(err)
	s.True(ierr.IsNotFound(err))

	_, err = s.service.UpdateInvoice(foreignCtx, created.ID, &dto.UpdateInvoiceRequest{
		Notes: lo.ToPtr("should not work"),
	})
	s.Error(err)
	s.True(ierr.IsNotFound(err))

	err = s.service.DeleteInvoice(foreignCtx, created.ID)
	s.Error(err)
	s.True(ierr.IsNotFound(err))

	list, err := s.service.ListInvoices(foreignCtx, types.NewNoLimitInvoiceFilter())
	s.NoError(err)
	s.Len(list.Items, 0)
}
