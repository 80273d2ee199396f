package service

import (
	"testing"
	"time"

	"github.com/billforge/billforge/internal/api/dto"
	"github.com/billforge/billforge/internal/domain/client"
	"github.com/billforge/billforge/internal/domain/invoice"
	ierr "github.com/billforge/billforge/internal/errors"
	"github.com/billforge/billforge/internal/testutil"
	"github.com/billforge/billforge/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type ReceiptServiceSuite struct {
	testutil.BaseServiceTestSuite
	service        ReceiptService
	paymentService PaymentService
	testData       struct {
		invoice *invoice.Invoice
	}
}

func TestReceiptService(t *testing.T) {
	suite.Run(t, new(ReceiptServiceSuite))
}

func (s *ReceiptServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	params := newTestServiceParams(&s.BaseServiceTestSuite)
	s.service = NewReceiptService(params)
	s.paymentService = NewPaymentService(params)

	c := &client.Client{
		ID:        "client_test_receipt",
		Name:      "Acme Traders",
		Email:     "billing@acme.test",
		BaseModel: types.GetDefaultBaseModel(s.GetContext()),
	}
	s.NoError(s.GetStores().ClientRepo.Create(s.GetContext(), c))

	now := time.Now().UTC()
	due := now.AddDate(0, 0, 7)
	s.testData.invoice = &invoice.Invoice{
		ID:            "inv_test_receipt",
		ClientID:      c.ID,
		InvoiceNumber: "INV-0042",
		InvoiceStatus: types.InvoiceStatusSent,
		Currency:      "INR",
		Subtotal:      decimal.NewFromInt(1000),
		Total:         decimal.NewFromInt(1000),
		AmountPaid:    decimal.Zero,
		IssueDate:     now,
		DueDate:       &due,
		SentAt:        &now,
		BaseModel:     types.GetDefaultBaseModel(s.GetContext()),
	}
	s.NoError(s.GetStores().InvoiceRepo.Create(s.GetContext(), s.testData.invoice))
}

func (s *ReceiptServiceSuite) recordPayment(amount, tds decimal.Decimal) *dto.PaymentResponse {
	resp, err := s.paymentService.RecordPayment(s.GetContext(), &dto.RecordPaymentRequest{
		InvoiceID:     s.testData.invoice.ID,
		Amount:        amount,
		TDSAmount:     tds,
		PaymentMethod: types.PaymentMethodBankTransfer,
	})
	s.Require().NoError(err)
	s.Require().NotNil(resp.Receipt)
	return resp
}

func (s *ReceiptServiceSuite) TestGetReceipt() {
	created := s.recordPayment(decimal.NewFromInt(590), decimal.NewFromInt(90))

	resp, err := s.service.GetReceipt(s.GetContext(), created.Receipt.ID)
	s.NoError(err)
	s.Equal(created.Payment.ID, resp.PaymentID)
	s.Equal(s.testData.invoice.ID, resp.InvoiceID)
	s.True(resp.TDSAmount.Equal(decimal.NewFromInt(90)))
	s.True(resp.TotalAmount.Equal(decimal.NewFromInt(590)))

	_, err = s.service.GetReceipt(s.GetContext(), "rcpt_missing")
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *ReceiptServiceSuite) TestListReceiptsByPayment() {
	first := s.recordPayment(decimal.NewFromInt(300), decimal.Zero)
	s.recordPayment(decimal.NewFromInt(200), decimal.Zero)

	filter := types.NewNoLimitReceiptFilter()
	filter.PaymentID = first.Payment.ID

	resp, err := s.service.ListReceipts(s.GetContext(), filter)
	s.NoError(err)
	s.Len(resp.Items, 1)
	s.Equal(first.Receipt.ID, resp.Items[0].ID)
	s.Equal(1, resp.Pagination.Total)
}

func (s *ReceiptServiceSuite) TestReceiptsInvisibleAcrossOrganizations() {
	created := s.recordPayment(decimal.NewFromInt(300), decimal.Zero)

	foreignCtx := testutil.ContextForOrganization("org_other", "user_other")

	_, err := s.service.GetReceipt(foreignCtx, created.Receipt.ID)
	s.Error(err)
	s.True(ierr.IsNotFound(err))

	list, err := s.service.ListReceipts(foreignCtx, types.NewNoLimitReceiptFilter())
	s.NoError(err)
	s.Len(list.Items, 0)

	// The owning organization still sees it
	resp, err := s.service.GetReceipt(s.GetContext(), created.Receipt.ID)
	s.NoError(err)
	s.Equal(created.Receipt.ID, resp.ID)
}
