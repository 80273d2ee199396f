package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/billforge/billforge/internal/api/dto"
	"github.com/billforge/billforge/internal/domain/client"
	"github.com/billforge/billforge/internal/domain/invoice"
	"github.com/billforge/billforge/internal/domain/receipt"
	ierr "github.com/billforge/billforge/internal/errors"
	"github.com/billforge/billforge/internal/testutil"
	"github.com/billforge/billforge/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type PaymentServiceSuite struct {
	testutil.BaseServiceTestSuite
	service        PaymentService
	invoiceService InvoiceService
	testData       struct {
		client  *client.Client
		invoice *invoice.Invoice
	}
}

func TestPaymentService(t *testing.T) {
	suite.Run(t, new(PaymentServiceSuite))
}

func (s *PaymentServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	params := newTestServiceParams(&s.BaseServiceTestSuite)
	s.service = NewPaymentService(params)
	s.invoiceService = NewInvoiceService(params)
	s.setupTestData()
}

func (s *PaymentServiceSuite) setupTestData() {
	s.testData.client = &client.Client{
		ID:        "client_test_payment",
		Name:      "Acme Traders",
		Email:     "billing@acme.test",
		BaseModel: types.GetDefaultBaseModel(s.GetContext()),
	}
	s.NoError(s.GetStores().ClientRepo.Create(s.GetContext(), s.testData.client))

	s.testData.invoice = s.createSentInvoice("inv_test_payment", decimal.NewFromInt(1000), decimal.Zero, time.Now().UTC().AddDate(0, 0, 7))
}

// createSentInvoice stores an invoice that already accepts payments
func (s *PaymentServiceSuite) createSentInvoice(id string, total, roundOff decimal.Decimal, dueDate time.Time) *invoice.Invoice {
	now := time.Now().UTC()
	inv := &invoice.Invoice{
		ID:            id,
		ClientID:      s.testData.client.ID,
		InvoiceNumber: "INV-" + id,
		InvoiceStatus: types.InvoiceStatusSent,
		Currency:      "INR",
		Subtotal:      total,
		Total:         total,
		RoundOff:      roundOff,
		AmountPaid:    decimal.Zero,
		IssueDate:     now,
		DueDate:       &dueDate,
		SentAt:        &now,
		BaseModel:     types.GetDefaultBaseModel(s.GetContext()),
	}
	s.NoError(s.GetStores().InvoiceRepo.Create(s.GetContext(), inv))
	return inv
}

func (s *PaymentServiceSuite) recordPayment(invoiceID string, amount, tds decimal.Decimal) (*dto.PaymentResponse, error) {
	return s.service.RecordPayment(s.GetContext(), &dto.RecordPaymentRequest{
		InvoiceID:     invoiceID,
		Amount:        amount,
		TDSAmount:     tds,
		PaymentMethod: types.PaymentMethodBankTransfer,
	})
}

func (s *PaymentServiceSuite) TestRecordPaymentSettlesInvoice() {
	resp, err := s.recordPayment(s.testData.invoice.ID, decimal.NewFromInt(1000), decimal.Zero)
	s.NoError(err)
	s.NotNil(resp)
	s.Equal(types.InvoiceStatusPaid, resp.InvoiceStatus)
	s.True(resp.AmountReceived.Equal(decimal.NewFromInt(1000)))

	s.NotNil(resp.Receipt)
	s.Contains(resp.Receipt.ReceiptNumber, "RCT-")
	s.True(resp.Receipt.TotalAmount.Equal(decimal.NewFromInt(1000)))
	s.True(resp.Receipt.TDSAmount.IsZero())

	inv, err := s.GetStores().InvoiceRepo.Get(s.GetContext(), s.testData.invoice.ID)
	s.NoError(err)
	s.Equal(types.InvoiceStatusPaid, inv.InvoiceStatus)
	s.True(inv.AmountPaid.Equal(decimal.NewFromInt(1000)))
}

func (s *PaymentServiceSuite) TestRecordPaymentPartialThenFull() {
	resp, err := s.recordPayment(s.testData.invoice.ID, decimal.NewFromInt(600), decimal.Zero)
	s.NoError(err)
	s.Equal(types.InvoiceStatusPartiallyPaid, resp.InvoiceStatus)

	resp, err = s.recordPayment(s.testData.invoice.ID, decimal.NewFromInt(400), decimal.Zero)
	s.NoError(err)
	s.Equal(types.InvoiceStatusPaid, resp.InvoiceStatus)

	inv, err := s.GetStores().InvoiceRepo.Get(s.GetContext(), s.testData.invoice.ID)
	s.NoError(err)
	s.True(inv.AmountPaid.Equal(decimal.NewFromInt(1000)))
}

func (s *PaymentServiceSuite) TestRecordPaymentWithinRoundOff() {
	inv := s.createSentInvoice("inv_round_off", decimal.NewFromInt(1000), decimal.NewFromInt(2), time.Now().UTC().AddDate(0, 0, 7))

	resp, err := s.recordPayment(inv.ID, decimal.NewFromInt(997), decimal.Zero)
	s.NoError(err)
	s.Equal(types.InvoiceStatusPartiallyPaid, resp.InvoiceStatus)

	resp, err = s.recordPayment(inv.ID, decimal.NewFromInt(1), decimal.Zero)
	s.NoError(err)
	s.Equal(types.InvoiceStatusPaid, resp.InvoiceStatus)

	stored, err := s.GetStores().InvoiceRepo.Get(s.GetContext(), inv.ID)
	s.NoError(err)
	s.True(stored.AmountPaid.Equal(decimal.NewFromInt(998)))
}

func (s *PaymentServiceSuite) TestRecordPaymentWithTDS() {
	resp, err := s.recordPayment(s.testData.invoice.ID, decimal.NewFromInt(1180), decimal.NewFromInt(180))
	s.NoError(err)
	s.True(resp.AmountReceived.Equal(decimal.NewFromInt(1000)))
	s.Equal(types.InvoiceStatusPaid, resp.InvoiceStatus)

	s.NotNil(resp.Receipt)
	s.True(resp.Receipt.TDSAmount.Equal(decimal.NewFromInt(180)))
	s.True(resp.Receipt.TotalAmount.Equal(decimal.NewFromInt(1180)))

	inv, err := s.GetStores().InvoiceRepo.Get(s.GetContext(), s.testData.invoice.ID)
	s.NoError(err)
	s.True(inv.AmountPaid.Equal(decimal.NewFromInt(1000)))
}

func (s *PaymentServiceSuite) TestRecordPaymentOverpaymentRejected() {
	resp, err := s.recordPayment(s.testData.invoice.ID, decimal.NewFromInt(1200), decimal.Zero)
	s.Error(err)
	s.Nil(resp)
	s.True(ierr.IsInvalidOperation(err))

	// No partial state may survive the rejected payment
	payments, err := s.GetStores().PaymentRepo.List(s.GetContext(), types.NewNoLimitPaymentFilter())
	s.NoError(err)
	s.Len(payments, 0)
}

func (s *PaymentServiceSuite) TestRecordPaymentOverpaymentBeyondTolerance() {
	inv := s.createSentInvoice("inv_tolerance", decimal.NewFromInt(1000), decimal.NewFromInt(2), time.Now().UTC().AddDate(0, 0, 7))

	resp, err := s.recordPayment(inv.ID, decimal.NewFromInt(1002), decimal.Zero)
	s.NoError(err)
	s.Equal(types.InvoiceStatusPaid, resp.InvoiceStatus)

	_, err = s.recordPayment(inv.ID, decimal.NewFromFloat(0.01), decimal.Zero)
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))
}

func (s *PaymentServiceSuite) TestConcurrentPaymentsCannotOverpay() {
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.recordPayment(s.testData.invoice.ID, decimal.NewFromInt(600), decimal.Zero)
		}(i)
	}
	wg.Wait()

	// Whichever payment lands second must see the first one and fail the
	// balance check
	failures := 0
	for _, err := range errs {
		if err != nil {
			s.True(ierr.IsInvalidOperation(err))
			failures++
		}
	}
	s.Equal(1, failures)

	inv, err := s.GetStores().InvoiceRepo.Get(s.GetContext(), s.testData.invoice.ID)
	s.NoError(err)
	s.True(inv.AmountPaid.Equal(decimal.NewFromInt(600)))
	s.Equal(types.InvoiceStatusPartiallyPaid, inv.InvoiceStatus)

	payments, err := s.GetStores().PaymentRepo.List(s.GetContext(), types.NewNoLimitPaymentFilter())
	s.NoError(err)
	s.Len(payments, 1)
}

// failingReceiptStore rejects every write
type failingReceiptStore struct {
	receipt.Repository
}

func (f *failingReceiptStore) Create(ctx context.Context, rc *receipt.Receipt) error {
	return ierr.NewError("receipt write failed").
		WithHint("failed to create receipt").
		Mark(ierr.ErrDatabase)
}

func (s *PaymentServiceSuite) TestReceiptFailureRollsBackPayment() {
	params := newTestServiceParams(&s.BaseServiceTestSuite)
	params.ReceiptRepo = &failingReceiptStore{Repository: params.ReceiptRepo}
	svc := NewPaymentService(params)

	_, err := svc.RecordPayment(s.GetContext(), &dto.RecordPaymentRequest{
		InvoiceID:     s.testData.invoice.ID,
		Amount:        decimal.NewFromInt(1000),
		TDSAmount:     decimal.Zero,
		PaymentMethod: types.PaymentMethodBankTransfer,
	})
	s.Error(err)
	s.True(ierr.IsDatabase(err))

	// The payment written before the receipt failure must not survive
	payments, listErr := s.GetStores().PaymentRepo.List(s.GetContext(), types.NewNoLimitPaymentFilter())
	s.NoError(listErr)
	s.Len(payments, 0)

	inv, getErr := s.GetStores().InvoiceRepo.Get(s.GetContext(), s.testData.invoice.ID)
	s.NoError(getErr)
	s.Equal(types.InvoiceStatusSent, inv.InvoiceStatus)
	s.True(inv.AmountPaid.IsZero())
}

func (s *PaymentServiceSuite) TestRecordPaymentOnDraftInvoice() {
	draft := &invoice.Invoice{
		ID:            "inv_draft_payment",
		ClientID:      s.testData.client.ID,
		InvoiceStatus: types.InvoiceStatusDraft,
		Currency:      "INR",
		Total:         decimal.NewFromInt(500),
		IssueDate:     time.Now().UTC(),
		BaseModel:     types.GetDefaultBaseModel(s.GetContext()),
	}
	s.NoError(s.GetStores().InvoiceRepo.Create(s.GetContext(), draft))

	_, err := s.recordPayment(draft.ID, decimal.NewFromInt(500), decimal.Zero)
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))
}

func (s *PaymentServiceSuite) TestRecordPaymentValidation() {
	_, err := s.recordPayment(s.testData.invoice.ID, decimal.NewFromInt(100), decimal.NewFromInt(200))
	s.Error(err)
	s.True(ierr.IsValidation(err))

	_, err = s.recordPayment(s.testData.invoice.ID, decimal.Zero, decimal.Zero)
	s.Error(err)
	s.True(ierr.IsValidation(err))

	_, err = s.service.RecordPayment(s.GetContext(), &dto.RecordPaymentRequest{
		InvoiceID:     s.testData.invoice.ID,
		Amount:        decimal.NewFromInt(100),
		PaymentMethod: types.PaymentMethod("BARTER"),
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *PaymentServiceSuite) TestDeletePaymentRevertsInvoiceStatus() {
	resp, err := s.recordPayment(s.testData.invoice.ID, decimal.NewFromInt(1000), decimal.Zero)
	s.NoError(err)
	s.Equal(types.InvoiceStatusPaid, resp.InvoiceStatus)
	receiptID := resp.Receipt.ID

	s.NoError(s.service.DeletePayment(s.GetContext(), resp.Payment.ID))

	inv, err := s.GetStores().InvoiceRepo.Get(s.GetContext(), s.testData.invoice.ID)
	s.NoError(err)
	s.Equal(types.InvoiceStatusSent, inv.InvoiceStatus)
	s.True(inv.AmountPaid.IsZero())

	_, err = s.GetStores().ReceiptRepo.Get(s.GetContext(), receiptID)
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *PaymentServiceSuite) TestDeletePaymentOnPastDueInvoice() {
	inv := s.createSentInvoice("inv_past_due", decimal.NewFromInt(1000), decimal.Zero, time.Now().UTC().AddDate(0, 0, -3))

	resp, err := s.recordPayment(inv.ID, decimal.NewFromInt(400), decimal.Zero)
	s.NoError(err)
	s.Equal(types.InvoiceStatusPartiallyPaid, resp.InvoiceStatus)

	s.NoError(s.service.DeletePayment(s.GetContext(), resp.Payment.ID))

	stored, err := s.GetStores().InvoiceRepo.Get(s.GetContext(), inv.ID)
	s.NoError(err)
	s.Equal(types.InvoiceStatusOverdue, stored.InvoiceStatus)
}

func (s *PaymentServiceSuite) TestListPaymentsByInvoice() {
	other := s.createSentInvoice("inv_other", decimal.NewFromInt(500), decimal.Zero, time.Now().UTC().AddDate(0, 0, 7))

	_, err := s.recordPayment(s.testData.invoice.ID, decimal.NewFromInt(300), decimal.Zero)
	s.NoError(err)
	_, err = s.recordPayment(other.ID, decimal.NewFromInt(500), decimal.Zero)
	s.NoError(err)

	filter := types.NewNoLimitPaymentFilter()
	invoiceID := s.testData.invoice.ID
	filter.InvoiceID = &invoiceID

	resp, err := s.service.ListPayments(s.GetContext(), filter)
	s.NoError(err)
	s.Len(resp.Items, 1)
	s.Equal(s.testData.invoice.ID, resp.Items[0].InvoiceID)
	s.Equal(1, resp.Pagination.Total)
}

func (s *PaymentServiceSuite) TestPaymentsInvisibleAcrossOrganizations() {
	resp, err := s.recordPayment(s.testData.invoice.ID, decimal.NewFromInt(300), decimal.Zero)
	s.NoError(err)

	foreignCtx := testutil.ContextForOrganization("org_other", "user_other")

	_, err = s.service.GetPayment(foreignCtx, resp.Payment.ID)
	s.Error(err)
	s.True(ierr.IsNotFound(err))

	err = s.service.DeletePayment(foreignCtx, resp.Payment.ID)
	s.Error(err)
	s.True(ierr.IsNotFound(err))

	list, err := s.service.ListPayments(foreignCtx, types.NewNoLimitPaymentFilter())
	s.NoError(err)
	s.Len(list.Items, 0)
}
