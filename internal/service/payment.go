package service

import (
	"context"

	"github.com/billforge/billforge/internal/api/dto"
	"github.com/billforge/billforge/internal/domain/payment"
	"github.com/billforge/billforge/internal/domain/receipt"
	ierr "github.com/billforge/billforge/internal/errors"
	"github.com/billforge/billforge/internal/types"
	"github.com/samber/lo"
)

// PaymentService records and removes payments. Every mutation runs inside
// one transaction together with its receipt and the invoice status
// reconciliation.
type PaymentService interface {
	RecordPayment(ctx context.Context, req *dto.RecordPaymentRequest) (*dto.PaymentResponse, error)
	GetPayment(ctx context.Context, id string) (*dto.PaymentResponse, error)
	ListPayments(ctx context.Context, filter *types.PaymentFilter) (*dto.ListPaymentsResponse, error)
	DeletePayment(ctx context.Context, id string) error
}

type paymentService struct {
	ServiceParams
	invoiceService InvoiceService
}

func NewPaymentService(params ServiceParams) PaymentService {
	return &paymentService{
		ServiceParams:  params,
		invoiceService: NewInvoiceService(params),
	}
}

func (s *paymentService) RecordPayment(ctx context.Context, req *dto.RecordPaymentRequest) (*dto.PaymentResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var response *dto.PaymentResponse

	err := s.DB.WithTx(ctx, func(ctx context.Context) error {
		// Lock the invoice so concurrent payments serialize on the
		// overpayment check
		inv, err := s.InvoiceRepo.GetForUpdate(ctx, req.InvoiceID)
		if err != nil {
			return err
		}
		if !inv.IsPayable() {
			return ierr.NewError("invoice does not accept payments").
				WithHint("payments can only be recorded on sent, partially paid or overdue invoices").
				WithReportableDetails(map[string]any{
					"invoice_id":     inv.ID,
					"invoice_status": inv.InvoiceStatus,
				}).
				Mark(ierr.ErrInvalidOperation)
		}

		p := req.ToPayment(ctx)

		// Reject amounts that would push the invoice past its total plus
		// the round off tolerance
		filter := types.NewNoLimitPaymentFilter()
		filter.InvoiceID = lo.ToPtr(inv.ID)
		existing, err := s.PaymentRepo.List(ctx, filter)
		if err != nil {
			return err
		}
		received := sumReceived(existing).Add(p.AmountReceived)
		if received.GreaterThan(inv.Total.Add(inv.RoundOff)) {
			return ierr.NewError("payment exceeds invoice balance").
				WithHint("payment exceeds the amount due on this invoice").
				WithReportableDetails(map[string]any{
					"invoice_total":   inv.Total,
					"round_off":       inv.RoundOff,
					"amount_received": received,
				}).
				Mark(ierr.ErrInvalidOperation)
		}

		if err := s.PaymentRepo.Create(ctx, p); err != nil {
			return err
		}

		rc := &receipt.Receipt{
			ID:             types.GenerateUUIDWithPrefix(types.UUID_PREFIX_RECEIPT),
			OrganizationID: p.OrganizationID,
			PaymentID:      p.ID,
			InvoiceID:      p.InvoiceID,
			ReceiptNumber:  types.GenerateShortIDWithPrefix(types.SHORT_ID_PREFIX_RECEIPT),
			TDSAmount:      p.TDSAmount,
			TotalAmount:    p.AmountReceived.Add(p.TDSAmount),
			ReceiptDate:    p.PaymentDate,
			BaseModel:      types.GetDefaultBaseModel(ctx),
		}
		if err := s.ReceiptRepo.Create(ctx, rc); err != nil {
			return err
		}

		updated, err := s.invoiceService.ReconcileStatus(ctx, inv.ID)
		if err != nil {
			return err
		}

		response = dto.NewPaymentResponse(p)
		response.Receipt = dto.NewReceiptResponse(rc)
		response.InvoiceStatus = updated.InvoiceStatus
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("recorded payment",
		"payment_id", response.Payment.ID,
		"invoice_id", response.Payment.InvoiceID,
		"amount", response.Payment.Amount,
		"tds_amount", response.Payment.TDSAmount,
		"invoice_status", response.InvoiceStatus,
	)
	s.Notifier.Publish(ctx, types.GetUserID(ctx), types.NotificationTypeInvoiceUpdate, map[string]any{
		"invoice_id":     response.Payment.InvoiceID,
		"invoice_status": response.InvoiceStatus,
		"payment_id":     response.Payment.ID,
	})

	return response, nil
}

func (s *paymentService) GetPayment(ctx context.Context, id string) (*dto.PaymentResponse, error) {
	p, err := s.PaymentRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.NewPaymentResponse(p), nil
}

func (s *paymentService) ListPayments(ctx context.Context, filter *types.PaymentFilter) (*dto.ListPaymentsResponse, error) {
	if filter == nil {
		filter = &types.PaymentFilter{QueryFilter: types.NewDefaultQueryFilter()}
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	payments, err := s.PaymentRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	count, err := s.PaymentRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &dto.ListPaymentsResponse{
		Items: lo.Map(payments, func(p *payment.Payment, _ int) *dto.PaymentResponse {
			return dto.NewPaymentResponse(p)
		}),
		Pagination: types.NewPaginationResponse(count, filter),
	}, nil
}

func (s *paymentService) DeletePayment(ctx context.Context, id string) error {
	var invoiceID string
	var invoiceStatus types.InvoiceStatus

	err := s.DB.WithTx(ctx, func(ctx context.Context) error {
		p, err := s.PaymentRepo.Get(ctx, id)
		if err != nil {
			return err
		}
		invoiceID = p.InvoiceID

		if _, err := s.InvoiceRepo.GetForUpdate(ctx, p.InvoiceID); err != nil {
			return err
		}

		// The receipt's lifecycle is bound to its payment
		rc, err := s.ReceiptRepo.GetByPayment(ctx, p.ID)
		if err == nil {
			if err := s.ReceiptRepo.Delete(ctx, rc.ID); err != nil {
				return err
			}
		} else if !ierr.IsNotFound(err) {
			return err
		}

		if err := s.PaymentRepo.Delete(ctx, p.ID); err != nil {
			return err
		}

		updated, err := s.invoiceService.ReconcileStatus(ctx, p.InvoiceID)
		if err != nil {
			return err
		}
		invoiceStatus = updated.InvoiceStatus
		return nil
	})
	if err != nil {
		return err
	}

	s.Logger.Infow("deleted payment",
		"payment_id", id,
		"invoice_id", invoiceID,
		"invoice_status", invoiceStatus,
	)
	s.Notifier.Publish(ctx, types.GetUserID(ctx), types.NotificationTypeInvoiceUpdate, map[string]any{
		"invoice_id":     invoiceID,
		"invoice_status": invoiceStatus,
		"payment_id":     id,
	})
	return nil
}
