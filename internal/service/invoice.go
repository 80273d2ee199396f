package service

import (
	"context"
	"fmt"
	"time"

	"github.com/billforge/billforge/internal/api/dto"
	"github.com/billforge/billforge/internal/domain/invoice"
	"github.com/billforge/billforge/internal/domain/payment"
	ierr "github.com/billforge/billforge/internal/errors"
	"github.com/billforge/billforge/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// InvoiceService manages the invoice lifecycle. Payment derived statuses
// are only ever set through ReconcileStatus.
type InvoiceService interface {
	CreateInvoice(ctx context.Context, req *dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error)
	GetInvoice(ctx context.Context, id string) (*dto.InvoiceResponse, error)
	ListInvoices(ctx context.Context, filter *types.InvoiceFilter) (*dto.ListInvoicesResponse, error)
	UpdateInvoice(ctx context.Context, id string, req *dto.UpdateInvoiceRequest) (*dto.InvoiceResponse, error)
	DeleteInvoice(ctx context.Context, id string) error
	SendInvoice(ctx context.Context, id string) (*dto.InvoiceResponse, error)

	// ReconcileStatus recomputes the invoice's payment derived status from
	// its current payment set and persists the result
	ReconcileStatus(ctx context.Context, invoiceID string) (*invoice.Invoice, error)
}

type invoiceService struct {
	ServiceParams
}

func NewInvoiceService(params ServiceParams) InvoiceService {
	return &invoiceService{ServiceParams: params}
}

func (s *invoiceService) CreateInvoice(ctx context.Context, req *dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// The client must belong to the active organization
	if _, err := s.ClientRepo.Get(ctx, req.ClientID); err != nil {
		return nil, err
	}

	inv := req.ToInvoice(ctx)

	if inv.DueDate == nil {
		dueDays := types.InvoiceDefaultDueDays
		if settings, err := s.SettingsRepo.GetInvoiceSettings(ctx); err == nil {
			dueDays = settings.DefaultDueDays
		}
		due := inv.IssueDate.AddDate(0, 0, dueDays)
		inv.DueDate = &due
	}

	if err := s.InvoiceRepo.Create(ctx, inv); err != nil {
		return nil, err
	}

	s.Logger.Infow("created invoice",
		"invoice_id", inv.ID,
		"client_id", inv.ClientID,
		"total", inv.Total,
	)
	return dto.NewInvoiceResponse(inv), nil
}

func (s *invoiceService) GetInvoice(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	inv, err := s.InvoiceRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.NewInvoiceResponse(inv), nil
}

func (s *invoiceService) ListInvoices(ctx context.Context, filter *types.InvoiceFilter) (*dto.ListInvoicesResponse, error) {
	if filter == nil {
		filter = types.NewInvoiceFilter()
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	invoices, err := s.InvoiceRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	count, err := s.InvoiceRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &dto.ListInvoicesResponse{
		Items: lo.Map(invoices, func(inv *invoice.Invoice, _ int) *dto.InvoiceResponse {
			return dto.NewInvoiceResponse(inv)
		}),
		Pagination: types.NewPaginationResponse(count, filter),
	}, nil
}

func (s *invoiceService) UpdateInvoice(ctx context.Context, id string, req *dto.UpdateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	inv, err := s.InvoiceRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv.InvoiceStatus != types.InvoiceStatusDraft {
		return nil, ierr.NewError("only draft invoices can be updated").
			WithHint("only draft invoices can be updated").
			WithReportableDetails(map[string]any{
				"invoice_status": inv.InvoiceStatus,
			}).
			Mark(ierr.ErrInvalidOperation)
	}

	if req.ClientID != nil {
		if _, err := s.ClientRepo.Get(ctx, *req.ClientID); err != nil {
			return nil, err
		}
		inv.ClientID = *req.ClientID
	}
	if req.Currency != nil {
		inv.Currency = *req.Currency
	}
	if req.TaxAmount != nil {
		if req.TaxAmount.IsNegative() {
			return nil, ierr.NewError("tax amount must not be negative").
				WithHint("tax amount must not be negative").
				Mark(ierr.ErrValidation)
		}
		inv.TaxAmount = req.TaxAmount.Round(2)
	}
	if req.RoundOff != nil {
		inv.RoundOff = req.RoundOff.Round(2)
	}
	if req.DueDate != nil {
		inv.DueDate = req.DueDate
	}
	if req.Notes != nil {
		inv.Notes = *req.Notes
	}

	if req.LineItems != nil {
		items := make([]*invoice.LineItem, 0, len(req.LineItems))
		subtotal := decimal.Zero
		for _, item := range req.LineItems {
			amount := item.Quantity.Mul(item.UnitPrice).Round(2)
			subtotal = subtotal.Add(amount)
			items = append(items, &invoice.LineItem{
				ID:             types.GenerateUUIDWithPrefix(types.UUID_PREFIX_INVOICE_LINE_ITEM),
				InvoiceID:      inv.ID,
				OrganizationID: inv.OrganizationID,
				Description:    item.Description,
				Quantity:       item.Quantity,
				UnitPrice:      item.UnitPrice,
				Amount:         amount,
				BaseModel:      types.GetDefaultBaseModel(ctx),
			})
		}
		inv.LineItems = items
		inv.Subtotal = subtotal
	}
	inv.Total = inv.Subtotal.Add(inv.TaxAmount)
	inv.UpdatedAt = time.Now().UTC()
	inv.UpdatedBy = types.GetUserID(ctx)

	if err := s.InvoiceRepo.Update(ctx, inv); err != nil {
		return nil, err
	}
	return dto.NewInvoiceResponse(inv), nil
}

func (s *invoiceService) DeleteInvoice(ctx context.Context, id string) error {
	inv, err := s.InvoiceRepo.Get(ctx, id)
	if err != nil {
		return err
	}
	if inv.InvoiceStatus != types.InvoiceStatusDraft {
		return ierr.NewError("only draft invoices can be deleted").
			WithHint("only draft invoices can be deleted").
			WithReportableDetails(map[string]any{
				"invoice_status": inv.InvoiceStatus,
			}).
			Mark(ierr.ErrInvalidOperation)
	}
	return s.InvoiceRepo.Delete(ctx, id)
}

func (s *invoiceService) SendInvoice(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	var inv *invoice.Invoice

	err := s.DB.WithTx(ctx, func(ctx context.Context) error {
		var err error
		// Locking the row makes a concurrent double send fail the draft
		// check instead of consuming a second number
		inv, err = s.InvoiceRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if inv.InvoiceStatus != types.InvoiceStatusDraft {
			return ierr.NewError("only draft invoices can be sent").
				WithHint("only draft invoices can be sent").
				WithReportableDetails(map[string]any{
					"invoice_status": inv.InvoiceStatus,
				}).
				Mark(ierr.ErrInvalidOperation)
		}

		if inv.InvoiceNumber == "" {
			number, err := s.nextInvoiceNumber(ctx)
			if err != nil {
				return err
			}
			inv.InvoiceNumber = number
		}

		now := time.Now().UTC()
		inv.InvoiceStatus = types.InvoiceStatusSent
		inv.SentAt = &now
		inv.UpdatedAt = now
		inv.UpdatedBy = types.GetUserID(ctx)
		inv.LineItems = nil // line items are untouched on send
		return s.InvoiceRepo.Update(ctx, inv)
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("sent invoice",
		"invoice_id", inv.ID,
		"invoice_number", inv.InvoiceNumber,
	)
	s.Notifier.Publish(ctx, types.GetUserID(ctx), types.NotificationTypeInvoiceUpdate, map[string]any{
		"invoice_id":     inv.ID,
		"invoice_status": inv.InvoiceStatus,
	})

	return s.GetInvoice(ctx, id)
}

// nextInvoiceNumber assigns the next number from the organization's
// sequence. The settings row stays locked until the surrounding
// transaction commits, so concurrent sends draw distinct numbers.
func (s *invoiceService) nextInvoiceNumber(ctx context.Context) (string, error) {
	settings, err := s.SettingsRepo.GetInvoiceSettingsForUpdate(ctx)
	if err != nil {
		return "", err
	}

	number := fmt.Sprintf("%s%04d", settings.NumberPrefix, settings.NextSequence)
	settings.NextSequence++
	settings.UpdatedAt = time.Now().UTC()
	settings.UpdatedBy = types.GetUserID(ctx)
	if err := s.SettingsRepo.UpdateInvoiceSettings(ctx, settings); err != nil {
		return "", err
	}
	return number, nil
}

func (s *invoiceService) ReconcileStatus(ctx context.Context, invoiceID string) (*invoice.Invoice, error) {
	var inv *invoice.Invoice

	// Runs in its own transaction when the caller has not opened one, so
	// the row lock always guards the read-recompute-write cycle
	err := s.DB.WithTx(ctx, func(ctx context.Context) error {
		var err error
		inv, err = s.InvoiceRepo.GetForUpdate(ctx, invoiceID)
		if err != nil {
			return err
		}

		filter := types.NewNoLimitPaymentFilter()
		filter.InvoiceID = lo.ToPtr(invoiceID)
		payments, err := s.PaymentRepo.List(ctx, filter)
		if err != nil {
			return err
		}

		received := sumReceived(payments)
		next := nextInvoiceStatus(inv, received, time.Now().UTC())

		if next == inv.InvoiceStatus && received.Equal(inv.AmountPaid) {
			return nil
		}

		inv.InvoiceStatus = next
		inv.AmountPaid = received
		inv.UpdatedAt = time.Now().UTC()
		inv.UpdatedBy = types.GetUserID(ctx)
		inv.LineItems = nil // status reconciliation never touches line items
		return s.InvoiceRepo.Update(ctx, inv)
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("reconciled invoice status",
		"invoice_id", inv.ID,
		"invoice_status", inv.InvoiceStatus,
		"amount_paid", inv.AmountPaid,
	)
	return inv, nil
}

// sumReceived totals the net received amount across payments
func sumReceived(payments []*payment.Payment) decimal.Decimal {
	received := decimal.Zero
	for _, p := range payments {
		received = received.Add(p.AmountReceived)
	}
	return received
}

// nextInvoiceStatus is the payment derived status transition function.
// The round off tolerance is exactly the stored value, not an epsilon.
func nextInvoiceStatus(inv *invoice.Invoice, received decimal.Decimal, now time.Time) types.InvoiceStatus {
	if inv.InvoiceStatus == types.InvoiceStatusDraft {
		return types.InvoiceStatusDraft
	}
	if received.Add(inv.RoundOff).GreaterThanOrEqual(inv.Total) {
		return types.InvoiceStatusPaid
	}
	if received.IsPositive() {
		return types.InvoiceStatusPartiallyPaid
	}
	if inv.IsPastDue(now) {
		return types.InvoiceStatusOverdue
	}
	return types.InvoiceStatusSent
}
