package dto

import (
	"context"
	"time"

	"github.com/billforge/billforge/internal/domain/payment"
	ierr "github.com/billforge/billforge/internal/errors"
	"github.com/billforge/billforge/internal/types"
	"github.com/billforge/billforge/internal/validator"
	"github.com/shopspring/decimal"
)

// RecordPaymentRequest records money received against an invoice. Amount is
// the gross figure; TDSAmount is the part withheld at source by the payer.
type RecordPaymentRequest struct {
	InvoiceID       string              `json:"invoice_id" validate:"required"`
	Amount          decimal.Decimal     `json:"amount" validate:"required"`
	TDSAmount       decimal.Decimal     `json:"tds_amount"`
	PaymentDate     *time.Time          `json:"payment_date,omitempty"`
	PaymentMethod   types.PaymentMethod `json:"payment_method" validate:"required"`
	ReferenceNumber string              `json:"reference_number,omitempty"`
	Notes           string              `json:"notes,omitempty"`
}

func (r *RecordPaymentRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if err := r.PaymentMethod.Validate(); err != nil {
		return ierr.WithError(err).
			WithHint("invalid payment method").
			Mark(ierr.ErrValidation)
	}
	if !r.Amount.IsPositive() {
		return ierr.NewError("payment amount must be positive").
			WithHint("payment amount must be positive").
			Mark(ierr.ErrValidation)
	}
	if r.TDSAmount.IsNegative() {
		return ierr.NewError("tds amount must not be negative").
			WithHint("tds amount must not be negative").
			Mark(ierr.ErrValidation)
	}
	if r.Amount.Sub(r.TDSAmount).IsNegative() {
		return ierr.NewError("tds amount exceeds payment amount").
			WithHint("tds amount cannot exceed the payment amount").
			WithReportableDetails(map[string]any{
				"amount":     r.Amount,
				"tds_amount": r.TDSAmount,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// ToPayment converts the request into a domain payment
func (r *RecordPaymentRequest) ToPayment(ctx context.Context) *payment.Payment {
	paymentDate := time.Now().UTC()
	if r.PaymentDate != nil {
		paymentDate = r.PaymentDate.UTC()
	}

	amount := r.Amount.Round(2)
	tds := r.TDSAmount.Round(2)

	return &payment.Payment{
		ID:              types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PAYMENT),
		OrganizationID:  types.GetOrganizationID(ctx),
		InvoiceID:       r.InvoiceID,
		Amount:          amount,
		TDSAmount:       tds,
		AmountReceived:  amount.Sub(tds),
		PaymentDate:     paymentDate,
		PaymentMethod:   r.PaymentMethod,
		ReferenceNumber: r.ReferenceNumber,
		Notes:           r.Notes,
		BaseModel:       types.GetDefaultBaseModel(ctx),
	}
}

// PaymentResponse represents a payment in API responses
type PaymentResponse struct {
	*payment.Payment
	// Receipt is included when the payment was just recorded
	Receipt *ReceiptResponse `json:"receipt,omitempty"`
	// InvoiceStatus is the invoice state after reconciliation
	InvoiceStatus types.InvoiceStatus `json:"invoice_status,omitempty"`
}

// NewPaymentResponse creates a new payment response
func NewPaymentResponse(p *payment.Payment) *PaymentResponse {
	return &PaymentResponse{Payment: p}
}

// ListPaymentsResponse is a paginated payment list
type ListPaymentsResponse struct {
	Items      []*PaymentResponse       `json:"items"`
	Pagination types.PaginationResponse `json:"pagination"`
}
