package dto

import (
	"context"
	"time"

	"github.com/billforge/billforge/internal/domain/invoice"
	ierr "github.com/billforge/billforge/internal/errors"
	"github.com/billforge/billforge/internal/types"
	"github.com/billforge/billforge/internal/validator"
	"github.com/shopspring/decimal"
)

// InvoiceLineItemRequest is one billed row on a draft invoice
type InvoiceLineItemRequest struct {
	Description string          `json:"description" validate:"required"`
	Quantity    decimal.Decimal `json:"quantity" validate:"required"`
	UnitPrice   decimal.Decimal `json:"unit_price" validate:"required"`
}

// CreateInvoiceRequest creates a draft invoice
type CreateInvoiceRequest struct {
	ClientID  string                    `json:"client_id" validate:"required"`
	Currency  string                    `json:"currency" validate:"required,len=3"`
	LineItems []*InvoiceLineItemRequest `json:"line_items" validate:"required,min=1,dive"`
	TaxAmount decimal.Decimal           `json:"tax_amount"`
	// RoundOff is the payment tolerance applied when deciding whether the
	// invoice is fully paid. It may be negative.
	RoundOff decimal.Decimal `json:"round_off"`
	DueDate  *time.Time      `json:"due_date,omitempty"`
	Notes    string          `json:"notes,omitempty"`
}

func (r *CreateInvoiceRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	for _, item := range r.LineItems {
		if item.Quantity.IsNegative() || item.Quantity.IsZero() {
			return ierr.NewError("line item quantity must be positive").
				WithHint("line item quantity must be positive").
				Mark(ierr.ErrValidation)
		}
		if item.UnitPrice.IsNegative() {
			return ierr.NewError("line item unit price must not be negative").
				WithHint("line item unit price must not be negative").
				Mark(ierr.ErrValidation)
		}
	}
	if r.TaxAmount.IsNegative() {
		return ierr.NewError("tax amount must not be negative").
			WithHint("tax amount must not be negative").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// ToInvoice converts the request into a draft invoice with computed totals
func (r *CreateInvoiceRequest) ToInvoice(ctx context.Context) *invoice.Invoice {
	inv := &invoice.Invoice{
		ID:             types.GenerateUUIDWithPrefix(types.UUID_PREFIX_INVOICE),
		OrganizationID: types.GetOrganizationID(ctx),
		ClientID:       r.ClientID,
		InvoiceStatus:  types.InvoiceStatusDraft,
		Currency:       r.Currency,
		TaxAmount:      r.TaxAmount.Round(2),
		RoundOff:       r.RoundOff.Round(2),
		IssueDate:      time.Now().UTC(),
		DueDate:        r.DueDate,
		Notes:          r.Notes,
		AmountPaid:     decimal.Zero,
		BaseModel:      types.GetDefaultBaseModel(ctx),
	}

	subtotal := decimal.Zero
	for _, item := range r.LineItems {
		amount := item.Quantity.Mul(item.UnitPrice).Round(2)
		subtotal = subtotal.Add(amount)
		inv.LineItems = append(inv.LineItems, &invoice.LineItem{
			ID:             types.GenerateUUIDWithPrefix(types.UUID_PREFIX_INVOICE_LINE_ITEM),
			OrganizationID: inv.OrganizationID,
			Description:    item.Description,
			Quantity:       item.Quantity,
			UnitPrice:      item.UnitPrice,
			Amount:         amount,
			BaseModel:      types.GetDefaultBaseModel(ctx),
		})
	}
	inv.Subtotal = subtotal
	inv.Total = subtotal.Add(inv.TaxAmount)
	return inv
}

// UpdateInvoiceRequest updates a draft invoice. Only drafts may change.
type UpdateInvoiceRequest struct {
	ClientID  *string                   `json:"client_id,omitempty"`
	Currency  *string                   `json:"currency,omitempty" validate:"omitempty,len=3"`
	LineItems []*InvoiceLineItemRequest `json:"line_items,omitempty" validate:"omitempty,min=1,dive"`
	TaxAmount *decimal.Decimal          `json:"tax_amount,omitempty"`
	RoundOff  *decimal.Decimal          `json:"round_off,omitempty"`
	DueDate   *time.Time                `json:"due_date,omitempty"`
	Notes     *string                   `json:"notes,omitempty"`
}

func (r *UpdateInvoiceRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	for _, item := range r.LineItems {
		if item.Quantity.IsNegative() || item.Quantity.IsZero() {
			return ierr.NewError("line item quantity must be positive").
				WithHint("line item quantity must be positive").
				Mark(ierr.ErrValidation)
		}
		if item.UnitPrice.IsNegative() {
			return ierr.NewError("line item unit price must not be negative").
				WithHint("line item unit price must not be negative").
				Mark(ierr.ErrValidation)
		}
	}
	return nil
}

// InvoiceResponse represents an invoice in API responses
type InvoiceResponse struct {
	*invoice.Invoice
	AmountDue decimal.Decimal `json:"amount_due"`
}

// NewInvoiceResponse creates a new invoice response
func NewInvoiceResponse(inv *invoice.Invoice) *InvoiceResponse {
	return &InvoiceResponse{
		Invoice:   inv,
		AmountDue: inv.AmountDue(),
	}
}

// ListInvoicesResponse is a paginated invoice list
type ListInvoicesResponse struct {
	Items      []*InvoiceResponse       `json:"items"`
	Pagination types.PaginationResponse `json:"pagination"`
}
