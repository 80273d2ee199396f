package invoice

import (
	"time"

	"github.com/billforge/billforge/internal/types"
	"github.com/shopspring/decimal"
)

// Invoice is a bill issued by an organization to one of its clients.
// Status is derived from the payment set, never set directly by callers.
type Invoice struct {
	ID             string              `db:"id" json:"id"`
	OrganizationID string              `db:"organization_id" json:"organization_id"`
	ClientID       string              `db:"client_id" json:"client_id"`
	InvoiceNumber  string              `db:"invoice_number" json:"invoice_number"`
	InvoiceStatus  types.InvoiceStatus `db:"invoice_status" json:"invoice_status"`
	Currency       string              `db:"currency" json:"currency"`
	Subtotal       decimal.Decimal     `db:"subtotal" json:"subtotal"`
	TaxAmount      decimal.Decimal     `db:"tax_amount" json:"tax_amount"`
	// RoundOff is the payment tolerance for this invoice. It may be negative.
	RoundOff   decimal.Decimal `db:"round_off" json:"round_off"`
	Total      decimal.Decimal `db:"total" json:"total"`
	AmountPaid decimal.Decimal `db:"amount_paid" json:"amount_paid"`
	IssueDate  time.Time       `db:"issue_date" json:"issue_date"`
	DueDate    *time.Time      `db:"due_date" json:"due_date,omitempty"`
	SentAt     *time.Time      `db:"sent_at" json:"sent_at,omitempty"`
	Notes      string          `db:"notes" json:"notes"`

	LineItems []*LineItem `db:"-" json:"line_items"`

	types.Metadata `db:"metadata" json:"metadata,omitempty"`
	types.BaseModel
}

// LineItem is a single billed row on an invoice
type LineItem struct {
	ID             string          `db:"id" json:"id"`
	InvoiceID      string          `db:"invoice_id" json:"invoice_id"`
	OrganizationID string          `db:"organization_id" json:"organization_id"`
	Description    string          `db:"description" json:"description"`
	Quantity       decimal.Decimal `db:"quantity" json:"quantity"`
	UnitPrice      decimal.Decimal `db:"unit_price" json:"unit_price"`
	Amount         decimal.Decimal `db:"amount" json:"amount"`

	types.BaseModel
}

// AmountDue returns the amount still outstanding on the invoice
func (i *Invoice) AmountDue() decimal.Decimal {
	due := i.Total.Sub(i.AmountPaid)
	if due.IsNegative() {
		return decimal.Zero
	}
	return due
}

// IsPayable reports whether the invoice can accept payments in its
// current status
func (i *Invoice) IsPayable() bool {
	return i.InvoiceStatus.IsPayable()
}

// IsPastDue reports whether the invoice has a due date earlier than now
func (i *Invoice) IsPastDue(now time.Time) bool {
	return i.DueDate != nil && i.DueDate.Before(now)
}
