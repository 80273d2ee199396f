package payment

import (
	"time"

	"github.com/billforge/billforge/internal/types"
	"github.com/shopspring/decimal"
)

// Payment records money received against an invoice. Amount is the gross
// figure; AmountReceived is what actually lands after tax deducted at
// source, and is the figure reconciliation sums.
type Payment struct {
	ID             string `db:"id" json:"id"`
	OrganizationID string `db:"organization_id" json:"organization_id"`
	InvoiceID      string `db:"invoice_id" json:"invoice_id"`
	// Amount is the gross payment amount, inclusive of TDS
	Amount decimal.Decimal `db:"amount" json:"amount"`
	// TDSAmount is tax deducted at source by the payer
	TDSAmount decimal.Decimal `db:"tds_amount" json:"tds_amount"`
	// AmountReceived = Amount - TDSAmount, always >= 0
	AmountReceived  decimal.Decimal     `db:"amount_received" json:"amount_received"`
	PaymentDate     time.Time           `db:"payment_date" json:"payment_date"`
	PaymentMethod   types.PaymentMethod `db:"payment_method" json:"payment_method"`
	ReferenceNumber string              `db:"reference_number" json:"reference_number"`
	Notes           string              `db:"notes" json:"notes"`

	types.BaseModel
}
