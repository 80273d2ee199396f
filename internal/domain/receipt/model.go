package receipt

import (
	"time"

	"github.com/billforge/billforge/internal/types"
	"github.com/shopspring/decimal"
)

// Receipt acknowledges a payment. Exactly one receipt exists per payment
// and it is deleted together with it.
type Receipt struct {
	ID             string `db:"id" json:"id"`
	OrganizationID string `db:"organization_id" json:"organization_id"`
	PaymentID      string `db:"payment_id" json:"payment_id"`
	InvoiceID      string `db:"invoice_id" json:"invoice_id"`
	// ReceiptNumber is the short human facing identifier, e.g. RCT-XY12A8Q
	ReceiptNumber string          `db:"receipt_number" json:"receipt_number"`
	TDSAmount     decimal.Decimal `db:"tds_amount" json:"tds_amount"`
	// TotalAmount = amount received + TDS, the gross figure acknowledged
	TotalAmount decimal.Decimal `db:"total_amount" json:"total_amount"`
	ReceiptDate time.Time       `db:"receipt_date" json:"receipt_date"`

	types.BaseModel
}
