package service

import (
	"testing"
	"time"

	"github.com/billforge/billforge/internal/domain/invoice"
	"github.com/billforge/billforge/internal/domain/payment"
	"github.com/billforge/billforge/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestSumReceived(t *testing.T) {
	payments := []*payment.Payment{
		{AmountReceived: decimal.NewFromInt(600)},
		{AmountReceived: decimal.NewFromFloat(399.99)},
	}
	assert.True(t, sumReceived(payments).Equal(decimal.NewFromFloat(999.99)))
	assert.True(t, sumReceived(nil).IsZero())
}

func TestNextInvoiceStatus(t *testing.T) {
	now := time.Now().UTC()
	pastDue := now.AddDate(0, 0, -1)
	futureDue := now.AddDate(0, 0, 7)

	newInvoice := func(status types.InvoiceStatus, total, roundOff decimal.Decimal, due *time.Time) *invoice.Invoice {
		return &invoice.Invoice{
			InvoiceStatus: status,
			Total:         total,
			RoundOff:      roundOff,
			DueDate:       due,
		}
	}

	testCases := []struct {
		name     string
		inv      *invoice.Invoice
		received decimal.Decimal
		expected types.InvoiceStatus
	}{
		{
			name:     "draft_stays_draft",
			inv:      newInvoice(types.InvoiceStatusDraft, decimal.NewFromInt(1000), decimal.Zero, nil),
			received: decimal.Zero,
			expected: types.InvoiceStatusDraft,
		},
		{
			name:     "full_payment_is_paid",
			inv:      newInvoice(types.InvoiceStatusSent, decimal.NewFromInt(1000), decimal.Zero, &futureDue),
			received: decimal.NewFromInt(1000),
			expected: types.InvoiceStatusPaid,
		},
		{
			name:     "payment_within_round_off_is_paid",
			inv:      newInvoice(types.InvoiceStatusSent, decimal.NewFromInt(1000), decimal.NewFromInt(2), &futureDue),
			received: decimal.NewFromInt(998),
			expected: types.InvoiceStatusPaid,
		},
		{
			name:     "payment_below_round_off_is_partial",
			inv:      newInvoice(types.InvoiceStatusSent, decimal.NewFromInt(1000), decimal.NewFromInt(2), &futureDue),
			received: decimal.NewFromFloat(997.99),
			expected: types.InvoiceStatusPartiallyPaid,
		},
		{
			name:     "negative_round_off_tightens_the_bar",
			inv:      newInvoice(types.InvoiceStatusSent, decimal.NewFromInt(1000), decimal.NewFromInt(-5), &futureDue),
			received: decimal.NewFromInt(1000),
			expected: types.InvoiceStatusPartiallyPaid,
		},
		{
			name:     "partial_payment_wins_over_overdue",
			inv:      newInvoice(types.InvoiceStatusSent, decimal.NewFromInt(1000), decimal.Zero, &pastDue),
			received: decimal.NewFromInt(100),
			expected: types.InvoiceStatusPartiallyPaid,
		},
		{
			name:     "unpaid_past_due_is_overdue",
			inv:      newInvoice(types.InvoiceStatusSent, decimal.NewFromInt(1000), decimal.Zero, &pastDue),
			received: decimal.Zero,
			expected: types.InvoiceStatusOverdue,
		},
		{
			name:     "unpaid_before_due_stays_sent",
			inv:      newInvoice(types.InvoiceStatusOverdue, decimal.NewFromInt(1000), decimal.Zero, &futureDue),
			received: decimal.Zero,
			expected: types.InvoiceStatusSent,
		},
		{
			name:     "no_due_date_stays_sent",
			inv:      newInvoice(types.InvoiceStatusSent, decimal.NewFromInt(1000), decimal.Zero, nil),
			received: decimal.Zero,
			expected: types.InvoiceStatusSent,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, nextInvoiceStatus(tc.inv, tc.received, now))
		})
	}
}
