package types

import (
	ierr "github.com/billforge/billforge/internal/errors"
)

// ReceiptFilter represents the filter options for listing receipts
type ReceiptFilter struct {
	*QueryFilter
	*TimeRangeFilter

	ReceiptIDs []string `json:"receipt_ids,omitempty" form:"receipt_ids"`
	InvoiceID  string   `json:"invoice_id,omitempty" form:"invoice_id"`
	PaymentID  string   `json:"payment_id,omitempty" form:"payment_id"`
}

// NewReceiptFilter creates a new receipt filter with default options
func NewReceiptFilter() *ReceiptFilter {
	return &ReceiptFilter{
		QueryFilter: NewDefaultQueryFilter(),
	}
}

// NewNoLimitReceiptFilter creates a new receipt filter without pagination
func NewNoLimitReceiptFilter() *ReceiptFilter {
	return &ReceiptFilter{
		QueryFilter: NewNoLimitQueryFilter(),
	}
}

// Validate validates the receipt filter
func (f *ReceiptFilter) Validate() error {
	if f.QueryFilter != nil {
		if err := f.QueryFilter.Validate(); err != nil {
			return ierr.WithError(err).
				WithHint("invalid pagination parameters").
				Mark(ierr.ErrValidation)
		}
	}
	if f.TimeRangeFilter != nil {
		if err := f.TimeRangeFilter.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// GetLimit implements BaseFilter interface
func (f *ReceiptFilter) GetLimit() int {
	if f.QueryFilter == nil {
		return NewDefaultQueryFilter().GetLimit()
	}
	return f.QueryFilter.GetLimit()
}

// GetOffset implements BaseFilter interface
func (f *ReceiptFilter) GetOffset() int {
	if f.QueryFilter == nil {
		return NewDefaultQueryFilter().GetOffset()
	}
	return f.QueryFilter.GetOffset()
}

// GetSort implements BaseFilter interface
func (f *ReceiptFilter) GetSort() string {
	if f.QueryFilter == nil {
		return NewDefaultQueryFilter().GetSort()
	}
	return f.QueryFilter.GetSort()
}

// GetOrder implements BaseFilter interface
func (f *ReceiptFilter) GetOrder() string {
	if f.QueryFilter == nil {
		return NewDefaultQueryFilter().GetOrder()
	}
	return f.QueryFilter.GetOrder()
}

// GetStatus implements BaseFilter interface
func (f *ReceiptFilter) GetStatus() Status {
	if f.QueryFilter == nil {
		return NewDefaultQueryFilter().GetStatus()
	}
	return f.QueryFilter.GetStatus()
}

// IsUnlimited implements BaseFilter interface
func (f *ReceiptFilter) IsUnlimited() bool {
	if f.QueryFilter == nil {
		return NewDefaultQueryFilter().IsUnlimited()
	}
	return f.QueryFilter.IsUnlimited()
}
