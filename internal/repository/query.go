package repository

import (
	"strings"

	"github.com/billforge/billforge/internal/types"
)

// sortableColumns is the allow list for ORDER BY input coming from filters
var sortableColumns = map[string]struct{}{
	"created_at":     {},
	"updated_at":     {},
	"name":           {},
	"email":          {},
	"due_date":       {},
	"issue_date":     {},
	"payment_date":   {},
	"receipt_date":   {},
	"invoice_number": {},
	"receipt_number": {},
	"amount":         {},
	"total":          {},
}

// orderColumn returns a safe ORDER BY column for user supplied sort input
func orderColumn(sort string) string {
	sort = strings.ToLower(strings.TrimSpace(sort))
	if _, ok := sortableColumns[sort]; ok {
		return sort
	}
	return types.FILTER_DEFAULT_SORT
}

// orderDirection returns a safe ORDER BY direction
func orderDirection(order string) string {
	if strings.EqualFold(order, types.OrderAsc) {
		return "ASC"
	}
	return "DESC"
}
