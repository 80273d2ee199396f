package dto

import (
	"github.com/billforge/billforge/internal/domain/receipt"
	"github.com/billforge/billforge/internal/types"
)

// ReceiptResponse represents a receipt in API responses
type ReceiptResponse struct {
	*receipt.Receipt
}

// NewReceiptResponse creates a new receipt response
func NewReceiptResponse(r *receipt.Receipt) *ReceiptResponse {
	return &ReceiptResponse{Receipt: r}
}

// ListReceiptsResponse is a paginated receipt list
type ListReceiptsResponse struct {
	Items      []*ReceiptResponse       `json:"items"`
	Pagination types.PaginationResponse `json:"pagination"`
}
