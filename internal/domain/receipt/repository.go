package receipt

import (
	"context"

	"github.com/billforge/billforge/internal/types"
)

// Repository provides access to receipt storage. All lookups are scoped to
// the organization carried in the context.
type Repository interface {
	Create(ctx context.Context, r *Receipt) error
	Get(ctx context.Context, id string) (*Receipt, error)
	GetByPayment(ctx context.Context, paymentID string) (*Receipt, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter *types.ReceiptFilter) ([]*Receipt, error)
	Count(ctx context.Context, filter *types.ReceiptFilter) (int, error)
}
