package invoice

import (
	"context"
	"time"

	"github.com/billforge/billforge/internal/types"
)

// Repository provides access to invoice storage. All lookups are scoped to
// the organization carried in the context.
type Repository interface {
	// Create persists the invoice together with its line items
	Create(ctx context.Context, inv *Invoice) error
	Get(ctx context.Context, id string) (*Invoice, error)
	// GetForUpdate locks the invoice row for the rest of the transaction.
	// Payment mutations take this lock before checking the balance so two
	// concurrent payments cannot both pass the overpayment guard.
	GetForUpdate(ctx context.Context, id string) (*Invoice, error)
	Update(ctx context.Context, inv *Invoice) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter *types.InvoiceFilter) ([]*Invoice, error)
	Count(ctx context.Context, filter *types.InvoiceFilter) (int, error)

	// ListDueForOrganization returns sent, partially paid or overdue invoices
	// of one organization with a due date before the cutoff. Used by the
	// reminder scheduler, which iterates organizations explicitly.
	ListDueForOrganization(ctx context.Context, orgID string, cutoff time.Time) ([]*Invoice, error)
}
