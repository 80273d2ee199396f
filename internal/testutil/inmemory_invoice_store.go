package testutil

import (
	"context"
	"time"

	"github.com/billforge/billforge/internal/domain/invoice"
	ierr "github.com/billforge/billforge/internal/errors"
	"github.com/billforge/billforge/internal/types"
	"github.com/samber/lo"
)

var _ invoice.Repository = (*InMemoryInvoiceStore)(nil)

// InMemoryInvoiceStore implements invoice.Repository with the same
// organization scoping the SQL repository applies. Invoices are stored as
// copies so callers mutating a returned invoice do not change the store,
// matching how rows behave.
type InMemoryInvoiceStore struct {
	*InMemoryStore[*invoice.Invoice]
}

// NewInMemoryInvoiceStore creates a new in-memory invoice repository
func NewInMemoryInvoiceStore() *InMemoryInvoiceStore {
	return &InMemoryInvoiceStore{
		InMemoryStore: NewInMemoryStore[*invoice.Invoice](),
	}
}

func cloneInvoice(inv *invoice.Invoice) *invoice.Invoice {
	cp := *inv
	if inv.LineItems != nil {
		items := make([]*invoice.LineItem, len(inv.LineItems))
		for i, li := range inv.LineItems {
			itemCopy := *li
			items[i] = &itemCopy
		}
		cp.LineItems = items
	}
	return &cp
}

func (s *InMemoryInvoiceStore) Create(ctx context.Context, inv *invoice.Invoice) error {
	if inv == nil {
		return ierr.NewError("invoice cannot be nil").
			WithHint("Invoice cannot be nil").
			Mark(ierr.ErrValidation)
	}
	if err := types.ValidateOrganizationContext(ctx); err != nil {
		return ierr.WithError(err).
			WithHint("no active organization").
			Mark(ierr.ErrValidation)
	}
	if inv.OrganizationID == "" {
		inv.OrganizationID = types.GetOrganizationID(ctx)
	}
	return s.InMemoryStore.Create(ctx, inv.ID, cloneInvoice(inv))
}

func (s *InMemoryInvoiceStore) Get(ctx context.Context, id string) (*invoice.Invoice, error) {
	inv, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv.OrganizationID != types.GetOrganizationID(ctx) || inv.Status == types.StatusDeleted {
		return nil, ierr.NewError("invoice not found").
			WithHint("The requested invoice does not exist").
			Mark(ierr.ErrNotFound)
	}
	return cloneInvoice(inv), nil
}

// GetForUpdate behaves like Get. The transactional test client serializes
// transactions, which stands in for the row lock the SQL repository takes.
func (s *InMemoryInvoiceStore) GetForUpdate(ctx context.Context, id string) (*invoice.Invoice, error) {
	return s.Get(ctx, id)
}

// Update persists invoice changes. A nil LineItems slice leaves the stored
// line items untouched, matching the SQL repository.
func (s *InMemoryInvoiceStore) Update(ctx context.Context, inv *invoice.Invoice) error {
	if inv == nil {
		return ierr.NewError("invoice cannot be nil").
			WithHint("Invoice cannot be nil").
			Mark(ierr.ErrValidation)
	}
	existing, err := s.Get(ctx, inv.ID)
	if err != nil {
		return err
	}

	updated := cloneInvoice(inv)
	if updated.LineItems == nil {
		updated.LineItems = existing.LineItems
	}
	updated.UpdatedAt = time.Now().UTC()
	return s.InMemoryStore.Update(ctx, inv.ID, updated)
}

func (s *InMemoryInvoiceStore) Delete(ctx context.Context, id string) error {
	inv, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	inv.Status = types.StatusDeleted
	inv.UpdatedAt = time.Now().UTC()
	return s.InMemoryStore.Update(ctx, id, inv)
}

func invoiceMatchesFilter(ctx context.Context, inv *invoice.Invoice, filter interface{}) bool {
	f, ok := filter.(*types.InvoiceFilter)
	if !ok {
		return true
	}
	if inv.OrganizationID != types.GetOrganizationID(ctx) {
		return false
	}
	if inv.Status == types.StatusDeleted {
		return false
	}
	if len(f.InvoiceIDs) > 0 && !lo.Contains(f.InvoiceIDs, inv.ID) {
		return false
	}
	if f.ClientID != "" && inv.ClientID != f.ClientID {
		return false
	}
	if len(f.InvoiceStatus) > 0 && !lo.Contains(f.InvoiceStatus, inv.InvoiceStatus) {
		return false
	}
	if f.DueBefore != nil {
		if inv.DueDate == nil || inv.DueDate.After(*f.DueBefore) {
			return false
		}
	}
	if f.TimeRangeFilter != nil {
		if f.StartTime != nil && inv.CreatedAt.Before(*f.StartTime) {
			return false
		}
		if f.EndTime != nil && inv.CreatedAt.After(*f.EndTime) {
			return false
		}
	}
	return true
}

func (s *InMemoryInvoiceStore) List(ctx context.Context, filter *types.InvoiceFilter) ([]*invoice.Invoice, error) {
	invoices, err := s.InMemoryStore.List(ctx, filter, invoiceMatchesFilter, func(a, b *invoice.Invoice) bool {
		return a.CreatedAt.After(b.CreatedAt)
	})
	if err != nil {
		return nil, err
	}
	return lo.Map(invoices, func(inv *invoice.Invoice, _ int) *invoice.Invoice {
		return cloneInvoice(inv)
	}), nil
}

func (s *InMemoryInvoiceStore) Count(ctx context.Context, filter *types.InvoiceFilter) (int, error) {
	return s.InMemoryStore.Count(ctx, filter, invoiceMatchesFilter)
}

func (s *InMemoryInvoiceStore) ListDueForOrganization(ctx context.Context, orgID string, cutoff time.Time) ([]*invoice.Invoice, error) {
	dueStatuses := []types.InvoiceStatus{
		types.InvoiceStatusSent,
		types.InvoiceStatusPartiallyPaid,
		types.InvoiceStatusOverdue,
	}

	invoices, err := s.InMemoryStore.List(ctx, nil, func(_ context.Context, inv *invoice.Invoice, _ interface{}) bool {
		return inv.OrganizationID == orgID &&
			inv.Status != types.StatusDeleted &&
			lo.Contains(dueStatuses, inv.InvoiceStatus) &&
			inv.DueDate != nil && !inv.DueDate.After(cutoff)
	}, func(a, b *invoice.Invoice) bool {
		return a.DueDate.Before(*b.DueDate)
	})
	if err != nil {
		return nil, err
	}
	return lo.Map(invoices, func(inv *invoice.Invoice, _ int) *invoice.Invoice {
		return cloneInvoice(inv)
	}), nil
}
