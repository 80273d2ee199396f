package testutil

import (
	"context"
	"time"

	"github.com/billforge/billforge/internal/domain/receipt"
	ierr "github.com/billforge/billforge/internal/errors"
	"github.com/billforge/billforge/internal/types"
	"github.com/samber/lo"
)

var _ receipt.Repository = (*InMemoryReceiptStore)(nil)

// InMemoryReceiptStore implements receipt.Repository with the same
// organization scoping the SQL repository applies.
type InMemoryReceiptStore struct {
	*InMemoryStore[*receipt.Receipt]
}

// NewInMemoryReceiptStore creates a new in-memory receipt repository
func NewInMemoryReceiptStore() *InMemoryReceiptStore {
	return &InMemoryReceiptStore{
		InMemoryStore: NewInMemoryStore[*receipt.Receipt](),
	}
}

func (s *InMemoryReceiptStore) Create(ctx context.Context, r *receipt.Receipt) error {
	if r == nil {
		return ierr.NewError("receipt cannot be nil").
			WithHint("Receipt cannot be nil").
			Mark(ierr.ErrValidation)
	}
	if err := types.ValidateOrganizationContext(ctx); err != nil {
		return ierr.WithError(err).
			WithHint("no active organization").
			Mark(ierr.ErrValidation)
	}
	if r.OrganizationID == "" {
		r.OrganizationID = types.GetOrganizationID(ctx)
	}

	if _, err := s.GetByPayment(ctx, r.PaymentID); err == nil {
		return ierr.NewError("receipt already exists").
			WithHint("A receipt already exists for this payment").
			Mark(ierr.ErrAlreadyExists)
	}

	return s.InMemoryStore.Create(ctx, r.ID, r)
}

func (s *InMemoryReceiptStore) Get(ctx context.Context, id string) (*receipt.Receipt, error) {
	r, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if r.OrganizationID != types.GetOrganizationID(ctx) || r.Status == types.StatusDeleted {
		return nil, ierr.NewError("receipt not found").
			WithHint("The requested receipt does not exist").
			Mark(ierr.ErrNotFound)
	}
	cp := *r
	return &cp, nil
}

func (s *InMemoryReceiptStore) GetByPayment(ctx context.Context, paymentID string) (*receipt.Receipt, error) {
	receipts, err := s.InMemoryStore.List(ctx, nil, func(ctx context.Context, r *receipt.Receipt, _ interface{}) bool {
		return r.PaymentID == paymentID &&
			r.OrganizationID == types.GetOrganizationID(ctx) &&
			r.Status != types.StatusDeleted
	}, nil)
	if err != nil {
		return nil, err
	}
	if len(receipts) == 0 {
		return nil, ierr.NewError("receipt not found").
			WithHint("No receipt exists for this payment").
			Mark(ierr.ErrNotFound)
	}
	cp := *receipts[0]
	return &cp, nil
}

func (s *InMemoryReceiptStore) Delete(ctx context.Context, id string) error {
	r, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	r.Status = types.StatusDeleted
	r.UpdatedAt = time.Now().UTC()
	return s.InMemoryStore.Update(ctx, id, r)
}

func receiptMatchesFilter(ctx context.Context, r *receipt.Receipt, filter interface{}) bool {
	f, ok := filter.(*types.ReceiptFilter)
	if !ok {
		return true
	}
	if r.OrganizationID != types.GetOrganizationID(ctx) {
		return false
	}
	if r.Status == types.StatusDeleted {
		return false
	}
	if len(f.ReceiptIDs) > 0 && !lo.Contains(f.ReceiptIDs, r.ID) {
		return false
	}
	if f.InvoiceID != "" && r.InvoiceID != f.InvoiceID {
		return false
	}
	if f.PaymentID != "" && r.PaymentID != f.PaymentID {
		return false
	}
	if f.TimeRangeFilter != nil {
		if f.StartTime != nil && r.ReceiptDate.Before(*f.StartTime) {
			return false
		}
		if f.EndTime != nil && r.ReceiptDate.After(*f.EndTime) {
			return false
		}
	}
	return true
}

func (s *InMemoryReceiptStore) List(ctx context.Context, filter *types.ReceiptFilter) ([]*receipt.Receipt, error) {
	return s.InMemoryStore.List(ctx, filter, receiptMatchesFilter, func(a, b *receipt.Receipt) bool {
		return a.CreatedAt.After(b.CreatedAt)
	})
}

func (s *InMemoryReceiptStore) Count(ctx context.Context, filter *types.ReceiptFilter) (int, error) {
	return s.InMemoryStore.Count(ctx, filter, receiptMatchesFilter)
}
