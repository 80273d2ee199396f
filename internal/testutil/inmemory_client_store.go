package testutil

import (
	"context"
	"strings"
	"time"

	"github.com/billforge/billforge/internal/domain/client"
	ierr "github.com/billforge/billforge/internal/errors"
	"github.com/billforge/billforge/internal/types"
	"github.com/samber/lo"
)

var _ client.Repository = (*InMemoryClientStore)(nil)

// InMemoryClientStore implements client.Repository with the same
// organization scoping the SQL repository applies.
type InMemoryClientStore struct {
	*InMemoryStore[*client.Client]
}

// NewInMemoryClientStore creates a new in-memory client repository
func NewInMemoryClientStore() *InMemoryClientStore {
	return &InMemoryClientStore{
		InMemoryStore: NewInMemoryStore[*client.Client](),
	}
}

func (s *InMemoryClientStore) Create(ctx context.Context, c *client.Client) error {
	if c == nil {
		return ierr.NewError("client cannot be nil").
			WithHint("Client cannot be nil").
			Mark(ierr.ErrValidation)
	}
	if err := types.ValidateOrganizationContext(ctx); err != nil {
		return ierr.WithError(err).
			WithHint("no active organization").
			Mark(ierr.ErrValidation)
	}
	if c.OrganizationID == "" {
		c.OrganizationID = types.GetOrganizationID(ctx)
	}
	return s.InMemoryStore.Create(ctx, c.ID, c)
}

func (s *InMemoryClientStore) Get(ctx context.Context, id string) (*client.Client, error) {
	c, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.OrganizationID != types.GetOrganizationID(ctx) || c.Status == types.StatusDeleted {
		return nil, ierr.NewError("client not found").
			WithHint("The requested client does not exist").
			Mark(ierr.ErrNotFound)
	}
	cp := *c
	return &cp, nil
}

func (s *InMemoryClientStore) Update(ctx context.Context, c *client.Client) error {
	if c == nil {
		return ierr.NewError("client cannot be nil").
			WithHint("Client cannot be nil").
			Mark(ierr.ErrValidation)
	}
	if _, err := s.Get(ctx, c.ID); err != nil {
		return err
	}
	c.UpdatedAt = time.Now().UTC()
	return s.InMemoryStore.Update(ctx, c.ID, c)
}

func (s *InMemoryClientStore) Delete(ctx context.Context, id string) error {
	c, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	c.Status = types.StatusDeleted
	c.UpdatedAt = time.Now().UTC()
	return s.InMemoryStore.Update(ctx, id, c)
}

func clientMatchesFilter(ctx context.Context, c *client.Client, filter interface{}) bool {
	f, ok := filter.(*types.ClientFilter)
	if !ok {
		return true
	}
	if c.OrganizationID != types.GetOrganizationID(ctx) {
		return false
	}
	if c.Status == types.StatusDeleted {
		return false
	}
	if len(f.ClientIDs) > 0 && !lo.Contains(f.ClientIDs, c.ID) {
		return false
	}
	if f.Email != "" && !strings.EqualFold(c.Email, f.Email) {
		return false
	}
	if f.Search != "" && !strings.Contains(strings.ToLower(c.Name), strings.ToLower(f.Search)) {
		return false
	}
	return true
}

func (s *InMemoryClientStore) List(ctx context.Context, filter *types.ClientFilter) ([]*client.Client, error) {
	return s.InMemoryStore.List(ctx, filter, clientMatchesFilter, func(a, b *client.Client) bool {
		return a.CreatedAt.After(b.CreatedAt)
	})
}

func (s *InMemoryClientStore) Count(ctx context.Context, filter *types.ClientFilter) (int, error) {
	return s.InMemoryStore.Count(ctx, filter, clientMatchesFilter)
}
