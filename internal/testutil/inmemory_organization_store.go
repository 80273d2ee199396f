package testutil

import (
	"context"
	"sync"

	"github.com/billforge/billforge/internal/domain/organization"
	ierr "github.com/billforge/billforge/internal/errors"
	"github.com/billforge/billforge/internal/types"
	"github.com/samber/lo"
)

var _ organization.Repository = (*InMemoryOrganizationStore)(nil)

// InMemoryOrganizationStore implements organization.Repository
type InMemoryOrganizationStore struct {
	*InMemoryStore[*organization.Organization]
	mu          sync.RWMutex
	memberships map[string]*organization.Membership
}

// NewInMemoryOrganizationStore creates a new in-memory organization repository
func NewInMemoryOrganizationStore() *InMemoryOrganizationStore {
	return &InMemoryOrganizationStore{
		InMemoryStore: NewInMemoryStore[*organization.Organization](),
		memberships:   make(map[string]*organization.Membership),
	}
}

// Clear resets all stored data
func (s *InMemoryOrganizationStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.InMemoryStore.Clear()
	s.memberships = make(map[string]*organization.Membership)
}

func (s *InMemoryOrganizationStore) Create(ctx context.Context, org *organization.Organization) error {
	if org == nil {
		return ierr.NewError("organization cannot be nil").
			WithHint("Organization cannot be nil").
			Mark(ierr.ErrValidation)
	}
	return s.InMemoryStore.Create(ctx, org.ID, org)
}

func (s *InMemoryOrganizationStore) Get(ctx context.Context, id string) (*organization.Organization, error) {
	org, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	cp := *org
	return &cp, nil
}

func (s *InMemoryOrganizationStore) Update(ctx context.Context, org *organization.Organization) error {
	if org == nil {
		return ierr.NewError("organization cannot be nil").
			WithHint("Organization cannot be nil").
			Mark(ierr.ErrValidation)
	}
	return s.InMemoryStore.Update(ctx, org.ID, org)
}

func (s *InMemoryOrganizationStore) List(ctx context.Context, ids []string) ([]*organization.Organization, error) {
	return s.InMemoryStore.List(ctx, nil, func(_ context.Context, org *organization.Organization, _ interface{}) bool {
		return lo.Contains(ids, org.ID)
	}, func(a, b *organization.Organization) bool {
		return a.CreatedAt.After(b.CreatedAt)
	})
}

type organizationSnapshot struct {
	orgs        any
	memberships map[string]*organization.Membership
}

// Snapshot captures organizations and memberships for transaction rollback
func (s *InMemoryOrganizationStore) Snapshot() any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	memberships := make(map[string]*organization.Membership, len(s.memberships))
	for id, m := range s.memberships {
		memberships[id] = m
	}
	return organizationSnapshot{
		orgs:        s.InMemoryStore.Snapshot(),
		memberships: memberships,
	}
}

// Restore resets the store to a previously captured snapshot
func (s *InMemoryOrganizationStore) Restore(state any) {
	snap := state.(organizationSnapshot)
	s.InMemoryStore.Restore(snap.orgs)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.memberships = snap.memberships
}

func (s *InMemoryOrganizationStore) CreateMembership(ctx context.Context, m *organization.Membership) error {
	if m == nil {
		return ierr.NewError("membership cannot be nil").
			WithHint("Membership cannot be nil").
			Mark(ierr.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.memberships {
		if existing.OrganizationID == m.OrganizationID && existing.UserID == m.UserID {
			return ierr.NewError("membership already exists").
				WithHint("The user is already a member of this organization").
				Mark(ierr.ErrAlreadyExists)
		}
	}

	s.memberships[m.ID] = m
	return nil
}

func (s *InMemoryOrganizationStore) GetMembership(ctx context.Context, orgID, userID string) (*organization.Membership, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, m := range s.memberships {
		if m.OrganizationID == orgID && m.UserID == userID && m.Status != types.StatusDeleted {
			return m, nil
		}
	}

	return nil, ierr.NewError("membership not found").
		WithHint("The user is not a member of this organization").
		Mark(ierr.ErrNotFound)
}

func (s *InMemoryOrganizationStore) ListMembershipsByUser(ctx context.Context, userID string) ([]*organization.Membership, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*organization.Membership, 0)
	for _, m := range s.memberships {
		if m.UserID == userID && m.Status != types.StatusDeleted {
			result = append(result, m)
		}
	}
	return result, nil
}

func (s *InMemoryOrganizationStore) ListMembershipsByOrganization(ctx context.Context, orgID string) ([]*organization.Membership, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*organization.Membership, 0)
	for _, m := range s.memberships {
		if m.OrganizationID == orgID && m.Status != types.StatusDeleted {
			result = append(result, m)
		}
	}
	return result, nil
}
