package organization

import "context"

// Repository provides access to organization storage
type Repository interface {
	Create(ctx context.Context, org *Organization) error
	Get(ctx context.Context, id string) (*Organization, error)
	Update(ctx context.Context, org *Organization) error
	List(ctx context.Context, ids []string) ([]*Organization, error)

	CreateMembership(ctx context.Context, membership *Membership) error
	GetMembership(ctx context.Context, orgID, userID string) (*Membership, error)
	ListMembershipsByUser(ctx context.Context, userID string) ([]*Membership, error)
	ListMembershipsByOrganization(ctx context.Context, orgID string) ([]*Membership, error)
}
