package client

import (
	"context"

	"github.com/billforge/billforge/internal/types"
)

// Repository provides access to client storage. All lookups are scoped to
// the organization carried in the context.
type Repository interface {
	Create(ctx context.Context, client *Client) error
	Get(ctx context.Context, id string) (*Client, error)
	Update(ctx context.Context, client *Client) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter *types.ClientFilter) ([]*Client, error)
	Count(ctx context.Context, filter *types.ClientFilter) (int, error)
}
