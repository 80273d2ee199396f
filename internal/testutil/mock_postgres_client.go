package testutil

import (
	"context"
	"sync"

	"github.com/billforge/billforge/internal/postgres"
)

var _ postgres.IClient = (*MockPostgresClient)(nil)

// TxStore is implemented by in-memory stores that can save and restore
// their state around a transaction.
type TxStore interface {
	Snapshot() any
	Restore(state any)
}

type mockTxKey struct{}

// MockPostgresClient satisfies postgres.IClient for service tests. WithTx
// snapshots every registered store up front and restores them when the
// function fails, mirroring a rollback. Transactions are serialized with a
// mutex, which stands in for the row locks the SQL repositories take.
type MockPostgresClient struct {
	mu     sync.Mutex
	stores []TxStore
}

// NewMockPostgresClient creates a mock client over the given stores
func NewMockPostgresClient(stores ...TxStore) *MockPostgresClient {
	return &MockPostgresClient{stores: stores}
}

func (c *MockPostgresClient) GetQuerier(ctx context.Context) postgres.Querier {
	return nil
}

func (c *MockPostgresClient) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	// A nested call joins the outer transaction, whose rollback covers it
	if ctx.Value(mockTxKey{}) != nil {
		return fn(ctx)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	snapshots := make([]any, len(c.stores))
	for i, store := range c.stores {
		snapshots[i] = store.Snapshot()
	}

	if err := fn(context.WithValue(ctx, mockTxKey{}, struct{}{})); err != nil {
		for i, store := range c.stores {
			store.Restore(snapshots[i])
		}
		return err
	}
	return nil
}

func (c *MockPostgresClient) Close() {}
