package testutil

import (
	"context"

	"github.com/billforge/billforge/internal/types"
)

const (
	// DefaultOrganizationID is the organization most tests operate in
	DefaultOrganizationID = "org_test"
	// DefaultTestUserID is the acting user in test contexts
	DefaultTestUserID = "user_test"
)

// SetupContext returns a context scoped to the default test organization
// and user, the way the middleware chain would have prepared it.
func SetupContext() context.Context {
	ctx := context.Background()
	ctx = types.SetOrganizationID(ctx, DefaultOrganizationID)
	ctx = types.SetUserID(ctx, DefaultTestUserID)
	ctx = context.WithValue(ctx, types.CtxRequestID, types.GenerateUUID())
	return ctx
}

// ContextForOrganization returns a context scoped to a specific organization,
// used by cross-tenant isolation tests.
func ContextForOrganization(orgID, userID string) context.Context {
	ctx := context.Background()
	ctx = types.SetOrganizationID(ctx, orgID)
	ctx = types.SetUserID(ctx, userID)
	ctx = context.WithValue(ctx, types.CtxRequestID, types.GenerateUUID())
	return ctx
}
