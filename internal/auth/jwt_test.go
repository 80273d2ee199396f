package auth

import (
	"context"
	"testing"

	"github.com/billforge/billforge/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ierr "github.com/billforge/billforge/internal/errors"
)

func newTestProvider() Provider {
	return NewProvider(config.GetDefaultConfig())
}

func TestPasswordRoundTrip(t *testing.T) {
	p := newTestProvider()
	ctx := context.Background()

	hash, err := p.EncryptPassword(ctx, "correct-horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct-horse", hash)

	assert.NoError(t, p.ValidatePassword(ctx, "correct-horse", hash))

	err = p.ValidatePassword(ctx, "wrong-password", hash)
	assert.Error(t, err)
	assert.True(t, ierr.IsPermissionDenied(err))
}

func TestTokenRoundTrip(t *testing.T) {
	p := newTestProvider()
	ctx := context.Background()

	token, err := p.IssueToken(ctx, "user_123")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := p.ValidateToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "user_123", claims.UserID)
}

func TestTamperedTokenRejected(t *testing.T) {
	p := newTestProvider()
	ctx := context.Background()

	token, err := p.IssueToken(ctx, "user_123")
	require.NoError(t, err)

	_, err = p.ValidateToken(ctx, token+"x")
	assert.Error(t, err)

	_, err = p.ValidateToken(ctx, "not-a-token")
	assert.Error(t, err)
}

func TestTokenFromDifferentSecretRejected(t *testing.T) {
	ctx := context.Background()

	other := config.GetDefaultConfig()
	other.Auth.Secret = "a-different-secret"

	token, err := NewProvider(other).IssueToken(ctx, "user_123")
	require.NoError(t, err)

	_, err = newTestProvider().ValidateToken(ctx, token)
	assert.Error(t, err)
	assert.True(t, ierr.IsPermissionDenied(err))
}
