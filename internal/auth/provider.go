package auth

import (
	"context"

	"github.com/billforge/billforge/internal/config"
)

// Claims is the validated content of an access token
type Claims struct {
	UserID string
}

// Provider handles password hashing and access token issuance
type Provider interface {
	EncryptPassword(ctx context.Context, password string) (string, error)
	ValidatePassword(ctx context.Context, password, hash string) error
	IssueToken(ctx context.Context, userID string) (string, error)
	ValidateToken(ctx context.Context, token string) (*Claims, error)
}

// NewProvider returns the JWT based provider
func NewProvider(cfg *config.Configuration) Provider {
	return newJWTProvider(cfg)
}
