package auth

import (
	"context"
	"time"

	"github.com/billforge/billforge/internal/config"
	ierr "github.com/billforge/billforge/internal/errors"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

type jwtProvider struct {
	secret      []byte
	tokenExpiry time.Duration
}

func newJWTProvider(cfg *config.Configuration) *jwtProvider {
	return &jwtProvider{
		secret:      []byte(cfg.Auth.Secret),
		tokenExpiry: cfg.Auth.TokenExpiry,
	}
}

func (p *jwtProvider) EncryptPassword(ctx context.Context, password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", ierr.WithError(err).
			WithHint("failed to process password").
			Mark(ierr.ErrSystem)
	}
	return string(hash), nil
}

func (p *jwtProvider) ValidatePassword(ctx context.Context, password, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ierr.WithError(err).
			WithHint("invalid email or password").
			Mark(ierr.ErrPermissionDenied)
	}
	return nil
}

func (p *jwtProvider) IssueToken(ctx context.Context, userID string) (string, error) {
	now := time.Now().UTC()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(p.tokenExpiry)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(p.secret)
	if err != nil {
		return "", ierr.WithError(err).
			WithHint("failed to issue access token").
			Mark(ierr.ErrSystem)
	}
	return signed, nil
}

func (p *jwtProvider) ValidateToken(ctx context.Context, tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return p.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ierr.WithError(err).
			WithHint("invalid or expired access token").
			Mark(ierr.ErrPermissionDenied)
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return nil, ierr.NewError("malformed token claims").
			WithHint("invalid or expired access token").
			Mark(ierr.ErrPermissionDenied)
	}

	return &Claims{UserID: claims.Subject}, nil
}
