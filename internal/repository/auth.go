package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/billforge/billforge/internal/domain/auth"
	ierr "github.com/billforge/billforge/internal/errors"
	"github.com/billforge/billforge/internal/logger"
	"github.com/billforge/billforge/internal/postgres"
)

type authRepository struct {
	db     postgres.IClient
	logger *logger.Logger
}

func newAuthRepository(db postgres.IClient, logger *logger.Logger) auth.Repository {
	return &authRepository{db: db, logger: logger}
}

func (r *authRepository) CreateAuth(ctx context.Context, a *auth.Auth) error {
	query := `
		INSERT INTO auths (user_id, password_hash, created_at, updated_at)
		VALUES (:user_id, :password_hash, :created_at, :updated_at)`

	_, err := r.db.GetQuerier(ctx).NamedExec(query, a)
	if err != nil {
		return ierr.WithError(err).
			WithHint("failed to store credentials").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *authRepository) GetAuth(ctx context.Context, userID string) (*auth.Auth, error) {
	var a auth.Auth
	query := `SELECT * FROM auths WHERE user_id = $1`

	err := r.db.GetQuerier(ctx).GetContext(ctx, &a, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.NewError("credentials not found").
				WithHint("invalid email or password").
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("failed to load credentials").
			Mark(ierr.ErrDatabase)
	}
	return &a, nil
}

func (r *authRepository) UpdateAuth(ctx context.Context, a *auth.Auth) error {
	query := `
		UPDATE auths SET
			password_hash = :password_hash,
			updated_at = :updated_at
		WHERE user_id = :user_id`

	_, err := r.db.GetQuerier(ctx).NamedExec(query, a)
	if err != nil {
		return ierr.WithError(err).
			WithHint("failed to update credentials").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *authRepository) CreateOTP(ctx context.Context, otp *auth.EmailOTP) error {
	query := `
		INSERT INTO email_otps (id, email, code_hash, expires_at, attempts, consumed, created_at)
		VALUES (:id, :email, :code_hash, :expires_at, :attempts, :consumed, :created_at)`

	_, err := r.db.GetQuerier(ctx).NamedExec(query, otp)
	if err != nil {
		return ierr.WithError(err).
			WithHint("failed to issue verification code").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *authRepository) GetLatestOTP(ctx context.Context, email string) (*auth.EmailOTP, error) {
	var otp auth.EmailOTP
	query := `
		SELECT * FROM email_otps
		WHERE lower(email) = $1 AND consumed = false
		ORDER BY created_at DESC
		LIMIT 1`

	err := r.db.GetQuerier(ctx).GetContext(ctx, &otp, query, strings.ToLower(email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.NewError("verification code not found").
				WithHint("no pending verification code for this email").
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("failed to load verification code").
			Mark(ierr.ErrDatabase)
	}
	return &otp, nil
}

func (r *authRepository) UpdateOTP(ctx context.Context, otp *auth.EmailOTP) error {
	query := `
		UPDATE email_otps SET
			attempts = :attempts,
			consumed = :consumed
		WHERE id = :id`

	_, err := r.db.GetQuerier(ctx).NamedExec(query, otp)
	if err != nil {
		return ierr.WithError(err).
			WithHint("failed to update verification code").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *authRepository) InvalidateOTPs(ctx context.Context, email string) error {
	query := `
		UPDATE email_otps SET consumed = true
		WHERE lower(email) = $1 AND consumed = false`

	_, err := r.db.GetQuerier(ctx).ExecContext(ctx, query, strings.ToLower(email))
	if err != nil {
		return ierr.WithError(err).
			WithHint("failed to invalidate verification codes").
			Mark(ierr.ErrDatabase)
	}
	return nil
}
