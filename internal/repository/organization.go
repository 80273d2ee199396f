package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/billforge/billforge/internal/domain/organization"
	ierr "github.com/billforge/billforge/internal/errors"
	"github.com/billforge/billforge/internal/logger"
	"github.com/billforge/billforge/internal/postgres"
	"github.com/billforge/billforge/internal/types"
	"github.com/lib/pq"
)

type organizationRepository struct {
	db     postgres.IClient
	logger *logger.Logger
}

func newOrganizationRepository(db postgres.IClient, logger *logger.Logger) organization.Repository {
	return &organizationRepository{db: db, logger: logger}
}

func (r *organizationRepository) Create(ctx context.Context, org *organization.Organization) error {
	query := `
		INSERT INTO organizations (
			id, name, email, phone, address, gstin,
			status, created_at, updated_at, created_by, updated_by
		) VALUES (
			:id, :name, :email, :phone, :address, :gstin,
			:status, :created_at, :updated_at, :created_by, :updated_by
		)`

	_, err := r.db.GetQuerier(ctx).NamedExec(query, org)
	if err != nil {
		return ierr.WithError(err).
			WithHint("failed to create organization").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *organizationRepository) Get(ctx context.Context, id string) (*organization.Organization, error) {
	var org organization.Organization
	query := `
		SELECT * FROM organizations
		WHERE id = $1 AND status != $2`

	err := r.db.GetQuerier(ctx).GetContext(ctx, &org, query, id, types.StatusDeleted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.NewError("organization not found").
				WithHint("organization not found").
				WithReportableDetails(map[string]any{"id": id}).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("failed to get organization").
			Mark(ierr.ErrDatabase)
	}
	return &org, nil
}

func (r *organizationRepository) Update(ctx context.Context, org *organization.Organization) error {
	query := `
		UPDATE organizations SET
			name = :name,
			email = :email,
			phone = :phone,
			address = :address,
			gstin = :gstin,
			updated_at = :updated_at,
			updated_by = :updated_by
		WHERE id = :id AND status != 'deleted'`

	result, err := r.db.GetQuerier(ctx).NamedExec(query, org)
	if err != nil {
		return ierr.WithError(err).
			WithHint("failed to update organization").
			Mark(ierr.ErrDatabase)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return ierr.NewError("organization not found").
			WithHint("organization not found").
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (r *organizationRepository) List(ctx context.Context, ids []string) ([]*organization.Organization, error) {
	orgs := make([]*organization.Organization, 0)
	if len(ids) == 0 {
		return orgs, nil
	}

	query := `
		SELECT * FROM organizations
		WHERE id = ANY($1) AND status != $2
		ORDER BY created_at DESC`

	err := r.db.GetQuerier(ctx).SelectContext(ctx, &orgs, query, pq.Array(ids), types.StatusDeleted)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("failed to list organizations").
			Mark(ierr.ErrDatabase)
	}
	return orgs, nil
}

func (r *organizationRepository) CreateMembership(ctx context.Context, m *organization.Membership) error {
	query := `
		INSERT INTO organization_memberships (
			id, organization_id, user_id, role,
			status, created_at, updated_at, created_by, updated_by
		) VALUES (
			:id, :organization_id, :user_id, :role,
			:status, :created_at, :updated_at, :created_by, :updated_by
		)`

	_, err := r.db.GetQuerier(ctx).NamedExec(query, m)
	if err != nil {
		if isUniqueViolation(err) {
			return ierr.WithError(err).
				WithHint("user is already a member of this organization").
				Mark(ierr.ErrAlreadyExists)
		}
		return ierr.WithError(err).
			WithHint("failed to create membership").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *organizationRepository) GetMembership(ctx context.Context, orgID, userID string) (*organization.Membership, error) {
	var m organization.Membership
	query := `
		SELECT * FROM organization_memberships
		WHERE organization_id = $1 AND user_id = $2 AND status != $3`

	err := r.db.GetQuerier(ctx).GetContext(ctx, &m, query, orgID, userID, types.StatusDeleted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.NewError("membership not found").
				WithHint("user is not a member of this organization").
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("failed to get membership").
			Mark(ierr.ErrDatabase)
	}
	return &m, nil
}

func (r *organizationRepository) ListMembershipsByUser(ctx context.Context, userID string) ([]*organization.Membership, error) {
	memberships := make([]*organization.Membership, 0)
	query := `
		SELECT * FROM organization_memberships
		WHERE user_id = $1 AND status != $2
		ORDER BY created_at ASC`

	err := r.db.GetQuerier(ctx).SelectContext(ctx, &memberships, query, userID, types.StatusDeleted)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("failed to list memberships").
			Mark(ierr.ErrDatabase)
	}
	return memberships, nil
}

func (r *organizationRepository) ListMembershipsByOrganization(ctx context.Context, orgID string) ([]*organization.Membership, error) {
	memberships := make([]*organization.Membership, 0)
	query := `
		SELECT * FROM organization_memberships
		WHERE organization_id = $1 AND status != $2
		ORDER BY created_at ASC`

	err := r.db.GetQuerier(ctx).SelectContext(ctx, &memberships, query, orgID, types.StatusDeleted)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("failed to list memberships").
			Mark(ierr.ErrDatabase)
	}
	return memberships, nil
}

// isUniqueViolation reports whether err is a postgres unique constraint error
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}
