package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/billforge/billforge/internal/domain/client"
	ierr "github.com/billforge/billforge/internal/errors"
	"github.com/billforge/billforge/internal/logger"
	"github.com/billforge/billforge/internal/postgres"
	"github.com/billforge/billforge/internal/types"
	"github.com/lib/pq"
)

type clientRepository struct {
	db     postgres.IClient
	logger *logger.Logger
}

func newClientRepository(db postgres.IClient, logger *logger.Logger) client.Repository {
	return &clientRepository{db: db, logger: logger}
}

func (r *clientRepository) Create(ctx context.Context, c *client.Client) error {
	if err := types.ValidateOrganizationContext(ctx); err != nil {
		return ierr.WithError(err).
			WithHint("no active organization").
			Mark(ierr.ErrValidation)
	}
	c.OrganizationID = types.GetOrganizationID(ctx)

	query := `
		INSERT INTO clients (
			id, organization_id, name, email, phone, address, gstin, metadata,
			status, created_at, updated_at, created_by, updated_by
		) VALUES (
			:id, :organization_id, :name, :email, :phone, :address, :gstin, :metadata,
			:status, :created_at, :updated_at, :created_by, :updated_by
		)`

	_, err := r.db.GetQuerier(ctx).NamedExec(query, c)
	if err != nil {
		return ierr.WithError(err).
			WithHint("failed to create client").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *clientRepository) Get(ctx context.Context, id string) (*client.Client, error) {
	var c client.Client
	query := `
		SELECT * FROM clients
		WHERE id = $1 AND organization_id = $2 AND status != $3`

	err := r.db.GetQuerier(ctx).GetContext(ctx, &c, query,
		id, types.GetOrganizationID(ctx), types.StatusDeleted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.NewError("client not found").
				WithHint("client not found").
				WithReportableDetails(map[string]any{"id": id}).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("failed to get client").
			Mark(ierr.ErrDatabase)
	}
	return &c, nil
}

func (r *clientRepository) Update(ctx context.Context, c *client.Client) error {
	c.OrganizationID = types.GetOrganizationID(ctx)

	query := `
		UPDATE clients SET
			name = :name,
			email = :email,
			phone = :phone,
			address = :address,
			gstin = :gstin,
			metadata = :metadata,
			updated_at = :updated_at,
			updated_by = :updated_by
		WHERE id = :id AND organization_id = :organization_id AND status != 'deleted'`

	result, err := r.db.GetQuerier(ctx).NamedExec(query, c)
	if err != nil {
		return ierr.WithError(err).
			WithHint("failed to update client").
			Mark(ierr.ErrDatabase)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return ierr.NewError("client not found").
			WithHint("client not found").
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (r *clientRepository) Delete(ctx context.Context, id string) error {
	query := `
		UPDATE clients SET status = $1, updated_at = $2, updated_by = $3
		WHERE id = $4 AND organization_id = $5 AND status != $1`

	result, err := r.db.GetQuerier(ctx).ExecContext(ctx, query,
		types.StatusDeleted, time.Now().UTC(), types.GetUserID(ctx),
		id, types.GetOrganizationID(ctx))
	if err != nil {
		return ierr.WithError(err).
			WithHint("failed to delete client").
			Mark(ierr.ErrDatabase)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return ierr.NewError("client not found").
			WithHint("client not found").
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (r *clientRepository) List(ctx context.Context, filter *types.ClientFilter) ([]*client.Client, error) {
	clients := make([]*client.Client, 0)

	where, args := r.buildConditions(ctx, filter)
	query := fmt.Sprintf(`SELECT * FROM clients WHERE %s ORDER BY %s %s`,
		strings.Join(where, " AND "), orderColumn(filter.GetSort()), orderDirection(filter.GetOrder()))

	if !filter.IsUnlimited() {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", filter.GetLimit(), filter.GetOffset())
	}

	err := r.db.GetQuerier(ctx).SelectContext(ctx, &clients, query, args...)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("failed to list clients").
			Mark(ierr.ErrDatabase)
	}
	return clients, nil
}

func (r *clientRepository) Count(ctx context.Context, filter *types.ClientFilter) (int, error) {
	where, args := r.buildConditions(ctx, filter)
	query := fmt.Sprintf(`SELECT count(*) FROM clients WHERE %s`, strings.Join(where, " AND "))

	var count int
	err := r.db.GetQuerier(ctx).GetContext(ctx, &count, query, args...)
	if err != nil {
		return 0, ierr.WithError(err).
			WithHint("failed to count clients").
			Mark(ierr.ErrDatabase)
	}
	return count, nil
}

func (r *clientRepository) buildConditions(ctx context.Context, filter *types.ClientFilter) ([]string, []interface{}) {
	where := []string{"organization_id = $1", "status != $2"}
	args := []interface{}{types.GetOrganizationID(ctx), types.StatusDeleted}

	if len(filter.ClientIDs) > 0 {
		args = append(args, pq.Array(filter.ClientIDs))
		where = append(where, fmt.Sprintf("id = ANY($%d)", len(args)))
	}
	if filter.Email != "" {
		args = append(args, strings.ToLower(filter.Email))
		where = append(where, fmt.Sprintf("lower(email) = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
		where = append(where, fmt.Sprintf("lower(name) LIKE $%d", len(args)))
	}
	return where, args
}
