package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/billforge/billforge/internal/domain/payment"
	ierr "github.com/billforge/billforge/internal/errors"
	"github.com/billforge/billforge/internal/logger"
	"github.com/billforge/billforge/internal/postgres"
	"github.com/billforge/billforge/internal/types"
	"github.com/lib/pq"
)

type paymentRepository struct {
	db     postgres.IClient
	logger *logger.Logger
}

func newPaymentRepository(db postgres.IClient, logger *logger.Logger) payment.Repository {
	return &paymentRepository{db: db, logger: logger}
}

func (r *paymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	if err := types.ValidateOrganizationContext(ctx); err != nil {
		return ierr.WithError(err).
			WithHint("no active organization").
			Mark(ierr.ErrValidation)
	}
	p.OrganizationID = types.GetOrganizationID(ctx)

	query := `
		INSERT INTO payments (
			id, organization_id, invoice_id, amount, tds_amount, amount_received,
			payment_date, payment_method, reference_number, notes,
			status, created_at, updated_at, created_by, updated_by
		) VALUES (
			:id, :organization_id, :invoice_id, :amount, :tds_amount, :amount_received,
			:payment_date, :payment_method, :reference_number, :notes,
			:status, :created_at, :updated_at, :created_by, :updated_by
		)`

	_, err := r.db.GetQuerier(ctx).NamedExec(query, p)
	if err != nil {
		return ierr.WithError(err).
			WithHint("failed to record payment").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *paymentRepository) Get(ctx context.Context, id string) (*payment.Payment, error) {
	var p payment.Payment
	query := `
		SELECT * FROM payments
		WHERE id = $1 AND organization_id = $2 AND status != $3`

	err := r.db.GetQuerier(ctx).GetContext(ctx, &p, query,
		id, types.GetOrganizationID(ctx), types.StatusDeleted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.NewError("payment not found").
				WithHint("payment not found").
				WithReportableDetails(map[string]any{"id": id}).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("failed to get payment").
			Mark(ierr.ErrDatabase)
	}
	return &p, nil
}

func (r *paymentRepository) Update(ctx context.Context, p *payment.Payment) error {
	p.OrganizationID = types.GetOrganizationID(ctx)

	query := `
		UPDATE payments SET
			payment_date = :payment_date,
			payment_method = :payment_method,
			reference_number = :reference_number,
			notes = :notes,
			updated_at = :updated_at,
			updated_by = :updated_by
		WHERE id = :id AND organization_id = :organization_id AND status != 'deleted'`

	result, err := r.db.GetQuerier(ctx).NamedExec(query, p)
	if err != nil {
		return ierr.WithError(err).
			WithHint("failed to update payment").
			Mark(ierr.ErrDatabase)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return ierr.NewError("payment not found").
			WithHint("payment not found").
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (r *paymentRepository) Delete(ctx context.Context, id string) error {
	query := `
		UPDATE payments SET status = $1, updated_at = $2, updated_by = $3
		WHERE id = $4 AND organization_id = $5 AND status != $1`

	result, err := r.db.GetQuerier(ctx).ExecContext(ctx, query,
		types.StatusDeleted, time.Now().UTC(), types.GetUserID(ctx),
		id, types.GetOrganizationID(ctx))
	if err != nil {
		return ierr.WithError(err).
			WithHint("failed to delete payment").
			Mark(ierr.ErrDatabase)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return ierr.NewError("payment not found").
			WithHint("payment not found").
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (r *paymentRepository) List(ctx context.Context, filter *types.PaymentFilter) ([]*payment.Payment, error) {
	payments := make([]*payment.Payment, 0)

	where, args := r.buildConditions(ctx, filter)
	query := fmt.Sprintf(`SELECT * FROM payments WHERE %s ORDER BY %s %s`,
		strings.Join(where, " AND "), orderColumn(filter.GetSort()), orderDirection(filter.GetOrder()))

	if !filter.IsUnlimited() {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", filter.GetLimit(), filter.GetOffset())
	}

	err := r.db.GetQuerier(ctx).SelectContext(ctx, &payments, query, args...)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("failed to list payments").
			Mark(ierr.ErrDatabase)
	}
	return payments, nil
}

func (r *paymentRepository) Count(ctx context.Context, filter *types.PaymentFilter) (int, error) {
	where, args := r.buildConditions(ctx, filter)
	query := fmt.Sprintf(`SELECT count(*) FROM payments WHERE %s`, strings.Join(where, " AND "))

	var count int
	err := r.db.GetQuerier(ctx).GetContext(ctx, &count, query, args...)
	if err != nil {
		return 0, ierr.WithError(err).
			WithHint("failed to count payments").
			Mark(ierr.ErrDatabase)
	}
	return count, nil
}

func (r *paymentRepository) buildConditions(ctx context.Context, filter *types.PaymentFilter) ([]string, []interface{}) {
	where := []string{"organization_id = $1", "status != $2"}
	args := []interface{}{types.GetOrganizationID(ctx), types.StatusDeleted}

	if len(filter.PaymentIDs) > 0 {
		args = append(args, pq.Array(filter.PaymentIDs))
		where = append(where, fmt.Sprintf("id = ANY($%d)", len(args)))
	}
	if filter.InvoiceID != nil && *filter.InvoiceID != "" {
		args = append(args, *filter.InvoiceID)
		where = append(where, fmt.Sprintf("invoice_id = $%d", len(args)))
	}
	if filter.PaymentMethod != nil && *filter.PaymentMethod != "" {
		args = append(args, *filter.PaymentMethod)
		where = append(where, fmt.Sprintf("payment_method = $%d", len(args)))
	}
	if filter.TimeRangeFilter != nil {
		if filter.StartTime != nil {
			args = append(args, *filter.StartTime)
			where = append(where, fmt.Sprintf("payment_date >= $%d", len(args)))
		}
		if filter.EndTime != nil {
			args = append(args, *filter.EndTime)
			where = append(where, fmt.Sprintf("payment_date <= $%d", len(args)))
		}
	}
	return where, args
}
