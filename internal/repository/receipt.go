package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/billforge/billforge/internal/domain/receipt"
	ierr "github.com/billforge/billforge/internal/errors"
	"github.com/billforge/billforge/internal/logger"
	"github.com/billforge/billforge/internal/postgres"
	"github.com/billforge/billforge/internal/types"
	"github.com/lib/pq"
)

type receiptRepository struct {
	db     postgres.IClient
	logger *logger.Logger
}

func newReceiptRepository(db postgres.IClient, logger *logger.Logger) receipt.Repository {
	return &receiptRepository{db: db, logger: logger}
}

func (r *receiptRepository) Create(ctx context.Context, rc *receipt.Receipt) error {
	if err := types.ValidateOrganizationContext(ctx); err != nil {
		return ierr.WithError(err).
			WithHint("no active organization").
			Mark(ierr.ErrValidation)
	}
	rc.OrganizationID = types.GetOrganizationID(ctx)

	query := `
		INSERT INTO receipts (
			id, organization_id, payment_id, invoice_id, receipt_number,
			tds_amount, total_amount, receipt_date,
			status, created_at, updated_at, created_by, updated_by
		) VALUES (
			:id, :organization_id, :payment_id, :invoice_id, :receipt_number,
			:tds_amount, :total_amount, :receipt_date,
			:status, :created_at, :updated_at, :created_by, :updated_by
		)`

	_, err := r.db.GetQuerier(ctx).NamedExec(query, rc)
	if err != nil {
		if isUniqueViolation(err) {
			return ierr.WithError(err).
				WithHint("a receipt already exists for this payment").
				Mark(ierr.ErrAlreadyExists)
		}
		return ierr.WithError(err).
			WithHint("failed to create receipt").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *receiptRepository) Get(ctx context.Context, id string) (*receipt.Receipt, error) {
	var rc receipt.Receipt
	query := `
		SELECT * FROM receipts
		WHERE id = $1 AND organization_id = $2 AND status != $3`

	err := r.db.GetQuerier(ctx).GetContext(ctx, &rc, query,
		id, types.GetOrganizationID(ctx), types.StatusDeleted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.NewError("receipt not found").
				WithHint("receipt not found").
				WithReportableDetails(map[string]any{"id": id}).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("failed to get receipt").
			Mark(ierr.ErrDatabase)
	}
	return &rc, nil
}

func (r *receiptRepository) GetByPayment(ctx context.Context, paymentID string) (*receipt.Receipt, error) {
	var rc receipt.Receipt
	query := `
		SELECT * FROM receipts
		WHERE payment_id = $1 AND organization_id = $2 AND status != $3`

	err := r.db.GetQuerier(ctx).GetContext(ctx, &rc, query,
		paymentID, types.GetOrganizationID(ctx), types.StatusDeleted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.NewError("receipt not found").
				WithHint("receipt not found").
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("failed to get receipt").
			Mark(ierr.ErrDatabase)
	}
	return &rc, nil
}

func (r *receiptRepository) Delete(ctx context.Context, id string) error {
	query := `
		UPDATE receipts SET status = $1, updated_at = $2, updated_by = $3
		WHERE id = $4 AND organization_id = $5 AND status != $1`

	result, err := r.db.GetQuerier(ctx).ExecContext(ctx, query,
		types.StatusDeleted, time.Now().UTC(), types.GetUserID(ctx),
		id, types.GetOrganizationID(ctx))
	if err != nil {
		return ierr.WithError(err).
			WithHint("failed to delete receipt").
			Mark(ierr.ErrDatabase)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return ierr.NewError("receipt not found").
			WithHint("receipt not found").
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (r *receiptRepository) List(ctx context.Context, filter *types.ReceiptFilter) ([]*receipt.Receipt, error) {
	receipts := make([]*receipt.Receipt, 0)

	where, args := r.buildConditions(ctx, filter)
	query := fmt.Sprintf(`SELECT * FROM receipts WHERE %s ORDER BY %s %s`,
		strings.Join(where, " AND "), orderColumn(filter.GetSort()), orderDirection(filter.GetOrder()))

	if !filter.IsUnlimited() {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", filter.GetLimit(), filter.GetOffset())
	}

	err := r.db.GetQuerier(ctx).SelectContext(ctx, &receipts, query, args...)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("failed to list receipts").
			Mark(ierr.ErrDatabase)
	}
	return receipts, nil
}

func (r *receiptRepository) Count(ctx context.Context, filter *types.ReceiptFilter) (int, error) {
	where, args := r.buildConditions(ctx, filter)
	query := fmt.Sprintf(`SELECT count(*) FROM receipts WHERE %s`, strings.Join(where, " AND "))

	var count int
	err := r.db.GetQuerier(ctx).GetContext(ctx, &count, query, args...)
	if err != nil {
		return 0, ierr.WithError(err).
			WithHint("failed to count receipts").
			Mark(ierr.ErrDatabase)
	}
	return count, nil
}

func (r *receiptRepository) buildConditions(ctx context.Context, filter *types.ReceiptFilter) ([]string, []interface{}) {
	where := []string{"organization_id = $1", "status != $2"}
	args := []interface{}{types.GetOrganizationID(ctx), types.StatusDeleted}

	if len(filter.ReceiptIDs) > 0 {
		args = append(args, pq.Array(filter.ReceiptIDs))
		where = append(where, fmt.Sprintf("id = ANY($%d)", len(args)))
	}
	if filter.InvoiceID != "" {
		args = append(args, filter.InvoiceID)
		where = append(where, fmt.Sprintf("invoice_id = $%d", len(args)))
	}
	if filter.PaymentID != "" {
		args = append(args, filter.PaymentID)
		where = append(where, fmt.Sprintf("payment_id = $%d", len(args)))
	}
	if filter.TimeRangeFilter != nil {
		if filter.StartTime != nil {
			args = append(args, *filter.StartTime)
			where = append(where, fmt.Sprintf("receipt_date >= $%d", len(args)))
		}
		if filter.EndTime != nil {
			args = append(args, *filter.EndTime)
			where = append(where, fmt.Sprintf("receipt_date <= $%d", len(args)))
		}
	}
	return where, args
}
