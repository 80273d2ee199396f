package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/billforge/billforge/internal/domain/invoice"
	ierr "github.com/billforge/billforge/internal/errors"
	"github.com/billforge/billforge/internal/logger"
	"github.com/billforge/billforge/internal/postgres"
	"github.com/billforge/billforge/internal/types"
	"github.com/lib/pq"
)

type invoiceRepository struct {
	db     postgres.IClient
	logger *logger.Logger
}

func newInvoiceRepository(db postgres.IClient, logger *logger.Logger) invoice.Repository {
	return &invoiceRepository{db: db, logger: logger}
}

func (r *invoiceRepository) Create(ctx context.Context, inv *invoice.Invoice) error {
	if err := types.ValidateOrganizationContext(ctx); err != nil {
		return ierr.WithError(err).
			WithHint("no active organization").
			Mark(ierr.ErrValidation)
	}
	inv.OrganizationID = types.GetOrganizationID(ctx)

	query := `
		INSERT INTO invoices (
			id, organization_id, client_id, invoice_number, invoice_status,
			currency, subtotal, tax_amount, round_off, total, amount_paid,
			issue_date, due_date, sent_at, notes, metadata,
			status, created_at, updated_at, created_by, updated_by
		) VALUES (
			:id, :organization_id, :client_id, :invoice_number, :invoice_status,
			:currency, :subtotal, :tax_amount, :round_off, :total, :amount_paid,
			:issue_date, :due_date, :sent_at, :notes, :metadata,
			:status, :created_at, :updated_at, :created_by, :updated_by
		)`

	_, err := r.db.GetQuerier(ctx).NamedExec(query, inv)
	if err != nil {
		return ierr.WithError(err).
			WithHint("failed to create invoice").
			Mark(ierr.ErrDatabase)
	}

	for _, item := range inv.LineItems {
		item.InvoiceID = inv.ID
		item.OrganizationID = inv.OrganizationID
		if err := r.insertLineItem(ctx, item); err != nil {
			return err
		}
	}
	return nil
}

func (r *invoiceRepository) insertLineItem(ctx context.Context, item *invoice.LineItem) error {
	query := `
		INSERT INTO invoice_line_items (
			id, invoice_id, organization_id, description, quantity, unit_price, amount,
			status, created_at, updated_at, created_by, updated_by
		) VALUES (
			:id, :invoice_id, :organization_id, :description, :quantity, :unit_price, :amount,
			:status, :created_at, :updated_at, :created_by, :updated_by
		)`

	_, err := r.db.GetQuerier(ctx).NamedExec(query, item)
	if err != nil {
		return ierr.WithError(err).
			WithHint("failed to create invoice line item").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *invoiceRepository) Get(ctx context.Context, id string) (*invoice.Invoice, error) {
	return r.get(ctx, id, false)
}

func (r *invoiceRepository) GetForUpdate(ctx context.Context, id string) (*invoice.Invoice, error) {
	return r.get(ctx, id, true)
}

func (r *invoiceRepository) get(ctx context.Context, id string, forUpdate bool) (*invoice.Invoice, error) {
	var inv invoice.Invoice
	query := `
		SELECT * FROM invoices
		WHERE id = $1 AND organization_id = $2 AND status != $3`
	if forUpdate {
		query += " FOR UPDATE"
	}

	err := r.db.GetQuerier(ctx).GetContext(ctx, &inv, query,
		id, types.GetOrganizationID(ctx), types.StatusDeleted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.NewError("invoice not found").
				WithHint("invoice not found").
				WithReportableDetails(map[string]any{"id": id}).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("failed to get invoice").
			Mark(ierr.ErrDatabase)
	}

	if err := r.loadLineItems(ctx, []*invoice.Invoice{&inv}); err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *invoiceRepository) loadLineItems(ctx context.Context, invoices []*invoice.Invoice) error {
	if len(invoices) == 0 {
		return nil
	}

	ids := make([]string, 0, len(invoices))
	byID := make(map[string]*invoice.Invoice, len(invoices))
	for _, inv := range invoices {
		ids = append(ids, inv.ID)
		byID[inv.ID] = inv
		inv.LineItems = make([]*invoice.LineItem, 0)
	}

	items := make([]*invoice.LineItem, 0)
	query := `
		SELECT * FROM invoice_line_items
		WHERE invoice_id = ANY($1) AND status != $2
		ORDER BY created_at ASC`

	err := r.db.GetQuerier(ctx).SelectContext(ctx, &items, query, pq.Array(ids), types.StatusDeleted)
	if err != nil {
		return ierr.WithError(err).
			WithHint("failed to load invoice line items").
			Mark(ierr.ErrDatabase)
	}

	for _, item := range items {
		if inv, ok := byID[item.InvoiceID]; ok {
			inv.LineItems = append(inv.LineItems, item)
		}
	}
	return nil
}

func (r *invoiceRepository) Update(ctx context.Context, inv *invoice.Invoice) error {
	inv.OrganizationID = types.GetOrganizationID(ctx)

	query := `
		UPDATE invoices SET
			client_id = :client_id,
			invoice_number = :invoice_number,
			invoice_status = :invoice_status,
			currency = :currency,
			subtotal = :subtotal,
			tax_amount = :tax_amount,
			round_off = :round_off,
			total = :total,
			amount_paid = :amount_paid,
			issue_date = :issue_date,
			due_date = :due_date,
			sent_at = :sent_at,
			notes = :notes,
			metadata = :metadata,
			updated_at = :updated_at,
			updated_by = :updated_by
		WHERE id = :id AND organization_id = :organization_id AND status != 'deleted'`

	result, err := r.db.GetQuerier(ctx).NamedExec(query, inv)
	if err != nil {
		return ierr.WithError(err).
			WithHint("failed to update invoice").
			Mark(ierr.ErrDatabase)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return ierr.NewError("invoice not found").
			WithHint("invoice not found").
			Mark(ierr.ErrNotFound)
	}

	// Replace the line item set on draft edits
	if inv.LineItems != nil {
		if err := r.replaceLineItems(ctx, inv); err != nil {
			return err
		}
	}
	return nil
}

func (r *invoiceRepository) replaceLineItems(ctx context.Context, inv *invoice.Invoice) error {
	query := `DELETE FROM invoice_line_items WHERE invoice_id = $1 AND organization_id = $2`
	_, err := r.db.GetQuerier(ctx).ExecContext(ctx, query, inv.ID, inv.OrganizationID)
	if err != nil {
		return ierr.WithError(err).
			WithHint("failed to update invoice line items").
			Mark(ierr.ErrDatabase)
	}

	for _, item := range inv.LineItems {
		item.InvoiceID = inv.ID
		item.OrganizationID = inv.OrganizationID
		if err := r.insertLineItem(ctx, item); err != nil {
			return err
		}
	}
	return nil
}

func (r *invoiceRepository) Delete(ctx context.Context, id string) error {
	query := `
		UPDATE invoices SET status = $1, updated_at = $2, updated_by = $3
		WHERE id = $4 AND organization_id = $5 AND status != $1`

	result, err := r.db.GetQuerier(ctx).ExecContext(ctx, query,
		types.StatusDeleted, time.Now().UTC(), types.GetUserID(ctx),
		id, types.GetOrganizationID(ctx))
	if err != nil {
		return ierr.WithError(err).
			WithHint("failed to delete invoice").
			Mark(ierr.ErrDatabase)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return ierr.NewError("invoice not found").
			WithHint("invoice not found").
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (r *invoiceRepository) List(ctx context.Context, filter *types.InvoiceFilter) ([]*invoice.Invoice, error) {
	invoices := make([]*invoice.Invoice, 0)

	where, args := r.buildConditions(ctx, filter)
	query := fmt.Sprintf(`SELECT * FROM invoices WHERE %s ORDER BY %s %s`,
		strings.Join(where, " AND "), orderColumn(filter.GetSort()), orderDirection(filter.GetOrder()))

	if !filter.IsUnlimited() {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", filter.GetLimit(), filter.GetOffset())
	}

	err := r.db.GetQuerier(ctx).SelectContext(ctx, &invoices, query, args...)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("failed to list invoices").
			Mark(ierr.ErrDatabase)
	}

	if err := r.loadLineItems(ctx, invoices); err != nil {
		return nil, err
	}
	return invoices, nil
}

func (r *invoiceRepository) Count(ctx context.Context, filter *types.InvoiceFilter) (int, error) {
	where, args := r.buildConditions(ctx, filter)
	query := fmt.Sprintf(`SELECT count(*) FROM invoices WHERE %s`, strings.Join(where, " AND "))

	var count int
	err := r.db.GetQuerier(ctx).GetContext(ctx, &count, query, args...)
	if err != nil {
		return 0, ierr.WithError(err).
			WithHint("failed to count invoices").
			Mark(ierr.ErrDatabase)
	}
	return count, nil
}

func (r *invoiceRepository) ListDueForOrganization(ctx context.Context, orgID string, cutoff time.Time) ([]*invoice.Invoice, error) {
	invoices := make([]*invoice.Invoice, 0)
	query := `
		SELECT * FROM invoices
		WHERE organization_id = $1
		  AND status != $2
		  AND invoice_status = ANY($3)
		  AND due_date IS NOT NULL
		  AND due_date <= $4
		ORDER BY due_date ASC`

	statuses := pq.Array([]string{
		types.InvoiceStatusSent.String(),
		types.InvoiceStatusPartiallyPaid.String(),
		types.InvoiceStatusOverdue.String(),
	})

	err := r.db.GetQuerier(ctx).SelectContext(ctx, &invoices, query,
		orgID, types.StatusDeleted, statuses, cutoff)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("failed to list due invoices").
			Mark(ierr.ErrDatabase)
	}

	if err := r.loadLineItems(ctx, invoices); err != nil {
		return nil, err
	}
	return invoices, nil
}

func (r *invoiceRepository) buildConditions(ctx context.Context, filter *types.InvoiceFilter) ([]string, []interface{}) {
	where := []string{"organization_id = $1", "status != $2"}
	args := []interface{}{types.GetOrganizationID(ctx), types.StatusDeleted}

	if len(filter.InvoiceIDs) > 0 {
		args = append(args, pq.Array(filter.InvoiceIDs))
		where = append(where, fmt.Sprintf("id = ANY($%d)", len(args)))
	}
	if filter.ClientID != "" {
		args = append(args, filter.ClientID)
		where = append(where, fmt.Sprintf("client_id = $%d", len(args)))
	}
	if len(filter.InvoiceStatus) > 0 {
		statuses := make([]string, 0, len(filter.InvoiceStatus))
		for _, s := range filter.InvoiceStatus {
			statuses = append(statuses, s.String())
		}
		args = append(args, pq.Array(statuses))
		where = append(where, fmt.Sprintf("invoice_status = ANY($%d)", len(args)))
	}
	if filter.DueBefore != nil {
		args = append(args, *filter.DueBefore)
		where = append(where, fmt.Sprintf("due_date <= $%d", len(args)))
	}
	if filter.TimeRangeFilter != nil {
		if filter.StartTime != nil {
			args = append(args, *filter.StartTime)
			where = append(where, fmt.Sprintf("created_at >= $%d", len(args)))
		}
		if filter.EndTime != nil {
			args = append(args, *filter.EndTime)
			where = append(where, fmt.Sprintf("created_at <= $%d", len(args)))
		}
	}
	return where, args
}
