package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/billforge/billforge/internal/domain/settings"
	ierr "github.com/billforge/billforge/internal/errors"
	"github.com/billforge/billforge/internal/logger"
	"github.com/billforge/billforge/internal/postgres"
	"github.com/billforge/billforge/internal/types"
)

type settingsRepository struct {
	db     postgres.IClient
	logger *logger.Logger
}

func newSettingsRepository(db postgres.IClient, logger *logger.Logger) settings.Repository {
	return &settingsRepository{db: db, logger: logger}
}

func (r *settingsRepository) CreateInvoiceSettings(ctx context.Context, s *settings.InvoiceSettings) error {
	query := `
		INSERT INTO invoice_settings (
			organization_id, number_prefix, next_sequence, default_due_days,
			reminder_enabled, reminder_days_before, reminder_template,
			status, created_at, updated_at, created_by, updated_by
		) VALUES (
			:organization_id, :number_prefix, :next_sequence, :default_due_days,
			:reminder_enabled, :reminder_days_before, :reminder_template,
			:status, :created_at, :updated_at, :created_by, :updated_by
		)`

	_, err := r.db.GetQuerier(ctx).NamedExec(query, s)
	if err != nil {
		return ierr.WithError(err).
			WithHint("failed to create invoice settings").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *settingsRepository) GetInvoiceSettings(ctx context.Context) (*settings.InvoiceSettings, error) {
	return r.getInvoiceSettings(ctx, false)
}

func (r *settingsRepository) GetInvoiceSettingsForUpdate(ctx context.Context) (*settings.InvoiceSettings, error) {
	return r.getInvoiceSettings(ctx, true)
}

func (r *settingsRepository) getInvoiceSettings(ctx context.Context, forUpdate bool) (*settings.InvoiceSettings, error) {
	var s settings.InvoiceSettings
	query := `SELECT * FROM invoice_settings WHERE organization_id = $1`
	if forUpdate {
		query += " FOR UPDATE"
	}

	err := r.db.GetQuerier(ctx).GetContext(ctx, &s, query, types.GetOrganizationID(ctx))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.NewError("invoice settings not found").
				WithHint("invoice settings not found").
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("failed to get invoice settings").
			Mark(ierr.ErrDatabase)
	}
	return &s, nil
}

func (r *settingsRepository) UpdateInvoiceSettings(ctx context.Context, s *settings.InvoiceSettings) error {
	s.OrganizationID = types.GetOrganizationID(ctx)

	query := `
		UPDATE invoice_settings SET
			number_prefix = :number_prefix,
			next_sequence = :next_sequence,
			default_due_days = :default_due_days,
			reminder_enabled = :reminder_enabled,
			reminder_days_before = :reminder_days_before,
			reminder_template = :reminder_template,
			updated_at = :updated_at,
			updated_by = :updated_by
		WHERE organization_id = :organization_id`

	result, err := r.db.GetQuerier(ctx).NamedExec(query, s)
	if err != nil {
		return ierr.WithError(err).
			WithHint("failed to update invoice settings").
			Mark(ierr.ErrDatabase)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return ierr.NewError("invoice settings not found").
			WithHint("invoice settings not found").
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (r *settingsRepository) ListReminderEnabled(ctx context.Context) ([]*settings.InvoiceSettings, error) {
	out := make([]*settings.InvoiceSettings, 0)
	query := `
		SELECT * FROM invoice_settings
		WHERE reminder_enabled = true AND status != $1`

	err := r.db.GetQuerier(ctx).SelectContext(ctx, &out, query, types.StatusDeleted)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("failed to list reminder enabled settings").
			Mark(ierr.ErrDatabase)
	}
	return out, nil
}

func (r *settingsRepository) CreateCompanySettings(ctx context.Context, s *settings.CompanySettings) error {
	query := `
		INSERT INTO company_settings (
			organization_id, legal_name, address, tax_id, logo_url,
			status, created_at, updated_at, created_by, updated_by
		) VALUES (
			:organization_id, :legal_name, :address, :tax_id, :logo_url,
			:status, :created_at, :updated_at, :created_by, :updated_by
		)`

	_, err := r.db.GetQuerier(ctx).NamedExec(query, s)
	if err != nil {
		return ierr.WithError(err).
			WithHint("failed to create company settings").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *settingsRepository) GetCompanySettings(ctx context.Context) (*settings.CompanySettings, error) {
	var s settings.CompanySettings
	query := `SELECT * FROM company_settings WHERE organization_id = $1`

	err := r.db.GetQuerier(ctx).GetContext(ctx, &s, query, types.GetOrganizationID(ctx))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.NewError("company settings not found").
				WithHint("company settings not found").
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("failed to get company settings").
			Mark(ierr.ErrDatabase)
	}
	return &s, nil
}

func (r *settingsRepository) UpdateCompanySettings(ctx context.Context, s *settings.CompanySettings) error {
	s.OrganizationID = types.GetOrganizationID(ctx)

	query := `
		UPDATE company_settings SET
			legal_name = :legal_name,
			address = :address,
			tax_id = :tax_id,
			logo_url = :logo_url,
			updated_at = :updated_at,
			updated_by = :updated_by
		WHERE organization_id = :organization_id`

	result, err := r.db.GetQuerier(ctx).NamedExec(query, s)
	if err != nil {
		return ierr.WithError(err).
			WithHint("failed to update company settings").
			Mark(ierr.ErrDatabase)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return ierr.NewError("company settings not found").
			WithHint("company settings not found").
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (r *settingsRepository) CreateEmailSettings(ctx context.Context, s *settings.EmailSettings) error {
	query := `
		INSERT INTO email_settings (
			organization_id, from_name, from_address, reply_to, footer_text,
			status, created_at, updated_at, created_by, updated_by
		) VALUES (
			:organization_id, :from_name, :from_address, :reply_to, :footer_text,
			:status, :created_at, :updated_at, :created_by, :updated_by
		)`

	_, err := r.db.GetQuerier(ctx).NamedExec(query, s)
	if err != nil {
		return ierr.WithError(err).
			WithHint("failed to create email settings").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *settingsRepository) GetEmailSettings(ctx context.Context) (*settings.EmailSettings, error) {
	return r.GetEmailSettingsForOrganization(ctx, types.GetOrganizationID(ctx))
}

func (r *settingsRepository) UpdateEmailSettings(ctx context.Context, s *settings.EmailSettings) error {
	s.OrganizationID = types.GetOrganizationID(ctx)

	query := `
		UPDATE email_settings SET
			from_name = :from_name,
			from_address = :from_address,
			reply_to = :reply_to,
			footer_text = :footer_text,
			updated_at = :updated_at,
			updated_by = :updated_by
		WHERE organization_id = :organization_id`

	result, err := r.db.GetQuerier(ctx).NamedExec(query, s)
	if err != nil {
		return ierr.WithError(err).
			WithHint("failed to update email settings").
			Mark(ierr.ErrDatabase)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return ierr.NewError("email settings not found").
			WithHint("email settings not found").
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (r *settingsRepository) GetEmailSettingsForOrganization(ctx context.Context, orgID string) (*settings.EmailSettings, error) {
	var s settings.EmailSettings
	query := `SELECT * FROM email_settings WHERE organization_id = $1`

	err := r.db.GetQuerier(ctx).GetContext(ctx, &s, query, orgID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.NewError("email settings not found").
				WithHint("email settings not found").
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("failed to get email settings").
			Mark(ierr.ErrDatabase)
	}
	return &s, nil
}
