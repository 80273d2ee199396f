package settings

import "context"

// Repository provides access to per-organization settings rows.
// Get* methods operate on the organization carried in the context;
// the scheduler uses ListReminderEnabled across organizations.
type Repository interface {
	CreateInvoiceSettings(ctx context.Context, s *InvoiceSettings) error
	GetInvoiceSettings(ctx context.Context) (*InvoiceSettings, error)
	// GetInvoiceSettingsForUpdate locks the row for the rest of the
	// transaction. Invoice number assignment takes this lock so the
	// sequence never hands out the same number twice.
	GetInvoiceSettingsForUpdate(ctx context.Context) (*InvoiceSettings, error)
	UpdateInvoiceSettings(ctx context.Context, s *InvoiceSettings) error
	// ListReminderEnabled returns the invoice settings of every organization
	// that has reminders switched on
	ListReminderEnabled(ctx context.Context) ([]*InvoiceSettings, error)

	CreateCompanySettings(ctx context.Context, s *CompanySettings) error
	GetCompanySettings(ctx context.Context) (*CompanySettings, error)
	UpdateCompanySettings(ctx context.Context, s *CompanySettings) error

	CreateEmailSettings(ctx context.Context, s *EmailSettings) error
	GetEmailSettings(ctx context.Context) (*EmailSettings, error)
	UpdateEmailSettings(ctx context.Context, s *EmailSettings) error
	// GetEmailSettingsForOrganization bypasses context scoping for the scheduler
	GetEmailSettingsForOrganization(ctx context.Context, orgID string) (*EmailSettings, error)
}
