package settings

import (
	"github.com/billforge/billforge/internal/types"
)

// InvoiceSettings holds per-organization invoicing defaults, including the
// invoice number sequence and reminder configuration.
type InvoiceSettings struct {
	OrganizationID string `db:"organization_id" json:"organization_id"`
	// NumberPrefix is prepended to generated invoice numbers, e.g. "INV-"
	NumberPrefix string `db:"number_prefix" json:"number_prefix"`
	// NextSequence is the next number to assign when an invoice is sent
	NextSequence   int64 `db:"next_sequence" json:"next_sequence"`
	DefaultDueDays int   `db:"default_due_days" json:"default_due_days"`

	ReminderEnabled    bool   `db:"reminder_enabled" json:"reminder_enabled"`
	ReminderDaysBefore int    `db:"reminder_days_before" json:"reminder_days_before"`
	ReminderTemplate   string `db:"reminder_template" json:"reminder_template"`

	types.BaseModel
}

// CompanySettings holds the organization's legal identity used on invoices
type CompanySettings struct {
	OrganizationID string `db:"organization_id" json:"organization_id"`
	LegalName      string `db:"legal_name" json:"legal_name"`
	Address        string `db:"address" json:"address"`
	TaxID          string `db:"tax_id" json:"tax_id"`
	LogoURL        string `db:"logo_url" json:"logo_url"`

	types.BaseModel
}

// EmailSettings holds per-organization outbound email identity
type EmailSettings struct {
	OrganizationID string `db:"organization_id" json:"organization_id"`
	FromName       string `db:"from_name" json:"from_name"`
	FromAddress    string `db:"from_address" json:"from_address"`
	ReplyTo        string `db:"reply_to" json:"reply_to"`
	FooterText     string `db:"footer_text" json:"footer_text"`

	types.BaseModel
}

// DefaultInvoiceSettings returns the settings a new organization starts with
func DefaultInvoiceSettings(orgID string, base types.BaseModel) *InvoiceSettings {
	return &InvoiceSettings{
		OrganizationID:     orgID,
		NumberPrefix:       "INV-",
		NextSequence:       1,
		DefaultDueDays:     types.InvoiceDefaultDueDays,
		ReminderEnabled:    false,
		ReminderDaysBefore: 3,
		BaseModel:          base,
	}
}
