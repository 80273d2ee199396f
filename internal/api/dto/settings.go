package dto

import (
	"github.com/billforge/billforge/internal/domain/settings"
	"github.com/billforge/billforge/internal/validator"
)

// UpdateInvoiceSettingsRequest updates invoicing defaults for the active
// organization
type UpdateInvoiceSettingsRequest struct {
	NumberPrefix       *string `json:"number_prefix,omitempty"`
	DefaultDueDays     *int    `json:"default_due_days,omitempty" validate:"omitempty,min=0,max=365"`
	ReminderEnabled    *bool   `json:"reminder_enabled,omitempty"`
	ReminderDaysBefore *int    `json:"reminder_days_before,omitempty" validate:"omitempty,min=0,max=90"`
	ReminderTemplate   *string `json:"reminder_template,omitempty"`
}

func (r *UpdateInvoiceSettingsRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// UpdateCompanySettingsRequest updates the organization's legal identity
type UpdateCompanySettingsRequest struct {
	LegalName *string `json:"legal_name,omitempty"`
	Address   *string `json:"address,omitempty"`
	TaxID     *string `json:"tax_id,omitempty"`
	LogoURL   *string `json:"logo_url,omitempty" validate:"omitempty,url"`
}

func (r *UpdateCompanySettingsRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// UpdateEmailSettingsRequest updates outbound email identity
type UpdateEmailSettingsRequest struct {
	FromName    *string `json:"from_name,omitempty"`
	FromAddress *string `json:"from_address,omitempty" validate:"omitempty,email"`
	ReplyTo     *string `json:"reply_to,omitempty" validate:"omitempty,email"`
	FooterText  *string `json:"footer_text,omitempty"`
}

func (r *UpdateEmailSettingsRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// InvoiceSettingsResponse represents invoice settings in API responses
type InvoiceSettingsResponse struct {
	*settings.InvoiceSettings
}

// CompanySettingsResponse represents company settings in API responses
type CompanySettingsResponse struct {
	*settings.CompanySettings
}

// EmailSettingsResponse represents email settings in API responses
type EmailSettingsResponse struct {
	*settings.EmailSettings
}
