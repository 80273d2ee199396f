package service

import (
	"context"
	"time"

	"github.com/billforge/billforge/internal/api/dto"
	ierr "github.com/billforge/billforge/internal/errors"
	"github.com/billforge/billforge/internal/types"
)

// SettingsService manages per-organization settings. Mutations require an
// owner or admin membership.
type SettingsService interface {
	GetInvoiceSettings(ctx context.Context) (*dto.InvoiceSettingsResponse, error)
	UpdateInvoiceSettings(ctx context.Context, req *dto.UpdateInvoiceSettingsRequest) (*dto.InvoiceSettingsResponse, error)
	GetCompanySettings(ctx context.Context) (*dto.CompanySettingsResponse, error)
	UpdateCompanySettings(ctx context.Context, req *dto.UpdateCompanySettingsRequest) (*dto.CompanySettingsResponse, error)
	GetEmailSettings(ctx context.Context) (*dto.EmailSettingsResponse, error)
	UpdateEmailSettings(ctx context.Context, req *dto.UpdateEmailSettingsRequest) (*dto.EmailSettingsResponse, error)
}

type settingsService struct {
	ServiceParams
	orgService OrganizationService
}

func NewSettingsService(params ServiceParams) SettingsService {
	return &settingsService{
		ServiceParams: params,
		orgService:    NewOrganizationService(params),
	}
}

// requireManager ensures the requesting user may mutate settings
func (s *settingsService) requireManager(ctx context.Context) error {
	membership, err := s.orgService.ResolveMembership(ctx,
		types.GetOrganizationID(ctx), types.GetUserID(ctx))
	if err != nil {
		return err
	}
	if !membership.Role.CanManageSettings() {
		return ierr.NewError("insufficient role").
			WithHint("only owners and admins can change settings").
			Mark(ierr.ErrPermissionDenied)
	}
	return nil
}

func (s *settingsService) GetInvoiceSettings(ctx context.Context) (*dto.InvoiceSettingsResponse, error) {
	settings, err := s.SettingsRepo.GetInvoiceSettings(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.InvoiceSettingsResponse{InvoiceSettings: settings}, nil
}

func (s *settingsService) UpdateInvoiceSettings(ctx context.Context, req *dto.UpdateInvoiceSettingsRequest) (*dto.InvoiceSettingsResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := s.requireManager(ctx); err != nil {
		return nil, err
	}

	settings, err := s.SettingsRepo.GetInvoiceSettings(ctx)
	if err != nil {
		return nil, err
	}

	if req.NumberPrefix != nil {
		settings.NumberPrefix = *req.NumberPrefix
	}
	if req.DefaultDueDays != nil {
		settings.DefaultDueDays = *req.DefaultDueDays
	}
	if req.ReminderEnabled != nil {
		settings.ReminderEnabled = *req.ReminderEnabled
	}
	if req.ReminderDaysBefore != nil {
		settings.ReminderDaysBefore = *req.ReminderDaysBefore
	}
	if req.ReminderTemplate != nil {
		settings.ReminderTemplate = *req.ReminderTemplate
	}
	settings.UpdatedAt = time.Now().UTC()
	settings.UpdatedBy = types.GetUserID(ctx)

	if err := s.SettingsRepo.UpdateInvoiceSettings(ctx, settings); err != nil {
		return nil, err
	}
	return &dto.InvoiceSettingsResponse{InvoiceSettings: settings}, nil
}

func (s *settingsService) GetCompanySettings(ctx context.Context) (*dto.CompanySettingsResponse, error) {
	settings, err := s.SettingsRepo.GetCompanySettings(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.CompanySettingsResponse{CompanySettings: settings}, nil
}

func (s *settingsService) UpdateCompanySettings(ctx context.Context, req *dto.UpdateCompanySettingsRequest) (*dto.CompanySettingsResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := s.requireManager(ctx); err != nil {
		return nil, err
	}

	settings, err := s.SettingsRepo.GetCompanySettings(ctx)
	if err != nil {
		return nil, err
	}

	if req.LegalName != nil {
		settings.LegalName = *req.LegalName
	}
	if req.Address != nil {
		settings.Address = *req.Address
	}
	if req.TaxID != nil {
		settings.TaxID = *req.TaxID
	}
	if req.LogoURL != nil {
		settings.LogoURL = *req.LogoURL
	}
	settings.UpdatedAt = time.Now().UTC()
	settings.UpdatedBy = types.GetUserID(ctx)

	if err := s.SettingsRepo.UpdateCompanySettings(ctx, settings); err != nil {
		return nil, err
	}
	return &dto.CompanySettingsResponse{CompanySettings: settings}, nil
}

func (s *settingsService) GetEmailSettings(ctx context.Context) (*dto.EmailSettingsResponse, error) {
	settings, err := s.SettingsRepo.GetEmailSettings(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.EmailSettingsResponse{EmailSettings: settings}, nil
}

func (s *settingsService) UpdateEmailSettings(ctx context.Context, req *dto.UpdateEmailSettingsRequest) (*dto.EmailSettingsResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := s.requireManager(ctx); err != nil {
		return nil, err
	}

	settings, err := s.SettingsRepo.GetEmailSettings(ctx)
	if err != nil {
		return nil, err
	}

	if req.FromName != nil {
		settings.FromName = *req.FromName
	}
	if req.FromAddress != nil {
		settings.FromAddress = *req.FromAddress
	}
	if req.ReplyTo != nil {
		settings.ReplyTo = *req.ReplyTo
	}
	if req.FooterText != nil {
		settings.FooterText = *req.FooterText
	}
	settings.UpdatedAt = time.Now().UTC()
	settings.UpdatedBy = types.GetUserID(ctx)

	if err := s.SettingsRepo.UpdateEmailSettings(ctx, settings); err != nil {
		return nil, err
	}
	return &dto.EmailSettingsResponse{EmailSettings: settings}, nil
}
