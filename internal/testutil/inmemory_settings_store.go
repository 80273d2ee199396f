package testutil

import (
	"context"
	"sync"

	"github.com/billforge/billforge/internal/domain/settings"
	ierr "github.com/billforge/billforge/internal/errors"
	"github.com/billforge/billforge/internal/types"
)

var _ settings.Repository = (*InMemorySettingsStore)(nil)

// InMemorySettingsStore implements settings.Repository. Rows are keyed by
// organization ID, one of each settings kind per organization.
type InMemorySettingsStore struct {
	mu       sync.RWMutex
	invoice  map[string]*settings.InvoiceSettings
	company  map[string]*settings.CompanySettings
	emailCfg map[string]*settings.EmailSettings
}

// NewInMemorySettingsStore creates a new in-memory settings repository
func NewInMemorySettingsStore() *InMemorySettingsStore {
	return &InMemorySettingsStore{
		invoice:  make(map[string]*settings.InvoiceSettings),
		company:  make(map[string]*settings.CompanySettings),
		emailCfg: make(map[string]*settings.EmailSettings),
	}
}

// Clear resets all stored data
func (s *InMemorySettingsStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invoice = make(map[string]*settings.InvoiceSettings)
	s.company = make(map[string]*settings.CompanySettings)
	s.emailCfg = make(map[string]*settings.EmailSettings)
}

func settingsNotFound() error {
	return ierr.NewError("settings not found").
		WithHint("No settings exist for this organization").
		Mark(ierr.ErrNotFound)
}

func (s *InMemorySettingsStore) CreateInvoiceSettings(ctx context.Context, row *settings.InvoiceSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.invoice[row.OrganizationID]; exists {
		return ierr.NewError("invoice settings already exist").
			WithHint("Invoice settings already exist for this organization").
			Mark(ierr.ErrAlreadyExists)
	}
	s.invoice[row.OrganizationID] = row
	return nil
}

func (s *InMemorySettingsStore) GetInvoiceSettings(ctx context.Context) (*settings.InvoiceSettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if row, exists := s.invoice[types.GetOrganizationID(ctx)]; exists {
		cp := *row
		return &cp, nil
	}
	return nil, settingsNotFound()
}

// GetInvoiceSettingsForUpdate behaves like GetInvoiceSettings. The
// transactional test client serializes transactions, which stands in for
// the row lock the SQL repository takes.
func (s *InMemorySettingsStore) GetInvoiceSettingsForUpdate(ctx context.Context) (*settings.InvoiceSettings, error) {
	return s.GetInvoiceSettings(ctx)
}

func (s *InMemorySettingsStore) UpdateInvoiceSettings(ctx context.Context, row *settings.InvoiceSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.invoice[row.OrganizationID]; !exists {
		return settingsNotFound()
	}
	s.invoice[row.OrganizationID] = row
	return nil
}

func (s *InMemorySettingsStore) ListReminderEnabled(ctx context.Context) ([]*settings.InvoiceSettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*settings.InvoiceSettings, 0)
	for _, row := range s.invoice {
		if row.ReminderEnabled {
			result = append(result, row)
		}
	}
	return result, nil
}

func (s *InMemorySettingsStore) CreateCompanySettings(ctx context.Context, row *settings.CompanySettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.company[row.OrganizationID]; exists {
		return ierr.NewError("company settings already exist").
			WithHint("Company settings already exist for this organization").
			Mark(ierr.ErrAlreadyExists)
	}
	s.company[row.OrganizationID] = row
	return nil
}

func (s *InMemorySettingsStore) GetCompanySettings(ctx context.Context) (*settings.CompanySettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if row, exists := s.company[types.GetOrganizationID(ctx)]; exists {
		cp := *row
		return &cp, nil
	}
	return nil, settingsNotFound()
}

func (s *InMemorySettingsStore) UpdateCompanySettings(ctx context.Context, row *settings.CompanySettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.company[row.OrganizationID]; !exists {
		return settingsNotFound()
	}
	s.company[row.OrganizationID] = row
	return nil
}

func (s *InMemorySettingsStore) CreateEmailSettings(ctx context.Context, row *settings.EmailSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.emailCfg[row.OrganizationID]; exists {
		return ierr.NewError("email settings already exist").
			WithHint("Email settings already exist for this organization").
			Mark(ierr.ErrAlreadyExists)
	}
	s.emailCfg[row.OrganizationID] = row
	return nil
}

func (s *InMemorySettingsStore) GetEmailSettings(ctx context.Context) (*settings.EmailSettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if row, exists := s.emailCfg[types.GetOrganizationID(ctx)]; exists {
		cp := *row
		return &cp, nil
	}
	return nil, settingsNotFound()
}

func (s *InMemorySettingsStore) UpdateEmailSettings(ctx context.Context, row *settings.EmailSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.emailCfg[row.OrganizationID]; !exists {
		return settingsNotFound()
	}
	s.emailCfg[row.OrganizationID] = row
	return nil
}

func (s *InMemorySettingsStore) GetEmailSettingsForOrganization(ctx context.Context, orgID string) (*settings.EmailSettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if row, exists := s.emailCfg[orgID]; exists {
		cp := *row
		return &cp, nil
	}
	return nil, settingsNotFound()
}

type settingsSnapshot struct {
	invoice  map[string]*settings.InvoiceSettings
	company  map[string]*settings.CompanySettings
	emailCfg map[string]*settings.EmailSettings
}

// Snapshot captures all three settings maps for transaction rollback
func (s *InMemorySettingsStore) Snapshot() any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := settingsSnapshot{
		invoice:  make(map[string]*settings.InvoiceSettings, len(s.invoice)),
		company:  make(map[string]*settings.CompanySettings, len(s.company)),
		emailCfg: make(map[string]*settings.EmailSettings, len(s.emailCfg)),
	}
	for id, row := range s.invoice {
		snap.invoice[id] = row
	}
	for id, row := range s.company {
		snap.company[id] = row
	}
	for id, row := range s.emailCfg {
		snap.emailCfg[id] = row
	}
	return snap
}

// Restore resets the store to a previously captured snapshot
func (s *InMemorySettingsStore) Restore(state any) {
	snap := state.(settingsSnapshot)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invoice = snap.invoice
	s.company = snap.company
	s.emailCfg = snap.emailCfg
}
