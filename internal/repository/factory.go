package repository

import (
	"github.com/billforge/billforge/internal/domain/auth"
	"github.com/billforge/billforge/internal/domain/client"
	"github.com/billforge/billforge/internal/domain/invoice"
	"github.com/billforge/billforge/internal/domain/organization"
	"github.com/billforge/billforge/internal/domain/payment"
	"github.com/billforge/billforge/internal/domain/receipt"
	"github.com/billforge/billforge/internal/domain/settings"
	"github.com/billforge/billforge/internal/domain/user"
	"github.com/billforge/billforge/internal/logger"
	"github.com/billforge/billforge/internal/postgres"
)

// RepositoryParams bundles the dependencies shared by every repository
type RepositoryParams struct {
	DB     postgres.IClient
	Logger *logger.Logger
}

func NewOrganizationRepository(p RepositoryParams) organization.Repository {
	return newOrganizationRepository(p.DB, p.Logger)
}

func NewUserRepository(p RepositoryParams) user.Repository {
	return newUserRepository(p.DB, p.Logger)
}

func NewAuthRepository(p RepositoryParams) auth.Repository {
	return newAuthRepository(p.DB, p.Logger)
}

func NewClientRepository(p RepositoryParams) client.Repository {
	return newClientRepository(p.DB, p.Logger)
}

func NewInvoiceRepository(p RepositoryParams) invoice.Repository {
	return newInvoiceRepository(p.DB, p.Logger)
}

func NewPaymentRepository(p RepositoryParams) payment.Repository {
	return newPaymentRepository(p.DB, p.Logger)
}

func NewReceiptRepository(p RepositoryParams) receipt.Repository {
	return newReceiptRepository(p.DB, p.Logger)
}

func NewSettingsRepository(p RepositoryParams) settings.Repository {
	return newSettingsRepository(p.DB, p.Logger)
}
