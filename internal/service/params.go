package service

import (
	authProvider "github.com/billforge/billforge/internal/auth"
	"github.com/billforge/billforge/internal/cache"
	"github.com/billforge/billforge/internal/config"
	"github.com/billforge/billforge/internal/domain/auth"
	"github.com/billforge/billforge/internal/domain/client"
	"github.com/billforge/billforge/internal/domain/invoice"
	"github.com/billforge/billforge/internal/domain/organization"
	"github.com/billforge/billforge/internal/domain/payment"
	"github.com/billforge/billforge/internal/domain/receipt"
	"github.com/billforge/billforge/internal/domain/settings"
	"github.com/billforge/billforge/internal/domain/user"
	"github.com/billforge/billforge/internal/email"
	"github.com/billforge/billforge/internal/logger"
	"github.com/billforge/billforge/internal/notification"
	"github.com/billforge/billforge/internal/postgres"
)

// ServiceParams bundles every dependency the services need. All services
// are constructed from the same params struct.
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration
	DB     postgres.IClient

	AuthProvider authProvider.Provider
	EmailSender  *email.Sender
	Notifier     *notification.Publisher
	Cache        cache.Cache

	// Repositories
	OrgRepo      organization.Repository
	UserRepo     user.Repository
	AuthRepo     auth.Repository
	ClientRepo   client.Repository
	InvoiceRepo  invoice.Repository
	PaymentRepo  payment.Repository
	ReceiptRepo  receipt.Repository
	SettingsRepo settings.Repository
}
