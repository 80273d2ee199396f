package testutil

import (
	"context"
	"time"

	authProvider "github.com/billforge/billforge/internal/auth"
	"github.com/billforge/billforge/internal/cache"
	"github.com/billforge/billforge/internal/config"
	"github.com/billforge/billforge/internal/email"
	"github.com/billforge/billforge/internal/logger"
	"github.com/billforge/billforge/internal/notification"
	"github.com/billforge/billforge/internal/postgres"
	"github.com/billforge/billforge/internal/validator"
	"github.com/stretchr/testify/suite"
)

// Stores holds all the repository fakes for service tests
type Stores struct {
	OrgRepo      *InMemoryOrganizationStore
	UserRepo     *InMemoryUserStore
	AuthRepo     *InMemoryAuthStore
	ClientRepo   *InMemoryClientStore
	InvoiceRepo  *InMemoryInvoiceStore
	PaymentRepo  *InMemoryPaymentStore
	ReceiptRepo  *InMemoryReceiptStore
	SettingsRepo *InMemorySettingsStore
}

// BaseServiceTestSuite provides common scaffolding for service test suites:
// in-memory repositories, a transactional client that rolls the stores back
// on failure and a context scoped to a default organization and user.
type BaseServiceTestSuite struct {
	suite.Suite
	ctx          context.Context
	stores       Stores
	db           postgres.IClient
	logger       *logger.Logger
	config       *config.Configuration
	emailClient  *CaptureEmailClient
	emailSender  *email.Sender
	authProvider authProvider.Provider
	notifier     *notification.Publisher
	cache        cache.Cache
	now          time.Time
}

// SetupSuite is called once before running the tests in the suite
func (s *BaseServiceTestSuite) SetupSuite() {
	validator.NewValidator()

	s.config = config.GetDefaultConfig()
	s.logger = logger.NewNopLogger()
	s.authProvider = authProvider.NewProvider(s.config)
}

// SetupTest is called before each test
func (s *BaseServiceTestSuite) SetupTest() {
	s.ctx = SetupContext()
	s.stores = Stores{
		OrgRepo:      NewInMemoryOrganizationStore(),
		UserRepo:     NewInMemoryUserStore(),
		AuthRepo:     NewInMemoryAuthStore(),
		ClientRepo:   NewInMemoryClientStore(),
		InvoiceRepo:  NewInMemoryInvoiceStore(),
		PaymentRepo:  NewInMemoryPaymentStore(),
		ReceiptRepo:  NewInMemoryReceiptStore(),
		SettingsRepo: NewInMemorySettingsStore(),
	}
	s.db = NewMockPostgresClient(
		s.stores.OrgRepo,
		s.stores.UserRepo,
		s.stores.AuthRepo,
		s.stores.ClientRepo,
		s.stores.InvoiceRepo,
		s.stores.PaymentRepo,
		s.stores.ReceiptRepo,
		s.stores.SettingsRepo,
	)
	s.emailClient = NewCaptureEmailClient()
	s.emailSender = email.NewSender(s.emailClient, s.logger)
	s.notifier = notification.NewPublisher(s.logger)
	s.cache = cache.NewInMemoryCache()
	s.now = time.Now().UTC()
}

// TearDownTest is called after each test
func (s *BaseServiceTestSuite) TearDownTest() {
	if s.notifier != nil {
		_ = s.notifier.Close()
	}
}

// GetContext returns the test context scoped to the default organization
func (s *BaseServiceTestSuite) GetContext() context.Context {
	return s.ctx
}

// SetContext replaces the test context, used by isolation tests that switch
// the acting organization
func (s *BaseServiceTestSuite) SetContext(ctx context.Context) {
	s.ctx = ctx
}

// GetStores returns the repository fakes
func (s *BaseServiceTestSuite) GetStores() Stores {
	return s.stores
}

// GetDB returns the transactional client backed by the in-memory stores
func (s *BaseServiceTestSuite) GetDB() postgres.IClient {
	return s.db
}

// GetLogger returns the suite logger
func (s *BaseServiceTestSuite) GetLogger() *logger.Logger {
	return s.logger
}

// GetConfig returns the test configuration
func (s *BaseServiceTestSuite) GetConfig() *config.Configuration {
	return s.config
}

// GetAuthProvider returns the JWT provider built from the test configuration
func (s *BaseServiceTestSuite) GetAuthProvider() authProvider.Provider {
	return s.authProvider
}

// GetEmailClient returns the capture email client
func (s *BaseServiceTestSuite) GetEmailClient() *CaptureEmailClient {
	return s.emailClient
}

// GetEmailSender returns a sender backed by the capture client
func (s *BaseServiceTestSuite) GetEmailSender() *email.Sender {
	return s.emailSender
}

// GetNotifier returns the in-process notification publisher
func (s *BaseServiceTestSuite) GetNotifier() *notification.Publisher {
	return s.notifier
}

// GetCache returns the in-memory cache
func (s *BaseServiceTestSuite) GetCache() cache.Cache {
	return s.cache
}

// GetNow returns the timestamp captured at test setup
func (s *BaseServiceTestSuite) GetNow() time.Time {
	return s.now
}
