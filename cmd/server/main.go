package main

import (
	"context"
	"net/http"

	"github.com/billforge/billforge/internal/api"
	v1 "github.com/billforge/billforge/internal/api/v1"
	"github.com/billforge/billforge/internal/auth"
	"github.com/billforge/billforge/internal/cache"
	"github.com/billforge/billforge/internal/config"
	"github.com/billforge/billforge/internal/email"
	"github.com/billforge/billforge/internal/logger"
	"github.com/billforge/billforge/internal/notification"
	"github.com/billforge/billforge/internal/postgres"
	"github.com/billforge/billforge/internal/repository"
	"github.com/billforge/billforge/internal/scheduler"
	"github.com/billforge/billforge/internal/service"
	"github.com/billforge/billforge/internal/types"
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

func main() {
	fx.New(
		fx.Provide(
			config.NewConfig,
			logger.NewLogger,
			postgres.NewDB,
			postgres.NewClient,
			cache.NewInMemoryCache,
			auth.NewProvider,
			email.NewClient,
			email.NewSender,
			notification.NewPublisher,

			newRepositoryParams,
			repository.NewOrganizationRepository,
			repository.NewUserRepository,
			repository.NewAuthRepository,
			repository.NewClientRepository,
			repository.NewInvoiceRepository,
			repository.NewPaymentRepository,
			repository.NewReceiptRepository,
			repository.NewSettingsRepository,

			newServiceParams,
			service.NewAuthService,
			service.NewOrganizationService,
			service.NewClientService,
			service.NewInvoiceService,
			service.NewPaymentService,
			service.NewReceiptService,
			service.NewSettingsService,
			service.NewReminderService,

			newHandlers,
			api.NewRouter,
			scheduler.New,
		),
		fx.Invoke(run),
	).Run()
}

func newRepositoryParams(db postgres.IClient, log *logger.Logger) repository.RepositoryParams {
	return repository.RepositoryParams{DB: db, Logger: log}
}

func newServiceParams(
	cfg *config.Configuration,
	log *logger.Logger,
	db postgres.IClient,
	authProvider auth.Provider,
	sender *email.Sender,
	notifier *notification.Publisher,
	memCache cache.Cache,
	p repository.RepositoryParams,
) service.ServiceParams {
	return service.ServiceParams{
		Logger:       log,
		Config:       cfg,
		DB:           db,
		AuthProvider: authProvider,
		EmailSender:  sender,
		Notifier:     notifier,
		Cache:        memCache,
		OrgRepo:      repository.NewOrganizationRepository(p),
		UserRepo:     repository.NewUserRepository(p),
		AuthRepo:     repository.NewAuthRepository(p),
		ClientRepo:   repository.NewClientRepository(p),
		InvoiceRepo:  repository.NewInvoiceRepository(p),
		PaymentRepo:  repository.NewPaymentRepository(p),
		ReceiptRepo:  repository.NewReceiptRepository(p),
		SettingsRepo: repository.NewSettingsRepository(p),
	}
}

func newHandlers(
	log *logger.Logger,
	authService service.AuthService,
	orgService service.OrganizationService,
	clientService service.ClientService,
	invoiceService service.InvoiceService,
	paymentService service.PaymentService,
	receiptService service.ReceiptService,
	settingsService service.SettingsService,
) api.Handlers {
	return api.Handlers{
		Health:       v1.NewHealthHandler(),
		Auth:         v1.NewAuthHandler(authService, log),
		Organization: v1.NewOrganizationHandler(orgService, log),
		Client:       v1.NewClientHandler(clientService, log),
		Invoice:      v1.NewInvoiceHandler(invoiceService, paymentService, log),
		Payment:      v1.NewPaymentHandler(paymentService, log),
		Receipt:      v1.NewReceiptHandler(receiptService, log),
		Settings:     v1.NewSettingsHandler(settingsService, log),
	}
}

func run(
	lc fx.Lifecycle,
	cfg *config.Configuration,
	log *logger.Logger,
	db *postgres.DB,
	router *gin.Engine,
	sched *scheduler.Scheduler,
	notifier *notification.Publisher,
) {
	mode := cfg.Deployment.Mode

	if mode == types.ModeLocal || mode == types.ModeAPI {
		startServer(lc, cfg, router, log)
	}
	if mode == types.ModeLocal || mode == types.ModeScheduler {
		lc.Append(fx.Hook{
			OnStart: sched.Start,
			OnStop:  sched.Stop,
		})
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			if err := notifier.Close(); err != nil {
				log.Warnw("failed to close notification publisher", "error", err)
			}
			db.Close()
			return nil
		},
	})
}

func startServer(lc fx.Lifecycle, cfg *config.Configuration, router *gin.Engine, log *logger.Logger) {
	server := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("starting server", "address", cfg.Server.Address)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatalw("server failed", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Infow("shutting down server")
			return server.Shutdown(ctx)
		},
	})
}
