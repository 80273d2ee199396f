package api

import (
	"time"

	v1 "github.com/billforge/billforge/internal/api/v1"
	"github.com/billforge/billforge/internal/auth"
	"github.com/billforge/billforge/internal/config"
	"github.com/billforge/billforge/internal/logger"
	"github.com/billforge/billforge/internal/rest/middleware"
	"github.com/billforge/billforge/internal/service"
	"github.com/billforge/billforge/internal/types"
	"github.com/gin-gonic/gin"
)

// Handlers bundles every route handler the router mounts
type Handlers struct {
	Health       *v1.HealthHandler
	Auth         *v1.AuthHandler
	Organization *v1.OrganizationHandler
	Client       *v1.ClientHandler
	Invoice      *v1.InvoiceHandler
	Payment      *v1.PaymentHandler
	Receipt      *v1.ReceiptHandler
	Settings     *v1.SettingsHandler
}

// NewRouter assembles the gin engine with middleware chains and rate limits
func NewRouter(
	handlers Handlers,
	cfg *config.Configuration,
	log *logger.Logger,
	authProvider auth.Provider,
	orgService service.OrganizationService,
) *gin.Engine {
	if cfg.Deployment.Mode != types.ModeLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware)
	router.Use(middleware.ErrorHandler(log))

	router.GET("/health", handlers.Health.Health)

	loginLimit := middleware.NewIPRateLimiter(5, time.Minute)
	otpLimit := middleware.NewIPRateLimiter(3, time.Hour)
	registerLimit := middleware.NewIPRateLimiter(10, time.Hour)
	settingsLimit := middleware.NewUserRateLimiter(30, time.Hour)

	public := router.Group("/v1/auth")
	{
		public.POST("/otp/send", otpLimit.Middleware(), handlers.Auth.SendOTP)
		public.POST("/otp/verify", otpLimit.Middleware(), handlers.Auth.VerifyOTP)
		public.POST("/otp/resend", otpLimit.Middleware(), handlers.Auth.ResendOTP)
		public.POST("/register", registerLimit.Middleware(), handlers.Auth.Register)
		public.POST("/login", loginLimit.Middleware(), handlers.Auth.Login)
	}

	// Authenticated routes not bound to a single organization
	authed := router.Group("/v1", middleware.AuthMiddleware(authProvider, log))
	{
		authed.GET("/organizations", handlers.Organization.List)
		authed.GET("/organizations/:id", handlers.Organization.Get)
	}

	// Authenticated, organization scoped routes
	scoped := router.Group("/v1",
		middleware.AuthMiddleware(authProvider, log),
		middleware.OrganizationMiddleware(orgService, log),
	)
	{
		scoped.PUT("/organizations", handlers.Organization.Update)

		scoped.POST("/clients", handlers.Client.Create)
		scoped.GET("/clients", handlers.Client.List)
		scoped.GET("/clients/:id", handlers.Client.Get)
		scoped.PUT("/clients/:id", handlers.Client.Update)
		scoped.DELETE("/clients/:id", handlers.Client.Delete)

		scoped.POST("/invoices", handlers.Invoice.Create)
		scoped.GET("/invoices", handlers.Invoice.List)
		scoped.GET("/invoices/:id", handlers.Invoice.Get)
		scoped.PUT("/invoices/:id", handlers.Invoice.Update)
		scoped.DELETE("/invoices/:id", handlers.Invoice.Delete)
		scoped.POST("/invoices/:id/send", handlers.Invoice.Send)
		scoped.GET("/invoices/:id/payments", handlers.Invoice.ListPayments)

		scoped.POST("/payments", handlers.Payment.Record)
		scoped.GET("/payments", handlers.Payment.List)
		scoped.GET("/payments/:id", handlers.Payment.Get)
		scoped.DELETE("/payments/:id", handlers.Payment.Delete)

		scoped.GET("/receipts", handlers.Receipt.List)
		scoped.GET("/receipts/:id", handlers.Receipt.Get)

		settings := scoped.Group("/settings", settingsLimit.Middleware())
		{
			settings.GET("/invoice", handlers.Settings.GetInvoiceSettings)
			settings.PUT("/invoice", handlers.Settings.UpdateInvoiceSettings)
			settings.GET("/company", handlers.Settings.GetCompanySettings)
			settings.PUT("/company", handlers.Settings.UpdateCompanySettings)
			settings.GET("/email", handlers.Settings.GetEmailSettings)
			settings.PUT("/email", handlers.Settings.UpdateEmailSettings)
		}
	}

	return router
}
