package router

import (
	"time"

	"finleybook/config"
	"finleybook/internal/handler"
	"finleybook/internal/middleware"
	"finleybook/internal/repository"
	"finleybook/internal/service"
	"finleybook/pkg/cloudinary"
	"finleybook/pkg/lock"
	"finleybook/pkg/payout"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Setup(cfg *config.Config, db *gorm.DB, locker lock.Locker, uploads cloudinary.Client) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	// Repositories
	userRepo := repository.NewUserRepository(db)
	merchantRepo := repository.NewMerchantRepository(db)
	clickRepo := repository.NewClickRepository(db)
	walletRepo := repository.NewWalletRepository(db)
	ledgerRepo := repository.NewLedgerRepository(db)
	commissionRepo := repository.NewCommissionRepository(db)
	settingRepo := repository.NewSettingRepository(db)
	reconcileRepo := repository.NewReconciliationRepository(db)
	payoutRepo := repository.NewPayoutRepository(db)

	// Services
	authSvc := service.NewAuthService(cfg, userRepo)
	cashbackSvc := service.NewCashbackService(reconcileRepo, locker, &cfg.Cashback)
	reportSvc := service.NewReportService(cashbackSvc)
	transferer := payout.NewProvider(cfg.Payout.ProviderBaseURL, cfg.Payout.APIKey)
	payoutSvc := service.NewPayoutService(payoutRepo, transferer, settingRepo, &cfg.Payout)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc)
	trackHandler := handler.NewTrackHandler(merchantRepo, clickRepo)
	merchantHandler := handler.NewMerchantHandler(merchantRepo)
	walletHandler := handler.NewWalletHandler(walletRepo, ledgerRepo, clickRepo, payoutRepo, userRepo, commissionRepo)
	payoutHandler := handler.NewPayoutHandler(payoutSvc)
	affiliateWebhook := handler.NewAffiliateWebhookHandler(cashbackSvc, &cfg.Webhook)
	cfWebhook := handler.NewCommissionFactoryWebhookHandler(cashbackSvc, affiliateWebhook, &cfg.Webhook)
	billingWebhook := handler.NewBillingWebhookHandler(userRepo, &cfg.Webhook)
	adminHandler := handler.NewAdminHandler(merchantRepo, commissionRepo, settingRepo, userRepo, walletRepo, ledgerRepo, cashbackSvc, reportSvc, uploads)

	authMw := middleware.AuthRequired(&cfg.JWT)
	optionalAuthMw := middleware.OptionalAuth(&cfg.JWT)
	// Open routes take unauthenticated internet traffic; keep them limited.
	openLimiter := middleware.RateLimit(middleware.NewSlidingWindowLimiter(120, time.Minute))

	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh", authHandler.Refresh)
			authGroup.PATCH("/change-password", authMw, authHandler.ChangePassword)
		}

		api.GET("/track", openLimiter, optionalAuthMw, trackHandler.Redirect)

		api.GET("/merchants", merchantHandler.List)
		api.GET("/merchants/:slug", merchantHandler.Get)

		me := api.Group("/me")
		me.Use(authMw)
		{
			me.GET("/wallet", walletHandler.GetWallet)
			me.GET("/wallet/ledger", walletHandler.GetLedger)
			me.GET("/clicks", walletHandler.GetClicks)
			me.GET("/commissions", walletHandler.GetCommissions)
			me.GET("/payouts", walletHandler.GetPayouts)
			me.POST("/payout-account", walletHandler.ConnectPayoutAccount)
		}
		api.POST("/payouts", authMw, payoutHandler.Create)

		admin := api.Group("/admin")
		admin.Use(authMw, middleware.AdminRequired())
		{
			admin.GET("/merchants", adminHandler.ListMerchants)
			admin.POST("/merchants", adminHandler.CreateMerchant)
			admin.PUT("/merchants/:id", adminHandler.UpdateMerchant)
			admin.DELETE("/merchants/:id", adminHandler.DeleteMerchant)
			admin.POST("/merchants/:id/logo", adminHandler.UploadLogo)
			admin.GET("/commissions", adminHandler.ListCommissions)
			admin.POST("/commissions/:id/mark-paid", adminHandler.MarkPaid)
			admin.POST("/reports/upload", adminHandler.UploadReport)
			admin.GET("/settings", adminHandler.ListSettings)
			admin.PUT("/settings", adminHandler.SetSetting)
			admin.GET("/users", adminHandler.ListUsers)
			admin.GET("/users/:id/wallet-audit", adminHandler.AuditWallet)
		}

		webhooks := api.Group("/webhooks")
		webhooks.Use(openLimiter)
		{
			webhooks.POST("/affiliate", affiliateWebhook.Handle)
			webhooks.POST("/commission-factory", cfWebhook.Handle)
			webhooks.POST("/billing", billingWebhook.Handle)
		}
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
