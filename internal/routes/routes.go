// Package routes defines the API routing configuration.
// It wires repositories, services, and handlers together and groups
// routes by functionality with the appropriate middleware.
package routes

import (
	"time"

	"lumora/internal/config"
	"lumora/internal/handlers"
	"lumora/internal/middleware"
	"lumora/internal/models"
	"lumora/internal/repositories"
	"lumora/internal/services/auth"
	"lumora/internal/services/connect"
	"lumora/internal/services/entitlement"
	"lumora/internal/services/gifting"
	"lumora/internal/services/ledger"
	"lumora/internal/services/payout"
	"lumora/internal/services/rates"
	"lumora/internal/services/velocity"
	"lumora/internal/services/wallet"

	"github.com/gofiber/fiber/v2"
)

// SetupRoutes configures all application routes.
func SetupRoutes(app *fiber.App) {
	// Repositories
	walletRepo := repositories.NewWalletRepository(repositories.DB)
	ledgerRepo := repositories.NewLedgerRepository(repositories.DB)
	userRepo := repositories.NewUserRepository(repositories.DB)
	giftRepo := repositories.NewGiftRepository(repositories.DB)
	entitlementRepo := repositories.NewEntitlementRepository(repositories.DB)
	storyPriceRepo := repositories.NewStoryPriceRepository(repositories.DB)
	payoutRepo := repositories.NewPayoutRepository(repositories.DB)
	rateRepo := repositories.NewRateRepository(repositories.DB)
	accountRepo := repositories.NewConnectedAccountRepository(repositories.DB)

	// Services, in dependency order
	engine := ledger.NewEngine(ledgerRepo)
	rateService := rates.NewService(rateRepo)
	walletService := wallet.NewService(walletRepo, repositories.CacheService)
	authService := auth.NewService(userRepo, walletService)

	limiter := velocity.NewLimiter(repositories.CacheService.Client(), velocity.Config{
		PerSecondLimit: config.GetInt64Env("VELOCITY_PER_SECOND_LIMIT", 5_000),
		PerHourLimit:   config.GetInt64Env("VELOCITY_PER_HOUR_LIMIT", 1_000_000),
	})

	giftService := gifting.NewService(giftRepo, walletService, limiter, engine, gifting.Config{
		PlatformFeePpm: config.GetInt64Env("PLATFORM_FEE_PPM", 200_000),
	})

	entitlementService := entitlement.NewService(entitlementRepo, storyPriceRepo, walletService)
	connectService := connect.NewService(accountRepo)

	payoutService := payout.NewService(payoutRepo, engine, rateService, repositories.CacheService, connectService, payout.Config{
		MinimumCents: config.GetInt64Env("PAYOUT_MINIMUM_CENTS", 100),
		LockTTL:      config.GetDurationEnv("PAYOUT_LOCK_TTL", 30*time.Second),
	})

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	walletHandler := handlers.NewWalletHandler(walletService)
	giftHandler := handlers.NewGiftHandler(giftService)
	entitlementHandler := handlers.NewEntitlementHandler(entitlementService)
	earningsHandler := handlers.NewEarningsHandler(payoutService)
	connectHandler := handlers.NewConnectHandler(connectService)
	adminHandler := handlers.NewAdminHandler(engine, rateService, entitlementService)

	api := app.Group("/api")

	// Public endpoints
	api.Post("/register", authHandler.Register)
	api.Post("/login", authHandler.Login)
	api.Post("/refresh", authHandler.Refresh)
	api.Get("/health", handlers.HealthCheck)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Welcome to Lumora API",
			"version": "1.0.0",
			"docs":    "/api",
		})
	})

	authMiddleware := middleware.NewAuthMiddleware(authService)
	protected := api.Use(authMiddleware.Handler)

	setupWalletRoutes(protected, walletHandler)
	setupGiftRoutes(protected, giftHandler)
	setupStoryRoutes(protected, entitlementHandler)
	setupCreatorRoutes(protected, earningsHandler, connectHandler)
	setupAdminRoutes(app, authMiddleware, adminHandler)
}

func setupWalletRoutes(router fiber.Router, h *handlers.WalletHandler) {
	wallet := router.Group("/wallet")
	wallet.Get("/", middleware.HasPermission(models.PermissionWalletRead), h.GetWallet)
	wallet.Post("/topup", middleware.HasPermission(models.PermissionWalletTopup), h.TopUpWallet)
}

func setupGiftRoutes(router fiber.Router, h *handlers.GiftHandler) {
	gifts := router.Group("/gifts")
	gifts.Get("/", h.ListGifts)
	gifts.Post("/send", middleware.HasPermission(models.PermissionGiftSend), h.SendGift)
}

func setupStoryRoutes(router fiber.Router, h *handlers.EntitlementHandler) {
	router.Get("/entitlements", middleware.HasPermission(models.PermissionEntitlementRead), h.ListEntitlements)

	stories := router.Group("/stories")
	stories.Get("/:storyID/entitlement", middleware.HasPermission(models.PermissionEntitlementRead), h.CheckEntitlement)
	stories.Post("/:storyID/unlock", middleware.HasPermission(models.PermissionEntitlementUnlock), h.Unlock)
}

func setupCreatorRoutes(router fiber.Router, earnings *handlers.EarningsHandler, connectHandler *handlers.ConnectHandler) {
	creator := router.Group("/creator")
	creator.Get("/earnings", middleware.HasPermission(models.PermissionEarningsRead), earnings.GetSummary)
	creator.Post("/payouts", middleware.HasPermission(models.PermissionPayoutRequest), earnings.RequestPayout)

	connectGroup := creator.Group("/connect", middleware.HasPermission(models.PermissionConnectManage))
	connectGroup.Post("/onboard", connectHandler.Onboard)
	connectGroup.Get("/status", connectHandler.Status)
}

func setupAdminRoutes(app *fiber.App, authMiddleware *middleware.AuthMiddleware, h *handlers.AdminHandler) {
	admin := app.Group("/api/admin", authMiddleware.Handler, middleware.AdminAuthMiddleware)

	admin.Get("/ledger/audit", middleware.HasPermission(models.PermissionReadAdmin), h.AuditLedger)
	admin.Get("/ledger/balance", middleware.HasPermission(models.PermissionReadAdmin), h.AccountBalance)
	admin.Get("/ledger/entries", middleware.HasPermission(models.PermissionReadAdmin), h.AccountEntries)
	admin.Get("/ledger/transactions/:txID", middleware.HasPermission(models.PermissionReadAdmin), h.TransactionEntries)
	admin.Post("/rates", middleware.HasPermission(models.PermissionWriteAdmin), h.SetRate)
	admin.Post("/story-prices", middleware.HasPermission(models.PermissionWriteAdmin), h.SetStoryPrice)
}
