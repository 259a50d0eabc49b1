// Package routes wires repositories, services, and handlers onto the
// fiber app.
package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"plata/internal/config"
	"plata/internal/handlers"
	"plata/internal/middleware"
	"plata/internal/repositories"
	"plata/internal/services/auth"
	"plata/internal/services/debin"
	"plata/internal/services/gateway"
	"plata/internal/services/wallet"
)

// SetupRoutes configures all application routes and returns the debin
// confirmation worker for the caller to start and stop.
func SetupRoutes(app *fiber.App, db *gorm.DB) *debin.Worker {
	walletRepo := repositories.NewWalletRepository(db)
	userRepo := repositories.NewUserRepository(db, repositories.CacheService)
	debinRepo := repositories.NewDebinRepository(db)

	gw := buildGateway()
	walletService := wallet.NewService(walletRepo, gw)
	authService := auth.NewService(userRepo, walletService)

	debinService := debin.NewService(debinRepo, walletService, nil)
	worker := debin.NewWorker(debinService, gw, debin.WorkerConfig{
		Delay:       config.GetDurationEnv("DEBIN_CONFIRM_DELAY", 5*time.Second),
		CallTimeout: config.GetDurationEnv("GATEWAY_TIMEOUT", 10*time.Second),
	})
	// Rebuild the service with the worker as its queue; construction
	// order is circular otherwise.
	debinService = debin.NewService(debinRepo, walletService, worker)

	authHandler := handlers.NewAuthHandler(authService)
	walletHandler := handlers.NewWalletHandler(walletService, authService)
	debinHandler := handlers.NewDebinHandler(debinService, walletService)

	app.Get("/health", handlers.Health)

	authRoutes := app.Group("/auth")
	authRoutes.Post("/register", authHandler.Register)
	authRoutes.Post("/login", authHandler.Login)

	authMiddleware := middleware.NewAuthMiddleware(authService)
	wallets := app.Group("/wallets", authMiddleware.Handler)

	wallets.Get("/user", walletHandler.GetWallet)
	wallets.Get("/transactions", walletHandler.GetTransactions)
	wallets.Post("/transactions/p2p", walletHandler.CreateP2P)
	wallets.Post("/transactions/topup", walletHandler.CreateTopUp)
	wallets.Get("/transactions/debin", debinHandler.ListRequests)
	wallets.Post("/transactions/debin", debinHandler.CreateRequest)
	wallets.Post("/:walletId/transactions/debin/:requestId", debinHandler.ConfirmRequest)
	wallets.Get("/:walletId/user", walletHandler.GetWalletOwner)

	return worker
}

// buildGateway picks the external payment gateway from configuration.
// GATEWAY_URL selects the HTTP client; otherwise the simulated provider
// is used with its default accept-everything behavior.
func buildGateway() gateway.Gateway {
	if url := config.GetEnv("GATEWAY_URL", ""); url != "" {
		return gateway.NewHTTPGateway(url, config.GetDurationEnv("GATEWAY_TIMEOUT", 10*time.Second))
	}
	return gateway.NewSimulated(gateway.SimulatedConfig{
		Default: gateway.BehaviorAccept,
		Latency: config.GetDurationEnv("GATEWAY_LATENCY", 500*time.Millisecond),
	})
}
