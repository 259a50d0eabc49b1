// Command seed creates a demo user with a wallet for local development.
package main

import (
	"context"
	"log"
	"os"

	"plata/internal/config"
	"plata/internal/repositories"
	"plata/internal/services/auth"
	"plata/internal/services/gateway"
	"plata/internal/services/wallet"
)

func main() {
	config.LoadEnv()

	email := os.Getenv("SEED_EMAIL")
	username := os.Getenv("SEED_USERNAME")
	password := os.Getenv("SEED_PASSWORD")
	if email == "" || username == "" || password == "" {
		log.Fatal("SEED_EMAIL, SEED_USERNAME, and SEED_PASSWORD must be set in environment")
	}

	if err := repositories.InitDB(); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer func() {
		if repositories.DB != nil {
			sqlDB, err := repositories.DB.DB()
			if err != nil {
				log.Printf("Failed to get SQL DB instance: %v", err)
			} else if err := sqlDB.Close(); err != nil {
				log.Printf("Failed to close PostgreSQL connection: %v", err)
			}
		}
		if repositories.CacheService != nil {
			if err := repositories.CacheService.Close(); err != nil {
				log.Printf("Failed to close Redis connection: %v", err)
			}
		}
	}()

	userRepo := repositories.NewUserRepository(repositories.DB, repositories.CacheService)
	walletRepo := repositories.NewWalletRepository(repositories.DB)
	walletService := wallet.NewService(walletRepo, gateway.NewSimulated(gateway.SimulatedConfig{
		Default: gateway.BehaviorAccept,
	}))
	authService := auth.NewService(userRepo, walletService)

	if _, err := userRepo.GetByEmail(email); err == nil {
		log.Println("Seed user already exists")
		return
	}

	user, err := authService.Register(context.Background(), auth.RegisterRequest{
		Email:    email,
		Username: username,
		Password: password,
	})
	if err != nil {
		log.Fatal("Failed to create seed user:", err)
	}

	log.Printf("Seed user %s created with an empty wallet", user.Username)
}
