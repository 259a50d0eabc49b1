// Package main is the entry point for the wallet API server.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/sirupsen/logrus"

	"plata/internal/config"
	"plata/internal/repositories"
	"plata/internal/routes"
)

func main() {
	config.LoadEnv()

	logrus.SetFormatter(&logrus.JSONFormatter{})
	if !config.IsProduction() {
		logrus.SetLevel(logrus.DebugLevel)
	}

	if err := repositories.InitDB(); err != nil {
		logrus.WithError(err).Fatal("failed to initialize database")
	}

	sqlDB, err := repositories.DB.DB()
	if err != nil {
		logrus.WithError(err).Fatal("failed to get database instance")
	}
	if err := sqlDB.Ping(); err != nil {
		logrus.WithError(err).Fatal("failed to ping database")
	}

	if repositories.CacheService != nil {
		if err := repositories.CacheService.HealthCheck(context.Background()); err != nil {
			logrus.WithError(err).Warn("redis unreachable, identity caching disabled behavior degraded")
		}
	}

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: config.GetEnv("CORS_ORIGINS", "http://localhost:5173"),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
	}))
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use("/auth", limiter.New(limiter.Config{
		Max:        config.GetIntEnv("AUTH_RATE_LIMIT", 10),
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests. Please try again later.",
			})
		},
	}))

	worker := routes.SetupRoutes(app, repositories.DB)
	worker.Start()

	go func() {
		if err := app.Listen(":" + config.GetEnv("PORT", "8080")); err != nil {
			logrus.WithError(err).Fatal("server stopped")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logrus.Info("shutting down")
	worker.Stop()
	if err := app.Shutdown(); err != nil {
		logrus.WithError(err).Error("server shutdown failed")
	}
	if err := sqlDB.Close(); err != nil {
		logrus.WithError(err).Error("failed to close database connection")
	}
	if repositories.CacheService != nil {
		if err := repositories.CacheService.Close(); err != nil {
			logrus.WithError(err).Error("failed to close redis connection")
		}
	}
}
