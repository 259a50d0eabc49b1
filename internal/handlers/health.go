package handlers

import (
	"github.com/gofiber/fiber/v2"

	"plata/internal/repositories"
	"plata/internal/utils"
)

// Health reports liveness of the service and its backing stores.
func Health(c *fiber.Ctx) error {
	status := fiber.Map{"status": "ok"}

	if repositories.DB != nil {
		if sqlDB, err := repositories.DB.DB(); err != nil || sqlDB.Ping() != nil {
			status["database"] = "down"
			status["status"] = "degraded"
		} else {
			status["database"] = "up"
		}
	}

	if repositories.CacheService != nil {
		if err := repositories.CacheService.HealthCheck(c.Context()); err != nil {
			status["cache"] = "down"
			status["status"] = "degraded"
		} else {
			status["cache"] = "up"
		}
	}

	return utils.Success(c, status)
}
