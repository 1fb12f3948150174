package handlers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"bancor/internal/repositories/cache"
)

// HealthCheck reports the status of the database and the account cache.
func HealthCheck(db *gorm.DB, accountCache *cache.AccountCache) fiber.Handler {
	return func(c *fiber.Ctx) error {
		services := fiber.Map{
			"database": "connected",
			"redis":    "disabled",
		}
		status := "ok"

		if sqlDB, err := db.DB(); err != nil || sqlDB.Ping() != nil {
			services["database"] = "unreachable"
			status = "degraded"
		}
		if accountCache != nil {
			services["redis"] = "connected"
			if err := accountCache.HealthCheck(c.Context()); err != nil {
				services["redis"] = "unreachable"
				status = "degraded"
			}
		}

		code := fiber.StatusOK
		if status != "ok" {
			code = fiber.StatusServiceUnavailable
		}
		return c.Status(code).JSON(fiber.Map{
			"status":   status,
			"services": services,
		})
	}
}
