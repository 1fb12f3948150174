// Package routes defines the API routing configuration.
// It wires the repositories, cache, event publisher and ledger service
// together and maps the HTTP surface onto them.
package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"bancor/internal/events"
	"bancor/internal/handlers"
	"bancor/internal/repositories"
	"bancor/internal/repositories/cache"
	"bancor/internal/services/ledger"
)

// SetupRoutes configures all application routes. accountCache and publisher
// may be nil; the service falls back to its no-op implementations.
func SetupRoutes(app *fiber.App, db *gorm.DB, accountCache *cache.AccountCache, publisher events.Publisher) {
	repo := repositories.NewLedgerRepository(db)

	var svcCache ledger.AccountCache
	if accountCache != nil {
		svcCache = accountCache
	}

	ledgerService := ledger.NewService(repo, svcCache, publisher, ledger.Config{}, nil)

	ledgerHandler := handlers.NewLedgerHandler(ledgerService)
	accountHandler := handlers.NewAccountHandler(ledgerService)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Bancor ledger API",
			"docs":    "/api/v1",
		})
	})

	api := app.Group("/api/v1")
	api.Get("/health", handlers.HealthCheck(db, accountCache))

	accounts := api.Group("/accounts")
	accounts.Get("/:id", accountHandler.GetAccount)
	accounts.Get("/:id/balance", accountHandler.GetBalance)
	accounts.Post("/:id/deposits", ledgerHandler.Deposit)
	accounts.Post("/:id/withdrawals", ledgerHandler.Withdraw)

	transfers := api.Group("/transfers")
	transfers.Post("/", ledgerHandler.Transfer)
	transfers.Post("/:id/reversal", ledgerHandler.Reverse)
}
