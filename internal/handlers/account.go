package handlers

import (
	"github.com/gofiber/fiber/v2"

	"bancor/internal/services/ledger"
	"bancor/internal/utils/response"
)

// AccountHandler exposes the account read endpoints.
type AccountHandler struct {
	service ledger.Service
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(s ledger.Service) *AccountHandler { return &AccountHandler{service: s} }

// GetAccount handles GET /accounts/:id requests.
func (h *AccountHandler) GetAccount(c *fiber.Ctx) error {
	accountID, err := c.ParamsInt("id")
	if err != nil || accountID <= 0 {
		return response.BadRequest(c, "invalid account id")
	}

	account, err := h.service.GetAccount(c.Context(), uint(accountID))
	if err != nil {
		return writeServiceError(c, err)
	}
	return response.Success(c, "account retrieved", account)
}

// GetBalance handles GET /accounts/:id/balance requests.
func (h *AccountHandler) GetBalance(c *fiber.Ctx) error {
	accountID, err := c.ParamsInt("id")
	if err != nil || accountID <= 0 {
		return response.BadRequest(c, "invalid account id")
	}

	balance, err := h.service.GetBalance(c.Context(), uint(accountID))
	if err != nil {
		return writeServiceError(c, err)
	}
	return response.Success(c, "balance retrieved", fiber.Map{
		"account_id": accountID,
		"balance":    balance.Amount(),
		"currency":   balance.Currency(),
	})
}
