package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	apperrors "bancor/internal/errors"
	"bancor/internal/models"
	"bancor/internal/services/ledger"
	"bancor/internal/utils/response"
)

// LedgerHandler exposes the money-movement endpoints.
type LedgerHandler struct {
	service ledger.Service
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(s ledger.Service) *LedgerHandler { return &LedgerHandler{service: s} }

// Transfer handles POST /transfers requests. The idempotency key is read
// from the Idempotency-Key header, with a body field as fallback.
func (h *LedgerHandler) Transfer(c *fiber.Ctx) error {
	var req struct {
		SourceAccountID      uint   `json:"source_account_id"`
		DestinationAccountID uint   `json:"destination_account_id"`
		Amount               string `json:"amount"`
		Currency             string `json:"currency"`
		Fee                  string `json:"fee"`
		Description          string `json:"description"`
		IdempotencyKey       string `json:"idempotency_key"`
	}
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	key := c.Get("Idempotency-Key")
	if key == "" {
		key = req.IdempotencyKey
	}

	amount, err := parseMoney(req.Amount, req.Currency)
	if err != nil {
		return writeServiceError(c, err)
	}
	fee := models.Money{}
	if req.Fee != "" {
		if fee, err = parseMoney(req.Fee, req.Currency); err != nil {
			return writeServiceError(c, err)
		}
	}

	result, err := h.service.Transfer(c.Context(), ledger.TransferRequest{
		SourceAccountID:      req.SourceAccountID,
		DestinationAccountID: req.DestinationAccountID,
		Amount:               amount,
		Fee:                  fee,
		Description:          req.Description,
		IdempotencyKey:       key,
	})
	if err != nil {
		return writeServiceError(c, err)
	}
	if result.Replayed {
		return response.Success(c, "transfer already processed", result)
	}
	return response.Created(c, "transfer completed", result)
}

// Deposit handles POST /accounts/:id/deposits requests.
func (h *LedgerHandler) Deposit(c *fiber.Ctx) error {
	accountID, err := c.ParamsInt("id")
	if err != nil || accountID <= 0 {
		return response.BadRequest(c, "invalid account id")
	}

	var req struct {
		Amount      string `json:"amount"`
		Currency    string `json:"currency"`
		Description string `json:"description"`
	}
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	amount, err := parseMoney(req.Amount, req.Currency)
	if err != nil {
		return writeServiceError(c, err)
	}

	result, err := h.service.Deposit(c.Context(), ledger.DepositRequest{
		AccountID:   uint(accountID),
		Amount:      amount,
		Description: req.Description,
	})
	if err != nil {
		return writeServiceError(c, err)
	}
	return response.Created(c, "deposit completed", result)
}

// Withdraw handles POST /accounts/:id/withdrawals requests.
func (h *LedgerHandler) Withdraw(c *fiber.Ctx) error {
	accountID, err := c.ParamsInt("id")
	if err != nil || accountID <= 0 {
		return response.BadRequest(c, "invalid account id")
	}

	var req struct {
		Amount      string `json:"amount"`
		Currency    string `json:"currency"`
		Fee         string `json:"fee"`
		Description string `json:"description"`
	}
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	amount, err := parseMoney(req.Amount, req.Currency)
	if err != nil {
		return writeServiceError(c, err)
	}
	fee := models.Money{}
	if req.Fee != "" {
		if fee, err = parseMoney(req.Fee, req.Currency); err != nil {
			return writeServiceError(c, err)
		}
	}

	result, err := h.service.Withdraw(c.Context(), ledger.WithdrawRequest{
		AccountID:   uint(accountID),
		Amount:      amount,
		Fee:         fee,
		Description: req.Description,
	})
	if err != nil {
		return writeServiceError(c, err)
	}
	return response.Created(c, "withdrawal completed", result)
}

// Reverse handles POST /transfers/:id/reversal requests.
func (h *LedgerHandler) Reverse(c *fiber.Ctx) error {
	transferID, err := c.ParamsInt("id")
	if err != nil || transferID <= 0 {
		return response.BadRequest(c, "invalid transfer id")
	}

	var req struct {
		Reason string `json:"reason"`
	}
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return response.BadRequest(c, "invalid request body")
	}

	result, err := h.service.ReverseTransfer(c.Context(), uint(transferID), req.Reason)
	if err != nil {
		return writeServiceError(c, err)
	}
	return response.Success(c, "transfer reversed", result)
}

func parseMoney(amount, currency string) (models.Money, error) {
	cur, err := models.ParseCurrency(currency)
	if err != nil {
		return models.Money{}, err
	}
	m, err := models.NewMoneyFromString(amount, cur)
	if err != nil {
		return models.Money{}, apperrors.ErrInvalidAmount
	}
	return m, nil
}

// writeServiceError maps ledger errors to HTTP statuses. Velocity-limit
// rejections get 422 so clients can distinguish them from malformed input.
func writeServiceError(c *fiber.Ctx, err error) error {
	var limitErr *apperrors.LimitExceededError
	if errors.As(err, &limitErr) {
		return response.DomainError(c, fiber.StatusUnprocessableEntity, limitErr.Code, limitErr.Error())
	}

	var domainErr *apperrors.DomainError
	if errors.As(err, &domainErr) {
		status := fiber.StatusBadRequest
		switch domainErr {
		case apperrors.ErrAccountNotFound, apperrors.ErrTransferNotFound:
			status = fiber.StatusNotFound
		case apperrors.ErrAccountInactive, apperrors.ErrIllegalTransactionState:
			status = fiber.StatusConflict
		case apperrors.ErrTransferFailed:
			status = fiber.StatusInternalServerError
		}
		return response.DomainError(c, status, domainErr.Code, domainErr.Message)
	}

	return response.ServerError(c, "internal server error")
}
