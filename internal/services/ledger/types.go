package ledger

import (
	"io"
	"time"

	"github.com/shopspring/decimal"

	"bancor/internal/models"
)

// TransferRequest moves Amount from the source to the destination account
// and optionally charges Fee to the source. Both amounts must carry the
// accounts' currency. IdempotencyKey is mandatory and guards the whole
// transfer against re-execution on retries.
type TransferRequest struct {
	SourceAccountID      uint
	DestinationAccountID uint
	Amount               models.Money
	Fee                  models.Money // zero value means no fee
	Description          string
	IdempotencyKey       string
}

// TransferResult is returned to the caller; a replayed request returns the
// originally computed result verbatim, with Replayed set.
type TransferResult struct {
	TransferID              uint            `json:"transfer_id"`
	SourceAccountID         uint            `json:"source_account_id"`
	DestinationAccountID    uint            `json:"destination_account_id"`
	DebitTransactionID      uint            `json:"debit_transaction_id"`
	CreditTransactionID     uint            `json:"credit_transaction_id"`
	FeeTransactionID        *uint           `json:"fee_transaction_id,omitempty"`
	Amount                  decimal.Decimal `json:"amount"`
	FeeAmount               decimal.Decimal `json:"fee_amount"`
	Currency                models.Currency `json:"currency"`
	SourceBalanceAfter      decimal.Decimal `json:"source_balance_after"`
	DestinationBalanceAfter decimal.Decimal `json:"destination_balance_after"`
	Replayed                bool            `json:"replayed"`
}

// DepositRequest posts a single credit movement to one account.
type DepositRequest struct {
	AccountID   uint
	Amount      models.Money
	Description string
}

// WithdrawRequest posts a single debit movement to one account, with an
// optional fee leg.
type WithdrawRequest struct {
	AccountID   uint
	Amount      models.Money
	Fee         models.Money // zero value means no fee
	Description string
}

// OperationResult is the outcome of a single-leg movement.
type OperationResult struct {
	AccountID       uint            `json:"account_id"`
	TransactionID   uint            `json:"transaction_id"`
	ReferenceNumber string          `json:"reference_number"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        models.Currency `json:"currency"`
	BalanceAfter    decimal.Decimal `json:"balance_after"`
}

// ReversalResult is the outcome of reversing a committed transfer.
type ReversalResult struct {
	TransferID              uint            `json:"transfer_id"`
	ReversalDebitID         uint            `json:"reversal_debit_transaction_id"`
	ReversalCreditID        uint            `json:"reversal_credit_transaction_id"`
	SourceBalanceAfter      decimal.Decimal `json:"source_balance_after"`
	DestinationBalanceAfter decimal.Decimal `json:"destination_balance_after"`
}

// Config tunes the orchestrator. Zero values fall back to the defaults in
// NewService; Now and Entropy exist so tests can pin the clock and the
// reference suffixes.
type Config struct {
	Limits            map[models.AccountType]models.AccountLimits
	ReferenceAttempts int
	Now               func() time.Time
	Entropy           io.Reader
}
