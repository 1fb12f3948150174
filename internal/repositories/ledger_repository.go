// Package repositories provides the data access layer for the ledger.
package repositories

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"bancor/internal/models"
)

// LedgerRepository is the persistence port consumed by the transfer
// orchestrator. ExecuteInTransaction is the explicit unit of work: it runs
// fn against a repository bound to a single database transaction, and every
// write fn performs either commits as a whole or rolls back as a whole.
type LedgerRepository interface {
	// GetAccountByID loads an account without locking it.
	GetAccountByID(ctx context.Context, id uint) (*models.Account, error)
	// LockAccounts loads and row-locks the given accounts in ascending id
	// order regardless of argument order, so two transfers touching the
	// same pair in opposite roles cannot deadlock. Only meaningful inside
	// ExecuteInTransaction.
	LockAccounts(ctx context.Context, ids ...uint) ([]*models.Account, error)
	UpdateAccount(ctx context.Context, account *models.Account) error

	CreateTransaction(ctx context.Context, txn *models.Transaction) error
	UpdateTransaction(ctx context.Context, txn *models.Transaction) error
	GetTransactionByID(ctx context.Context, id uint) (*models.Transaction, error)
	// ReferenceNumberExists probes the uniqueness of a freshly generated
	// reference number before it is committed.
	ReferenceNumberExists(ctx context.Context, ref string) (bool, error)
	// SumCompletedAmountSince aggregates the committed volume of one
	// movement type for an account from since onward. Computed from the
	// transaction history, never from in-memory state.
	SumCompletedAmountSince(ctx context.Context, accountID uint, txType models.TransactionType, since time.Time) (decimal.Decimal, error)

	CreateTransfer(ctx context.Context, transfer *models.Transfer) error
	GetTransferByID(ctx context.Context, id uint) (*models.Transfer, error)
	GetTransferByIdempotencyKey(ctx context.Context, key string) (*models.Transfer, error)

	ExecuteInTransaction(fn func(LedgerRepository) error) error
}
