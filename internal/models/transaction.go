package models

import (
	"time"

	"github.com/shopspring/decimal"

	"bancor/internal/errors"
)

// Transaction types
type TransactionType string

const (
	TransactionTypeDeposit     TransactionType = "DEPOSIT"
	TransactionTypeWithdrawal  TransactionType = "WITHDRAWAL"
	TransactionTypeTransferOut TransactionType = "TRANSFER_OUT"
	TransactionTypeTransferIn  TransactionType = "TRANSFER_IN"
	TransactionTypeFee         TransactionType = "FEE"
	TransactionTypeInterest    TransactionType = "INTEREST"
	TransactionTypeReversal    TransactionType = "REVERSAL"
)

// Transaction statuses. PENDING is the initial state; COMPLETED and FAILED
// are terminal except that COMPLETED may still transition to REVERSED.
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "PENDING"
	TransactionStatusCompleted TransactionStatus = "COMPLETED"
	TransactionStatusFailed    TransactionStatus = "FAILED"
	TransactionStatusReversed  TransactionStatus = "REVERSED"
)

// Transaction is a single ledger movement against exactly one account.
// BalanceAfter snapshots the account balance immediately after the movement
// was applied. The row is append-mostly: other than the status transitions
// below it is never mutated.
type Transaction struct {
	ID              uint            `gorm:"primarykey"`
	AccountID       uint            `gorm:"index;not null"`
	Type            TransactionType `gorm:"not null"`
	Amount          decimal.Decimal `gorm:"type:numeric(19,2);not null"`
	Currency        Currency        `gorm:"not null"`
	BalanceAfter    decimal.Decimal `gorm:"type:numeric(19,2);not null"`
	Description     string
	ReferenceNumber string            `gorm:"uniqueIndex;not null"`
	IdempotencyKey  *string           `gorm:"index"`
	Status          TransactionStatus `gorm:"not null;default:'PENDING'"`
	ExecutedAt      time.Time         `gorm:"index"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// MarkCompleted transitions PENDING -> COMPLETED.
func (t *Transaction) MarkCompleted() error {
	if t.Status != TransactionStatusPending {
		return errors.ErrIllegalTransactionState
	}
	t.Status = TransactionStatusCompleted
	return nil
}

// MarkFailed transitions PENDING -> FAILED.
func (t *Transaction) MarkFailed() error {
	if t.Status != TransactionStatusPending {
		return errors.ErrIllegalTransactionState
	}
	t.Status = TransactionStatusFailed
	return nil
}

// Reverse transitions COMPLETED -> REVERSED. There is no transition out of
// FAILED or REVERSED, so a second reversal of the same movement fails here.
func (t *Transaction) Reverse() error {
	if t.Status != TransactionStatusCompleted {
		return errors.ErrIllegalTransactionState
	}
	t.Status = TransactionStatusReversed
	return nil
}

// AmountMoney returns the movement amount as a currency-tagged value.
func (t *Transaction) AmountMoney() Money {
	return Money{amount: t.Amount, currency: t.Currency}
}
