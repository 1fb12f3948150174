package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transfer links exactly one debit and one credit Transaction (plus an
// optional fee Transaction) under a single client-supplied idempotency key.
// The unique index on IdempotencyKey is the source of truth for the
// exactly-once contract: a second request with the same key must never
// create a second row. Created once at the end of a successful
// orchestration, immutable thereafter.
type Transfer struct {
	ID                   uint            `gorm:"primarykey"`
	SourceAccountID      uint            `gorm:"index;not null"`
	DestinationAccountID uint            `gorm:"index;not null"`
	DebitTransactionID   uint            `gorm:"not null"`
	CreditTransactionID  uint            `gorm:"not null"`
	FeeTransactionID     *uint
	Amount               decimal.Decimal `gorm:"type:numeric(19,2);not null"`
	Currency             Currency        `gorm:"not null"`
	FeeAmount            decimal.Decimal `gorm:"type:numeric(19,2);not null;default:0"`
	IdempotencyKey       string          `gorm:"uniqueIndex;not null"`
	ExecutedAt           time.Time
	CreatedAt            time.Time
}

// HasFee reports whether a fee leg was charged with this transfer.
func (t *Transfer) HasFee() bool {
	return t.FeeTransactionID != nil && t.FeeAmount.IsPositive()
}
