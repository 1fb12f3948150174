package models

import (
	"time"

	"github.com/shopspring/decimal"

	"bancor/internal/errors"
)

// Account statuses
type AccountStatus string

const (
	AccountStatusActive  AccountStatus = "ACTIVE"
	AccountStatusBlocked AccountStatus = "BLOCKED"
	AccountStatusClosed  AccountStatus = "CLOSED"
)

// Account is the balance-bearing aggregate. Its currency is fixed for life;
// the balance is only ever mutated through Debit/Credit inside the
// orchestrator's unit of work. AvailableBalance is kept in lockstep with
// Balance until a hold mechanism diverges them.
type Account struct {
	ID               uint            `gorm:"primarykey"`
	CustomerID       uint            `gorm:"index;not null"`
	Number           string          `gorm:"uniqueIndex;not null"`
	Alias            string          `gorm:"index"`
	Type             AccountType     `gorm:"not null;default:'CHECKING'"`
	Currency         Currency        `gorm:"not null"`
	Balance          decimal.Decimal `gorm:"type:numeric(19,2);not null"`
	AvailableBalance decimal.Decimal `gorm:"type:numeric(19,2);not null"`
	Status           AccountStatus   `gorm:"not null;default:'ACTIVE'"`
	OpenedAt         time.Time
	ClosedAt         *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Credit adds amount to the balance. The currency must match the account's.
func (a *Account) Credit(amount Money) error {
	if amount.Currency() != a.Currency {
		return errors.ErrCurrencyMismatch
	}
	a.Balance = a.Balance.Add(amount.Amount())
	a.AvailableBalance = a.AvailableBalance.Add(amount.Amount())
	return nil
}

// Debit subtracts amount from the balance. The currency must match the
// account's. No balance floor is enforced here; velocity limits are the
// orchestrator's responsibility.
func (a *Account) Debit(amount Money) error {
	if amount.Currency() != a.Currency {
		return errors.ErrCurrencyMismatch
	}
	a.Balance = a.Balance.Sub(amount.Amount())
	a.AvailableBalance = a.AvailableBalance.Sub(amount.Amount())
	return nil
}

func (a *Account) IsActive() bool {
	return a.Status == AccountStatusActive
}

// BalanceMoney returns the current balance as a currency-tagged value.
func (a *Account) BalanceMoney() Money {
	return Money{amount: a.Balance, currency: a.Currency}
}
