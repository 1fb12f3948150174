// Package errors defines the typed domain errors surfaced by the ledger core.
package errors

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// DomainError is a business-rule violation surfaced to the caller.
// It is never retried automatically.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string { return e.Message }

// Limit window codes.
const (
	CodeDailyLimitExceeded   = "DAILY_LIMIT_EXCEEDED"
	CodeMonthlyLimitExceeded = "MONTHLY_LIMIT_EXCEEDED"
)

// LimitExceededError reports a velocity-limit rejection with enough detail
// for the caller to explain it: the ceiling, the volume already accumulated
// in the window, and the amount that was attempted.
type LimitExceededError struct {
	Code        string
	Window      string // "daily" or "monthly"
	Limit       decimal.Decimal
	Accumulated decimal.Decimal
	Attempted   decimal.Decimal
}

func (e *LimitExceededError) Error() string {
	return fmt.Sprintf("%s limit exceeded: limit %s, accumulated %s, attempted %s",
		e.Window, e.Limit.StringFixed(2), e.Accumulated.StringFixed(2), e.Attempted.StringFixed(2))
}
