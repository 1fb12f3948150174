package models

import "github.com/shopspring/decimal"

// AccountType distinguishes the limit profile an account is subject to.
type AccountType string

const (
	AccountTypeChecking AccountType = "CHECKING"
	AccountTypeSavings  AccountType = "SAVINGS"
)

// AccountLimits holds the daily and monthly ceilings on accumulated
// deposit, withdrawal and transfer volume for one account type.
type AccountLimits struct {
	DailyDepositLimit      decimal.Decimal
	MonthlyDepositLimit    decimal.Decimal
	DailyWithdrawalLimit   decimal.Decimal
	MonthlyWithdrawalLimit decimal.Decimal
	DailyTransferLimit     decimal.Decimal
	MonthlyTransferLimit   decimal.Decimal
}

// DefaultLimits is the fixed per-type limit table. One row per account type.
var DefaultLimits = map[AccountType]AccountLimits{
	AccountTypeChecking: {
		DailyDepositLimit:      decimal.NewFromInt(1_000_000),
		MonthlyDepositLimit:    decimal.NewFromInt(10_000_000),
		DailyWithdrawalLimit:   decimal.NewFromInt(500_000),
		MonthlyWithdrawalLimit: decimal.NewFromInt(5_000_000),
		DailyTransferLimit:     decimal.NewFromInt(500_000),
		MonthlyTransferLimit:   decimal.NewFromInt(5_000_000),
	},
	AccountTypeSavings: {
		DailyDepositLimit:      decimal.NewFromInt(1_000_000),
		MonthlyDepositLimit:    decimal.NewFromInt(10_000_000),
		DailyWithdrawalLimit:   decimal.NewFromInt(250_000),
		MonthlyWithdrawalLimit: decimal.NewFromInt(2_500_000),
		DailyTransferLimit:     decimal.NewFromInt(250_000),
		MonthlyTransferLimit:   decimal.NewFromInt(2_500_000),
	},
}

// LimitsForType resolves the limit row for an account type, falling back to
// the checking profile for unknown types.
func LimitsForType(t AccountType) AccountLimits {
	if limits, ok := DefaultLimits[t]; ok {
		return limits
	}
	return DefaultLimits[AccountTypeChecking]
}
