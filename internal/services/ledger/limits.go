package ledger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	apperrors "bancor/internal/errors"
	"bancor/internal/models"
	"bancor/internal/repositories"
)

// startOfDay returns midnight UTC of t's day.
func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// startOfMonth returns midnight UTC of the first day of t's month.
func startOfMonth(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func (s *service) limitsFor(t models.AccountType) models.AccountLimits {
	if limits, ok := s.limits[t]; ok {
		return limits
	}
	return models.LimitsForType(t)
}

// windowCeilings resolves the daily and monthly ceilings for one movement
// type.
func windowCeilings(limits models.AccountLimits, txType models.TransactionType) (daily, monthly decimal.Decimal) {
	switch txType {
	case models.TransactionTypeDeposit:
		return limits.DailyDepositLimit, limits.MonthlyDepositLimit
	case models.TransactionTypeWithdrawal:
		return limits.DailyWithdrawalLimit, limits.MonthlyWithdrawalLimit
	default:
		return limits.DailyTransferLimit, limits.MonthlyTransferLimit
	}
}

// checkVelocityLimits rejects the movement when the account's accumulated
// completed volume for the current UTC day or month, plus the attempted
// amount, would exceed the per-type ceiling. Aggregates come from committed
// transaction history so they hold across restarts and concurrent
// orchestrations.
func (s *service) checkVelocityLimits(ctx context.Context, repo repositories.LedgerRepository, account *models.Account, txType models.TransactionType, amount decimal.Decimal) error {
	dailyLimit, monthlyLimit := windowCeilings(s.limitsFor(account.Type), txType)
	now := s.now().UTC()

	daily, err := repo.SumCompletedAmountSince(ctx, account.ID, txType, startOfDay(now))
	if err != nil {
		return err
	}
	if daily.Add(amount).GreaterThan(dailyLimit) {
		return &apperrors.LimitExceededError{
			Code:        apperrors.CodeDailyLimitExceeded,
			Window:      "daily",
			Limit:       dailyLimit,
			Accumulated: daily,
			Attempted:   amount,
		}
	}

	monthly, err := repo.SumCompletedAmountSince(ctx, account.ID, txType, startOfMonth(now))
	if err != nil {
		return err
	}
	if monthly.Add(amount).GreaterThan(monthlyLimit) {
		return &apperrors.LimitExceededError{
			Code:        apperrors.CodeMonthlyLimitExceeded,
			Window:      "monthly",
			Limit:       monthlyLimit,
			Accumulated: monthly,
			Attempted:   amount,
		}
	}

	return nil
}
