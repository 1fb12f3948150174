package ledger

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"bancor/internal/models"
)

// MetricsCollector receives operational signals from the orchestrator.
type MetricsCollector interface {
	RecordTransaction(txType string, amount decimal.Decimal)
	RecordError(operation, errType string)
	RecordIdempotentReplay(operation string)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordTransaction(string, decimal.Decimal) {}
func (NoopMetricsCollector) RecordError(string, string)                {}
func (NoopMetricsCollector) RecordIdempotentReplay(string)             {}

var errCacheDisabled = errors.New("cache disabled")

// noopCache satisfies AccountCache when no redis is wired.
type noopCache struct{}

func (noopCache) GetAccount(context.Context, uint) (*models.Account, error) {
	return nil, errCacheDisabled
}
func (noopCache) SetAccount(context.Context, *models.Account) error      { return nil }
func (noopCache) InvalidateAccounts(context.Context, ...uint) error      { return nil }
