// Package events defines the ledger's outbound event port.
package events

import (
	"time"

	"github.com/shopspring/decimal"
)

// Topics
const (
	TopicTransferCompleted = "ledger.transfer.completed"
	TopicTransferReversed  = "ledger.transfer.reversed"
)

// Publisher delivers ledger events to downstream consumers. Publishing
// happens after commit and is best-effort: the ledger never fails a
// committed transfer because a consumer could not be notified.
type Publisher interface {
	Publish(topic string, event any) error
}

// TransferCompleted is emitted once per committed transfer.
type TransferCompleted struct {
	EventID              string          `json:"event_id"`
	TransferID           uint            `json:"transfer_id"`
	SourceAccountID      uint            `json:"source_account_id"`
	DestinationAccountID uint            `json:"destination_account_id"`
	Amount               decimal.Decimal `json:"amount"`
	FeeAmount            decimal.Decimal `json:"fee_amount"`
	Currency             string          `json:"currency"`
	OccurredAt           time.Time       `json:"occurred_at"`
}

// TransferReversed is emitted once per committed reversal.
type TransferReversed struct {
	EventID    string    `json:"event_id"`
	TransferID uint      `json:"transfer_id"`
	Reason     string    `json:"reason"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NoopPublisher drops every event. Used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(string, any) error { return nil }
