package models

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"bancor/internal/errors"
)

func TestTransaction_StateMachine(t *testing.T) {
	tests := []struct {
		name    string
		from    TransactionStatus
		apply   func(*Transaction) error
		want    TransactionStatus
		wantErr bool
	}{
		{name: "pending to completed", from: TransactionStatusPending, apply: (*Transaction).MarkCompleted, want: TransactionStatusCompleted},
		{name: "pending to failed", from: TransactionStatusPending, apply: (*Transaction).MarkFailed, want: TransactionStatusFailed},
		{name: "completed to reversed", from: TransactionStatusCompleted, apply: (*Transaction).Reverse, want: TransactionStatusReversed},
		{name: "completed cannot complete again", from: TransactionStatusCompleted, apply: (*Transaction).MarkCompleted, wantErr: true},
		{name: "failed cannot complete", from: TransactionStatusFailed, apply: (*Transaction).MarkCompleted, wantErr: true},
		{name: "completed cannot fail", from: TransactionStatusCompleted, apply: (*Transaction).MarkFailed, wantErr: true},
		{name: "reversed cannot fail", from: TransactionStatusReversed, apply: (*Transaction).MarkFailed, wantErr: true},
		{name: "pending cannot reverse", from: TransactionStatusPending, apply: (*Transaction).Reverse, wantErr: true},
		{name: "failed cannot reverse", from: TransactionStatusFailed, apply: (*Transaction).Reverse, wantErr: true},
		{name: "reversed cannot reverse again", from: TransactionStatusReversed, apply: (*Transaction).Reverse, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txn := &Transaction{Status: tt.from}
			err := tt.apply(txn)
			if tt.wantErr {
				assert.ErrorIs(t, err, errors.ErrIllegalTransactionState)
				// state must be untouched on an illegal transition
				assert.Equal(t, tt.from, txn.Status)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, txn.Status)
		})
	}
}
