package ledger

import (
	"context"

	"bancor/internal/models"
)

// Service is the ledger orchestration API. Transfer is the double-entry
// core; Deposit and Withdraw post single-leg movements under the same
// discipline.
type Service interface {
	Transfer(ctx context.Context, req TransferRequest) (*TransferResult, error)
	Deposit(ctx context.Context, req DepositRequest) (*OperationResult, error)
	Withdraw(ctx context.Context, req WithdrawRequest) (*OperationResult, error)
	ReverseTransfer(ctx context.Context, transferID uint, reason string) (*ReversalResult, error)

	GetAccount(ctx context.Context, accountID uint) (*models.Account, error)
	GetBalance(ctx context.Context, accountID uint) (models.Money, error)
}

// AccountCache is the read-path cache consumed by the service. Mutating
// operations invalidate entries after commit.
type AccountCache interface {
	GetAccount(ctx context.Context, id uint) (*models.Account, error)
	SetAccount(ctx context.Context, account *models.Account) error
	InvalidateAccounts(ctx context.Context, ids ...uint) error
}
