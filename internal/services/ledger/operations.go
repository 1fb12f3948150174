package ledger

import (
	"context"
	"errors"
	"log"

	apperrors "bancor/internal/errors"
	"bancor/internal/models"
	"bancor/internal/repositories"
)

// Deposit posts a single credit movement under the deposit velocity limits.
func (s *service) Deposit(ctx context.Context, req DepositRequest) (*OperationResult, error) {
	if !req.Amount.IsPositive() {
		return nil, apperrors.ErrInvalidAmount
	}

	var result *OperationResult
	err := s.repo.ExecuteInTransaction(func(tx repositories.LedgerRepository) error {
		account, err := s.lockAccount(ctx, tx, req.AccountID)
		if err != nil {
			return err
		}
		if req.Amount.Currency() != account.Currency {
			return apperrors.ErrCurrencyMismatch
		}
		if err := s.checkVelocityLimits(ctx, tx, account, models.TransactionTypeDeposit, req.Amount.Amount()); err != nil {
			return err
		}

		if err := account.Credit(req.Amount); err != nil {
			return err
		}
		if err := tx.UpdateAccount(ctx, account); err != nil {
			return err
		}

		txn, err := s.completeMovement(ctx, tx, account, models.TransactionTypeDeposit, req.Amount, req.Description)
		if err != nil {
			return err
		}

		result = &OperationResult{
			AccountID:       account.ID,
			TransactionID:   txn.ID,
			ReferenceNumber: txn.ReferenceNumber,
			Amount:          txn.Amount,
			Currency:        txn.Currency,
			BalanceAfter:    txn.BalanceAfter,
		}
		return nil
	})
	if err != nil {
		return nil, s.fail("deposit", err)
	}

	if err := s.cache.InvalidateAccounts(ctx, req.AccountID); err != nil {
		log.Printf("failed to invalidate account cache: %v", err)
	}
	s.metrics.RecordTransaction("deposit", req.Amount.Amount())

	return result, nil
}

// Withdraw posts a single debit movement under the withdrawal velocity
// limits, with an optional fee leg also debited from the account.
func (s *service) Withdraw(ctx context.Context, req WithdrawRequest) (*OperationResult, error) {
	if !req.Amount.IsPositive() {
		return nil, apperrors.ErrInvalidAmount
	}
	if req.Fee.IsNegative() {
		return nil, apperrors.ErrInvalidAmount
	}

	var result *OperationResult
	err := s.repo.ExecuteInTransaction(func(tx repositories.LedgerRepository) error {
		account, err := s.lockAccount(ctx, tx, req.AccountID)
		if err != nil {
			return err
		}
		if req.Amount.Currency() != account.Currency {
			return apperrors.ErrCurrencyMismatch
		}

		total := req.Amount
		if req.Fee.IsPositive() {
			if total, err = req.Amount.Add(req.Fee); err != nil {
				return err
			}
		}

		if err := s.checkVelocityLimits(ctx, tx, account, models.TransactionTypeWithdrawal, req.Amount.Amount()); err != nil {
			return err
		}

		if err := account.Debit(total); err != nil {
			return err
		}
		if err := tx.UpdateAccount(ctx, account); err != nil {
			return err
		}

		txn, err := s.completeMovement(ctx, tx, account, models.TransactionTypeWithdrawal, req.Amount, req.Description)
		if err != nil {
			return err
		}
		if req.Fee.IsPositive() {
			if _, err := s.completeMovement(ctx, tx, account, models.TransactionTypeFee, req.Fee, "Withdrawal fee"); err != nil {
				return err
			}
		}

		result = &OperationResult{
			AccountID:       account.ID,
			TransactionID:   txn.ID,
			ReferenceNumber: txn.ReferenceNumber,
			Amount:          txn.Amount,
			Currency:        txn.Currency,
			BalanceAfter:    account.Balance,
		}
		return nil
	})
	if err != nil {
		return nil, s.fail("withdrawal", err)
	}

	if err := s.cache.InvalidateAccounts(ctx, req.AccountID); err != nil {
		log.Printf("failed to invalidate account cache: %v", err)
	}
	s.metrics.RecordTransaction("withdrawal", req.Amount.Amount())

	return result, nil
}

// lockAccount row-locks a single account and checks it can move funds.
func (s *service) lockAccount(ctx context.Context, tx repositories.LedgerRepository, id uint) (*models.Account, error) {
	accounts, err := tx.LockAccounts(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrAccountNotFound) {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, err
	}
	account := accounts[0]
	if !account.IsActive() {
		return nil, apperrors.ErrAccountInactive
	}
	return account, nil
}

// completeMovement creates a PENDING movement and completes it in place.
func (s *service) completeMovement(ctx context.Context, tx repositories.LedgerRepository, account *models.Account, txType models.TransactionType, amount models.Money, description string) (*models.Transaction, error) {
	txn, err := s.createTransaction(ctx, tx, account, txType, amount, description, nil, s.now().UTC())
	if err != nil {
		return nil, err
	}
	if err := txn.MarkCompleted(); err != nil {
		return nil, err
	}
	if err := tx.UpdateTransaction(ctx, txn); err != nil {
		return nil, err
	}
	return txn, nil
}
