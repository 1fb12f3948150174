package ledger

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"

	apperrors "bancor/internal/errors"
	"bancor/internal/events"
	"bancor/internal/models"
	"bancor/internal/repositories"
)

// ReverseTransfer undoes a committed transfer: the original debit and
// credit transactions move COMPLETED -> REVERSED and an inverse REVERSAL
// pair is posted, all inside one unit of work. Because REVERSED is
// terminal, reversing the same transfer twice fails on the state machine.
// Velocity limits are not re-checked on reversal; a reversal restores
// balances rather than consuming the account's allowance.
func (s *service) ReverseTransfer(ctx context.Context, transferID uint, reason string) (*ReversalResult, error) {
	var result *ReversalResult
	var accountIDs []uint
	err := s.repo.ExecuteInTransaction(func(tx repositories.LedgerRepository) error {
		transfer, err := tx.GetTransferByID(ctx, transferID)
		if err != nil {
			if errors.Is(err, repositories.ErrTransferNotFound) {
				return apperrors.ErrTransferNotFound
			}
			return err
		}

		debit, err := tx.GetTransactionByID(ctx, transfer.DebitTransactionID)
		if err != nil {
			return err
		}
		credit, err := tx.GetTransactionByID(ctx, transfer.CreditTransactionID)
		if err != nil {
			return err
		}
		var fee *models.Transaction
		if transfer.FeeTransactionID != nil {
			if fee, err = tx.GetTransactionByID(ctx, *transfer.FeeTransactionID); err != nil {
				return err
			}
		}

		accounts, err := tx.LockAccounts(ctx, transfer.SourceAccountID, transfer.DestinationAccountID)
		if err != nil {
			if errors.Is(err, repositories.ErrAccountNotFound) {
				return apperrors.ErrAccountNotFound
			}
			return err
		}
		var source, destination *models.Account
		for _, account := range accounts {
			switch account.ID {
			case transfer.SourceAccountID:
				source = account
			case transfer.DestinationAccountID:
				destination = account
			}
		}

		// Only a COMPLETED movement may be reversed; these transitions are
		// the double-reversal guard.
		if err := debit.Reverse(); err != nil {
			return err
		}
		if err := credit.Reverse(); err != nil {
			return err
		}
		if fee != nil {
			if err := fee.Reverse(); err != nil {
				return err
			}
		}

		refund := debit.AmountMoney()
		if fee != nil {
			if refund, err = refund.Add(fee.AmountMoney()); err != nil {
				return err
			}
		}
		if err := source.Credit(refund); err != nil {
			return err
		}
		if err := destination.Debit(credit.AmountMoney()); err != nil {
			return err
		}
		if err := tx.UpdateAccount(ctx, source); err != nil {
			return err
		}
		if err := tx.UpdateAccount(ctx, destination); err != nil {
			return err
		}

		description := fmt.Sprintf("Reversal of %s", debit.ReferenceNumber)
		if reason != "" {
			description = fmt.Sprintf("%s: %s", description, reason)
		}
		sourceLeg, err := s.completeMovement(ctx, tx, source, models.TransactionTypeReversal, refund, description)
		if err != nil {
			return err
		}
		destinationLeg, err := s.completeMovement(ctx, tx, destination, models.TransactionTypeReversal, credit.AmountMoney(), description)
		if err != nil {
			return err
		}

		for _, txn := range []*models.Transaction{debit, credit, fee} {
			if txn == nil {
				continue
			}
			if err := tx.UpdateTransaction(ctx, txn); err != nil {
				return err
			}
		}

		accountIDs = []uint{source.ID, destination.ID}
		result = &ReversalResult{
			TransferID:              transfer.ID,
			ReversalDebitID:         destinationLeg.ID,
			ReversalCreditID:        sourceLeg.ID,
			SourceBalanceAfter:      source.Balance,
			DestinationBalanceAfter: destination.Balance,
		}
		return nil
	})
	if err != nil {
		return nil, s.fail("reversal", err)
	}

	if err := s.cache.InvalidateAccounts(ctx, accountIDs...); err != nil {
		log.Printf("failed to invalidate account cache: %v", err)
	}

	event := events.TransferReversed{
		EventID:    uuid.NewString(),
		TransferID: transferID,
		Reason:     reason,
		OccurredAt: s.now().UTC(),
	}
	if err := s.publisher.Publish(events.TopicTransferReversed, event); err != nil {
		log.Printf("failed to publish transfer reversed event: %v", err)
	}

	return result, nil
}
