package ledger

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	apperrors "bancor/internal/errors"
	"bancor/internal/events"
	"bancor/internal/models"
	"bancor/internal/repositories"
)

const defaultReferenceAttempts = 3

// errReferenceCollisions is infrastructure-grade bad luck: three fresh
// reference numbers in a row already existed.
var errReferenceCollisions = errors.New("reference number generation exhausted retries")

type service struct {
	repo              repositories.LedgerRepository
	cache             AccountCache
	publisher         events.Publisher
	metrics           MetricsCollector
	limits            map[models.AccountType]models.AccountLimits
	refs              *models.ReferenceGenerator
	referenceAttempts int
	now               func() time.Time
}

// NewService creates the transfer orchestrator.
func NewService(repo repositories.LedgerRepository, cache AccountCache, publisher events.Publisher, cfg Config, metrics MetricsCollector) Service {
	if repo == nil {
		panic("repo is required")
	}
	if cache == nil {
		cache = noopCache{}
	}
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	if metrics == nil {
		metrics = NoopMetricsCollector{}
	}
	if cfg.Limits == nil {
		cfg.Limits = models.DefaultLimits
	}
	if cfg.ReferenceAttempts <= 0 {
		cfg.ReferenceAttempts = defaultReferenceAttempts
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &service{
		repo:              repo,
		cache:             cache,
		publisher:         publisher,
		metrics:           metrics,
		limits:            cfg.Limits,
		refs:              models.NewReferenceGenerator(cfg.Now, cfg.Entropy),
		referenceAttempts: cfg.ReferenceAttempts,
		now:               cfg.Now,
	}
}

// Transfer executes a double-entry transfer exactly once per idempotency
// key. A request that lost the race on the key, or that retries after a
// timeout, receives the originally computed result.
func (s *service) Transfer(ctx context.Context, req TransferRequest) (*TransferResult, error) {
	if req.IdempotencyKey == "" {
		return nil, apperrors.ErrMissingIdempotencyKey
	}
	if !req.Amount.IsPositive() {
		return nil, apperrors.ErrInvalidAmount
	}
	if req.Fee.IsNegative() {
		return nil, apperrors.ErrInvalidAmount
	}

	// Idempotency gate. The lookup alone is not sufficient under
	// concurrency; the unique constraint on the key is the source of truth
	// and is handled below.
	if existing, err := s.repo.GetTransferByIdempotencyKey(ctx, req.IdempotencyKey); err == nil {
		s.metrics.RecordIdempotentReplay("transfer")
		return s.replayResult(ctx, existing)
	} else if !errors.Is(err, repositories.ErrTransferNotFound) {
		return nil, fmt.Errorf("idempotency lookup failed: %w", err)
	}

	var result *TransferResult
	err := s.repo.ExecuteInTransaction(func(tx repositories.LedgerRepository) error {
		r, err := s.executeTransfer(ctx, tx, req)
		if err != nil {
			return err
		}
		result = r
		return nil
	})
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateIdempotencyKey) {
			// A concurrent request with the same key committed first.
			// Converge on its result instead of surfacing a failure.
			existing, lookupErr := s.repo.GetTransferByIdempotencyKey(ctx, req.IdempotencyKey)
			if lookupErr != nil {
				return nil, fmt.Errorf("failed to load transfer after idempotency race: %w", lookupErr)
			}
			s.metrics.RecordIdempotentReplay("transfer")
			return s.replayResult(ctx, existing)
		}
		return nil, s.fail("transfer", err)
	}

	if err := s.cache.InvalidateAccounts(ctx, req.SourceAccountID, req.DestinationAccountID); err != nil {
		log.Printf("failed to invalidate account cache: %v", err)
	}
	s.metrics.RecordTransaction("transfer", req.Amount.Amount())
	s.publishTransferCompleted(result)

	return result, nil
}

// executeTransfer runs steps 2-7 of the orchestration inside one unit of
// work: either every account mutation, transaction row and the transfer row
// commit together, or none do. Partial persistence cannot occur.
func (s *service) executeTransfer(ctx context.Context, tx repositories.LedgerRepository, req TransferRequest) (*TransferResult, error) {
	if req.SourceAccountID == req.DestinationAccountID {
		return nil, apperrors.ErrSameAccountTransfer
	}

	accounts, err := tx.LockAccounts(ctx, req.SourceAccountID, req.DestinationAccountID)
	if err != nil {
		if errors.Is(err, repositories.ErrAccountNotFound) {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, err
	}
	var source, destination *models.Account
	for _, account := range accounts {
		switch account.ID {
		case req.SourceAccountID:
			source = account
		case req.DestinationAccountID:
			destination = account
		}
	}

	if !source.IsActive() || !destination.IsActive() {
		return nil, apperrors.ErrAccountInactive
	}
	if req.Amount.Currency() != source.Currency || req.Amount.Currency() != destination.Currency {
		return nil, apperrors.ErrCurrencyMismatch
	}

	total := req.Amount
	if req.Fee.IsPositive() {
		if total, err = req.Amount.Add(req.Fee); err != nil {
			return nil, err
		}
	}

	if err := s.checkVelocityLimits(ctx, tx, source, models.TransactionTypeTransferOut, req.Amount.Amount()); err != nil {
		return nil, err
	}

	if err := source.Debit(total); err != nil {
		return nil, err
	}
	if err := destination.Credit(req.Amount); err != nil {
		return nil, err
	}
	if err := tx.UpdateAccount(ctx, source); err != nil {
		return nil, err
	}
	if err := tx.UpdateAccount(ctx, destination); err != nil {
		return nil, err
	}

	executedAt := s.now().UTC()
	key := req.IdempotencyKey
	debitTxn, err := s.createTransaction(ctx, tx, source, models.TransactionTypeTransferOut, req.Amount, req.Description, &key, executedAt)
	if err != nil {
		return nil, err
	}
	creditTxn, err := s.createTransaction(ctx, tx, destination, models.TransactionTypeTransferIn, req.Amount, req.Description, &key, executedAt)
	if err != nil {
		return nil, err
	}
	var feeTxn *models.Transaction
	if req.Fee.IsPositive() {
		if feeTxn, err = s.createTransaction(ctx, tx, source, models.TransactionTypeFee, req.Fee, "Transfer fee", &key, executedAt); err != nil {
			return nil, err
		}
	}

	// The balance mutations commit in this same unit of work, so the
	// pending legs complete here.
	for _, txn := range []*models.Transaction{debitTxn, creditTxn, feeTxn} {
		if txn == nil {
			continue
		}
		if err := txn.MarkCompleted(); err != nil {
			return nil, err
		}
		if err := tx.UpdateTransaction(ctx, txn); err != nil {
			return nil, err
		}
	}

	transfer := &models.Transfer{
		SourceAccountID:      source.ID,
		DestinationAccountID: destination.ID,
		DebitTransactionID:   debitTxn.ID,
		CreditTransactionID:  creditTxn.ID,
		Amount:               req.Amount.Amount(),
		Currency:             req.Amount.Currency(),
		FeeAmount:            req.Fee.Amount(),
		IdempotencyKey:       req.IdempotencyKey,
		ExecutedAt:           executedAt,
	}
	if feeTxn != nil {
		transfer.FeeTransactionID = &feeTxn.ID
	}
	if err := tx.CreateTransfer(ctx, transfer); err != nil {
		return nil, err
	}

	return &TransferResult{
		TransferID:              transfer.ID,
		SourceAccountID:         source.ID,
		DestinationAccountID:    destination.ID,
		DebitTransactionID:      debitTxn.ID,
		CreditTransactionID:     creditTxn.ID,
		FeeTransactionID:        transfer.FeeTransactionID,
		Amount:                  transfer.Amount,
		FeeAmount:               transfer.FeeAmount,
		Currency:                transfer.Currency,
		SourceBalanceAfter:      source.Balance,
		DestinationBalanceAfter: destination.Balance,
	}, nil
}

// replayResult rebuilds the original outcome of a committed transfer from
// its linked transactions' balance snapshots. No mutation is performed.
func (s *service) replayResult(ctx context.Context, transfer *models.Transfer) (*TransferResult, error) {
	debit, err := s.repo.GetTransactionByID(ctx, transfer.DebitTransactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load debit transaction: %w", err)
	}
	credit, err := s.repo.GetTransactionByID(ctx, transfer.CreditTransactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load credit transaction: %w", err)
	}

	return &TransferResult{
		TransferID:              transfer.ID,
		SourceAccountID:         transfer.SourceAccountID,
		DestinationAccountID:    transfer.DestinationAccountID,
		DebitTransactionID:      transfer.DebitTransactionID,
		CreditTransactionID:     transfer.CreditTransactionID,
		FeeTransactionID:        transfer.FeeTransactionID,
		Amount:                  transfer.Amount,
		FeeAmount:               transfer.FeeAmount,
		Currency:                transfer.Currency,
		SourceBalanceAfter:      debit.BalanceAfter,
		DestinationBalanceAfter: credit.BalanceAfter,
		Replayed:                true,
	}, nil
}

// createTransaction persists one PENDING ledger movement with a fresh
// reference number and a balanceAfter snapshot of the already-mutated
// account.
func (s *service) createTransaction(ctx context.Context, repo repositories.LedgerRepository, account *models.Account, txType models.TransactionType, amount models.Money, description string, idempotencyKey *string, executedAt time.Time) (*models.Transaction, error) {
	ref, err := s.generateReference(ctx, repo)
	if err != nil {
		return nil, err
	}
	txn := &models.Transaction{
		AccountID:       account.ID,
		Type:            txType,
		Amount:          amount.Amount(),
		Currency:        amount.Currency(),
		BalanceAfter:    account.Balance,
		Description:     description,
		ReferenceNumber: ref,
		IdempotencyKey:  idempotencyKey,
		Status:          models.TransactionStatusPending,
		ExecutedAt:      executedAt,
	}
	if err := repo.CreateTransaction(ctx, txn); err != nil {
		return nil, err
	}
	return txn, nil
}

// generateReference pairs generation with a uniqueness probe, retrying a
// bounded number of times on collision.
func (s *service) generateReference(ctx context.Context, repo repositories.LedgerRepository) (string, error) {
	for attempt := 0; attempt < s.referenceAttempts; attempt++ {
		ref, err := s.refs.Generate()
		if err != nil {
			return "", err
		}
		exists, err := repo.ReferenceNumberExists(ctx, ref)
		if err != nil {
			return "", err
		}
		if !exists {
			return ref, nil
		}
	}
	return "", errReferenceCollisions
}

// fail classifies an orchestration error: domain errors pass through to the
// caller untouched, anything else is logged and collapsed into the generic
// retryable failure.
func (s *service) fail(operation string, err error) error {
	var domainErr *apperrors.DomainError
	if errors.As(err, &domainErr) {
		s.metrics.RecordError(operation, domainErr.Code)
		return err
	}
	var limitErr *apperrors.LimitExceededError
	if errors.As(err, &limitErr) {
		s.metrics.RecordError(operation, limitErr.Code)
		return err
	}
	log.Printf("%s failed, unit of work rolled back: %v", operation, err)
	s.metrics.RecordError(operation, "internal")
	return apperrors.ErrTransferFailed
}

func (s *service) publishTransferCompleted(result *TransferResult) {
	event := events.TransferCompleted{
		EventID:              uuid.NewString(),
		TransferID:           result.TransferID,
		SourceAccountID:      result.SourceAccountID,
		DestinationAccountID: result.DestinationAccountID,
		Amount:               result.Amount,
		FeeAmount:            result.FeeAmount,
		Currency:             string(result.Currency),
		OccurredAt:           s.now().UTC(),
	}
	if err := s.publisher.Publish(events.TopicTransferCompleted, event); err != nil {
		log.Printf("failed to publish transfer completed event: %v", err)
	}
}

func (s *service) GetAccount(ctx context.Context, accountID uint) (*models.Account, error) {
	if account, err := s.cache.GetAccount(ctx, accountID); err == nil {
		return account, nil
	}

	account, err := s.repo.GetAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, repositories.ErrAccountNotFound) {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	if err := s.cache.SetAccount(ctx, account); err != nil {
		log.Printf("failed to cache account %d: %v", accountID, err)
	}
	return account, nil
}

func (s *service) GetBalance(ctx context.Context, accountID uint) (models.Money, error) {
	account, err := s.GetAccount(ctx, accountID)
	if err != nil {
		return models.Money{}, err
	}
	return account.BalanceMoney(), nil
}
