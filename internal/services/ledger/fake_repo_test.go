package ledger

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"bancor/internal/models"
	"bancor/internal/repositories"
)

// fakeRepo is an in-memory LedgerRepository with real rollback semantics:
// ExecuteInTransaction snapshots the state and restores it when fn fails.
type fakeRepo struct {
	// txMu serializes units of work, standing in for the row locks a real
	// database would hold for the duration of a transaction.
	txMu           sync.Mutex
	mu             sync.Mutex
	accounts       map[uint]*models.Account
	transactions   map[uint]*models.Transaction
	transfers      map[uint]*models.Transfer
	transferKeys   map[string]uint
	nextTxnID      uint
	nextTransferID uint

	// hideTransferLookups makes the idempotency gate miss N times, to
	// simulate a concurrent request committing between lookup and write.
	hideTransferLookups int
	// failTransferCreate injects a persistence fault at the transfer write.
	failTransferCreate error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		accounts:     make(map[uint]*models.Account),
		transactions: make(map[uint]*models.Transaction),
		transfers:    make(map[uint]*models.Transfer),
		transferKeys: make(map[string]uint),
	}
}

func (f *fakeRepo) addAccount(a *models.Account) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.accounts[a.ID] = cloneAccount(a)
}

func (f *fakeRepo) addCompletedTransaction(accountID uint, txType models.TransactionType, amount string, ref string, executedAt time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextTxnID++
	d, _ := decimal.NewFromString(amount)
	f.transactions[f.nextTxnID] = &models.Transaction{
		ID:              f.nextTxnID,
		AccountID:       accountID,
		Type:            txType,
		Amount:          d,
		Currency:        models.CurrencyARS,
		ReferenceNumber: ref,
		Status:          models.TransactionStatusCompleted,
		ExecutedAt:      executedAt,
	}
}

func (f *fakeRepo) accountBalance(id uint) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.accounts[id].Balance.StringFixed(2)
}

func (f *fakeRepo) transferCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.transfers)
}

func (f *fakeRepo) transactionByID(id uint) *models.Transaction {
	f.mu.Lock()
	defer f.mu.Unlock()
	return cloneTransaction(f.transactions[id])
}

func cloneAccount(a *models.Account) *models.Account {
	cp := *a
	return &cp
}

func cloneTransaction(t *models.Transaction) *models.Transaction {
	if t == nil {
		return nil
	}
	cp := *t
	return &cp
}

func cloneTransfer(t *models.Transfer) *models.Transfer {
	cp := *t
	return &cp
}

func (f *fakeRepo) GetAccountByID(_ context.Context, id uint) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.accounts[id]
	if !ok {
		return nil, repositories.ErrAccountNotFound
	}
	return cloneAccount(a), nil
}

func (f *fakeRepo) LockAccounts(_ context.Context, ids ...uint) ([]*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	seen := make(map[uint]bool, len(ids))
	var out []*models.Account
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		a, ok := f.accounts[id]
		if !ok {
			return nil, repositories.ErrAccountNotFound
		}
		out = append(out, cloneAccount(a))
	}
	return out, nil
}

func (f *fakeRepo) UpdateAccount(_ context.Context, account *models.Account) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.accounts[account.ID] = cloneAccount(account)
	return nil
}

func (f *fakeRepo) CreateTransaction(_ context.Context, txn *models.Transaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.transactions {
		if existing.ReferenceNumber == txn.ReferenceNumber {
			return repositories.ErrDuplicateReferenceNumber
		}
	}
	f.nextTxnID++
	txn.ID = f.nextTxnID
	f.transactions[txn.ID] = cloneTransaction(txn)
	return nil
}

func (f *fakeRepo) UpdateTransaction(_ context.Context, txn *models.Transaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.transactions[txn.ID] = cloneTransaction(txn)
	return nil
}

func (f *fakeRepo) GetTransactionByID(_ context.Context, id uint) (*models.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.transactions[id]
	if !ok {
		return nil, repositories.ErrTransactionNotFound
	}
	return cloneTransaction(t), nil
}

func (f *fakeRepo) ReferenceNumberExists(_ context.Context, ref string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.transactions {
		if t.ReferenceNumber == ref {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) SumCompletedAmountSince(_ context.Context, accountID uint, txType models.TransactionType, since time.Time) (decimal.Decimal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := decimal.Zero
	for _, t := range f.transactions {
		if t.AccountID == accountID && t.Type == txType && t.Status == models.TransactionStatusCompleted && !t.ExecutedAt.Before(since) {
			total = total.Add(t.Amount)
		}
	}
	return total, nil
}

func (f *fakeRepo) CreateTransfer(_ context.Context, transfer *models.Transfer) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failTransferCreate != nil {
		return f.failTransferCreate
	}
	if _, exists := f.transferKeys[transfer.IdempotencyKey]; exists {
		return repositories.ErrDuplicateIdempotencyKey
	}
	f.nextTransferID++
	transfer.ID = f.nextTransferID
	f.transfers[transfer.ID] = cloneTransfer(transfer)
	f.transferKeys[transfer.IdempotencyKey] = transfer.ID
	return nil
}

func (f *fakeRepo) GetTransferByID(_ context.Context, id uint) (*models.Transfer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.transfers[id]
	if !ok {
		return nil, repositories.ErrTransferNotFound
	}
	return cloneTransfer(t), nil
}

func (f *fakeRepo) GetTransferByIdempotencyKey(_ context.Context, key string) (*models.Transfer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.hideTransferLookups > 0 {
		f.hideTransferLookups--
		return nil, repositories.ErrTransferNotFound
	}
	id, ok := f.transferKeys[key]
	if !ok {
		return nil, repositories.ErrTransferNotFound
	}
	return cloneTransfer(f.transfers[id]), nil
}

func (f *fakeRepo) ExecuteInTransaction(fn func(repositories.LedgerRepository) error) error {
	f.txMu.Lock()
	defer f.txMu.Unlock()
	snapshot := f.snapshot()
	if err := fn(f); err != nil {
		f.restore(snapshot)
		return err
	}
	return nil
}

type fakeState struct {
	accounts       map[uint]*models.Account
	transactions   map[uint]*models.Transaction
	transfers      map[uint]*models.Transfer
	transferKeys   map[string]uint
	nextTxnID      uint
	nextTransferID uint
}

func (f *fakeRepo) snapshot() fakeState {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := fakeState{
		accounts:       make(map[uint]*models.Account, len(f.accounts)),
		transactions:   make(map[uint]*models.Transaction, len(f.transactions)),
		transfers:      make(map[uint]*models.Transfer, len(f.transfers)),
		transferKeys:   make(map[string]uint, len(f.transferKeys)),
		nextTxnID:      f.nextTxnID,
		nextTransferID: f.nextTransferID,
	}
	for k, v := range f.accounts {
		s.accounts[k] = cloneAccount(v)
	}
	for k, v := range f.transactions {
		s.transactions[k] = cloneTransaction(v)
	}
	for k, v := range f.transfers {
		s.transfers[k] = cloneTransfer(v)
	}
	for k, v := range f.transferKeys {
		s.transferKeys[k] = v
	}
	return s
}

func (f *fakeRepo) restore(s fakeState) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.accounts = s.accounts
	f.transactions = s.transactions
	f.transfers = s.transfers
	f.transferKeys = s.transferKeys
	f.nextTxnID = s.nextTxnID
	f.nextTransferID = s.nextTransferID
}
