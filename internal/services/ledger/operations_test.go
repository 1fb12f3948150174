package ledger

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "bancor/internal/errors"
	"bancor/internal/models"
)

func TestDeposit_Success(t *testing.T) {
	repo := newFakeRepo()
	seedAccounts(repo)
	svc := NewService(repo, nil, nil, Config{Now: testClock}, nil)

	result, err := svc.Deposit(context.Background(), DepositRequest{
		AccountID:   1,
		Amount:      ars(t, "500.00"),
		Description: "cash deposit",
	})
	require.NoError(t, err)

	assert.Equal(t, "1500.00", result.BalanceAfter.StringFixed(2))
	assert.Equal(t, "1500.00", repo.accountBalance(1))

	txn := repo.transactionByID(result.TransactionID)
	require.NotNil(t, txn)
	assert.Equal(t, models.TransactionTypeDeposit, txn.Type)
	assert.Equal(t, models.TransactionStatusCompleted, txn.Status)
	assert.Equal(t, "cash deposit", txn.Description)

	_, err = models.ParseReferenceNumber(result.ReferenceNumber)
	assert.NoError(t, err)
}

func TestDeposit_Validation(t *testing.T) {
	repo := newFakeRepo()
	seedAccounts(repo)
	svc := NewService(repo, nil, nil, Config{Now: testClock}, nil)

	_, err := svc.Deposit(context.Background(), DepositRequest{AccountID: 1, Amount: ars(t, "0.00")})
	assert.ErrorIs(t, err, apperrors.ErrInvalidAmount)

	_, err = svc.Deposit(context.Background(), DepositRequest{AccountID: 99, Amount: ars(t, "10.00")})
	assert.ErrorIs(t, err, apperrors.ErrAccountNotFound)

	_, err = svc.Deposit(context.Background(), DepositRequest{AccountID: 1, Amount: usd(t, "10.00")})
	assert.ErrorIs(t, err, apperrors.ErrCurrencyMismatch)

	assert.Equal(t, "1000.00", repo.accountBalance(1))
}

func TestDeposit_DailyLimitExceeded(t *testing.T) {
	repo := newFakeRepo()
	seedAccounts(repo)
	// checking accounts have a 1000000 daily deposit ceiling
	repo.addCompletedTransaction(1, models.TransactionTypeDeposit, "999900.00",
		"TXN-20240315-080000-SEED", time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC))
	svc := NewService(repo, nil, nil, Config{Now: testClock}, nil)

	_, err := svc.Deposit(context.Background(), DepositRequest{AccountID: 1, Amount: ars(t, "250.00")})

	var limitErr *apperrors.LimitExceededError
	require.ErrorAs(t, err, &limitErr)
	assert.Equal(t, apperrors.CodeDailyLimitExceeded, limitErr.Code)
	assert.Equal(t, "1000000.00", limitErr.Limit.StringFixed(2))
	assert.Equal(t, "1000.00", repo.accountBalance(1))
}

func TestWithdraw_Success(t *testing.T) {
	repo := newFakeRepo()
	seedAccounts(repo)
	svc := NewService(repo, nil, nil, Config{Now: testClock}, nil)

	result, err := svc.Withdraw(context.Background(), WithdrawRequest{
		AccountID:   1,
		Amount:      ars(t, "250.00"),
		Description: "atm withdrawal",
	})
	require.NoError(t, err)

	assert.Equal(t, "750.00", result.BalanceAfter.StringFixed(2))
	assert.Equal(t, "750.00", repo.accountBalance(1))

	txn := repo.transactionByID(result.TransactionID)
	assert.Equal(t, models.TransactionTypeWithdrawal, txn.Type)
	assert.Equal(t, models.TransactionStatusCompleted, txn.Status)
}

func TestWithdraw_WithFee(t *testing.T) {
	repo := newFakeRepo()
	seedAccounts(repo)
	svc := NewService(repo, nil, nil, Config{Now: testClock}, nil)

	result, err := svc.Withdraw(context.Background(), WithdrawRequest{
		AccountID: 1,
		Amount:    ars(t, "250.00"),
		Fee:       ars(t, "5.00"),
	})
	require.NoError(t, err)

	assert.Equal(t, "745.00", result.BalanceAfter.StringFixed(2))
	assert.Equal(t, "745.00", repo.accountBalance(1))

	fee := repo.transactionByID(result.TransactionID + 1)
	require.NotNil(t, fee)
	assert.Equal(t, models.TransactionTypeFee, fee.Type)
	assert.Equal(t, "5.00", fee.Amount.StringFixed(2))
	assert.Equal(t, "Withdrawal fee", fee.Description)
}

func TestWithdraw_InactiveAccount(t *testing.T) {
	repo := newFakeRepo()
	repo.addAccount(&models.Account{
		ID: 5, CustomerID: 20, Number: "0005", Type: models.AccountTypeChecking,
		Currency: models.CurrencyARS, Balance: dec("100.00"), AvailableBalance: dec("100.00"),
		Status: models.AccountStatusClosed,
	})
	svc := NewService(repo, nil, nil, Config{Now: testClock}, nil)

	_, err := svc.Withdraw(context.Background(), WithdrawRequest{AccountID: 5, Amount: ars(t, "10.00")})
	assert.ErrorIs(t, err, apperrors.ErrAccountInactive)
	assert.Equal(t, "100.00", repo.accountBalance(5))
}

func TestWithdraw_MonthlyLimitExceeded(t *testing.T) {
	repo := newFakeRepo()
	seedAccounts(repo)
	// checking accounts have a 5000000 monthly withdrawal ceiling
	repo.addCompletedTransaction(1, models.TransactionTypeWithdrawal, "4999900.00",
		"TXN-20240302-080000-SEED", time.Date(2024, 3, 2, 8, 0, 0, 0, time.UTC))
	svc := NewService(repo, nil, nil, Config{Now: testClock}, nil)

	_, err := svc.Withdraw(context.Background(), WithdrawRequest{AccountID: 1, Amount: ars(t, "250.00")})

	var limitErr *apperrors.LimitExceededError
	require.ErrorAs(t, err, &limitErr)
	assert.Equal(t, apperrors.CodeMonthlyLimitExceeded, limitErr.Code)
	assert.Equal(t, "monthly", limitErr.Window)
	assert.Equal(t, "1000.00", repo.accountBalance(1))
}

// fakeCache records reads, writes and invalidations for cache-path tests.
type fakeCache struct {
	mu          sync.Mutex
	store       map[uint]*models.Account
	invalidated []uint
}

var errFakeCacheMiss = errors.New("cache miss")

func newFakeCache() *fakeCache {
	return &fakeCache{store: make(map[uint]*models.Account)}
}

func (c *fakeCache) GetAccount(_ context.Context, id uint) (*models.Account, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if a, ok := c.store[id]; ok {
		return cloneAccount(a), nil
	}
	return nil, errFakeCacheMiss
}

func (c *fakeCache) SetAccount(_ context.Context, account *models.Account) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store[account.ID] = cloneAccount(account)
	return nil
}

func (c *fakeCache) InvalidateAccounts(_ context.Context, ids ...uint) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range ids {
		delete(c.store, id)
		c.invalidated = append(c.invalidated, id)
	}
	return nil
}

func TestGetAccount_CacheAside(t *testing.T) {
	repo := newFakeRepo()
	seedAccounts(repo)
	cache := newFakeCache()
	svc := NewService(repo, cache, nil, Config{Now: testClock}, nil)

	account, err := svc.GetAccount(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, uint(1), account.ID)

	// the miss populated the cache
	cached, err := cache.GetAccount(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "1000.00", cached.Balance.StringFixed(2))

	// a stale cached balance is served until invalidated
	cached.Balance = dec("42.00")
	require.NoError(t, cache.SetAccount(context.Background(), cached))
	account, err = svc.GetAccount(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "42.00", account.Balance.StringFixed(2))
}

func TestDeposit_InvalidatesCache(t *testing.T) {
	repo := newFakeRepo()
	seedAccounts(repo)
	cache := newFakeCache()
	svc := NewService(repo, cache, nil, Config{Now: testClock}, nil)

	_, err := svc.GetAccount(context.Background(), 1)
	require.NoError(t, err)

	_, err = svc.Deposit(context.Background(), DepositRequest{AccountID: 1, Amount: ars(t, "500.00")})
	require.NoError(t, err)
	assert.Contains(t, cache.invalidated, uint(1))

	// the next read repopulates from the committed balance
	account, err := svc.GetAccount(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "1500.00", account.Balance.StringFixed(2))
}

func TestTransfer_InvalidatesBothAccounts(t *testing.T) {
	repo := newFakeRepo()
	seedAccounts(repo)
	cache := newFakeCache()
	svc := NewService(repo, cache, nil, Config{Now: testClock}, nil)

	_, err := svc.GetAccount(context.Background(), 1)
	require.NoError(t, err)
	_, err = svc.GetAccount(context.Background(), 2)
	require.NoError(t, err)

	_, err = svc.Transfer(context.Background(), transferRequest(t, "250.00", "key-cache"))
	require.NoError(t, err)

	assert.Contains(t, cache.invalidated, uint(1))
	assert.Contains(t, cache.invalidated, uint(2))
}
