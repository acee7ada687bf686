package service

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josh-kwaku/bank-ledger/internal/domain"
	"github.com/josh-kwaku/bank-ledger/internal/ledger"
	"github.com/josh-kwaku/bank-ledger/internal/logging"
	"github.com/josh-kwaku/bank-ledger/internal/memstore"
	"github.com/josh-kwaku/bank-ledger/internal/money"
)

var fixedNow = time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

func newOperationService(store *memstore.Store) *OperationService {
	svc := NewOperationService(store)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func openAccount(t *testing.T, store *memstore.Store, balance string) domain.Account {
	t.Helper()
	a := domain.Account{
		ID:             uuid.New(),
		CustomerID:     uuid.New(),
		Balance:        money.MustParse(balance),
		InitialDeposit: money.MustParse(balance),
	}
	require.NoError(t, store.Accounts().Create(context.Background(), &a))
	return a
}

func balanceOf(t *testing.T, store *memstore.Store, id uuid.UUID) string {
	t.Helper()
	a, err := store.Accounts().GetByID(context.Background(), id)
	require.NoError(t, err)
	return a.Balance.String()
}

func operationCount(t *testing.T, store *memstore.Store, id uuid.UUID) int {
	t.Helper()
	ops, err := store.Operations().GetByAccountID(context.Background(), id)
	require.NoError(t, err)
	return len(ops)
}

func TestOperationService_Deposit(t *testing.T) {
	store := memstore.New()
	svc := newOperationService(store)
	acct := openAccount(t, store, "1.99")

	op, err := svc.Deposit(context.Background(), acct.ID, money.MustParse("100.00"))
	require.NoError(t, err)

	assert.Equal(t, "101.99", balanceOf(t, store, acct.ID))
	assert.Equal(t, domain.OperationTypeDeposit, op.Type)
	assert.Nil(t, op.SenderAccountID)
	assert.Equal(t, acct.ID, op.ReceiverAccountID)
	assert.Equal(t, "100.00", op.Value.String())
	assert.Equal(t, fixedNow, op.OccurredAt)
	assert.NotEqual(t, uuid.Nil, op.ID)
	assert.Equal(t, 1, operationCount(t, store, acct.ID))
}

func TestOperationService_Withdraw(t *testing.T) {
	tests := []struct {
		name        string
		balance     string
		amount      string
		wantBalance string
		wantErr     error
	}{
		{name: "partial", balance: "1.99", amount: "0.99", wantBalance: "1.00"},
		{name: "exact balance lands at zero", balance: "5.00", amount: "5.00", wantBalance: "0.00"},
		{name: "from zero", balance: "0.00", amount: "0.01", wantBalance: "0.00", wantErr: domain.ErrInsufficientBalance},
		{name: "one cent over", balance: "2.50", amount: "2.51", wantBalance: "2.50", wantErr: domain.ErrInsufficientBalance},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memstore.New()
			svc := newOperationService(store)
			acct := openAccount(t, store, tt.balance)

			op, err := svc.Withdraw(context.Background(), acct.ID, money.MustParse(tt.amount))
			assert.Equal(t, tt.wantBalance, balanceOf(t, store, acct.ID))

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, op)
				assert.Equal(t, 0, operationCount(t, store, acct.ID))

				var ibe *domain.InsufficientBalanceError
				require.True(t, errors.As(err, &ibe))
				assert.Equal(t, acct.ID, ibe.AccountID)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, domain.OperationTypeWithdraw, op.Type)
			require.NotNil(t, op.SenderAccountID)
			assert.Equal(t, acct.ID, *op.SenderAccountID)
			assert.Equal(t, acct.ID, op.ReceiverAccountID)
			assert.Equal(t, 1, operationCount(t, store, acct.ID))
		})
	}
}

func TestOperationService_Transfer(t *testing.T) {
	store := memstore.New()
	svc := newOperationService(store)
	a := openAccount(t, store, "1.01")
	b := openAccount(t, store, "0.99")

	op, err := svc.Transfer(context.Background(), a.ID, b.ID, money.MustParse("0.20"))
	require.NoError(t, err)

	assert.Equal(t, "0.81", balanceOf(t, store, a.ID))
	assert.Equal(t, "1.19", balanceOf(t, store, b.ID))
	assert.Equal(t, domain.OperationTypeTransfer, op.Type)
	require.NotNil(t, op.SenderAccountID)
	assert.Equal(t, a.ID, *op.SenderAccountID)
	assert.Equal(t, b.ID, op.ReceiverAccountID)
	assert.Equal(t, 1, operationCount(t, store, a.ID))
	assert.Equal(t, 1, operationCount(t, store, b.ID))
}

func TestOperationService_Transfer_Rejections(t *testing.T) {
	t.Run("insufficient balance leaves both accounts untouched", func(t *testing.T) {
		store := memstore.New()
		svc := newOperationService(store)
		a := openAccount(t, store, "0.10")
		b := openAccount(t, store, "5.00")

		_, err := svc.Transfer(context.Background(), a.ID, b.ID, money.MustParse("0.11"))
		require.ErrorIs(t, err, domain.ErrInsufficientBalance)

		var ibe *domain.InsufficientBalanceError
		require.True(t, errors.As(err, &ibe))
		assert.Equal(t, a.ID, ibe.AccountID)
		assert.Equal(t, "0.10", balanceOf(t, store, a.ID))
		assert.Equal(t, "5.00", balanceOf(t, store, b.ID))
		assert.Equal(t, 0, operationCount(t, store, a.ID))
	})

	t.Run("same account", func(t *testing.T) {
		store := memstore.New()
		svc := newOperationService(store)
		a := openAccount(t, store, "0.00")

		_, err := svc.Transfer(context.Background(), a.ID, a.ID, money.MustParse("1.00"))
		require.ErrorIs(t, err, domain.ErrSameAccount)
		assert.Equal(t, 0, operationCount(t, store, a.ID))
	})

	t.Run("unknown receiver", func(t *testing.T) {
		store := memstore.New()
		svc := newOperationService(store)
		a := openAccount(t, store, "5.00")

		_, err := svc.Transfer(context.Background(), a.ID, uuid.New(), money.MustParse("1.00"))
		require.ErrorIs(t, err, domain.ErrAccountNotFound)
		assert.Equal(t, "5.00", balanceOf(t, store, a.ID))
	})

	t.Run("unknown id on both sides reports not found", func(t *testing.T) {
		store := memstore.New()
		svc := newOperationService(store)
		id := uuid.New()

		_, err := svc.Transfer(context.Background(), id, id, money.MustParse("1.00"))
		require.ErrorIs(t, err, domain.ErrAccountNotFound)
	})
}

func TestOperationService_UnknownAccount(t *testing.T) {
	store := memstore.New()
	svc := newOperationService(store)

	_, err := svc.Deposit(context.Background(), uuid.New(), money.MustParse("1.00"))
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)

	_, err = svc.Withdraw(context.Background(), uuid.New(), money.MustParse("1.00"))
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestOperationService_NonPositiveAmount(t *testing.T) {
	store := memstore.New()
	svc := newOperationService(store)
	a := openAccount(t, store, "5.00")
	b := openAccount(t, store, "5.00")
	ctx := context.Background()

	for _, amt := range []money.Money{money.Zero, money.MustParse("-1.00")} {
		_, err := svc.Deposit(ctx, a.ID, amt)
		assert.ErrorIs(t, err, domain.ErrInvalidAmount)
		_, err = svc.Withdraw(ctx, a.ID, amt)
		assert.ErrorIs(t, err, domain.ErrInvalidAmount)
		_, err = svc.Transfer(ctx, a.ID, b.ID, amt)
		assert.ErrorIs(t, err, domain.ErrInvalidAmount)
	}
	assert.Equal(t, 0, operationCount(t, store, a.ID))
}

func TestOperationService_LogsRejectedAttempt(t *testing.T) {
	store := memstore.New()
	svc := newOperationService(store)
	acct := openAccount(t, store, "0.00")

	var buf bytes.Buffer
	ctx := logging.WithLogger(context.Background(), logging.New(&buf, "test", "info", "production"))

	_, err := svc.Withdraw(ctx, acct.ID, money.MustParse("0.01"))
	require.Error(t, err)

	out := buf.String()
	assert.Contains(t, out, `"level":"WARN"`)
	assert.Contains(t, out, "withdraw rejected")
	assert.Contains(t, out, acct.ID.String())
	assert.Contains(t, out, `"amount":"0.01"`)
}

type failingStore struct{ err error }

func (f failingStore) ApplyAndRecord(context.Context, []uuid.UUID, ledger.ApplyFunc) (*domain.Operation, error) {
	return nil, f.err
}

func TestOperationService_StoreFailureIsWrapped(t *testing.T) {
	boom := errors.New("connection reset")
	svc := NewOperationService(failingStore{err: boom})

	var buf bytes.Buffer
	ctx := logging.WithLogger(context.Background(), logging.New(&buf, "test", "info", "production"))

	_, err := svc.Deposit(ctx, uuid.New(), money.MustParse("1.00"))
	require.ErrorIs(t, err, boom)
	assert.Contains(t, buf.String(), `"level":"ERROR"`)
}

func TestOperationService_ConcurrentDeposits(t *testing.T) {
	store := memstore.New()
	svc := NewOperationService(store)
	acct := openAccount(t, store, "0.00")

	const n = 100
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Deposit(context.Background(), acct.ID, money.MustParse("0.01"))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, "1.00", balanceOf(t, store, acct.ID))
	assert.Equal(t, n, operationCount(t, store, acct.ID))
}

func TestOperationService_ConcurrentOpposingTransfers(t *testing.T) {
	store := memstore.New()
	svc := NewOperationService(store)
	a := openAccount(t, store, "50.00")
	b := openAccount(t, store, "50.00")

	var wg sync.WaitGroup
	for i := 0; i < 40; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = svc.Transfer(context.Background(), a.ID, b.ID, money.MustParse("2.00"))
		}()
		go func() {
			defer wg.Done()
			_, _ = svc.Transfer(context.Background(), b.ID, a.ID, money.MustParse("3.00"))
		}()
	}
	wg.Wait()

	total := money.MustParse(balanceOf(t, store, a.ID)).Add(money.MustParse(balanceOf(t, store, b.ID)))
	assert.Equal(t, "100.00", total.String())
	assert.False(t, money.MustParse(balanceOf(t, store, a.ID)).IsNegative())
	assert.False(t, money.MustParse(balanceOf(t, store, b.ID)).IsNegative())
}
