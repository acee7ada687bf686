package ledger

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josh-kwaku/bank-ledger/internal/domain"
	"github.com/josh-kwaku/bank-ledger/internal/money"
)

func accountWithBalance(balance string) domain.Account {
	return domain.Account{
		ID:         uuid.New(),
		CustomerID: uuid.New(),
		Balance:    money.MustParse(balance),
		CreatedAt:  time.Now().UTC(),
	}
}

func TestDeposit(t *testing.T) {
	tests := []struct {
		balance string
		amount  string
		want    string
	}{
		{"1.99", "100.00", "101.99"},
		{"0.00", "0.01", "0.01"},
		{"999999999999.99", "0.01", "1000000000000.00"},
	}

	for _, tc := range tests {
		t.Run(tc.balance+"+"+tc.amount, func(t *testing.T) {
			acct := accountWithBalance(tc.balance)

			got := Deposit(acct, money.MustParse(tc.amount))

			assert.Equal(t, tc.want, got.Balance.String())
			assert.Equal(t, acct.ID, got.ID)
			assert.Equal(t, tc.balance, acct.Balance.String(), "input snapshot must not change")
		})
	}
}

func TestWithdraw(t *testing.T) {
	tests := []struct {
		name    string
		balance string
		amount  string
		want    string
		wantErr bool
	}{
		{name: "partial", balance: "10.00", amount: "2.50", want: "7.50"},
		{name: "exact balance lands on zero", balance: "5.00", amount: "5.00", want: "0.00"},
		{name: "empty account", balance: "0.00", amount: "0.01", wantErr: true},
		{name: "one cent short", balance: "4.99", amount: "5.00", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			acct := accountWithBalance(tc.balance)

			got, err := Withdraw(acct, money.MustParse(tc.amount))

			if tc.wantErr {
				require.ErrorIs(t, err, domain.ErrInsufficientBalance)
				var ibe *domain.InsufficientBalanceError
				require.True(t, errors.As(err, &ibe))
				assert.Equal(t, acct.ID, ibe.AccountID)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got.Balance.String())
			assert.False(t, got.Balance.IsNegative())
		})
	}
}

func TestTransfer(t *testing.T) {
	t.Run("moves value and conserves the total", func(t *testing.T) {
		a := accountWithBalance("1.01")
		b := accountWithBalance("0.99")
		total := a.Balance.Add(b.Balance)

		a2, b2, err := Transfer(a, b, money.MustParse("0.20"))

		require.NoError(t, err)
		assert.Equal(t, "0.81", a2.Balance.String())
		assert.Equal(t, "1.19", b2.Balance.String())
		assert.True(t, total.Equal(a2.Balance.Add(b2.Balance)))
	})

	t.Run("insufficient sender balance", func(t *testing.T) {
		a := accountWithBalance("0.10")
		b := accountWithBalance("50.00")

		_, _, err := Transfer(a, b, money.MustParse("0.11"))

		require.ErrorIs(t, err, domain.ErrInsufficientBalance)
		var ibe *domain.InsufficientBalanceError
		require.True(t, errors.As(err, &ibe))
		assert.Equal(t, a.ID, ibe.AccountID)
	})

	t.Run("same account fails regardless of balance", func(t *testing.T) {
		for _, amount := range []string{"0.01", "5.00", "1000.00"} {
			a := accountWithBalance("5.00")

			_, _, err := Transfer(a, a, money.MustParse(amount))

			require.ErrorIs(t, err, domain.ErrSameAccount, "amount %s", amount)
		}
	})

	t.Run("same id with diverging snapshots is still the same account", func(t *testing.T) {
		a := accountWithBalance("5.00")
		b := a
		b.Balance = money.MustParse("7.00")

		_, _, err := Transfer(a, b, money.MustParse("1.00"))

		require.ErrorIs(t, err, domain.ErrSameAccount)
	})

	t.Run("equal balances on distinct accounts are allowed", func(t *testing.T) {
		a := accountWithBalance("3.00")
		b := accountWithBalance("3.00")

		_, _, err := Transfer(a, b, money.MustParse("3.00"))

		require.NoError(t, err)
	})
}

func TestNonPositiveAmountPanics(t *testing.T) {
	acct := accountWithBalance("10.00")
	other := accountWithBalance("10.00")

	assert.Panics(t, func() { Deposit(acct, money.Zero) })
	assert.Panics(t, func() { _, _ = Withdraw(acct, money.MustParse("-1.00")) })
	assert.Panics(t, func() { _, _, _ = Transfer(acct, other, money.Zero) })
}

func TestLockOrder(t *testing.T) {
	a := uuid.MustParse("00000000-0000-0000-0000-00000000000a")
	b := uuid.MustParse("00000000-0000-0000-0000-00000000000b")

	assert.Equal(t, []uuid.UUID{a, b}, LockOrder([]uuid.UUID{b, a}))
	assert.Equal(t, []uuid.UUID{a, b}, LockOrder([]uuid.UUID{a, b}))
	assert.Equal(t, []uuid.UUID{a}, LockOrder([]uuid.UUID{a, a}))
}
