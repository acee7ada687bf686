package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josh-kwaku/bank-ledger/internal/domain"
	"github.com/josh-kwaku/bank-ledger/internal/money"
)

func TestOperationBuilders(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	x := accountWithBalance("1.99")
	y := accountWithBalance("0.00")
	amount := money.MustParse("0.20")

	t.Run("deposit has no sender", func(t *testing.T) {
		op := NewDepositOperation(x, amount, at)

		assert.Equal(t, domain.OperationTypeDeposit, op.Type)
		assert.Nil(t, op.SenderAccountID)
		assert.Equal(t, x.ID, op.ReceiverAccountID)
		assert.Equal(t, "0.20", op.Value.String())
		assert.Equal(t, at, op.OccurredAt)
	})

	t.Run("withdraw is self-referential", func(t *testing.T) {
		op := NewWithdrawOperation(x, amount, at)

		assert.Equal(t, domain.OperationTypeWithdraw, op.Type)
		require.NotNil(t, op.SenderAccountID)
		assert.Equal(t, x.ID, *op.SenderAccountID)
		assert.Equal(t, x.ID, op.ReceiverAccountID)
	})

	t.Run("transfer links source and destination", func(t *testing.T) {
		op := NewTransferOperation(x, y, amount, at)

		assert.Equal(t, domain.OperationTypeTransfer, op.Type)
		require.NotNil(t, op.SenderAccountID)
		assert.Equal(t, x.ID, *op.SenderAccountID)
		assert.Equal(t, y.ID, op.ReceiverAccountID)
		assert.True(t, op.Involves(x.ID))
		assert.True(t, op.Involves(y.ID))
	})
}
