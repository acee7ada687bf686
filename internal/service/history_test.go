package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josh-kwaku/bank-ledger/internal/domain"
	"github.com/josh-kwaku/bank-ledger/internal/memstore"
	"github.com/josh-kwaku/bank-ledger/internal/money"
)

func TestHistoryService_History(t *testing.T) {
	store := memstore.New()
	ops := NewOperationService(store)
	a := openAccount(t, store, "10.00")
	b := openAccount(t, store, "0.00")
	ctx := context.Background()

	clock := fixedNow
	ops.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}

	_, err := ops.Deposit(ctx, a.ID, money.MustParse("5.00"))
	require.NoError(t, err)
	_, err = ops.Withdraw(ctx, a.ID, money.MustParse("1.00"))
	require.NoError(t, err)
	transfer, err := ops.Transfer(ctx, a.ID, b.ID, money.MustParse("2.00"))
	require.NoError(t, err)

	svc := NewHistoryService(store.Accounts(), store.Operations())
	svc.now = func() time.Time { return fixedNow }

	h, err := svc.History(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, h.AccountID)
	assert.Equal(t, fixedNow, h.GeneratedAt)
	require.Len(t, h.Operations, 3)

	assert.Equal(t, domain.OperationTypeTransfer, h.Operations[0].Type)
	assert.Equal(t, domain.OperationTypeWithdraw, h.Operations[1].Type)
	assert.Equal(t, domain.OperationTypeDeposit, h.Operations[2].Type)
	for _, op := range h.Operations {
		assert.Nil(t, op.SenderAccountID)
	}

	// the receiver sees the transfer too
	hb, err := svc.History(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, hb.Operations, 1)
	assert.Equal(t, transfer.ID, hb.Operations[0].ID)
	assert.Equal(t, b.ID, hb.Operations[0].ReceiverAccountID)

	// the stored operation keeps its sender
	stored, err := store.Operations().GetByAccountID(ctx, b.ID)
	require.NoError(t, err)
	require.NotNil(t, stored[0].SenderAccountID)
}

func TestHistoryService_EmptyHistory(t *testing.T) {
	store := memstore.New()
	a := openAccount(t, store, "3.00")

	h, err := NewHistoryService(store.Accounts(), store.Operations()).History(context.Background(), a.ID)
	require.NoError(t, err)
	assert.NotNil(t, h.Operations)
	assert.Empty(t, h.Operations)
}

func TestHistoryService_UnknownAccount(t *testing.T) {
	store := memstore.New()

	_, err := NewHistoryService(store.Accounts(), store.Operations()).History(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
}

type brokenOperations struct{}

func (brokenOperations) GetByAccountID(context.Context, uuid.UUID) ([]domain.Operation, error) {
	return nil, errors.New("query failed")
}

func TestHistoryService_ReaderError(t *testing.T) {
	store := memstore.New()
	a := openAccount(t, store, "3.00")

	_, err := NewHistoryService(store.Accounts(), brokenOperations{}).History(context.Background(), a.ID)
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestHistory_All(t *testing.T) {
	h := &History{Operations: []domain.Operation{
		{ID: uuid.New()}, {ID: uuid.New()}, {ID: uuid.New()},
	}}

	var first []uuid.UUID
	for op := range h.All() {
		first = append(first, op.ID)
	}
	var second []uuid.UUID
	for op := range h.All() {
		second = append(second, op.ID)
	}
	assert.Equal(t, first, second)
	assert.Len(t, first, 3)

	count := 0
	for range h.All() {
		count++
		break
	}
	assert.Equal(t, 1, count)
}
