package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/josh-kwaku/bank-ledger/internal/domain"
	"github.com/josh-kwaku/bank-ledger/internal/ledger"
)

// LedgerStore runs each money movement as one transaction: row locks in
// ledger.LockOrder, balance writes guarded by version, one operation insert.
type LedgerStore struct {
	db         *DB
	accounts   *AccountRepository
	operations *OperationRepository
}

var _ ledger.Store = (*LedgerStore)(nil)

func NewLedgerStore(db *DB, accounts *AccountRepository, operations *OperationRepository) *LedgerStore {
	return &LedgerStore{db: db, accounts: accounts, operations: operations}
}

func (s *LedgerStore) ApplyAndRecord(ctx context.Context, accountIDs []uuid.UUID, apply ledger.ApplyFunc) (*domain.Operation, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("ApplyAndRecord: %w", err)
	}
	defer tx.Rollback()

	locked := make(map[uuid.UUID]domain.Account, len(accountIDs))
	for _, id := range ledger.LockOrder(accountIDs) {
		acct, err := s.accounts.GetForUpdate(ctx, tx, id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, fmt.Errorf("ApplyAndRecord: %s: %w", id, domain.ErrAccountNotFound)
			}
			return nil, fmt.Errorf("ApplyAndRecord: %w", err)
		}
		locked[id] = *acct
	}

	m, err := apply(locked)
	if err != nil {
		return nil, fmt.Errorf("ApplyAndRecord: %w", err)
	}

	for _, a := range m.Accounts {
		current, ok := locked[a.ID]
		if !ok {
			return nil, fmt.Errorf("ApplyAndRecord: account %s was not locked: %w", a.ID, domain.ErrInvalidRequest)
		}
		if err := s.accounts.UpdateBalance(ctx, tx, a.ID, a.Balance, current.Version+1); err != nil {
			return nil, fmt.Errorf("ApplyAndRecord: %w", err)
		}
	}

	op := m.Operation
	if err := s.operations.Create(ctx, tx, &op); err != nil {
		return nil, fmt.Errorf("ApplyAndRecord: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("ApplyAndRecord: commit: %w", err)
	}
	return &op, nil
}
