// Package memstore keeps accounts, operations and customers in process memory.
// It honours the same contracts as the Postgres repositories: per-account
// serialization for money movements and all-or-nothing writes.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/josh-kwaku/bank-ledger/internal/domain"
	"github.com/josh-kwaku/bank-ledger/internal/ledger"
)

type storedOperation struct {
	seq int64
	op  domain.Operation
}

// Store is safe for concurrent use. mu guards the maps; locks holds one mutex
// per account and is what serializes read-modify-write of a balance.
type Store struct {
	mu         sync.RWMutex
	accounts   map[uuid.UUID]domain.Account
	customers  map[uuid.UUID]domain.Customer
	operations []storedOperation
	seq        int64

	locksMu sync.Mutex
	locks   map[uuid.UUID]*sync.Mutex
}

var _ ledger.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		accounts:  make(map[uuid.UUID]domain.Account),
		customers: make(map[uuid.UUID]domain.Customer),
		locks:     make(map[uuid.UUID]*sync.Mutex),
	}
}

func (s *Store) accountLock(id uuid.UUID) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	return l
}

func (s *Store) ApplyAndRecord(ctx context.Context, accountIDs []uuid.UUID, apply ledger.ApplyFunc) (*domain.Operation, error) {
	ordered := ledger.LockOrder(accountIDs)
	for _, id := range ordered {
		l := s.accountLock(id)
		l.Lock()
		defer l.Unlock()
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("ApplyAndRecord: %w", err)
	}

	locked := make(map[uuid.UUID]domain.Account, len(ordered))
	s.mu.RLock()
	for _, id := range ordered {
		a, ok := s.accounts[id]
		if !ok {
			s.mu.RUnlock()
			return nil, fmt.Errorf("ApplyAndRecord: %s: %w", id, domain.ErrAccountNotFound)
		}
		locked[id] = a
	}
	s.mu.RUnlock()

	m, err := apply(locked)
	if err != nil {
		return nil, fmt.Errorf("ApplyAndRecord: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range m.Accounts {
		current, ok := locked[a.ID]
		if !ok {
			return nil, fmt.Errorf("ApplyAndRecord: account %s was not locked: %w", a.ID, domain.ErrInvalidRequest)
		}
		if s.accounts[a.ID].Version != current.Version {
			return nil, fmt.Errorf("ApplyAndRecord: %w", domain.ErrVersionConflict)
		}
	}

	for _, a := range m.Accounts {
		a.Version = locked[a.ID].Version + 1
		s.accounts[a.ID] = a
	}

	op := m.Operation
	if op.ID == uuid.Nil {
		op.ID = uuid.New()
	}
	s.seq++
	s.operations = append(s.operations, storedOperation{seq: s.seq, op: op})

	return &op, nil
}

// AccountStore is the account view over a Store.
type AccountStore struct{ s *Store }

// CustomerStore is the customer view over a Store.
type CustomerStore struct{ s *Store }

// OperationStore is the operation view over a Store.
type OperationStore struct{ s *Store }

func (s *Store) Accounts() *AccountStore     { return &AccountStore{s: s} }
func (s *Store) Customers() *CustomerStore   { return &CustomerStore{s: s} }
func (s *Store) Operations() *OperationStore { return &OperationStore{s: s} }

func (r *AccountStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Account, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	a, ok := r.s.accounts[id]
	if !ok {
		return nil, fmt.Errorf("GetByID: %w", domain.ErrNotFound)
	}
	return &a, nil
}

// Create assigns an id when the account has none.
func (r *AccountStore) Create(_ context.Context, account *domain.Account) error {
	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}
	if account.CreatedAt.IsZero() {
		account.CreatedAt = time.Now().UTC()
	}
	if account.Version == 0 {
		account.Version = 1
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, exists := r.s.accounts[account.ID]; exists {
		return fmt.Errorf("Create: account %s: %w", account.ID, domain.ErrInvalidRequest)
	}
	r.s.accounts[account.ID] = *account
	return nil
}

// GetByAccountID returns operations where the account is sender or receiver,
// most recent first. Operations sharing a timestamp come back in reverse
// append order.
func (r *OperationStore) GetByAccountID(_ context.Context, accountID uuid.UUID) ([]domain.Operation, error) {
	r.s.mu.RLock()
	var matched []storedOperation
	for _, so := range r.s.operations {
		if so.op.Involves(accountID) {
			matched = append(matched, so)
		}
	}
	r.s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].op.OccurredAt.Equal(matched[j].op.OccurredAt) {
			return matched[i].op.OccurredAt.After(matched[j].op.OccurredAt)
		}
		return matched[i].seq > matched[j].seq
	})

	ops := make([]domain.Operation, len(matched))
	for i, so := range matched {
		ops[i] = so.op
	}
	return ops, nil
}

func (r *CustomerStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Customer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.customers[id]
	if !ok {
		return nil, fmt.Errorf("GetByID: %w", domain.ErrNotFound)
	}
	return &c, nil
}

func (r *CustomerStore) List(_ context.Context) ([]domain.Customer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]domain.Customer, 0, len(r.s.customers))
	for _, c := range r.s.customers {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *CustomerStore) Put(_ context.Context, customer domain.Customer) error {
	if customer.ID == uuid.Nil {
		return fmt.Errorf("Put: missing id: %w", domain.ErrInvalidRequest)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.customers[customer.ID] = customer
	return nil
}
