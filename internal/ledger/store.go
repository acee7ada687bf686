package ledger

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/josh-kwaku/bank-ledger/internal/domain"
)

// Mutation is what an ApplyFunc hands back: the accounts whose balance
// changed and the operation that records the change.
type Mutation struct {
	Accounts  []domain.Account
	Operation domain.Operation
}

// ApplyFunc receives the locked accounts keyed by id. Returning an error
// aborts the unit of work and nothing is written.
type ApplyFunc func(locked map[uuid.UUID]domain.Account) (Mutation, error)

// Store is the persistence boundary for money movements. ApplyAndRecord must
// serialize concurrent calls touching the same account, resolve every id
// (domain.ErrAccountNotFound otherwise), run apply against the current state
// and make the account updates and the operation append durable together.
type Store interface {
	ApplyAndRecord(ctx context.Context, accountIDs []uuid.UUID, apply ApplyFunc) (*domain.Operation, error)
}

// LockOrder returns the distinct ids sorted, the order in which
// implementations acquire locks so two transfers in opposite directions
// cannot deadlock.
func LockOrder(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	sorted := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		sorted = append(sorted, id)
	}
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].String() < sorted[j].String()
	})
	return sorted
}
