package service

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"time"

	"github.com/google/uuid"

	"github.com/josh-kwaku/bank-ledger/internal/domain"
)

type operationReader interface {
	GetByAccountID(ctx context.Context, accountID uuid.UUID) ([]domain.Operation, error)
}

// History is a point-in-time view of an account's operations, most recent
// first. Sender ids are stripped from every entry.
type History struct {
	AccountID   uuid.UUID
	Operations  []domain.Operation
	GeneratedAt time.Time
}

// All yields the operations in order. Each call starts from the beginning.
func (h *History) All() iter.Seq[domain.Operation] {
	return func(yield func(domain.Operation) bool) {
		for _, op := range h.Operations {
			if !yield(op) {
				return
			}
		}
	}
}

type HistoryService struct {
	accounts   accountReader
	operations operationReader
	now        func() time.Time
}

func NewHistoryService(accounts accountReader, operations operationReader) *HistoryService {
	return &HistoryService{
		accounts:   accounts,
		operations: operations,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (s *HistoryService) History(ctx context.Context, accountID uuid.UUID) (*History, error) {
	if _, err := s.accounts.GetByID(ctx, accountID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("History: %w", domain.ErrAccountNotFound)
		}
		return nil, fmt.Errorf("History: %w", err)
	}

	ops, err := s.operations.GetByAccountID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("History: %w", err)
	}

	projected := make([]domain.Operation, len(ops))
	for i, op := range ops {
		op.SenderAccountID = nil
		projected[i] = op
	}

	return &History{
		AccountID:   accountID,
		Operations:  projected,
		GeneratedAt: s.now(),
	}, nil
}
