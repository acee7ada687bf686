package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/josh-kwaku/bank-ledger/internal/domain"
	"github.com/josh-kwaku/bank-ledger/internal/ledger"
	"github.com/josh-kwaku/bank-ledger/internal/logging"
	"github.com/josh-kwaku/bank-ledger/internal/money"
	"github.com/josh-kwaku/bank-ledger/internal/observability"
)

// OperationService moves money. Each call is one ApplyAndRecord unit of work
// and is never retried here.
type OperationService struct {
	store ledger.Store
	now   func() time.Time
}

func NewOperationService(store ledger.Store) *OperationService {
	return &OperationService{store: store, now: func() time.Time { return time.Now().UTC() }}
}

func (s *OperationService) Deposit(ctx context.Context, accountID uuid.UUID, amount money.Money) (*domain.Operation, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("Deposit: %w", domain.ErrInvalidAmount)
	}

	op, err := s.run(ctx, domain.OperationTypeDeposit, []uuid.UUID{accountID},
		func(locked map[uuid.UUID]domain.Account) (ledger.Mutation, error) {
			updated := ledger.Deposit(locked[accountID], amount)
			return ledger.Mutation{
				Accounts:  []domain.Account{updated},
				Operation: ledger.NewDepositOperation(updated, amount, s.now()),
			}, nil
		})
	if err != nil {
		s.logRejected(ctx, "deposit rejected", err, "account_id", accountID, "amount", amount.String())
		return nil, fmt.Errorf("Deposit: %w", err)
	}

	logging.FromContext(ctx).Info("deposit applied",
		"operation_id", op.ID,
		"account_id", accountID,
		"amount", amount.String(),
	)
	return op, nil
}

func (s *OperationService) Withdraw(ctx context.Context, accountID uuid.UUID, amount money.Money) (*domain.Operation, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("Withdraw: %w", domain.ErrInvalidAmount)
	}

	op, err := s.run(ctx, domain.OperationTypeWithdraw, []uuid.UUID{accountID},
		func(locked map[uuid.UUID]domain.Account) (ledger.Mutation, error) {
			updated, err := ledger.Withdraw(locked[accountID], amount)
			if err != nil {
				return ledger.Mutation{}, err
			}
			return ledger.Mutation{
				Accounts:  []domain.Account{updated},
				Operation: ledger.NewWithdrawOperation(updated, amount, s.now()),
			}, nil
		})
	if err != nil {
		s.logRejected(ctx, "withdraw rejected", err, "account_id", accountID, "amount", amount.String())
		return nil, fmt.Errorf("Withdraw: %w", err)
	}

	logging.FromContext(ctx).Info("withdraw applied",
		"operation_id", op.ID,
		"account_id", accountID,
		"amount", amount.String(),
	)
	return op, nil
}

// Transfer resolves both accounts before comparing them, so an unknown id
// reports ErrAccountNotFound even when it equals the other side.
func (s *OperationService) Transfer(ctx context.Context, senderID, receiverID uuid.UUID, amount money.Money) (*domain.Operation, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("Transfer: %w", domain.ErrInvalidAmount)
	}

	op, err := s.run(ctx, domain.OperationTypeTransfer, []uuid.UUID{senderID, receiverID},
		func(locked map[uuid.UUID]domain.Account) (ledger.Mutation, error) {
			sender, receiver, err := ledger.Transfer(locked[senderID], locked[receiverID], amount)
			if err != nil {
				return ledger.Mutation{}, err
			}
			return ledger.Mutation{
				Accounts:  []domain.Account{sender, receiver},
				Operation: ledger.NewTransferOperation(sender, receiver, amount, s.now()),
			}, nil
		})
	if err != nil {
		s.logRejected(ctx, "transfer rejected", err,
			"sender_account_id", senderID,
			"receiver_account_id", receiverID,
			"amount", amount.String(),
		)
		return nil, fmt.Errorf("Transfer: %w", err)
	}

	logging.FromContext(ctx).Info("transfer applied",
		"operation_id", op.ID,
		"sender_account_id", senderID,
		"receiver_account_id", receiverID,
		"amount", amount.String(),
	)
	return op, nil
}

func (s *OperationService) run(ctx context.Context, opType domain.OperationType, ids []uuid.UUID, apply ledger.ApplyFunc) (*domain.Operation, error) {
	start := time.Now()
	op, err := s.store.ApplyAndRecord(ctx, ids, apply)
	observability.OperationDuration.WithLabelValues(string(opType)).Observe(time.Since(start).Seconds())

	switch {
	case err == nil:
		observability.OperationsTotal.WithLabelValues(string(opType), observability.OutcomeApplied).Inc()
	case isBusinessRejection(err):
		observability.OperationsTotal.WithLabelValues(string(opType), observability.OutcomeRejected).Inc()
	default:
		observability.OperationsTotal.WithLabelValues(string(opType), observability.OutcomeFailed).Inc()
	}
	return op, err
}

func (s *OperationService) logRejected(ctx context.Context, msg string, err error, args ...any) {
	log := logging.FromContext(ctx)
	args = append(args, "error", err)
	if isBusinessRejection(err) {
		log.Warn(msg, args...)
		return
	}
	log.Error(msg, args...)
}

func isBusinessRejection(err error) bool {
	return errors.Is(err, domain.ErrInsufficientBalance) ||
		errors.Is(err, domain.ErrSameAccount) ||
		errors.Is(err, domain.ErrAccountNotFound)
}
