package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/josh-kwaku/bank-ledger/internal/domain"
)

const operationColumns = `id, type, sender_account_id, receiver_account_id, value, occurred_at`

type OperationRepository struct {
	db *sql.DB
}

func NewOperationRepository(db *sql.DB) *OperationRepository {
	return &OperationRepository{db: db}
}

// Create appends inside the caller's transaction and assigns an id when the
// draft has none. Operations are never updated.
func (r *OperationRepository) Create(ctx context.Context, tx *sql.Tx, op *domain.Operation) error {
	if op.ID == uuid.Nil {
		op.ID = uuid.New()
	}

	var sender uuid.NullUUID
	if op.SenderAccountID != nil {
		sender = uuid.NullUUID{UUID: *op.SenderAccountID, Valid: true}
	}

	_, err := tx.ExecContext(ctx,
		`INSERT INTO operations (`+operationColumns+`) VALUES ($1, $2, $3, $4, $5, $6)`,
		op.ID, op.Type, sender, op.ReceiverAccountID, op.Value, op.OccurredAt,
	)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

// GetByAccountID returns operations where the account is sender or receiver,
// most recent first. seq breaks ties between identical timestamps.
func (r *OperationRepository) GetByAccountID(ctx context.Context, accountID uuid.UUID) ([]domain.Operation, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+operationColumns+` FROM operations
		WHERE receiver_account_id = $1 OR sender_account_id = $1
		ORDER BY occurred_at DESC, seq DESC`,
		accountID,
	)
	if err != nil {
		return nil, fmt.Errorf("GetByAccountID: %w", err)
	}
	defer rows.Close()

	ops := []domain.Operation{}
	for rows.Next() {
		op, err := scanOperation(rows)
		if err != nil {
			return nil, fmt.Errorf("GetByAccountID: scan: %w", err)
		}
		ops = append(ops, *op)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("GetByAccountID: rows: %w", err)
	}
	return ops, nil
}

func scanOperation(s scanner) (*domain.Operation, error) {
	var (
		op     domain.Operation
		sender uuid.NullUUID
	)
	err := s.Scan(&op.ID, &op.Type, &sender, &op.ReceiverAccountID, &op.Value, &op.OccurredAt)
	if err != nil {
		return nil, err
	}
	if sender.Valid {
		id := sender.UUID
		op.SenderAccountID = &id
	}
	op.OccurredAt = op.OccurredAt.UTC()
	return &op, nil
}
