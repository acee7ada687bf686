package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/josh-kwaku/bank-ledger/internal/money"
)

type OperationType string

const (
	OperationTypeDeposit  OperationType = "DEPOSIT"
	OperationTypeWithdraw OperationType = "WITHDRAW"
	OperationTypeTransfer OperationType = "TRANSFER"
)

// Operation is append-only. SenderAccountID is nil for deposits; a withdrawal
// names the withdrawing account as both sender and receiver.
type Operation struct {
	ID                uuid.UUID
	Type              OperationType
	SenderAccountID   *uuid.UUID
	ReceiverAccountID uuid.UUID
	Value             money.Money
	OccurredAt        time.Time
}

// Involves reports whether the account is the sender or the receiver.
func (o *Operation) Involves(accountID uuid.UUID) bool {
	if o.ReceiverAccountID == accountID {
		return true
	}
	return o.SenderAccountID != nil && *o.SenderAccountID == accountID
}
