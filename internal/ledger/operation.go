package ledger

import (
	"time"

	"github.com/josh-kwaku/bank-ledger/internal/domain"
	"github.com/josh-kwaku/bank-ledger/internal/money"
)

// The builders return drafts without an ID; the operation store assigns one
// on append.

func NewDepositOperation(account domain.Account, amount money.Money, at time.Time) domain.Operation {
	return domain.Operation{
		Type:              domain.OperationTypeDeposit,
		SenderAccountID:   nil,
		ReceiverAccountID: account.ID,
		Value:             amount,
		OccurredAt:        at,
	}
}

// NewWithdrawOperation records the withdrawing account as both sender and
// receiver. Existing history consumers rely on that shape.
func NewWithdrawOperation(account domain.Account, amount money.Money, at time.Time) domain.Operation {
	sender := account.ID
	return domain.Operation{
		Type:              domain.OperationTypeWithdraw,
		SenderAccountID:   &sender,
		ReceiverAccountID: account.ID,
		Value:             amount,
		OccurredAt:        at,
	}
}

func NewTransferOperation(sender, receiver domain.Account, amount money.Money, at time.Time) domain.Operation {
	senderID := sender.ID
	return domain.Operation{
		Type:              domain.OperationTypeTransfer,
		SenderAccountID:   &senderID,
		ReceiverAccountID: receiver.ID,
		Value:             amount,
		OccurredAt:        at,
	}
}
