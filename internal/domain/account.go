package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/josh-kwaku/bank-ledger/internal/money"
)

type Account struct {
	ID             uuid.UUID
	CustomerID     uuid.UUID
	Balance        money.Money
	InitialDeposit money.Money
	Version        int64
	CreatedAt      time.Time
}

// MinInitialDeposit is the exclusive lower bound on an opening balance.
var MinInitialDeposit = money.MustParse("0.01")
