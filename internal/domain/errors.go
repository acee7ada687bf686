package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/josh-kwaku/bank-ledger/internal/money"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrAccountNotFound     = errors.New("account not found")
	ErrCustomerNotFound    = errors.New("customer not found")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrSameAccount         = errors.New("cannot transfer to same account")
	ErrInvalidAmount       = errors.New("amount must be greater than zero")
	ErrInvalidAmountFormat = money.ErrInvalidFormat
	ErrVersionConflict     = errors.New("optimistic lock conflict")
	ErrInvalidRequest      = errors.New("invalid request")
)

// InsufficientBalanceError names the account whose balance would have gone
// negative. It matches ErrInsufficientBalance under errors.Is.
type InsufficientBalanceError struct {
	AccountID uuid.UUID
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance in account %s", e.AccountID)
}

func (e *InsufficientBalanceError) Unwrap() error { return ErrInsufficientBalance }
