// Package ledger holds the balance mutation rules and the construction of the
// operation records that audit them.
//
// The functions here are pure: they take account snapshots and return the
// post-state. Callers run them inside a unit of work opened by a Store so that
// the read, the mutation and both writes commit together.
package ledger

import (
	"fmt"

	"github.com/josh-kwaku/bank-ledger/internal/domain"
	"github.com/josh-kwaku/bank-ledger/internal/money"
)

// Deposit credits amount to the account. It has no rejection path.
func Deposit(account domain.Account, amount money.Money) domain.Account {
	requirePositive("Deposit", amount)

	account.Balance = account.Balance.Add(amount)
	return account
}

// Withdraw debits amount from the account, failing when the balance is
// smaller than amount. A balance that lands exactly on zero is allowed.
func Withdraw(account domain.Account, amount money.Money) (domain.Account, error) {
	requirePositive("Withdraw", amount)

	if account.Balance.LessThan(amount) {
		return domain.Account{}, fmt.Errorf("Withdraw: %w", &domain.InsufficientBalanceError{AccountID: account.ID})
	}

	account.Balance = account.Balance.Sub(amount)
	return account, nil
}

// Transfer moves amount from sender to receiver. Sender and receiver are
// compared by identity, so a self-transfer fails regardless of balance.
func Transfer(sender, receiver domain.Account, amount money.Money) (domain.Account, domain.Account, error) {
	requirePositive("Transfer", amount)

	if sender.ID == receiver.ID {
		return domain.Account{}, domain.Account{}, fmt.Errorf("Transfer: %w", domain.ErrSameAccount)
	}

	if sender.Balance.LessThan(amount) {
		return domain.Account{}, domain.Account{}, fmt.Errorf("Transfer: %w", &domain.InsufficientBalanceError{AccountID: sender.ID})
	}

	sender.Balance = sender.Balance.Sub(amount)
	receiver.Balance = receiver.Balance.Add(amount)
	return sender, receiver, nil
}

// Amounts are validated before they reach the engine; a non-positive amount
// here is a bug in the caller.
func requirePositive(op string, amount money.Money) {
	if !amount.IsPositive() {
		panic(fmt.Sprintf("ledger.%s: non-positive amount %s", op, amount))
	}
}
