package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/josh-kwaku/bank-ledger/internal/domain"
	"github.com/josh-kwaku/bank-ledger/internal/logging"
	"github.com/josh-kwaku/bank-ledger/internal/money"
)

type accountReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)
}

type accountRepo interface {
	accountReader
	Create(ctx context.Context, account *domain.Account) error
}

type customerChecker interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Customer, error)
}

type AccountService struct {
	accounts  accountRepo
	customers customerChecker
}

func NewAccountService(accounts accountRepo, customers customerChecker) *AccountService {
	return &AccountService{accounts: accounts, customers: customers}
}

// CreateAccount opens an account whose balance starts at the initial deposit,
// which must exceed domain.MinInitialDeposit. The deposit is not recorded as
// an operation.
func (s *AccountService) CreateAccount(ctx context.Context, customerID uuid.UUID, initialDeposit money.Money) (*domain.Account, error) {
	log := logging.FromContext(ctx)

	if !initialDeposit.GreaterThan(domain.MinInitialDeposit) {
		return nil, fmt.Errorf("CreateAccount: %w", domain.ErrInvalidAmount)
	}

	if _, err := s.customers.GetByID(ctx, customerID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("CreateAccount: %w", domain.ErrCustomerNotFound)
		}
		return nil, fmt.Errorf("CreateAccount: %w", err)
	}

	account := &domain.Account{
		ID:             uuid.New(),
		CustomerID:     customerID,
		Balance:        initialDeposit,
		InitialDeposit: initialDeposit,
		Version:        1,
		CreatedAt:      time.Now().UTC(),
	}

	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, fmt.Errorf("CreateAccount: %w", err)
	}

	log.Info("account created",
		"account_id", account.ID,
		"customer_id", customerID,
		"initial_deposit", initialDeposit.String(),
	)

	return account, nil
}

func (s *AccountService) GetBalance(ctx context.Context, accountID uuid.UUID) (*domain.Account, error) {
	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("GetBalance: %w", domain.ErrAccountNotFound)
		}
		return nil, fmt.Errorf("GetBalance: %w", err)
	}
	return account, nil
}
