package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/josh-kwaku/bank-ledger/internal/domain"
	"github.com/josh-kwaku/bank-ledger/internal/logging"
	"github.com/josh-kwaku/bank-ledger/internal/money"
)

type accountService interface {
	CreateAccount(ctx context.Context, customerID uuid.UUID, initialDeposit money.Money) (*domain.Account, error)
	GetBalance(ctx context.Context, accountID uuid.UUID) (*domain.Account, error)
}

type AccountHandler struct {
	accounts accountService
}

func NewAccountHandler(accounts accountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

type createAccountRequest struct {
	CustomerID    *uuid.UUID   `json:"customer_id"`
	InitialAmount *money.Money `json:"initial_amount"`
}

func (r createAccountRequest) Validate() []FieldError {
	var errs []FieldError
	if r.CustomerID == nil || *r.CustomerID == uuid.Nil {
		errs = append(errs, FieldError{Field: "customer_id", Message: "required"})
	}
	if r.InitialAmount == nil {
		errs = append(errs, FieldError{Field: "initial_amount", Message: "required"})
	} else if !r.InitialAmount.GreaterThan(domain.MinInitialDeposit) {
		errs = append(errs, FieldError{Field: "initial_amount", Message: "must be greater than " + domain.MinInitialDeposit.String()})
	}
	return errs
}

type accountDTO struct {
	ID             uuid.UUID   `json:"account_id"`
	CustomerID     uuid.UUID   `json:"customer_id"`
	Balance        money.Money `json:"balance"`
	InitialDeposit money.Money `json:"initial_deposit"`
	CreatedAt      time.Time   `json:"created_at"`
}

func toAccountDTO(a *domain.Account) accountDTO {
	return accountDTO{
		ID:             a.ID,
		CustomerID:     a.CustomerID,
		Balance:        a.Balance,
		InitialDeposit: a.InitialDeposit,
		CreatedAt:      a.CreatedAt,
	}
}

func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondDecodeError(w, err)
		return
	}

	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	account, err := h.accounts.CreateAccount(r.Context(), *req.CustomerID, *req.InitialAmount)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to create account", "error", err)
		RespondDomainError(w, err)
		return
	}

	w.Header().Set("Location", "/v1/accounts/"+account.ID.String())
	RespondSuccess(w, http.StatusCreated, toAccountDTO(account))
}

func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidFromPath(r, "id")
	if !ok {
		RespondAppError(w, ErrAccountNotFound, nil)
		return
	}

	account, err := h.accounts.GetBalance(r.Context(), id)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toAccountDTO(account))
}
