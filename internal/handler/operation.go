package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/josh-kwaku/bank-ledger/internal/domain"
	"github.com/josh-kwaku/bank-ledger/internal/money"
	"github.com/josh-kwaku/bank-ledger/internal/service"
)

type operationService interface {
	Deposit(ctx context.Context, accountID uuid.UUID, amount money.Money) (*domain.Operation, error)
	Withdraw(ctx context.Context, accountID uuid.UUID, amount money.Money) (*domain.Operation, error)
	Transfer(ctx context.Context, senderID, receiverID uuid.UUID, amount money.Money) (*domain.Operation, error)
}

type historyService interface {
	History(ctx context.Context, accountID uuid.UUID) (*service.History, error)
}

type OperationHandler struct {
	operations operationService
	history    historyService
}

func NewOperationHandler(operations operationService, history historyService) *OperationHandler {
	return &OperationHandler{operations: operations, history: history}
}

type depositRequest struct {
	Amount *money.Money `json:"deposit_amount"`
}

func (r depositRequest) Validate() []FieldError {
	return validateAmount("deposit_amount", r.Amount)
}

type withdrawRequest struct {
	Amount *money.Money `json:"withdraw_amount"`
}

func (r withdrawRequest) Validate() []FieldError {
	return validateAmount("withdraw_amount", r.Amount)
}

type transferRequest struct {
	SenderAccountID   *uuid.UUID   `json:"sender_account_id"`
	ReceiverAccountID *uuid.UUID   `json:"receiver_account_id"`
	Value             *money.Money `json:"value"`
}

func (r transferRequest) Validate() []FieldError {
	var errs []FieldError
	if r.SenderAccountID == nil || *r.SenderAccountID == uuid.Nil {
		errs = append(errs, FieldError{Field: "sender_account_id", Message: "required"})
	}
	if r.ReceiverAccountID == nil || *r.ReceiverAccountID == uuid.Nil {
		errs = append(errs, FieldError{Field: "receiver_account_id", Message: "required"})
	}
	errs = append(errs, validateAmount("value", r.Value)...)
	return errs
}

type operationDTO struct {
	ID                uuid.UUID   `json:"operation_id"`
	Type              string      `json:"type_operation"`
	SenderAccountID   *uuid.UUID  `json:"sender_account_id"`
	ReceiverAccountID uuid.UUID   `json:"receiver_account_id"`
	Value             money.Money `json:"value"`
	CreatedAt         time.Time   `json:"created_at"`
}

// toOperationDTO exposes the sender for transfers only; deposits and
// withdrawals answer with a null sender.
func toOperationDTO(op *domain.Operation) operationDTO {
	dto := operationDTO{
		ID:                op.ID,
		Type:              string(op.Type),
		ReceiverAccountID: op.ReceiverAccountID,
		Value:             op.Value,
		CreatedAt:         op.OccurredAt,
	}
	if op.Type == domain.OperationTypeTransfer {
		dto.SenderAccountID = op.SenderAccountID
	}
	return dto
}

type historyDTO struct {
	AccountID  uuid.UUID      `json:"account_id"`
	Operations []operationDTO `json:"operations"`
	CreatedAt  time.Time      `json:"created_at"`
}

func (h *OperationHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	accountID, ok := uuidFromPath(r, "accountId")
	if !ok {
		RespondAppError(w, ErrAccountNotFound, nil)
		return
	}

	var req depositRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondDecodeError(w, err)
		return
	}
	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	op, err := h.operations.Deposit(r.Context(), accountID, *req.Amount)
	if err != nil {
		RespondDomainError(w, err)
		return
	}
	respondCreated(w, r, op)
}

func (h *OperationHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	accountID, ok := uuidFromPath(r, "accountId")
	if !ok {
		RespondAppError(w, ErrAccountNotFound, nil)
		return
	}

	var req withdrawRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondDecodeError(w, err)
		return
	}
	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	op, err := h.operations.Withdraw(r.Context(), accountID, *req.Amount)
	if err != nil {
		RespondDomainError(w, err)
		return
	}
	respondCreated(w, r, op)
}

func (h *OperationHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	var req transferRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondDecodeError(w, err)
		return
	}
	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	op, err := h.operations.Transfer(r.Context(), *req.SenderAccountID, *req.ReceiverAccountID, *req.Value)
	if err != nil {
		RespondDomainError(w, err)
		return
	}
	respondCreated(w, r, op)
}

func (h *OperationHandler) History(w http.ResponseWriter, r *http.Request) {
	accountID, ok := uuidFromPath(r, "accountId")
	if !ok {
		RespondAppError(w, ErrAccountNotFound, nil)
		return
	}

	hist, err := h.history.History(r.Context(), accountID)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	dto := historyDTO{
		AccountID:  hist.AccountID,
		Operations: make([]operationDTO, 0, len(hist.Operations)),
		CreatedAt:  hist.GeneratedAt,
	}
	for op := range hist.All() {
		row := toOperationDTO(&op)
		row.SenderAccountID = nil
		dto.Operations = append(dto.Operations, row)
	}
	RespondSuccess(w, http.StatusOK, dto)
}

func respondCreated(w http.ResponseWriter, r *http.Request, op *domain.Operation) {
	w.Header().Set("Location", r.URL.Path+"/"+op.ID.String())
	RespondSuccess(w, http.StatusCreated, toOperationDTO(op))
}
