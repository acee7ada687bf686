package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/josh-kwaku/bank-ledger/internal/domain"
	"github.com/josh-kwaku/bank-ledger/internal/logging"
)

type customerService interface {
	ListCustomers(ctx context.Context) ([]domain.Customer, error)
}

type CustomerHandler struct {
	customers customerService
}

func NewCustomerHandler(customers customerService) *CustomerHandler {
	return &CustomerHandler{customers: customers}
}

type customerDTO struct {
	ID   uuid.UUID `json:"customer_id"`
	Name string    `json:"name"`
}

func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	customers, err := h.customers.ListCustomers(r.Context())
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to list customers", "error", err)
		RespondDomainError(w, err)
		return
	}

	dtos := make([]customerDTO, len(customers))
	for i, c := range customers {
		dtos[i] = customerDTO{ID: c.ID, Name: c.Name}
	}
	RespondSuccess(w, http.StatusOK, dtos)
}
