package service

import (
	"context"
	"fmt"

	"github.com/josh-kwaku/bank-ledger/internal/domain"
)

type customerLister interface {
	List(ctx context.Context) ([]domain.Customer, error)
}

type CustomerService struct {
	customers customerLister
}

func NewCustomerService(customers customerLister) *CustomerService {
	return &CustomerService{customers: customers}
}

func (s *CustomerService) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	customers, err := s.customers.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("ListCustomers: %w", err)
	}
	if customers == nil {
		customers = []domain.Customer{}
	}
	return customers, nil
}
