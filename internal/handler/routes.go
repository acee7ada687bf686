package handler

import "net/http"

type Handlers struct {
	Health     *HealthHandler
	Accounts   *AccountHandler
	Customers  *CustomerHandler
	Operations *OperationHandler
	Metrics    http.Handler
}

func NewRouter(h Handlers) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", h.Health.Liveness)
	mux.HandleFunc("GET /health/ready", h.Health.Readiness)
	if h.Metrics != nil {
		mux.Handle("GET /metrics", h.Metrics)
	}

	mux.HandleFunc("POST /v1/accounts", h.Accounts.Create)
	mux.HandleFunc("GET /v1/accounts/{id}", h.Accounts.Get)
	mux.HandleFunc("GET /v1/customers", h.Customers.List)

	mux.HandleFunc("POST /v1/operations/deposit/{accountId}", h.Operations.Deposit)
	mux.HandleFunc("POST /v1/operations/withdraw/{accountId}", h.Operations.Withdraw)
	mux.HandleFunc("POST /v1/operations/transfer", h.Operations.Transfer)
	mux.HandleFunc("GET /v1/operations/history/{accountId}", h.Operations.History)

	return mux
}
