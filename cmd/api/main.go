package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/josh-kwaku/bank-ledger/internal/config"
	"github.com/josh-kwaku/bank-ledger/internal/domain"
	"github.com/josh-kwaku/bank-ledger/internal/handler"
	"github.com/josh-kwaku/bank-ledger/internal/ledger"
	"github.com/josh-kwaku/bank-ledger/internal/logging"
	"github.com/josh-kwaku/bank-ledger/internal/memstore"
	"github.com/josh-kwaku/bank-ledger/internal/middleware"
	"github.com/josh-kwaku/bank-ledger/internal/repository"
	"github.com/josh-kwaku/bank-ledger/internal/service"
	"github.com/josh-kwaku/bank-ledger/migrations"
)

type idempotencyStore interface {
	Get(ctx context.Context, key string) (*domain.IdempotencyEntry, error)
	Set(ctx context.Context, entry *domain.IdempotencyEntry) error
	CleanExpired(ctx context.Context) (int64, error)
}

type backend struct {
	ledger      ledger.Store
	accounts    *service.AccountService
	customers   *service.CustomerService
	history     *service.HistoryService
	idempotency idempotencyStore
	db          *sql.DB
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := logging.Init("bank-ledger", cfg.LogLevel, cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	be, err := newBackend(ctx, cfg)
	if err != nil {
		slog.Error("failed to initialise storage", "error", err, "driver", cfg.StorageDriver)
		os.Exit(1)
	}
	if be.db != nil {
		defer be.db.Close()
	}

	go cleanIdempotencyCache(ctx, be.idempotency, time.Hour)

	// A nil *sql.DB must not reach the handler as a non-nil interface.
	readiness := handler.NewHealthHandler(nil)
	if be.db != nil {
		readiness = handler.NewHealthHandler(be.db)
	}

	mux := handler.NewRouter(handler.Handlers{
		Health:     readiness,
		Accounts:   handler.NewAccountHandler(be.accounts),
		Customers:  handler.NewCustomerHandler(be.customers),
		Operations: handler.NewOperationHandler(service.NewOperationService(be.ledger), be.history),
		Metrics:    promhttp.Handler(),
	})

	root := middleware.Chain(mux,
		middleware.Recovery,
		middleware.Tracing,
		middleware.Logging(logger),
		middleware.Timeout(cfg.RequestTimeout),
		middleware.Idempotency(be.idempotency, cfg.IdempotencyTTL),
		middleware.Metrics,
	)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           root,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("server started", "addr", addr, "storage_driver", cfg.StorageDriver)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

func newBackend(ctx context.Context, cfg *config.Config) (*backend, error) {
	if cfg.StorageDriver == config.StorageDriverMemory {
		return newMemoryBackend(ctx)
	}
	return newPostgresBackend(ctx, cfg)
}

func newPostgresBackend(ctx context.Context, cfg *config.Config) (*backend, error) {
	db, err := repository.NewPostgresDB(ctx, cfg.DatabaseURL, repository.PoolConfig{
		MaxOpenConns:     cfg.DBMaxOpenConns,
		MaxIdleConns:     cfg.DBMaxIdleConns,
		ConnMaxLifetimeS: cfg.DBConnMaxLifetimeS,
		ConnMaxIdleTimeS: cfg.DBConnMaxIdleTimeS,
	}, cfg.DBConnectTimeout)
	if err != nil {
		return nil, fmt.Errorf("newPostgresBackend: %w", err)
	}

	if cfg.RunMigrations {
		if err := repository.Migrate(db, migrations.FS); err != nil {
			db.Close()
			return nil, fmt.Errorf("newPostgresBackend: %w", err)
		}
	}

	accounts := repository.NewAccountRepository(db)
	customers := repository.NewCustomerRepository(db)
	operations := repository.NewOperationRepository(db)

	return &backend{
		ledger:      repository.NewLedgerStore(repository.NewDB(db), accounts, operations),
		accounts:    service.NewAccountService(accounts, customers),
		customers:   service.NewCustomerService(customers),
		history:     service.NewHistoryService(accounts, operations),
		idempotency: repository.NewIdempotencyRepository(db),
		db:          db,
	}, nil
}

// demoCustomers mirrors the seed migration so both drivers start with the
// same directory.
var demoCustomers = []domain.Customer{
	{ID: uuid.MustParse("5b0e4c8e-2f3a-4d7e-9a51-0c6f1e2d3a01"), Name: "Arisha Barron"},
	{ID: uuid.MustParse("5b0e4c8e-2f3a-4d7e-9a51-0c6f1e2d3a02"), Name: "Branden Gibson"},
	{ID: uuid.MustParse("5b0e4c8e-2f3a-4d7e-9a51-0c6f1e2d3a03"), Name: "Rhonda Church"},
	{ID: uuid.MustParse("5b0e4c8e-2f3a-4d7e-9a51-0c6f1e2d3a04"), Name: "Georgina Hazel"},
}

func newMemoryBackend(ctx context.Context) (*backend, error) {
	store := memstore.New()
	for _, c := range demoCustomers {
		if err := store.Customers().Put(ctx, c); err != nil {
			return nil, fmt.Errorf("newMemoryBackend: %w", err)
		}
	}
	slog.Warn("using in-memory storage; data is lost on restart")

	return &backend{
		ledger:      store,
		accounts:    service.NewAccountService(store.Accounts(), store.Customers()),
		customers:   service.NewCustomerService(store.Customers()),
		history:     service.NewHistoryService(store.Accounts(), store.Operations()),
		idempotency: memstore.NewIdempotencyCache(),
	}, nil
}

func cleanIdempotencyCache(ctx context.Context, cache idempotencyStore, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := cache.CleanExpired(ctx)
			if err != nil {
				slog.Warn("idempotency cleanup failed", "error", err)
				continue
			}
			if n > 0 {
				slog.Info("idempotency cleanup", "removed", n)
			}
		}
	}
}
