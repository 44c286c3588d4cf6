package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kabutools/kabu-ledger/internal/api"
	"github.com/kabutools/kabu-ledger/internal/config"
	"github.com/kabutools/kabu-ledger/internal/namemaster"
	"github.com/kabutools/kabu-ledger/internal/quote"
	"github.com/kabutools/kabu-ledger/internal/repository"
	"github.com/kabutools/kabu-ledger/internal/scheduler"
	"github.com/kabutools/kabu-ledger/internal/secrets"
	"github.com/kabutools/kabu-ledger/internal/service"
	"github.com/kabutools/kabu-ledger/internal/tabular"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Open the tabular store
	store, cleanup, err := openStore(cfg)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer cleanup()

	log.Printf("Using %s store", cfg.Store.Backend)

	// Transient failures are retried with a fixed backoff before reaching
	// the repositories.
	retried := tabular.NewRetryStore(store, cfg.Retry.Attempts, cfg.Retry.Backoff)

	// Create repositories
	holdingsRepo := repository.NewHoldingsRepository(retried)
	cashRepo := repository.NewCashRepository(retried)
	tradeLogRepo := repository.NewTradeLogRepository(retried)
	historyRepo := repository.NewHistoryRepository(retried)
	snapshotRepo := repository.NewSnapshotRepository(retried)
	watchlistRepo := repository.NewWatchlistRepository(retried)
	settingsRepo := repository.NewSettingsRepository(retried)

	// Collaborators
	codec, err := secrets.NewCodec(cfg.FernetKey)
	if err != nil {
		log.Fatalf("Failed to parse fernet key: %v", err)
	}
	quoteClient := quote.NewClient(cfg.Quote.CacheTTL)
	nameResolver := namemaster.NewResolver(cfg.NameMaster.Endpoint, settingsRepo, codec)

	// Create services
	systemService := service.NewSystemService(retried)
	ledgerService := service.NewLedgerService(holdingsRepo, cashRepo, tradeLogRepo, nameResolver)
	summaryService := service.NewSummaryService(tradeLogRepo)
	valuationService := service.NewValuationService(quoteClient)
	historyService := service.NewHistoryService(historyRepo, snapshotRepo, ledgerService, valuationService)
	watchlistService := service.NewWatchlistService(watchlistRepo, quoteClient)

	// Background daily close job
	sched := scheduler.NewScheduler(cfg.Scheduler.DailyClose, historyService, watchlistService)
	if err := sched.Start(); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	// Create router
	router := api.NewRouter(api.Services{
		System:    systemService,
		Ledger:    ledgerService,
		Summary:   summaryService,
		Valuation: valuationService,
		History:   historyService,
		Watchlist: watchlistService,
	}, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

// openStore builds the configured store backend. The returned cleanup closes
// resources the backend holds open.
func openStore(cfg *config.Config) (tabular.Store, func(), error) {
	switch cfg.Store.Backend {
	case "memory":
		return tabular.NewMemoryStore(), func() {}, nil
	case "csv":
		store, err := tabular.NewCSVStore(cfg.Store.Dir)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil
	case "sqlite":
		store, err := tabular.OpenSQLite(cfg.Store.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {
			if err := store.Close(); err != nil {
				log.Printf("Failed to close store: %v", err)
			}
		}, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}
