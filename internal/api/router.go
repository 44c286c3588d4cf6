package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/kabutools/kabu-ledger/internal/api/handlers"
	custommiddleware "github.com/kabutools/kabu-ledger/internal/api/middleware"
	"github.com/kabutools/kabu-ledger/internal/config"
	"github.com/kabutools/kabu-ledger/internal/service"
)

// Services bundles the service dependencies the router wires into handlers.
type Services struct {
	System    *service.SystemService
	Ledger    *service.LedgerService
	Summary   *service.SummaryService
	Valuation *service.ValuationService
	History   *service.HistoryService
	Watchlist *service.WatchlistService
}

// NewRouter creates and configures the HTTP router
func NewRouter(svc Services, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(svc.System)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		r.Route("/trade", func(r chi.Router) {
			tradeHandler := handlers.NewTradeHandler(svc.Ledger, svc.Summary)
			r.Get("/", tradeHandler.AllTrades)
			r.Post("/", tradeHandler.RecordTrade)
			r.Get("/summary", tradeHandler.TradeSummary)
		})

		r.Route("/holdings", func(r chi.Router) {
			holdingsHandler := handlers.NewHoldingsHandler(svc.Ledger, svc.Valuation)
			r.Get("/", holdingsHandler.Holdings)
			r.Get("/valuation", holdingsHandler.Valuation)
		})

		r.Route("/cash", func(r chi.Router) {
			cashHandler := handlers.NewCashHandler(svc.Ledger)
			r.Get("/", cashHandler.Cash)
			r.Put("/", cashHandler.SetCash)
		})

		r.Route("/history", func(r chi.Router) {
			historyHandler := handlers.NewHistoryHandler(svc.History)
			r.Get("/", historyHandler.History)
			r.Post("/record", historyHandler.Record)
		})

		r.Route("/snapshot", func(r chi.Router) {
			historyHandler := handlers.NewHistoryHandler(svc.History)
			r.Get("/", historyHandler.Snapshots)
			r.Post("/record", historyHandler.RecordSnapshot)
		})

		r.Route("/ledger", func(r chi.Router) {
			ledgerHandler := handlers.NewLedgerHandler(svc.Ledger)
			r.Post("/rebuild", ledgerHandler.Rebuild)
		})

		r.Route("/watchlist", func(r chi.Router) {
			watchlistHandler := handlers.NewWatchlistHandler(svc.Watchlist)
			r.Get("/", watchlistHandler.Watchlist)
			r.Post("/", watchlistHandler.AddEntry)
			r.Get("/tags", watchlistHandler.Tags)
			r.Post("/refresh", watchlistHandler.Refresh)
			r.Put("/{code}", watchlistHandler.UpdateEntry)
			r.Delete("/{code}", watchlistHandler.DeleteEntry)
		})
	})

	return r
}
