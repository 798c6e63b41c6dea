package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/alturabank/ledger/internal/adapter/http/handler"
	"github.com/alturabank/ledger/internal/adapter/http/middleware"
	"github.com/alturabank/ledger/internal/domain"
	"github.com/alturabank/ledger/internal/infrastructure/auth"
	"github.com/alturabank/ledger/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AccountHandler   *handler.AccountHandler
	LedgerHandler    *handler.LedgerHandler
	TransferHandler  *handler.TransferHandler
	EntryHandler     *handler.EntryHandler
	AdminHandler     *handler.AdminHandler
	RatesHandler     *handler.RatesHandler
	AuthHandler      *handler.AuthHandler
	HealthHandler    *handler.HealthHandler
	JWTManager       *auth.JWTManager
	IdempotencyStore usecase.IdempotencyStore
	RateLimiter      *middleware.RateLimiter
	AllowedOrigins   []string
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Recovery)
	r.Use(middleware.Metrics)

	if len(cfg.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", middleware.IdempotencyKeyHeader},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)

	// Prometheus metrics
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Authentication
		if cfg.AuthHandler != nil {
			r.Post("/auth/login", cfg.AuthHandler.Login)
		}

		r.Group(func(r chi.Router) {
			if cfg.JWTManager != nil {
				r.Use(middleware.AuthMiddleware(cfg.JWTManager))
			}

			if cfg.AuthHandler != nil {
				r.Get("/auth/me", cfg.AuthHandler.GetCurrentUser)
			}

			// Accounts
			r.Route("/accounts", func(r chi.Router) {
				r.Post("/", cfg.AccountHandler.Create)
				r.Get("/", cfg.AccountHandler.List)
				r.Get("/{id}", cfg.AccountHandler.Get)
				r.Get("/{id}/balance", cfg.AccountHandler.GetBalance)
				r.Get("/{id}/entries", cfg.EntryHandler.ListByAccount)
				r.Post("/{id}/deposits", cfg.LedgerHandler.Deposit)
				r.Post("/{id}/withdrawals", cfg.LedgerHandler.Withdraw)
				r.Post("/{id}/bill-payments", cfg.LedgerHandler.PayBill)
				r.Post("/{id}/credit-payments", cfg.LedgerHandler.PayCreditCard)
			})

			// Transfers and exchanges
			r.Post("/transfers", cfg.TransferHandler.Create)
			r.Post("/exchanges", cfg.TransferHandler.Exchange)

			// Entries
			r.Route("/entries", func(r chi.Router) {
				r.Get("/{id}", cfg.EntryHandler.Get)
				r.Get("/reference/{reference}", cfg.EntryHandler.ListByReference)
			})

			// Rates
			r.Get("/rates/{from}/{to}", cfg.RatesHandler.Get)

			// Admin operations
			r.Route("/admin", func(r chi.Router) {
				if cfg.JWTManager != nil {
					r.Use(middleware.RequireRole(domain.RoleAdmin))
				}

				r.Post("/mint", cfg.AdminHandler.Mint)
				r.Post("/cancellations", cfg.AdminHandler.CancelEntry)
				r.Get("/reconciliation", cfg.AdminHandler.Reconcile)
				r.Get("/audit-logs", cfg.AdminHandler.ListAuditLogs)
			})
		})
	})

	return r
}
