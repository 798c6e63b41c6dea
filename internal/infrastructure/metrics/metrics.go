package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Movement metrics
	EntriesApplied   *prometheus.CounterVec
	EntriesCancelled prometheus.Counter
	PartialReversals prometheus.Counter
	MovementDuration prometheus.Histogram
	MovementAmount   prometheus.Histogram
	MovementErrors   *prometheus.CounterVec

	// Transfer and exchange metrics
	TransfersCreated prometheus.Counter
	ExchangesCreated prometheus.Counter
	MintsCreated     prometheus.Counter

	// Account metrics
	AccountsCreated   prometheus.Counter
	AccountOperations *prometheus.CounterVec

	// Reconciliation metrics
	ReconciliationRuns   prometheus.Counter
	ReconciliationDrifts prometheus.Gauge

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Database metrics
	DBQueries     *prometheus.CounterVec
	DBDuration    *prometheus.HistogramVec
	DBConnections prometheus.Gauge
	DBErrors      *prometheus.CounterVec

	// Redis metrics
	RedisOperations *prometheus.CounterVec
	RedisErrors     *prometheus.CounterVec

	// Rate limiting metrics
	RateLimitHits *prometheus.CounterVec

	// Audit metrics
	AuditLogsCreated *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		// Movement metrics
		EntriesApplied: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_entries_applied_total",
				Help: "Total number of entries applied by kind",
			},
			[]string{"kind"},
		),
		EntriesCancelled: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ledger_entries_cancelled_total",
			Help: "Total number of entries cancelled",
		}),
		PartialReversals: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ledger_partial_reversals_total",
			Help: "Total number of cancellations committed without a sibling leg",
		}),
		MovementDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "ledger_movement_duration_seconds",
			Help:    "Duration of movement operations",
			Buckets: prometheus.DefBuckets,
		}),
		MovementAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "ledger_movement_amount",
			Help:    "Absolute movement amounts",
			Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
		}),
		MovementErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_movement_errors_total",
				Help: "Total number of movement errors by type",
			},
			[]string{"error_type"},
		),

		// Transfer and exchange metrics
		TransfersCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ledger_transfers_created_total",
			Help: "Total number of transfers created",
		}),
		ExchangesCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ledger_exchanges_created_total",
			Help: "Total number of currency exchanges created",
		}),
		MintsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ledger_mints_created_total",
			Help: "Total number of mint operations",
		}),

		// Account metrics
		AccountsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ledger_accounts_created_total",
			Help: "Total number of accounts created",
		}),
		AccountOperations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_account_operations_total",
				Help: "Total account operations by type",
			},
			[]string{"operation"},
		),

		// Reconciliation metrics
		ReconciliationRuns: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ledger_reconciliation_runs_total",
			Help: "Total reconciliation runs",
		}),
		ReconciliationDrifts: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "ledger_reconciliation_drifts",
			Help: "Accounts with balance drift found by the last reconciliation run",
		}),

		// API metrics
		HTTPRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ledger_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		// Database metrics
		DBQueries: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_db_queries_total",
				Help: "Total database queries",
			},
			[]string{"operation", "table"},
		),
		DBDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ledger_db_query_duration_seconds",
				Help:    "Database query duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation", "table"},
		),
		DBConnections: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "ledger_db_connections",
			Help: "Current number of database connections",
		}),
		DBErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_db_errors_total",
				Help: "Total database errors",
			},
			[]string{"operation"},
		),

		// Redis metrics
		RedisOperations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_redis_operations_total",
				Help: "Total Redis operations",
			},
			[]string{"operation"},
		),
		RedisErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_redis_errors_total",
				Help: "Total Redis errors",
			},
			[]string{"operation"},
		),

		// Rate limiting metrics
		RateLimitHits: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_rate_limit_hits_total",
				Help: "Total rate limit hits",
			},
			[]string{"ip"},
		),

		// Audit metrics
		AuditLogsCreated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_audit_logs_total",
				Help: "Total audit logs created",
			},
			[]string{"action", "status"},
		),
	}
}
