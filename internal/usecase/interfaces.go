package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/alturabank/ledger/internal/domain"
)

// AccountRepository defines data access for accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Account, error)
	GetByIDsForUpdate(ctx context.Context, tx Transaction, ids []string) ([]*domain.Account, error)
	UpdateBalance(ctx context.Context, tx Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error
	List(ctx context.Context, limit, offset int) ([]*domain.Account, error)
	ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*domain.Account, error)
}

// EntryRepository defines data access for entries. Entries are
// append-mostly: after creation only Status may change.
type EntryRepository interface {
	Create(ctx context.Context, tx Transaction, entry *domain.Entry) error
	GetByID(ctx context.Context, id string) (*domain.Entry, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Entry, error)
	// GetByAccount returns entries newest first, ties broken by insertion order.
	GetByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Entry, error)
	// GetByReference resolves all legs sharing a correlation reference.
	// Backed by an index so sibling lookup during cancellation is O(1).
	GetByReference(ctx context.Context, reference string) ([]*domain.Entry, error)
	GetByReferenceForUpdate(ctx context.Context, tx Transaction, reference string) ([]*domain.Entry, error)
	UpdateStatus(ctx context.Context, tx Transaction, id string, status domain.EntryStatus) error
	// SumCompletedByAccount recomputes the balance from completed entries.
	// Used by reconciliation only, never by balance reads.
	SumCompletedByAccount(ctx context.Context, accountID string) (decimal.Decimal, error)
}

// UserRepository defines read access to system actors.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

// LedgerRepository defines ledger-wide read operations.
type LedgerRepository interface {
	// AccountDrifts returns accounts whose stored balance differs from the
	// sum of their completed entries.
	AccountDrifts(ctx context.Context) ([]AccountDrift, error)
	// CurrencyTotals returns the total balance held per currency.
	CurrencyTotals(ctx context.Context) (map[string]decimal.Decimal, error)
}

// AccountDrift reports a mismatch between a stored balance and the sum of
// completed entries for one account.
type AccountDrift struct {
	AccountID string
	Balance   decimal.Decimal
	EntrySum  decimal.Decimal
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
}

// AuditRepository defines data access for audit logs.
type AuditRepository interface {
	Create(ctx context.Context, log *domain.AuditLog) error
	CreateTx(ctx context.Context, tx Transaction, log *domain.AuditLog) error
	List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier retries an operation on transient concurrency conflicts.
// Exhausted retries surface as domain.ErrConcurrencyConflict.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// RateResolver supplies a conversion factor between two currency codes.
// Treated as a pure function with no side effects.
type RateResolver interface {
	Rate(ctx context.Context, from, to string) (decimal.Decimal, error)
}

// AdminAuthority certifies that an actor may perform privileged ledger
// operations (mint, forced balances, cancellation).
type AdminAuthority interface {
	IsPrivileged(ctx context.Context, actorID string) (bool, error)
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
