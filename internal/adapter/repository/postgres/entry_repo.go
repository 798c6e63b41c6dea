package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/alturabank/ledger/internal/domain"
	"github.com/alturabank/ledger/internal/usecase"
)

const entryColumns = `id, account_id, kind, amount, currency, description, reference, counterparty_ref, status, created_at`

// EntryRepository implements usecase.EntryRepository.
type EntryRepository struct {
	pool *pgxpool.Pool
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(pool *pgxpool.Pool) *EntryRepository {
	return &EntryRepository{pool: pool}
}

// Create inserts a new entry within a transaction.
func (r *EntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error {
	pgxTx := tx.(*Tx).PgxTx()

	query := `
		INSERT INTO entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := pgxTx.Exec(ctx, query,
		entry.ID,
		entry.AccountID,
		entry.Kind,
		entry.Amount,
		entry.Currency,
		entry.Description,
		entry.Reference,
		entry.CounterpartyRef,
		entry.Status,
		entry.CreatedAt,
	)

	return err
}

// GetByID retrieves an entry by ID.
func (r *EntryRepository) GetByID(ctx context.Context, id string) (*domain.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries WHERE id = $1`

	return scanEntry(r.pool.QueryRow(ctx, query, id))
}

// GetByIDForUpdate retrieves an entry by ID with a row lock.
func (r *EntryRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Entry, error) {
	pgxTx := tx.(*Tx).PgxTx()

	query := `SELECT ` + entryColumns + ` FROM entries WHERE id = $1 FOR UPDATE`

	return scanEntry(pgxTx.QueryRow(ctx, query, id))
}

// GetByAccount retrieves entries for an account, newest first.
func (r *EntryRepository) GetByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Entry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM entries
		WHERE account_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, accountID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectEntries(rows)
}

// GetByReference retrieves all legs sharing a correlation reference.
// Served by the reference index, so sibling resolution during cancellation
// never scans the log.
func (r *EntryRepository) GetByReference(ctx context.Context, reference string) ([]*domain.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries WHERE reference = $1 ORDER BY created_at, id`

	rows, err := r.pool.Query(ctx, query, reference)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectEntries(rows)
}

// GetByReferenceForUpdate retrieves all legs sharing a reference with row locks.
func (r *EntryRepository) GetByReferenceForUpdate(ctx context.Context, tx usecase.Transaction, reference string) ([]*domain.Entry, error) {
	pgxTx := tx.(*Tx).PgxTx()

	query := `SELECT ` + entryColumns + ` FROM entries WHERE reference = $1 ORDER BY created_at, id FOR UPDATE`

	rows, err := pgxTx.Query(ctx, query, reference)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectEntries(rows)
}

// UpdateStatus changes an entry's status within a transaction.
func (r *EntryRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, id string, status domain.EntryStatus) error {
	pgxTx := tx.(*Tx).PgxTx()

	tag, err := pgxTx.Exec(ctx, `UPDATE entries SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrEntryNotFound
	}

	return nil
}

// SumCompletedByAccount recomputes a balance from completed entries.
func (r *EntryRepository) SumCompletedByAccount(ctx context.Context, accountID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM entries
		WHERE account_id = $1 AND status = $2
	`

	var sum decimal.Decimal
	err := r.pool.QueryRow(ctx, query, accountID, domain.EntryStatusCompleted).Scan(&sum)
	if err != nil {
		return decimal.Zero, err
	}

	return sum, nil
}

func scanEntry(row pgx.Row) (*domain.Entry, error) {
	entry, err := scanEntryRow(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrEntryNotFound
	}
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func scanEntryRow(row pgx.Row) (*domain.Entry, error) {
	var entry domain.Entry
	err := row.Scan(
		&entry.ID,
		&entry.AccountID,
		&entry.Kind,
		&entry.Amount,
		&entry.Currency,
		&entry.Description,
		&entry.Reference,
		&entry.CounterpartyRef,
		&entry.Status,
		&entry.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func collectEntries(rows pgx.Rows) ([]*domain.Entry, error) {
	var entries []*domain.Entry
	for rows.Next() {
		entry, err := scanEntryRow(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
