package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/alturabank/ledger/internal/domain"
	"github.com/alturabank/ledger/internal/usecase"
)

// LedgerRepository implements usecase.LedgerRepository.
type LedgerRepository struct {
	pool *pgxpool.Pool
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(pool *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{pool: pool}
}

// AccountDrifts returns accounts whose stored balance differs from the sum
// of their completed entries. Accounts seeded with an opening balance have
// a mint entry for it, so the sums line up from day one.
func (r *LedgerRepository) AccountDrifts(ctx context.Context) ([]usecase.AccountDrift, error) {
	query := `
		SELECT a.id, a.balance, COALESCE(e.entry_sum, 0)
		FROM accounts a
		LEFT JOIN (
			SELECT account_id, SUM(amount) AS entry_sum
			FROM entries
			WHERE status = $1
			GROUP BY account_id
		) e ON e.account_id = a.id
		WHERE a.balance <> COALESCE(e.entry_sum, 0)
		ORDER BY a.id
	`

	rows, err := r.pool.Query(ctx, query, domain.EntryStatusCompleted)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var drifts []usecase.AccountDrift
	for rows.Next() {
		var drift usecase.AccountDrift
		if err := rows.Scan(&drift.AccountID, &drift.Balance, &drift.EntrySum); err != nil {
			return nil, err
		}
		drifts = append(drifts, drift)
	}

	return drifts, rows.Err()
}

// CurrencyTotals returns the total balance held per currency.
func (r *LedgerRepository) CurrencyTotals(ctx context.Context) (map[string]decimal.Decimal, error) {
	query := `SELECT currency, SUM(balance) FROM accounts GROUP BY currency`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	totals := make(map[string]decimal.Decimal)
	for rows.Next() {
		var currency string
		var total decimal.Decimal
		if err := rows.Scan(&currency, &total); err != nil {
			return nil, err
		}
		totals[currency] = total
	}

	return totals, rows.Err()
}
