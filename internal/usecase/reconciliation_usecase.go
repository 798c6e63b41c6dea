package usecase

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// ErrInconsistentLedger is returned when a stored balance has drifted
// from the sum of its completed entries.
var ErrInconsistentLedger = errors.New("ledger is inconsistent: balance does not equal sum of completed entries")

// ReconciliationUseCase verifies ledger-wide invariants. These checks
// recompute balances by summation and are for audit runs, never for
// serving balance reads.
type ReconciliationUseCase struct {
	ledgerRepo LedgerRepository
}

// NewReconciliationUseCase creates a new ReconciliationUseCase.
func NewReconciliationUseCase(ledgerRepo LedgerRepository) *ReconciliationUseCase {
	return &ReconciliationUseCase{
		ledgerRepo: ledgerRepo,
	}
}

// ConsistencyReport summarizes a reconciliation run.
type ConsistencyReport struct {
	Consistent     bool
	Drifts         []AccountDrift
	CurrencyTotals map[string]decimal.Decimal
}

// CheckConsistency verifies that every account's stored balance equals
// the sum of its completed entries, and reports money held per currency.
func (uc *ReconciliationUseCase) CheckConsistency(ctx context.Context) (*ConsistencyReport, error) {
	drifts, err := uc.ledgerRepo.AccountDrifts(ctx)
	if err != nil {
		return nil, err
	}

	totals, err := uc.ledgerRepo.CurrencyTotals(ctx)
	if err != nil {
		return nil, err
	}

	report := &ConsistencyReport{
		Consistent:     len(drifts) == 0,
		Drifts:         drifts,
		CurrencyTotals: totals,
	}

	if !report.Consistent {
		return report, ErrInconsistentLedger
	}

	return report, nil
}
