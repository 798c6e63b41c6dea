package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountKind classifies an account.
type AccountKind string

const (
	AccountKindChecking AccountKind = "checking"
	AccountKindSavings  AccountKind = "savings"
	AccountKindCredit   AccountKind = "credit"
)

var validAccountKinds = map[AccountKind]bool{
	AccountKindChecking: true,
	AccountKindSavings:  true,
	AccountKindCredit:   true,
}

// IsValid checks if the kind is a known account kind.
func (k AccountKind) IsValid() bool {
	return validAccountKinds[k]
}

// Account represents a ledger account that can hold a balance.
//
// Balance is the stored running balance and always equals the sum of the
// amounts of the account's COMPLETED entries. Credit accounts hold
// balances <= 0 representing the owed amount, bounded by -CreditLimit.
type Account struct {
	ID          string
	OwnerID     string
	Number      string
	Kind        AccountKind
	Currency    string
	Balance     decimal.Decimal
	CreditLimit decimal.Decimal
	Active      bool
	Version     int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ValidateMovement checks whether a signed movement amount can be applied.
// Negative amounts are debits and are subject to the funds check; credit
// accounts may go negative down to -CreditLimit.
func (a *Account) ValidateMovement(amount decimal.Decimal) error {
	if !a.Active {
		return ErrAccountInactive
	}

	if amount.IsZero() {
		return ErrInvalidAmount
	}

	if amount.IsNegative() {
		newBalance := a.Balance.Add(amount)

		floor := decimal.Zero
		if a.Kind == AccountKindCredit {
			floor = a.CreditLimit.Neg()
		}

		if newBalance.LessThan(floor) {
			return ErrInsufficientFunds
		}
	}

	return nil
}

// ApplyMovement returns the new balance after a signed movement.
func (a *Account) ApplyMovement(amount decimal.Decimal) decimal.Decimal {
	return a.Balance.Add(amount)
}
