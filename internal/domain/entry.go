package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryKind classifies a single-account movement.
type EntryKind string

const (
	EntryKindDeposit       EntryKind = "deposit"
	EntryKindWithdrawal    EntryKind = "withdrawal"
	EntryKindTransferIn    EntryKind = "transfer_in"
	EntryKindTransferOut   EntryKind = "transfer_out"
	EntryKindExchangeIn    EntryKind = "exchange_in"
	EntryKindExchangeOut   EntryKind = "exchange_out"
	EntryKindBillPayment   EntryKind = "bill_payment"
	EntryKindCreditPayment EntryKind = "credit_payment"
	EntryKindMint          EntryKind = "mint"
)

var validEntryKinds = map[EntryKind]bool{
	EntryKindDeposit:       true,
	EntryKindWithdrawal:    true,
	EntryKindTransferIn:    true,
	EntryKindTransferOut:   true,
	EntryKindExchangeIn:    true,
	EntryKindExchangeOut:   true,
	EntryKindBillPayment:   true,
	EntryKindCreditPayment: true,
	EntryKindMint:          true,
}

// IsValid checks if the kind is a known entry kind.
func (k EntryKind) IsValid() bool {
	return validEntryKinds[k]
}

// IsPaired reports whether entries of this kind are one leg of a
// two-account operation correlated by a shared reference.
func (k EntryKind) IsPaired() bool {
	switch k {
	case EntryKindTransferIn, EntryKindTransferOut, EntryKindExchangeIn, EntryKindExchangeOut:
		return true
	default:
		return false
	}
}

// Mirror returns the kind of the opposite leg for paired kinds, and the
// kind itself otherwise. A reversal entry uses the mirror of the kind it
// reverses, so that sign conventions stay consistent.
func (k EntryKind) Mirror() EntryKind {
	switch k {
	case EntryKindTransferIn:
		return EntryKindTransferOut
	case EntryKindTransferOut:
		return EntryKindTransferIn
	case EntryKindExchangeIn:
		return EntryKindExchangeOut
	case EntryKindExchangeOut:
		return EntryKindExchangeIn
	default:
		return k
	}
}

// EntryStatus is the lifecycle state of an entry.
type EntryStatus string

const (
	EntryStatusPending   EntryStatus = "pending"
	EntryStatusCompleted EntryStatus = "completed"
	EntryStatusCancelled EntryStatus = "cancelled"
	EntryStatusFailed    EntryStatus = "failed"
)

// CanTransitionTo reports whether a status change is allowed. The only
// transition out of completed is to cancelled, exactly once.
func (s EntryStatus) CanTransitionTo(next EntryStatus) bool {
	switch s {
	case EntryStatusPending:
		return next == EntryStatusCompleted || next == EntryStatusFailed
	case EntryStatusCompleted:
		return next == EntryStatusCancelled
	default:
		return false
	}
}

// Entry represents a single-account movement record. Amount is signed in
// the account's currency: credits positive, debits negative. Once an
// entry is completed, everything but Status is immutable.
type Entry struct {
	ID              string
	AccountID       string
	Kind            EntryKind
	Amount          decimal.Decimal
	Currency        string
	Description     string
	Reference       string
	CounterpartyRef string
	Status          EntryStatus
	CreatedAt       time.Time
}
