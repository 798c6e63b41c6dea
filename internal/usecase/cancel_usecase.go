package usecase

import (
	"context"
	"time"

	"github.com/alturabank/ledger/internal/domain"
)

// CancelInput represents input for an administrative cancellation.
type CancelInput struct {
	ActorID   string
	AccountID string
	EntryID   string
}

// CancelResult carries the cancelled entry, its reversal, and the sibling
// pair when the entry was one leg of a transfer or exchange. Partial is
// set when the sibling could not be found: the single-leg reversal is
// committed, but the zero-sum invariant across the pair no longer holds
// and callers must not treat the outcome as fully symmetric.
type CancelResult struct {
	OriginalEntry   *domain.Entry
	ReversalEntry   *domain.Entry
	SiblingEntry    *domain.Entry
	SiblingReversal *domain.Entry
	Account         *domain.Account
	SiblingAccount  *domain.Account
	Partial         bool
}

// Cancel marks a completed entry cancelled and applies a reversal entry
// with the mirrored kind and negated amount, re-deriving the balance
// through the movement primitive rather than editing it directly. If the
// entry is one leg of a transfer or exchange, the sibling leg is located
// by reference and cancelled in the same transaction. Cancelling an entry
// that is not COMPLETED is rejected, which also makes a second
// cancellation of the same entry fail.
func (uc *LedgerUseCase) Cancel(ctx context.Context, input CancelInput) (*CancelResult, error) {
	if err := uc.requirePrivileged(ctx, input.ActorID); err != nil {
		return nil, err
	}

	var result *CancelResult

	err := uc.run(ctx, func() error {
		// Resolve the entry and its sibling outside the transaction to
		// learn the lock set. Everything is re-read under lock below; a
		// stale lock set surfaces as a concurrency conflict and retries.
		entry, err := uc.entryRepo.GetByID(ctx, input.EntryID)
		if err != nil {
			return err
		}

		if entry.AccountID != input.AccountID {
			return domain.ErrEntryNotFound
		}

		if entry.Status != domain.EntryStatusCompleted {
			return domain.ErrInvalidCancellation
		}

		lockIDs := []string{entry.AccountID}

		if entry.Kind.IsPaired() {
			legs, err := uc.entryRepo.GetByReference(ctx, entry.Reference)
			if err != nil {
				return err
			}

			if sibling := findSibling(legs, entry); sibling != nil {
				lockIDs = append(lockIDs, sibling.AccountID)
			}
		}

		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		accounts, err := uc.lockAccounts(ctx, tx, lockIDs)
		if err != nil {
			return err
		}

		entry, err = uc.entryRepo.GetByIDForUpdate(ctx, tx, input.EntryID)
		if err != nil {
			return err
		}

		if entry.Status != domain.EntryStatusCompleted {
			return domain.ErrInvalidCancellation
		}

		var sibling *domain.Entry

		if entry.Kind.IsPaired() {
			legs, err := uc.entryRepo.GetByReferenceForUpdate(ctx, tx, entry.Reference)
			if err != nil {
				return err
			}

			sibling = findSibling(legs, entry)

			// A sibling that appeared after the lock set was computed
			// lives on an unlocked account; retry with a fresh lock set.
			if sibling != nil && accounts[sibling.AccountID] == nil {
				return domain.ErrConcurrencyConflict
			}
		}

		now := time.Now().UTC()
		reversalRef := uc.newReference(refPrefixReversal)
		account := accounts[entry.AccountID]

		reversal, err := uc.cancelLegTx(ctx, tx, account, entry, reversalRef, now)
		if err != nil {
			return err
		}

		result = &CancelResult{
			OriginalEntry: entry,
			ReversalEntry: reversal,
			Account:       account,
		}

		if entry.Kind.IsPaired() {
			if sibling == nil {
				result.Partial = true
			} else {
				siblingAccount := accounts[sibling.AccountID]

				siblingReversal, err := uc.cancelLegTx(ctx, tx, siblingAccount, sibling, reversalRef, now)
				if err != nil {
					return err
				}

				result.SiblingEntry = sibling
				result.SiblingReversal = siblingReversal
				result.SiblingAccount = siblingAccount
			}
		}

		if err := uc.auditTx(ctx, tx, input.ActorID, domain.AuditActionEntryCancel, entry.ID, entry, result.ReversalEntry, now); err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// cancelLegTx cancels one completed entry on a locked account: flips its
// status and applies the reversal movement. The reversal uses the
// mirrored kind and negated amount so the pair nets to exactly zero.
func (uc *LedgerUseCase) cancelLegTx(
	ctx context.Context,
	tx Transaction,
	account *domain.Account,
	entry *domain.Entry,
	reversalRef string,
	now time.Time,
) (*domain.Entry, error) {
	if !entry.Status.CanTransitionTo(domain.EntryStatusCancelled) {
		return nil, domain.ErrInvalidCancellation
	}

	if err := uc.entryRepo.UpdateStatus(ctx, tx, entry.ID, domain.EntryStatusCancelled); err != nil {
		return nil, err
	}

	entry.Status = domain.EntryStatusCancelled

	reversal, err := uc.applyEntryTx(ctx, tx, account, entry.Kind.Mirror(), entry.Amount.Neg(),
		"Cancellation of: "+entry.Description, reversalRef, entry.CounterpartyRef, now)
	if err != nil {
		return nil, err
	}

	return reversal, uc.emitTx(ctx, tx, domain.AggregateTypeEntry, entry.ID, domain.EventTypeEntryCancelled, domain.MarshalState(domain.EntryCancelledEvent{
		EntryID:         entry.ID,
		ReversalEntryID: reversal.ID,
		AccountID:       account.ID,
		Amount:          reversal.Amount.String(),
	}), now)
}

// findSibling picks the opposite leg of a paired entry: same reference,
// mirrored kind, different account, still completed.
func findSibling(legs []*domain.Entry, original *domain.Entry) *domain.Entry {
	for _, leg := range legs {
		if leg.ID == original.ID || leg.AccountID == original.AccountID {
			continue
		}

		if leg.Kind != original.Kind.Mirror() {
			continue
		}

		if leg.Status != domain.EntryStatusCompleted {
			continue
		}

		return leg
	}

	return nil
}
