package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/alturabank/ledger/internal/domain"
)

// TransferInput represents input for a same-currency transfer.
type TransferInput struct {
	FromAccountID string
	ToAccountID   string
	Amount        decimal.Decimal
	Description   string
	ActorID       string
}

// TransferResult carries the updated state of both accounts and both
// entry legs, so callers never need to re-fetch through a side channel.
type TransferResult struct {
	Reference   string
	FromAccount *domain.Account
	ToAccount   *domain.Account
	OutEntry    *domain.Entry
	InEntry     *domain.Entry
}

// Transfer moves funds between two accounts of the same currency. Both
// legs share a reference and commit atomically: either both are visible
// or neither is. Cross-currency movement must go through Exchange.
func (uc *LedgerUseCase) Transfer(ctx context.Context, input TransferInput) (*TransferResult, error) {
	if input.FromAccountID == input.ToAccountID {
		return nil, domain.ErrSameAccount
	}

	if err := domain.ValidatePositiveAmount(input.Amount); err != nil {
		return nil, err
	}

	if err := domain.ValidateDescription(input.Description); err != nil {
		return nil, err
	}

	reference := uc.newReference(refPrefixTransfer)

	var result *TransferResult

	err := uc.run(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		accounts, err := uc.lockAccounts(ctx, tx, []string{input.FromAccountID, input.ToAccountID})
		if err != nil {
			return err
		}

		from := accounts[input.FromAccountID]
		to := accounts[input.ToAccountID]

		if from.Currency != to.Currency {
			return domain.ErrCurrencyMismatch
		}

		now := time.Now().UTC()

		outEntry, err := uc.applyEntryTx(ctx, tx, from, domain.EntryKindTransferOut, input.Amount.Neg(),
			transferDescription("Transfer to", to.Number, input.Description), reference, to.Number, now)
		if err != nil {
			return err
		}

		inEntry, err := uc.applyEntryTx(ctx, tx, to, domain.EntryKindTransferIn, input.Amount,
			transferDescription("Transfer from", from.Number, input.Description), reference, from.Number, now)
		if err != nil {
			return err
		}

		if err := uc.emitTx(ctx, tx, domain.AggregateTypeEntry, outEntry.ID, domain.EventTypeTransferCreated, domain.MarshalState(domain.TransferCreatedEvent{
			Reference:     reference,
			FromAccountID: from.ID,
			ToAccountID:   to.ID,
			Amount:        input.Amount.String(),
			Currency:      from.Currency,
		}), now); err != nil {
			return err
		}

		if err := uc.auditTx(ctx, tx, input.ActorID, domain.AuditActionTransferCreate, outEntry.ID, nil, outEntry, now); err != nil {
			return err
		}

		if err := tx.Commit(ctx); err != nil {
			return err
		}

		result = &TransferResult{
			Reference:   reference,
			FromAccount: from,
			ToAccount:   to,
			OutEntry:    outEntry,
			InEntry:     inEntry,
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// ExchangeInput represents input for a currency exchange. Rate is the
// conversion factor from the source to the target currency, resolved by
// the caller and fixed for both legs.
type ExchangeInput struct {
	FromAccountID string
	ToAccountID   string
	Amount        decimal.Decimal
	Rate          decimal.Decimal
	ActorID       string
}

// ExchangeResult carries the updated state of both accounts and legs.
type ExchangeResult struct {
	Reference       string
	FromAccount     *domain.Account
	ToAccount       *domain.Account
	OutEntry        *domain.Entry
	InEntry         *domain.Entry
	ConvertedAmount decimal.Decimal
}

// Exchange converts funds between two accounts of different currencies.
// The credit leg is amount * rate, rounded to the target currency's
// minor-unit precision. The engine never re-resolves the rate
// mid-operation.
func (uc *LedgerUseCase) Exchange(ctx context.Context, input ExchangeInput) (*ExchangeResult, error) {
	if input.FromAccountID == input.ToAccountID {
		return nil, domain.ErrSameAccount
	}

	if err := domain.ValidatePositiveAmount(input.Amount); err != nil {
		return nil, err
	}

	if input.Rate.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidRate
	}

	reference := uc.newReference(refPrefixExchange)

	var result *ExchangeResult

	err := uc.run(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		accounts, err := uc.lockAccounts(ctx, tx, []string{input.FromAccountID, input.ToAccountID})
		if err != nil {
			return err
		}

		from := accounts[input.FromAccountID]
		to := accounts[input.ToAccountID]

		if from.Currency == to.Currency {
			return domain.ErrNoExchangeNeeded
		}

		converted := domain.RoundToMinorUnits(input.Amount.Mul(input.Rate), to.Currency)
		if converted.IsZero() {
			return fmt.Errorf("%w: %s %s converts to zero %s", domain.ErrInvalidAmount, input.Amount, from.Currency, to.Currency)
		}

		description := fmt.Sprintf("Currency Exchange: %s %s to %s %s", input.Amount, from.Currency, converted, to.Currency)
		now := time.Now().UTC()

		outEntry, err := uc.applyEntryTx(ctx, tx, from, domain.EntryKindExchangeOut, input.Amount.Neg(), description, reference, to.Number, now)
		if err != nil {
			return err
		}

		inEntry, err := uc.applyEntryTx(ctx, tx, to, domain.EntryKindExchangeIn, converted, description, reference, from.Number, now)
		if err != nil {
			return err
		}

		if err := uc.emitTx(ctx, tx, domain.AggregateTypeEntry, outEntry.ID, domain.EventTypeExchangeCreated, domain.MarshalState(domain.ExchangeCreatedEvent{
			Reference:     reference,
			FromAccountID: from.ID,
			ToAccountID:   to.ID,
			DebitAmount:   input.Amount.String(),
			DebitCurrency: from.Currency,
			CreditAmount:  converted.String(),
			CreditCcy:     to.Currency,
			Rate:          input.Rate.String(),
		}), now); err != nil {
			return err
		}

		if err := uc.auditTx(ctx, tx, input.ActorID, domain.AuditActionExchangeCreate, outEntry.ID, nil, outEntry, now); err != nil {
			return err
		}

		if err := tx.Commit(ctx); err != nil {
			return err
		}

		result = &ExchangeResult{
			Reference:       reference,
			FromAccount:     from,
			ToAccount:       to,
			OutEntry:        outEntry,
			InEntry:         inEntry,
			ConvertedAmount: converted,
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func transferDescription(direction, counterparty, description string) string {
	s := direction + " " + counterparty
	if description != "" {
		s += " - " + description
	}

	return s
}
