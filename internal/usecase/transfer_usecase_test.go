package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alturabank/ledger/internal/domain"
	"github.com/alturabank/ledger/internal/usecase"
)

func TestTransfer(t *testing.T) {
	f := newLedgerFixture(t)
	f.accountRepo.Seed(checkingAccount("acc-a", "USD", 100))
	f.accountRepo.Seed(checkingAccount("acc-b", "USD", 50))

	result, err := f.uc.Transfer(context.Background(), usecase.TransferInput{
		FromAccountID: "acc-a",
		ToAccountID:   "acc-b",
		Amount:        decimal.NewFromInt(30),
		Description:   "rent",
	})
	require.NoError(t, err)

	assert.True(t, result.FromAccount.Balance.Equal(decimal.NewFromInt(70)), "from balance = %s", result.FromAccount.Balance)
	assert.True(t, result.ToAccount.Balance.Equal(decimal.NewFromInt(80)), "to balance = %s", result.ToAccount.Balance)

	assert.Equal(t, domain.EntryKindTransferOut, result.OutEntry.Kind)
	assert.Equal(t, domain.EntryKindTransferIn, result.InEntry.Kind)
	assert.True(t, result.OutEntry.Amount.Equal(decimal.NewFromInt(-30)))
	assert.True(t, result.InEntry.Amount.Equal(decimal.NewFromInt(30)))

	// Both legs share the operation reference.
	assert.Equal(t, result.Reference, result.OutEntry.Reference)
	assert.Equal(t, result.Reference, result.InEntry.Reference)

	// Counterparty refs point across the pair.
	assert.Equal(t, result.ToAccount.Number, result.OutEntry.CounterpartyRef)
	assert.Equal(t, result.FromAccount.Number, result.InEntry.CounterpartyRef)
}

func TestTransferPreconditions(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(f *ledgerFixture)
		input   usecase.TransferInput
		wantErr error
	}{
		{
			name: "same account rejected",
			setup: func(f *ledgerFixture) {
				f.accountRepo.Seed(checkingAccount("acc-a", "USD", 100))
			},
			input: usecase.TransferInput{
				FromAccountID: "acc-a",
				ToAccountID:   "acc-a",
				Amount:        decimal.NewFromInt(30),
			},
			wantErr: domain.ErrSameAccount,
		},
		{
			name: "non-positive amount rejected",
			setup: func(f *ledgerFixture) {
				f.accountRepo.Seed(checkingAccount("acc-a", "USD", 100))
				f.accountRepo.Seed(checkingAccount("acc-b", "USD", 50))
			},
			input: usecase.TransferInput{
				FromAccountID: "acc-a",
				ToAccountID:   "acc-b",
				Amount:        decimal.NewFromInt(-30),
			},
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name: "cross-currency transfer rejected",
			setup: func(f *ledgerFixture) {
				f.accountRepo.Seed(checkingAccount("acc-a", "USD", 100))
				f.accountRepo.Seed(checkingAccount("acc-b", "EUR", 50))
			},
			input: usecase.TransferInput{
				FromAccountID: "acc-a",
				ToAccountID:   "acc-b",
				Amount:        decimal.NewFromInt(30),
			},
			wantErr: domain.ErrCurrencyMismatch,
		},
		{
			name: "insufficient funds rejected",
			setup: func(f *ledgerFixture) {
				f.accountRepo.Seed(checkingAccount("acc-a", "USD", 100))
				f.accountRepo.Seed(checkingAccount("acc-b", "USD", 50))
			},
			input: usecase.TransferInput{
				FromAccountID: "acc-a",
				ToAccountID:   "acc-b",
				Amount:        decimal.NewFromInt(101),
			},
			wantErr: domain.ErrInsufficientFunds,
		},
		{
			name: "missing destination rejected",
			setup: func(f *ledgerFixture) {
				f.accountRepo.Seed(checkingAccount("acc-a", "USD", 100))
			},
			input: usecase.TransferInput{
				FromAccountID: "acc-a",
				ToAccountID:   "acc-b",
				Amount:        decimal.NewFromInt(30),
			},
			wantErr: domain.ErrAccountNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newLedgerFixture(t)
			tt.setup(f)

			_, err := f.uc.Transfer(context.Background(), tt.input)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestTransferAtomicTwoLegFailure(t *testing.T) {
	f := newLedgerFixture(t)
	f.accountRepo.Seed(checkingAccount("acc-a", "USD", 100))

	inactive := checkingAccount("acc-b", "USD", 50)
	inactive.Active = false
	f.accountRepo.Seed(inactive)

	_, err := f.uc.Transfer(context.Background(), usecase.TransferInput{
		FromAccountID: "acc-a",
		ToAccountID:   "acc-b",
		Amount:        decimal.NewFromInt(30),
	})
	require.ErrorIs(t, err, domain.ErrAccountInactive)

	// The debit leg must not be observable as committed.
	entries, err := f.entryRepo.GetByAccount(context.Background(), "acc-a", 10, 0)
	require.NoError(t, err)

	completed := decimal.Zero
	for _, e := range entries {
		if e.Status == domain.EntryStatusCompleted {
			completed = completed.Add(e.Amount)
		}
	}
	assert.True(t, completed.IsZero(), "completed entry sum = %s after failed transfer", completed)

	// The debit balance change must be rolled back with it.
	source, err := f.accountRepo.GetByID(context.Background(), "acc-a")
	require.NoError(t, err)
	assert.True(t, source.Balance.Equal(decimal.NewFromInt(100)), "source balance = %s after failed transfer", source.Balance)
}

func TestTransferConservation(t *testing.T) {
	f := newLedgerFixture(t)
	f.accountRepo.Seed(checkingAccount("acc-a", "USD", 1000))
	f.accountRepo.Seed(checkingAccount("acc-b", "USD", 200))
	f.accountRepo.Seed(checkingAccount("acc-c", "USD", 0))

	ctx := context.Background()

	moves := []usecase.TransferInput{
		{FromAccountID: "acc-a", ToAccountID: "acc-b", Amount: decimal.NewFromInt(300)},
		{FromAccountID: "acc-b", ToAccountID: "acc-c", Amount: decimal.NewFromInt(450)},
		{FromAccountID: "acc-c", ToAccountID: "acc-a", Amount: decimal.NewFromInt(50)},
	}

	for _, input := range moves {
		_, err := f.uc.Transfer(ctx, input)
		require.NoError(t, err)
	}

	total := decimal.Zero
	for _, id := range []string{"acc-a", "acc-b", "acc-c"} {
		account, err := f.accountRepo.GetByID(ctx, id)
		require.NoError(t, err)
		total = total.Add(account.Balance)

		// Balance-equals-sum invariant: stored balance matches the sum of
		// the account's completed entries plus its opening balance.
		sum, err := f.entryRepo.SumCompletedByAccount(ctx, id)
		require.NoError(t, err)

		opening := map[string]int64{"acc-a": 1000, "acc-b": 200, "acc-c": 0}[id]
		assert.True(t, account.Balance.Equal(sum.Add(decimal.NewFromInt(opening))),
			"account %s: balance %s != opening %d + entry sum %s", id, account.Balance, opening, sum)
	}

	assert.True(t, total.Equal(decimal.NewFromInt(1200)), "total = %s, want 1200", total)
}

func TestExchange(t *testing.T) {
	f := newLedgerFixture(t)
	f.accountRepo.Seed(checkingAccount("acc-c", "USD", 200))
	f.accountRepo.Seed(checkingAccount("acc-d", "EUR", 0))

	result, err := f.uc.Exchange(context.Background(), usecase.ExchangeInput{
		FromAccountID: "acc-c",
		ToAccountID:   "acc-d",
		Amount:        decimal.NewFromInt(100),
		Rate:          decimal.RequireFromString("0.85"),
	})
	require.NoError(t, err)

	assert.True(t, result.FromAccount.Balance.Equal(decimal.NewFromInt(100)), "from balance = %s", result.FromAccount.Balance)
	assert.True(t, result.ToAccount.Balance.Equal(decimal.NewFromInt(85)), "to balance = %s", result.ToAccount.Balance)

	assert.Equal(t, domain.EntryKindExchangeOut, result.OutEntry.Kind)
	assert.Equal(t, domain.EntryKindExchangeIn, result.InEntry.Kind)
	assert.Equal(t, "USD", result.OutEntry.Currency)
	assert.Equal(t, "EUR", result.InEntry.Currency)
	assert.Equal(t, result.Reference, result.OutEntry.Reference)
	assert.Equal(t, result.Reference, result.InEntry.Reference)
}

func TestExchangeRoundsToMinorUnits(t *testing.T) {
	f := newLedgerFixture(t)
	f.accountRepo.Seed(checkingAccount("acc-usd", "USD", 1000))
	f.accountRepo.Seed(checkingAccount("acc-jpy", "JPY", 0))

	result, err := f.uc.Exchange(context.Background(), usecase.ExchangeInput{
		FromAccountID: "acc-usd",
		ToAccountID:   "acc-jpy",
		Amount:        decimal.NewFromInt(3),
		Rate:          decimal.RequireFromString("110.5"),
	})
	require.NoError(t, err)

	// 3 * 110.5 = 331.5, JPY has no minor units.
	assert.True(t, result.ConvertedAmount.Equal(decimal.NewFromInt(332)),
		"converted = %s, want 332", result.ConvertedAmount)
}

func TestExchangePreconditions(t *testing.T) {
	f := newLedgerFixture(t)
	f.accountRepo.Seed(checkingAccount("acc-a", "USD", 100))
	f.accountRepo.Seed(checkingAccount("acc-b", "USD", 50))
	f.accountRepo.Seed(checkingAccount("acc-c", "EUR", 0))

	ctx := context.Background()

	_, err := f.uc.Exchange(ctx, usecase.ExchangeInput{
		FromAccountID: "acc-a",
		ToAccountID:   "acc-b",
		Amount:        decimal.NewFromInt(10),
		Rate:          decimal.NewFromInt(1),
	})
	require.ErrorIs(t, err, domain.ErrNoExchangeNeeded)

	_, err = f.uc.Exchange(ctx, usecase.ExchangeInput{
		FromAccountID: "acc-a",
		ToAccountID:   "acc-c",
		Amount:        decimal.NewFromInt(10),
		Rate:          decimal.Zero,
	})
	require.ErrorIs(t, err, domain.ErrInvalidRate)

	_, err = f.uc.Exchange(ctx, usecase.ExchangeInput{
		FromAccountID: "acc-a",
		ToAccountID:   "acc-c",
		Amount:        decimal.NewFromInt(1000),
		Rate:          decimal.RequireFromString("0.85"),
	})
	require.ErrorIs(t, err, domain.ErrInsufficientFunds)
}
