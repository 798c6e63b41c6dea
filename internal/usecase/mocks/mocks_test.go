package mocks

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alturabank/ledger/internal/domain"
)

func TestRollbackDiscardsWritesSinceBegin(t *testing.T) {
	ctx := context.Background()
	accountRepo := NewMockAccountRepository()
	entryRepo := NewMockEntryRepository()
	txManager := NewMockTransactionManager().WithStores(accountRepo, entryRepo)

	accountRepo.Seed(&domain.Account{
		ID:       "acc-1",
		Currency: "USD",
		Balance:  decimal.NewFromInt(100),
		Active:   true,
	})

	tx, err := txManager.Begin(ctx)
	require.NoError(t, err)

	require.NoError(t, accountRepo.UpdateBalance(ctx, tx, "acc-1", decimal.NewFromInt(70), time.Now()))
	require.NoError(t, entryRepo.Create(ctx, tx, &domain.Entry{
		ID:        "e-1",
		AccountID: "acc-1",
		Kind:      domain.EntryKindWithdrawal,
		Amount:    decimal.NewFromInt(-30),
		Currency:  "USD",
		Reference: "WD-1",
		Status:    domain.EntryStatusCompleted,
	}))

	require.NoError(t, tx.Rollback(ctx))

	account, err := accountRepo.GetByID(ctx, "acc-1")
	require.NoError(t, err)
	assert.True(t, account.Balance.Equal(decimal.NewFromInt(100)), "balance = %s after rollback", account.Balance)

	_, err = entryRepo.GetByID(ctx, "e-1")
	assert.ErrorIs(t, err, domain.ErrEntryNotFound)

	entries, err := entryRepo.GetByAccount(ctx, "acc-1", 10, 0)
	require.NoError(t, err)
	assert.Empty(t, entries)

	legs, err := entryRepo.GetByReference(ctx, "WD-1")
	require.NoError(t, err)
	assert.Empty(t, legs)
}

func TestRollbackAfterCommitIsNoOp(t *testing.T) {
	ctx := context.Background()
	accountRepo := NewMockAccountRepository()
	entryRepo := NewMockEntryRepository()
	txManager := NewMockTransactionManager().WithStores(accountRepo, entryRepo)

	accountRepo.Seed(&domain.Account{
		ID:       "acc-1",
		Currency: "USD",
		Balance:  decimal.NewFromInt(100),
		Active:   true,
	})

	tx, err := txManager.Begin(ctx)
	require.NoError(t, err)

	require.NoError(t, accountRepo.UpdateBalance(ctx, tx, "acc-1", decimal.NewFromInt(130), time.Now()))
	require.NoError(t, tx.Commit(ctx))

	// The deferred rollback that follows a successful commit must keep
	// the committed writes.
	require.NoError(t, tx.Rollback(ctx))

	account, err := accountRepo.GetByID(ctx, "acc-1")
	require.NoError(t, err)
	assert.True(t, account.Balance.Equal(decimal.NewFromInt(130)), "balance = %s after commit", account.Balance)
}
