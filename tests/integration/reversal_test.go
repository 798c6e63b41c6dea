package integration

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/alturabank/ledger/internal/adapter/repository/postgres"
	"github.com/alturabank/ledger/internal/domain"
	"github.com/alturabank/ledger/internal/usecase"
	"github.com/alturabank/ledger/tests/testutil"
)

func TestCancelTransferRestoresBothBalances(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()
	testDB.TruncateAll(ctx)

	pool := testDB.Pool
	accountRepo := postgres.NewAccountRepository(pool)
	entryRepo := postgres.NewEntryRepository(pool)
	ledgerUC := newLedgerUseCase(pool)

	admin := testDB.CreateTestUser(ctx, domain.RoleAdmin)
	source := testDB.CreateTestAccount(ctx, domain.AccountKindChecking, "USD", decimal.NewFromInt(100))
	dest := testDB.CreateTestAccount(ctx, domain.AccountKindChecking, "USD", decimal.NewFromInt(50))

	transfer, err := ledgerUC.Transfer(ctx, usecase.TransferInput{
		FromAccountID: source.ID,
		ToAccountID:   dest.ID,
		Amount:        decimal.NewFromInt(30),
	})
	if err != nil {
		t.Fatalf("transfer failed: %v", err)
	}

	result, err := ledgerUC.Cancel(ctx, usecase.CancelInput{
		ActorID:   admin.ID,
		AccountID: source.ID,
		EntryID:   transfer.OutEntry.ID,
	})
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	if result.Partial {
		t.Fatal("expected full reversal, got partial")
	}
	if result.SiblingReversal == nil {
		t.Fatal("expected sibling reversal entry")
	}
	if !strings.HasPrefix(result.ReversalEntry.Reference, "REV-") {
		t.Errorf("expected REV- reference, got %s", result.ReversalEntry.Reference)
	}

	fromAfter, _ := accountRepo.GetByID(ctx, source.ID)
	toAfter, _ := accountRepo.GetByID(ctx, dest.ID)

	if !fromAfter.Balance.Equal(decimal.NewFromInt(100)) {
		t.Errorf("expected source balance restored to 100, got %s", fromAfter.Balance)
	}
	if !toAfter.Balance.Equal(decimal.NewFromInt(50)) {
		t.Errorf("expected dest balance restored to 50, got %s", toAfter.Balance)
	}

	// Original legs are cancelled, reversal legs completed.
	for _, id := range []string{transfer.OutEntry.ID, transfer.InEntry.ID} {
		entry, err := entryRepo.GetByID(ctx, id)
		if err != nil {
			t.Fatalf("failed to reload entry: %v", err)
		}
		if entry.Status != domain.EntryStatusCancelled {
			t.Errorf("entry %s: expected cancelled, got %s", id, entry.Status)
		}
	}

	// A second cancellation of the same entry must be rejected.
	_, err = ledgerUC.Cancel(ctx, usecase.CancelInput{
		ActorID:   admin.ID,
		AccountID: source.ID,
		EntryID:   transfer.OutEntry.ID,
	})
	if !errors.Is(err, domain.ErrInvalidCancellation) {
		t.Fatalf("expected invalid cancellation on second attempt, got %v", err)
	}
}

func TestCancelRequiresPrivilegedActor(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()
	testDB.TruncateAll(ctx)

	ledgerUC := newLedgerUseCase(testDB.Pool)

	customer := testDB.CreateTestUser(ctx, domain.RoleCustomer)
	account := testDB.CreateTestAccount(ctx, domain.AccountKindChecking, "USD", decimal.NewFromInt(100))

	deposit, err := ledgerUC.Deposit(ctx, usecase.DepositInput{
		AccountID: account.ID,
		Amount:    decimal.NewFromInt(10),
	})
	if err != nil {
		t.Fatalf("deposit failed: %v", err)
	}

	_, err = ledgerUC.Cancel(ctx, usecase.CancelInput{
		ActorID:   customer.ID,
		AccountID: account.ID,
		EntryID:   deposit.ID,
	})
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected unauthorized for customer actor, got %v", err)
	}
}

func TestCancelledTransferStaysConsistent(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()
	testDB.TruncateAll(ctx)

	pool := testDB.Pool
	ledgerUC := newLedgerUseCase(pool)
	reconUC := usecase.NewReconciliationUseCase(postgres.NewLedgerRepository(pool))

	admin := testDB.CreateTestUser(ctx, domain.RoleAdmin)
	source := testDB.CreateTestAccount(ctx, domain.AccountKindChecking, "USD", decimal.NewFromInt(100))
	dest := testDB.CreateTestAccount(ctx, domain.AccountKindChecking, "USD", decimal.NewFromInt(50))

	transfer, err := ledgerUC.Transfer(ctx, usecase.TransferInput{
		FromAccountID: source.ID,
		ToAccountID:   dest.ID,
		Amount:        decimal.NewFromInt(25),
	})
	if err != nil {
		t.Fatalf("transfer failed: %v", err)
	}

	if _, err := ledgerUC.Cancel(ctx, usecase.CancelInput{
		ActorID:   admin.ID,
		AccountID: dest.ID,
		EntryID:   transfer.InEntry.ID,
	}); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	report, err := reconUC.CheckConsistency(ctx)
	if err != nil {
		t.Fatalf("expected consistent ledger after cancellation, got %v", err)
	}
	if len(report.Drifts) != 0 {
		t.Errorf("expected no drifts, got %d", len(report.Drifts))
	}
}
