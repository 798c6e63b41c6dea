package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/alturabank/ledger/internal/domain"
)

// AccountUseCase handles account business logic.
type AccountUseCase struct {
	accountRepo AccountRepository
	idGen       IDGenerator
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(accountRepo AccountRepository, idGen IDGenerator) *AccountUseCase {
	return &AccountUseCase{
		accountRepo: accountRepo,
		idGen:       idGen,
	}
}

// CreateAccountInput represents input for creating an account.
type CreateAccountInput struct {
	OwnerID     string
	Kind        domain.AccountKind
	Currency    string
	CreditLimit decimal.Decimal
}

// CreateAccount creates a new account with a zero balance.
func (uc *AccountUseCase) CreateAccount(ctx context.Context, input CreateAccountInput) (*domain.Account, error) {
	if err := domain.ValidateAccountKind(input.Kind); err != nil {
		return nil, err
	}

	if err := domain.ValidateCurrency(input.Currency); err != nil {
		return nil, err
	}

	if input.CreditLimit.IsNegative() {
		return nil, fmt.Errorf("%w: credit limit cannot be negative", domain.ErrInvalidAmount)
	}

	if input.Kind != domain.AccountKindCredit && !input.CreditLimit.IsZero() {
		return nil, fmt.Errorf("%w: credit limit only applies to credit accounts", domain.ErrInvalidAmount)
	}

	now := time.Now().UTC()
	id := uc.idGen.Generate()

	account := &domain.Account{
		ID:          id,
		OwnerID:     input.OwnerID,
		Number:      accountNumber(id),
		Kind:        input.Kind,
		Currency:    input.Currency,
		Balance:     decimal.Zero,
		CreditLimit: input.CreditLimit,
		Active:      true,
		Version:     0,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := uc.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	return account, nil
}

// GetAccount retrieves an account by ID.
func (uc *AccountUseCase) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	return uc.accountRepo.GetByID(ctx, id)
}

// GetBalance returns the stored running balance. The balance is never
// recomputed by summation here; summation is a reconciliation concern.
func (uc *AccountUseCase) GetBalance(ctx context.Context, id string) (decimal.Decimal, error) {
	account, err := uc.accountRepo.GetByID(ctx, id)
	if err != nil {
		return decimal.Zero, err
	}

	return account.Balance, nil
}

// ListAccountsInput represents input for listing accounts.
type ListAccountsInput struct {
	OwnerID string
	Limit   int
	Offset  int
}

// ListAccounts lists accounts with pagination, optionally by owner.
func (uc *AccountUseCase) ListAccounts(ctx context.Context, input ListAccountsInput) ([]*domain.Account, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)

	if input.OwnerID != "" {
		return uc.accountRepo.ListByOwner(ctx, input.OwnerID, limit, offset)
	}

	return uc.accountRepo.List(ctx, limit, offset)
}

// accountNumber derives a displayable account number from the account id.
// The tail of a ULID is unique enough for display purposes and keeps the
// internal id out of counterparty references.
func accountNumber(id string) string {
	const width = 10

	if len(id) <= width {
		return "AC" + id
	}

	return "AC" + id[len(id)-width:]
}
