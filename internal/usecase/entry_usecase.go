package usecase

import (
	"context"

	"github.com/alturabank/ledger/internal/domain"
)

// EntryUseCase handles entry read operations.
type EntryUseCase struct {
	entryRepo EntryRepository
}

// NewEntryUseCase creates a new EntryUseCase.
func NewEntryUseCase(entryRepo EntryRepository) *EntryUseCase {
	return &EntryUseCase{
		entryRepo: entryRepo,
	}
}

// GetEntriesByAccountInput represents input for listing entries.
type GetEntriesByAccountInput struct {
	AccountID string
	Limit     int
	Offset    int
}

// GetEntriesByAccount lists entries for an account, newest first.
func (uc *EntryUseCase) GetEntriesByAccount(ctx context.Context, input GetEntriesByAccountInput) ([]*domain.Entry, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)

	return uc.entryRepo.GetByAccount(ctx, input.AccountID, limit, offset)
}

// GetEntry retrieves a single entry by ID.
func (uc *EntryUseCase) GetEntry(ctx context.Context, id string) (*domain.Entry, error) {
	return uc.entryRepo.GetByID(ctx, id)
}

// GetEntriesByReference resolves all legs sharing a correlation
// reference, e.g. both sides of a transfer or a reversal pair.
func (uc *EntryUseCase) GetEntriesByReference(ctx context.Context, reference string) ([]*domain.Entry, error) {
	return uc.entryRepo.GetByReference(ctx, reference)
}
