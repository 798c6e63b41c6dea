package authority

import (
	"context"
	"errors"

	"github.com/alturabank/ledger/internal/domain"
	"github.com/alturabank/ledger/internal/usecase"
)

// UserAuthority implements usecase.AdminAuthority against the user store.
type UserAuthority struct {
	userRepo usecase.UserRepository
}

// NewUserAuthority creates a new UserAuthority.
func NewUserAuthority(userRepo usecase.UserRepository) *UserAuthority {
	return &UserAuthority{userRepo: userRepo}
}

// IsPrivileged reports whether the actor holds an active admin role.
// An unknown actor is simply not privileged, not an error.
func (a *UserAuthority) IsPrivileged(ctx context.Context, actorID string) (bool, error) {
	user, err := a.userRepo.GetByID(ctx, actorID)
	if errors.Is(err, domain.ErrUnauthorized) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return user.Active && user.Role.IsPrivileged(), nil
}
