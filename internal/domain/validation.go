package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation errors
var (
	ErrInvalidCurrency    = errors.New("invalid currency code")
	ErrInvalidDescription = errors.New("invalid description")
	ErrInvalidAccountKind = errors.New("invalid account kind")
	ErrAmountTooLarge     = errors.New("amount exceeds maximum allowed")
	ErrInvalidIDFormat    = errors.New("invalid ID format")
)

// Validation constants
const (
	MaxDescriptionLength = 255
	MaxMovementAmount    = "1000000000000" // 1 trillion
)

// ValidatePositiveAmount validates an operation amount that must be
// strictly positive (transfer, exchange, payment, mint inputs).
func ValidatePositiveAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	maxAmount, _ := decimal.NewFromString(MaxMovementAmount)
	if amount.GreaterThan(maxAmount) {
		return fmt.Errorf("%w: maximum amount is %s", ErrAmountTooLarge, MaxMovementAmount)
	}

	return nil
}

// ValidateMovementAmount validates a signed movement amount.
func ValidateMovementAmount(amount decimal.Decimal) error {
	if amount.IsZero() {
		return ErrInvalidAmount
	}

	return ValidatePositiveAmount(amount.Abs())
}

// ValidateDescription validates an entry description.
func ValidateDescription(description string) error {
	description = strings.TrimSpace(description)

	if len(description) > MaxDescriptionLength {
		return fmt.Errorf("%w: exceeds %d characters", ErrInvalidDescription, MaxDescriptionLength)
	}

	return nil
}

// ValidateAccountKind validates an account kind.
func ValidateAccountKind(kind AccountKind) error {
	if !kind.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidAccountKind, kind)
	}

	return nil
}

// ValidatePagination validates and limits pagination parameters.
func ValidatePagination(limit, offset int) (int, int) {
	const MaxPageSize = 1000
	const DefaultPageSize = 50

	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}
