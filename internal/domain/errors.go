package domain

import "errors"

var (
	// Account errors
	ErrAccountNotFound = errors.New("account not found")
	ErrAccountInactive = errors.New("account is inactive")

	// Movement errors
	ErrInvalidAmount     = errors.New("amount must be finite and non-zero")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrCurrencyMismatch  = errors.New("currency does not match account currency")
	ErrSameAccount       = errors.New("cannot move funds to the same account")
	ErrNoExchangeNeeded  = errors.New("accounts share a currency, use a transfer")
	ErrInvalidRate       = errors.New("exchange rate must be positive")

	// Entry errors
	ErrEntryNotFound       = errors.New("entry not found")
	ErrInvalidCancellation = errors.New("entry cannot be cancelled")

	// Collaborator errors
	ErrUnauthorized        = errors.New("actor is not privileged for this operation")
	ErrRateUnavailable     = errors.New("no exchange rate available for currency pair")
	ErrConcurrencyConflict = errors.New("concurrent modification detected")

	// Token errors
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)
