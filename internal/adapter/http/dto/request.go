package dto

import (
	"github.com/shopspring/decimal"

	"github.com/alturabank/ledger/internal/domain"
	"github.com/alturabank/ledger/internal/usecase"
)

// CreateAccountRequest represents a request to create an account.
type CreateAccountRequest struct {
	OwnerID     string          `json:"owner_id"`
	Kind        string          `json:"kind"`
	Currency    string          `json:"currency"`
	CreditLimit decimal.Decimal `json:"credit_limit"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateAccountRequest) ToUseCaseInput() usecase.CreateAccountInput {
	return usecase.CreateAccountInput{
		OwnerID:     r.OwnerID,
		Kind:        domain.AccountKind(r.Kind),
		Currency:    r.Currency,
		CreditLimit: r.CreditLimit,
	}
}

// MovementRequest represents a request for a single deposit or withdrawal.
type MovementRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description,omitempty"`
}

// PaymentRequest represents a request to pay a bill or a credit card.
type PaymentRequest struct {
	PayeeID string          `json:"payee_id"`
	Amount  decimal.Decimal `json:"amount"`
}

// CreateTransferRequest represents a request to create a transfer.
type CreateTransferRequest struct {
	FromAccountID string          `json:"from_account_id"`
	ToAccountID   string          `json:"to_account_id"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateTransferRequest) ToUseCaseInput(actorID string) usecase.TransferInput {
	return usecase.TransferInput{
		FromAccountID: r.FromAccountID,
		ToAccountID:   r.ToAccountID,
		Amount:        r.Amount,
		Description:   r.Description,
		ActorID:       actorID,
	}
}

// CreateExchangeRequest represents a request to convert funds between two
// accounts of different currencies. The rate is resolved server side.
type CreateExchangeRequest struct {
	FromAccountID string          `json:"from_account_id"`
	ToAccountID   string          `json:"to_account_id"`
	Amount        decimal.Decimal `json:"amount"`
}

// MintRequest represents an administrative request to create money.
type MintRequest struct {
	AccountID string          `json:"account_id"`
	Amount    decimal.Decimal `json:"amount"`
}

// CancelEntryRequest represents an administrative request to cancel a
// completed entry.
type CancelEntryRequest struct {
	AccountID string `json:"account_id"`
	EntryID   string `json:"entry_id"`
}
