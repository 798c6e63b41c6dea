package domain

import "time"

// Event types
const (
	EventTypeEntryApplied    = "entry.applied"
	EventTypeEntryCancelled  = "entry.cancelled"
	EventTypeTransferCreated = "transfer.created"
	EventTypeExchangeCreated = "exchange.created"
	EventTypeMintCreated     = "mint.created"
	EventTypeAccountCreated  = "account.created"
)

// Aggregate types
const (
	AggregateTypeEntry   = "entry"
	AggregateTypeAccount = "account"
)

// OutboxEvent represents an event recorded in the same transaction as the
// state change it describes, to be published asynchronously.
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// EntryAppliedEvent payload
type EntryAppliedEvent struct {
	EntryID   string `json:"entry_id"`
	AccountID string `json:"account_id"`
	Kind      string `json:"kind"`
	Amount    string `json:"amount"`
	Currency  string `json:"currency"`
	Reference string `json:"reference"`
}

// EntryCancelledEvent payload
type EntryCancelledEvent struct {
	EntryID         string `json:"entry_id"`
	ReversalEntryID string `json:"reversal_entry_id"`
	AccountID       string `json:"account_id"`
	Amount          string `json:"amount"`
	Partial         bool   `json:"partial"`
}

// TransferCreatedEvent payload
type TransferCreatedEvent struct {
	Reference     string `json:"reference"`
	FromAccountID string `json:"from_account_id"`
	ToAccountID   string `json:"to_account_id"`
	Amount        string `json:"amount"`
	Currency      string `json:"currency"`
}

// ExchangeCreatedEvent payload
type ExchangeCreatedEvent struct {
	Reference     string `json:"reference"`
	FromAccountID string `json:"from_account_id"`
	ToAccountID   string `json:"to_account_id"`
	DebitAmount   string `json:"debit_amount"`
	DebitCurrency string `json:"debit_currency"`
	CreditAmount  string `json:"credit_amount"`
	CreditCcy     string `json:"credit_currency"`
	Rate          string `json:"rate"`
}

// MintCreatedEvent payload
type MintCreatedEvent struct {
	EntryID   string `json:"entry_id"`
	AccountID string `json:"account_id"`
	ActorID   string `json:"actor_id"`
	Amount    string `json:"amount"`
	Currency  string `json:"currency"`
}

// AccountCreatedEvent payload
type AccountCreatedEvent struct {
	AccountID string `json:"account_id"`
	OwnerID   string `json:"owner_id"`
	Kind      string `json:"kind"`
	Currency  string `json:"currency"`
}
