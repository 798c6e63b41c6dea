package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/alturabank/ledger/internal/domain"
	"github.com/alturabank/ledger/internal/usecase"
)

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	ID          string          `json:"id"`
	OwnerID     string          `json:"owner_id"`
	Number      string          `json:"number"`
	Kind        string          `json:"kind"`
	Currency    string          `json:"currency"`
	Balance     decimal.Decimal `json:"balance"`
	CreditLimit decimal.Decimal `json:"credit_limit"`
	Active      bool            `json:"active"`
	Version     int64           `json:"version"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// AccountFromDomain converts domain account to response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:          a.ID,
		OwnerID:     a.OwnerID,
		Number:      a.Number,
		Kind:        string(a.Kind),
		Currency:    a.Currency,
		Balance:     a.Balance,
		CreditLimit: a.CreditLimit,
		Active:      a.Active,
		Version:     a.Version,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []*domain.Account) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}
	return result
}

// BalanceResponse represents an account balance in API responses.
type BalanceResponse struct {
	AccountID string          `json:"account_id"`
	Balance   decimal.Decimal `json:"balance"`
	Currency  string          `json:"currency"`
}

// EntryResponse represents an entry in API responses.
type EntryResponse struct {
	ID              string          `json:"id"`
	AccountID       string          `json:"account_id"`
	Kind            string          `json:"kind"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        string          `json:"currency"`
	Description     string          `json:"description,omitempty"`
	Reference       string          `json:"reference"`
	CounterpartyRef string          `json:"counterparty_ref,omitempty"`
	Status          string          `json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
}

// EntryFromDomain converts domain entry to response.
func EntryFromDomain(e *domain.Entry) *EntryResponse {
	return &EntryResponse{
		ID:              e.ID,
		AccountID:       e.AccountID,
		Kind:            string(e.Kind),
		Amount:          e.Amount,
		Currency:        e.Currency,
		Description:     e.Description,
		Reference:       e.Reference,
		CounterpartyRef: e.CounterpartyRef,
		Status:          string(e.Status),
		CreatedAt:       e.CreatedAt,
	}
}

// EntriesFromDomain converts domain entries to responses.
func EntriesFromDomain(entries []*domain.Entry) []*EntryResponse {
	result := make([]*EntryResponse, len(entries))
	for i, e := range entries {
		result[i] = EntryFromDomain(e)
	}
	return result
}

// TransferResponse represents the outcome of a transfer: both legs and
// the updated accounts.
type TransferResponse struct {
	Reference   string           `json:"reference"`
	FromAccount *AccountResponse `json:"from_account"`
	ToAccount   *AccountResponse `json:"to_account"`
	OutEntry    *EntryResponse   `json:"out_entry"`
	InEntry     *EntryResponse   `json:"in_entry"`
}

// TransferFromResult converts a transfer result to a response.
func TransferFromResult(r *usecase.TransferResult) *TransferResponse {
	return &TransferResponse{
		Reference:   r.Reference,
		FromAccount: AccountFromDomain(r.FromAccount),
		ToAccount:   AccountFromDomain(r.ToAccount),
		OutEntry:    EntryFromDomain(r.OutEntry),
		InEntry:     EntryFromDomain(r.InEntry),
	}
}

// ExchangeResponse represents the outcome of a currency exchange.
type ExchangeResponse struct {
	Reference       string           `json:"reference"`
	FromAccount     *AccountResponse `json:"from_account"`
	ToAccount       *AccountResponse `json:"to_account"`
	OutEntry        *EntryResponse   `json:"out_entry"`
	InEntry         *EntryResponse   `json:"in_entry"`
	Rate            decimal.Decimal  `json:"rate"`
	ConvertedAmount decimal.Decimal  `json:"converted_amount"`
}

// ExchangeFromResult converts an exchange result to a response.
func ExchangeFromResult(r *usecase.ExchangeResult, rate decimal.Decimal) *ExchangeResponse {
	return &ExchangeResponse{
		Reference:       r.Reference,
		FromAccount:     AccountFromDomain(r.FromAccount),
		ToAccount:       AccountFromDomain(r.ToAccount),
		OutEntry:        EntryFromDomain(r.OutEntry),
		InEntry:         EntryFromDomain(r.InEntry),
		Rate:            rate,
		ConvertedAmount: r.ConvertedAmount,
	}
}

// CancelResponse represents the outcome of a cancellation, including the
// sibling leg when the cancelled entry was half of a pair.
type CancelResponse struct {
	OriginalEntry   *EntryResponse   `json:"original_entry"`
	ReversalEntry   *EntryResponse   `json:"reversal_entry"`
	SiblingEntry    *EntryResponse   `json:"sibling_entry,omitempty"`
	SiblingReversal *EntryResponse   `json:"sibling_reversal,omitempty"`
	Account         *AccountResponse `json:"account"`
	SiblingAccount  *AccountResponse `json:"sibling_account,omitempty"`
	Partial         bool             `json:"partial"`
}

// CancelFromResult converts a cancellation result to a response.
func CancelFromResult(r *usecase.CancelResult) *CancelResponse {
	resp := &CancelResponse{
		OriginalEntry: EntryFromDomain(r.OriginalEntry),
		ReversalEntry: EntryFromDomain(r.ReversalEntry),
		Account:       AccountFromDomain(r.Account),
		Partial:       r.Partial,
	}

	if r.SiblingEntry != nil {
		resp.SiblingEntry = EntryFromDomain(r.SiblingEntry)
	}
	if r.SiblingReversal != nil {
		resp.SiblingReversal = EntryFromDomain(r.SiblingReversal)
	}
	if r.SiblingAccount != nil {
		resp.SiblingAccount = AccountFromDomain(r.SiblingAccount)
	}

	return resp
}

// RateResponse represents a resolved exchange rate.
type RateResponse struct {
	From string          `json:"from"`
	To   string          `json:"to"`
	Rate decimal.Decimal `json:"rate"`
}

// DriftResponse represents one drifted account in a reconciliation run.
type DriftResponse struct {
	AccountID string          `json:"account_id"`
	Balance   decimal.Decimal `json:"balance"`
	EntrySum  decimal.Decimal `json:"entry_sum"`
}

// ReconciliationResponse represents the outcome of a consistency check.
type ReconciliationResponse struct {
	Consistent     bool                       `json:"consistent"`
	Drifts         []DriftResponse            `json:"drifts"`
	CurrencyTotals map[string]decimal.Decimal `json:"currency_totals"`
}

// ReconciliationFromReport converts a consistency report to a response.
func ReconciliationFromReport(r *usecase.ConsistencyReport) *ReconciliationResponse {
	drifts := make([]DriftResponse, len(r.Drifts))
	for i, d := range r.Drifts {
		drifts[i] = DriftResponse{
			AccountID: d.AccountID,
			Balance:   d.Balance,
			EntrySum:  d.EntrySum,
		}
	}

	return &ReconciliationResponse{
		Consistent:     r.Consistent,
		Drifts:         drifts,
		CurrencyTotals: r.CurrencyTotals,
	}
}

// AuditLogResponse represents an audit log record in API responses.
type AuditLogResponse struct {
	ID           string      `json:"id"`
	ActorID      string      `json:"actor_id"`
	Action       string      `json:"action"`
	ResourceType string      `json:"resource_type"`
	ResourceID   string      `json:"resource_id"`
	BeforeState  domain.JSON `json:"before_state,omitempty"`
	AfterState   domain.JSON `json:"after_state,omitempty"`
	Status       string      `json:"status"`
	CreatedAt    time.Time   `json:"created_at"`
}

// AuditLogFromDomain converts a domain audit log to a response.
func AuditLogFromDomain(l *domain.AuditLog) *AuditLogResponse {
	return &AuditLogResponse{
		ID:           l.ID,
		ActorID:      l.ActorID,
		Action:       l.Action,
		ResourceType: l.ResourceType,
		ResourceID:   l.ResourceID,
		BeforeState:  l.BeforeState,
		AfterState:   l.AfterState,
		Status:       l.Status,
		CreatedAt:    l.CreatedAt,
	}
}

// AuditLogsFromDomain converts domain audit logs to responses.
func AuditLogsFromDomain(logs []*domain.AuditLog) []*AuditLogResponse {
	result := make([]*AuditLogResponse, len(logs))
	for i, l := range logs {
		result[i] = AuditLogFromDomain(l)
	}
	return result
}

// ListAccountsResponse represents a paginated list of accounts.
type ListAccountsResponse struct {
	Accounts []*AccountResponse `json:"accounts"`
	Total    int64              `json:"total"`
}

// ListEntriesResponse represents a paginated list of entries.
type ListEntriesResponse struct {
	Entries []*EntryResponse `json:"entries"`
	Total   int64            `json:"total"`
}

// ListAuditLogsResponse represents a paginated list of audit logs.
type ListAuditLogsResponse struct {
	Logs  []*AuditLogResponse `json:"logs"`
	Total int64               `json:"total"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
