package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/alturabank/ledger/internal/adapter/http/dto"
	"github.com/alturabank/ledger/internal/adapter/http/middleware"
	"github.com/alturabank/ledger/internal/domain"
	"github.com/alturabank/ledger/internal/usecase"
)

// LedgerService defines the single-account operations needed by LedgerHandler.
type LedgerService interface {
	Deposit(ctx context.Context, input usecase.DepositInput) (*domain.Entry, error)
	Withdraw(ctx context.Context, input usecase.WithdrawInput) (*domain.Entry, error)
	PayBill(ctx context.Context, input usecase.PayBillInput) (*domain.Entry, error)
	PayCreditCard(ctx context.Context, input usecase.PayCreditCardInput) (*domain.Entry, error)
}

// LedgerHandler handles deposits, withdrawals and payments.
type LedgerHandler struct {
	ledgerUC LedgerService
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgerUC LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerUC: ledgerUC}
}

// Deposit credits an account with external funds.
func (h *LedgerHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "id")
	if accountID == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	var req dto.MovementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	entry, err := h.ledgerUC.Deposit(r.Context(), usecase.DepositInput{
		AccountID:   accountID,
		Amount:      req.Amount,
		Description: req.Description,
		ActorID:     actorID(r),
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to deposit", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.EntryFromDomain(entry))
}

// Withdraw debits an account.
func (h *LedgerHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "id")
	if accountID == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	var req dto.MovementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	entry, err := h.ledgerUC.Withdraw(r.Context(), usecase.WithdrawInput{
		AccountID:   accountID,
		Amount:      req.Amount,
		Description: req.Description,
		ActorID:     actorID(r),
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to withdraw", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.EntryFromDomain(entry))
}

// PayBill debits the paying account for a bill.
func (h *LedgerHandler) PayBill(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "id")
	if accountID == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	var req dto.PaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	entry, err := h.ledgerUC.PayBill(r.Context(), usecase.PayBillInput{
		AccountID: accountID,
		BillID:    req.PayeeID,
		Amount:    req.Amount,
		ActorID:   actorID(r),
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to pay bill", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.EntryFromDomain(entry))
}

// PayCreditCard debits the paying account toward a credit card balance.
func (h *LedgerHandler) PayCreditCard(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "id")
	if accountID == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	var req dto.PaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	entry, err := h.ledgerUC.PayCreditCard(r.Context(), usecase.PayCreditCardInput{
		AccountID: accountID,
		CardID:    req.PayeeID,
		Amount:    req.Amount,
		ActorID:   actorID(r),
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to pay credit card", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.EntryFromDomain(entry))
}

// actorID returns the authenticated user's ID, or empty when unauthenticated.
func actorID(r *http.Request) string {
	if user, ok := middleware.GetUserFromContext(r.Context()); ok {
		return user.ID
	}
	return ""
}
