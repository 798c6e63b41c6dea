package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/alturabank/ledger/internal/adapter/http/dto"
	"github.com/alturabank/ledger/internal/usecase"
)

// TransferService defines the two-account operations needed by TransferHandler.
type TransferService interface {
	Transfer(ctx context.Context, input usecase.TransferInput) (*usecase.TransferResult, error)
	Exchange(ctx context.Context, input usecase.ExchangeInput) (*usecase.ExchangeResult, error)
}

// TransferHandler handles transfers and currency exchanges.
type TransferHandler struct {
	transferUC TransferService
	accountUC  AccountService
	rates      usecase.RateResolver
}

// NewTransferHandler creates a new TransferHandler.
func NewTransferHandler(transferUC TransferService, accountUC AccountService, rates usecase.RateResolver) *TransferHandler {
	return &TransferHandler{
		transferUC: transferUC,
		accountUC:  accountUC,
		rates:      rates,
	}
}

// Create creates a same-currency transfer.
func (h *TransferHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := h.transferUC.Transfer(r.Context(), req.ToUseCaseInput(actorID(r)))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create transfer", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.TransferFromResult(result))
}

// Exchange converts funds between accounts of different currencies. The
// rate is resolved once, before the transaction, and fixed for both legs.
func (h *TransferHandler) Exchange(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateExchangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	from, err := h.accountUC.GetAccount(r.Context(), req.FromAccountID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to resolve source account", err.Error())
		return
	}

	to, err := h.accountUC.GetAccount(r.Context(), req.ToAccountID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to resolve destination account", err.Error())
		return
	}

	rate, err := h.rates.Rate(r.Context(), from.Currency, to.Currency)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to resolve exchange rate", err.Error())
		return
	}

	result, err := h.transferUC.Exchange(r.Context(), usecase.ExchangeInput{
		FromAccountID: req.FromAccountID,
		ToAccountID:   req.ToAccountID,
		Amount:        req.Amount,
		Rate:          rate,
		ActorID:       actorID(r),
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create exchange", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.ExchangeFromResult(result, rate))
}
