package handler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/alturabank/ledger/internal/adapter/http/dto"
	"github.com/alturabank/ledger/internal/usecase"
)

// RatesHandler exposes exchange rate lookups.
type RatesHandler struct {
	rates usecase.RateResolver
}

// NewRatesHandler creates a new RatesHandler.
func NewRatesHandler(rates usecase.RateResolver) *RatesHandler {
	return &RatesHandler{rates: rates}
}

// Get resolves the rate for a currency pair.
func (h *RatesHandler) Get(w http.ResponseWriter, r *http.Request) {
	from := strings.ToUpper(chi.URLParam(r, "from"))
	to := strings.ToUpper(chi.URLParam(r, "to"))

	if from == "" || to == "" {
		writeError(w, http.StatusBadRequest, "missing currency pair", "")
		return
	}

	rate, err := h.rates.Rate(r.Context(), from, to)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to resolve rate", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.RateResponse{
		From: from,
		To:   to,
		Rate: rate,
	})
}
