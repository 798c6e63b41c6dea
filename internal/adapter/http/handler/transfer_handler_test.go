package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/alturabank/ledger/internal/adapter/http/dto"
	"github.com/alturabank/ledger/internal/adapter/http/middleware"
	"github.com/alturabank/ledger/internal/domain"
	"github.com/alturabank/ledger/internal/usecase"
)

type transferServiceStub struct {
	transferFn func(ctx context.Context, input usecase.TransferInput) (*usecase.TransferResult, error)
	exchangeFn func(ctx context.Context, input usecase.ExchangeInput) (*usecase.ExchangeResult, error)
}

func (s *transferServiceStub) Transfer(ctx context.Context, input usecase.TransferInput) (*usecase.TransferResult, error) {
	return s.transferFn(ctx, input)
}

func (s *transferServiceStub) Exchange(ctx context.Context, input usecase.ExchangeInput) (*usecase.ExchangeResult, error) {
	return s.exchangeFn(ctx, input)
}

type rateResolverStub struct {
	rateFn func(ctx context.Context, from, to string) (decimal.Decimal, error)
}

func (s *rateResolverStub) Rate(ctx context.Context, from, to string) (decimal.Decimal, error) {
	return s.rateFn(ctx, from, to)
}

func transferResult() *usecase.TransferResult {
	return &usecase.TransferResult{
		Reference:   "TRF-1",
		FromAccount: &domain.Account{ID: "acc-1", Currency: "USD"},
		ToAccount:   &domain.Account{ID: "acc-2", Currency: "USD"},
		OutEntry:    &domain.Entry{ID: "e-1", AccountID: "acc-1", Reference: "TRF-1"},
		InEntry:     &domain.Entry{ID: "e-2", AccountID: "acc-2", Reference: "TRF-1"},
	}
}

func TestTransferHandler_Create_Success(t *testing.T) {
	var captured usecase.TransferInput
	svc := &transferServiceStub{
		transferFn: func(ctx context.Context, input usecase.TransferInput) (*usecase.TransferResult, error) {
			captured = input
			return transferResult(), nil
		},
	}

	handler := NewTransferHandler(svc, newAccountStub(), &rateResolverStub{})

	body, _ := json.Marshal(dto.CreateTransferRequest{
		FromAccountID: "acc-1",
		ToAccountID:   "acc-2",
		Amount:        decimal.NewFromInt(30),
		Description:   "rent",
	})

	req := httptest.NewRequest(http.MethodPost, "/transfers", bytes.NewReader(body))
	req = req.WithContext(context.WithValue(req.Context(), middleware.UserContextKey, &domain.User{
		ID:   "user-1",
		Role: domain.RoleCustomer,
	}))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	if captured.FromAccountID != "acc-1" || captured.ToAccountID != "acc-2" {
		t.Fatalf("expected input to match request, got %+v", captured)
	}
	if !captured.Amount.Equal(decimal.NewFromInt(30)) {
		t.Fatalf("expected amount 30, got %s", captured.Amount)
	}
	if captured.ActorID != "user-1" {
		t.Fatalf("expected actor from context, got %q", captured.ActorID)
	}

	var resp dto.TransferResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Reference != "TRF-1" {
		t.Fatalf("expected reference TRF-1, got %s", resp.Reference)
	}
}

func TestTransferHandler_Create_InsufficientFunds(t *testing.T) {
	svc := &transferServiceStub{
		transferFn: func(ctx context.Context, input usecase.TransferInput) (*usecase.TransferResult, error) {
			return nil, domain.ErrInsufficientFunds
		},
	}

	handler := NewTransferHandler(svc, newAccountStub(), &rateResolverStub{})

	body, _ := json.Marshal(dto.CreateTransferRequest{
		FromAccountID: "acc-1",
		ToAccountID:   "acc-2",
		Amount:        decimal.NewFromInt(1000),
	})

	req := httptest.NewRequest(http.MethodPost, "/transfers", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
}

func TestTransferHandler_Exchange_ResolvesRateFromAccountCurrencies(t *testing.T) {
	accounts := newAccountStub()
	accounts.getFn = func(ctx context.Context, id string) (*domain.Account, error) {
		switch id {
		case "acc-usd":
			return &domain.Account{ID: id, Currency: "USD"}, nil
		case "acc-eur":
			return &domain.Account{ID: id, Currency: "EUR"}, nil
		default:
			return nil, domain.ErrAccountNotFound
		}
	}

	rates := &rateResolverStub{
		rateFn: func(ctx context.Context, from, to string) (decimal.Decimal, error) {
			if from != "USD" || to != "EUR" {
				t.Fatalf("expected USD->EUR lookup, got %s->%s", from, to)
			}
			return decimal.RequireFromString("0.85"), nil
		},
	}

	var captured usecase.ExchangeInput
	svc := &transferServiceStub{
		exchangeFn: func(ctx context.Context, input usecase.ExchangeInput) (*usecase.ExchangeResult, error) {
			captured = input
			return &usecase.ExchangeResult{
				Reference:       "EXC-1",
				FromAccount:     &domain.Account{ID: "acc-usd", Currency: "USD"},
				ToAccount:       &domain.Account{ID: "acc-eur", Currency: "EUR"},
				OutEntry:        &domain.Entry{ID: "e-1"},
				InEntry:         &domain.Entry{ID: "e-2"},
				ConvertedAmount: decimal.RequireFromString("85"),
			}, nil
		},
	}

	handler := NewTransferHandler(svc, accounts, rates)

	body, _ := json.Marshal(dto.CreateExchangeRequest{
		FromAccountID: "acc-usd",
		ToAccountID:   "acc-eur",
		Amount:        decimal.NewFromInt(100),
	})

	req := httptest.NewRequest(http.MethodPost, "/exchanges", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Exchange(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	if !captured.Rate.Equal(decimal.RequireFromString("0.85")) {
		t.Fatalf("expected resolved rate 0.85, got %s", captured.Rate)
	}

	var resp dto.ExchangeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.ConvertedAmount.Equal(decimal.RequireFromString("85")) {
		t.Fatalf("expected converted amount 85, got %s", resp.ConvertedAmount)
	}
}

func TestTransferHandler_Exchange_RateUnavailable(t *testing.T) {
	accounts := newAccountStub()
	accounts.getFn = func(ctx context.Context, id string) (*domain.Account, error) {
		return &domain.Account{ID: id, Currency: "USD"}, nil
	}

	rates := &rateResolverStub{
		rateFn: func(ctx context.Context, from, to string) (decimal.Decimal, error) {
			return decimal.Zero, domain.ErrRateUnavailable
		},
	}

	svc := &transferServiceStub{
		exchangeFn: func(ctx context.Context, input usecase.ExchangeInput) (*usecase.ExchangeResult, error) {
			t.Fatal("Exchange should not be called when the rate is unavailable")
			return nil, nil
		},
	}

	handler := NewTransferHandler(svc, accounts, rates)

	body, _ := json.Marshal(dto.CreateExchangeRequest{
		FromAccountID: "acc-1",
		ToAccountID:   "acc-2",
		Amount:        decimal.NewFromInt(100),
	})

	req := httptest.NewRequest(http.MethodPost, "/exchanges", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Exchange(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
}
