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
	"github.com/alturabank/ledger/internal/domain"
	"github.com/alturabank/ledger/internal/usecase"
)

type adminServiceStub struct {
	mintFn   func(ctx context.Context, input usecase.MintInput) (*domain.Entry, error)
	cancelFn func(ctx context.Context, input usecase.CancelInput) (*usecase.CancelResult, error)
}

func (s *adminServiceStub) Mint(ctx context.Context, input usecase.MintInput) (*domain.Entry, error) {
	return s.mintFn(ctx, input)
}

func (s *adminServiceStub) Cancel(ctx context.Context, input usecase.CancelInput) (*usecase.CancelResult, error) {
	return s.cancelFn(ctx, input)
}

type reconciliationServiceStub struct {
	checkFn func(ctx context.Context) (*usecase.ConsistencyReport, error)
}

func (s *reconciliationServiceStub) CheckConsistency(ctx context.Context) (*usecase.ConsistencyReport, error) {
	return s.checkFn(ctx)
}

type auditServiceStub struct {
	listFn func(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error)
}

func (s *auditServiceStub) List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error) {
	return s.listFn(ctx, filter)
}

func TestAdminHandler_Mint_Success(t *testing.T) {
	var captured usecase.MintInput
	admin := &adminServiceStub{
		mintFn: func(ctx context.Context, input usecase.MintInput) (*domain.Entry, error) {
			captured = input
			return &domain.Entry{
				ID:        "e-mint",
				AccountID: input.AccountID,
				Kind:      domain.EntryKindMint,
				Amount:    input.Amount,
				Status:    domain.EntryStatusCompleted,
			}, nil
		},
	}

	handler := NewAdminHandler(admin, nil, nil)

	body, _ := json.Marshal(dto.MintRequest{
		AccountID: "acc-1",
		Amount:    decimal.NewFromInt(500),
	})

	req := httptest.NewRequest(http.MethodPost, "/admin/mint", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Mint(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	if captured.AccountID != "acc-1" || !captured.Amount.Equal(decimal.NewFromInt(500)) {
		t.Fatalf("expected input to match request, got %+v", captured)
	}
}

func TestAdminHandler_Mint_Unauthorized(t *testing.T) {
	admin := &adminServiceStub{
		mintFn: func(ctx context.Context, input usecase.MintInput) (*domain.Entry, error) {
			return nil, domain.ErrUnauthorized
		},
	}

	handler := NewAdminHandler(admin, nil, nil)

	body, _ := json.Marshal(dto.MintRequest{AccountID: "acc-1", Amount: decimal.NewFromInt(500)})
	req := httptest.NewRequest(http.MethodPost, "/admin/mint", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Mint(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestAdminHandler_CancelEntry_Success(t *testing.T) {
	admin := &adminServiceStub{
		cancelFn: func(ctx context.Context, input usecase.CancelInput) (*usecase.CancelResult, error) {
			return &usecase.CancelResult{
				OriginalEntry: &domain.Entry{ID: input.EntryID, Status: domain.EntryStatusCancelled},
				ReversalEntry: &domain.Entry{ID: "e-rev", Reference: "REV-" + input.EntryID},
				Account:       &domain.Account{ID: input.AccountID},
			}, nil
		},
	}

	handler := NewAdminHandler(admin, nil, nil)

	body, _ := json.Marshal(dto.CancelEntryRequest{AccountID: "acc-1", EntryID: "e-1"})
	req := httptest.NewRequest(http.MethodPost, "/admin/cancellations", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.CancelEntry(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.CancelResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ReversalEntry.Reference != "REV-e-1" {
		t.Fatalf("expected reversal reference REV-e-1, got %s", resp.ReversalEntry.Reference)
	}
	if resp.Partial {
		t.Fatal("expected a full reversal")
	}
}

func TestAdminHandler_CancelEntry_AlreadyCancelled(t *testing.T) {
	admin := &adminServiceStub{
		cancelFn: func(ctx context.Context, input usecase.CancelInput) (*usecase.CancelResult, error) {
			return nil, domain.ErrInvalidCancellation
		},
	}

	handler := NewAdminHandler(admin, nil, nil)

	body, _ := json.Marshal(dto.CancelEntryRequest{AccountID: "acc-1", EntryID: "e-1"})
	req := httptest.NewRequest(http.MethodPost, "/admin/cancellations", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.CancelEntry(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
}

func TestAdminHandler_Reconcile_Clean(t *testing.T) {
	recon := &reconciliationServiceStub{
		checkFn: func(ctx context.Context) (*usecase.ConsistencyReport, error) {
			return &usecase.ConsistencyReport{
				Consistent:     true,
				CurrencyTotals: map[string]decimal.Decimal{"USD": decimal.NewFromInt(1000)},
			}, nil
		},
	}

	handler := NewAdminHandler(nil, recon, nil)

	req := httptest.NewRequest(http.MethodGet, "/admin/reconciliation", nil)
	rec := httptest.NewRecorder()

	handler.Reconcile(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAdminHandler_Reconcile_Drifted(t *testing.T) {
	recon := &reconciliationServiceStub{
		checkFn: func(ctx context.Context) (*usecase.ConsistencyReport, error) {
			report := &usecase.ConsistencyReport{
				Consistent: false,
				Drifts: []usecase.AccountDrift{{
					AccountID: "acc-1",
					Balance:   decimal.NewFromInt(100),
					EntrySum:  decimal.NewFromInt(90),
				}},
			}
			return report, usecase.ErrInconsistentLedger
		},
	}

	handler := NewAdminHandler(nil, recon, nil)

	req := httptest.NewRequest(http.MethodGet, "/admin/reconciliation", nil)
	rec := httptest.NewRecorder()

	handler.Reconcile(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}

	var resp dto.ReconciliationResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Consistent || len(resp.Drifts) != 1 {
		t.Fatalf("expected one drift to be reported, got %+v", resp)
	}
}

func TestAdminHandler_ListAuditLogs(t *testing.T) {
	var captured domain.AuditFilter
	audit := &auditServiceStub{
		listFn: func(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error) {
			captured = filter
			return []*domain.AuditLog{{ID: "log-1", Action: "mint.create"}}, nil
		},
	}

	handler := NewAdminHandler(nil, nil, audit)

	req := httptest.NewRequest(http.MethodGet, "/admin/audit-logs?actor_id=user-1&action=mint.create&limit=10", nil)
	rec := httptest.NewRecorder()

	handler.ListAuditLogs(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	if captured.ActorID != "user-1" || captured.Action != "mint.create" || captured.Limit != 10 {
		t.Fatalf("expected filter from query params, got %+v", captured)
	}

	var resp dto.ListAuditLogsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Logs) != 1 {
		t.Fatalf("expected 1 log, got %d", len(resp.Logs))
	}
}
