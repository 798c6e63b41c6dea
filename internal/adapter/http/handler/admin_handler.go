package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/alturabank/ledger/internal/adapter/http/dto"
	"github.com/alturabank/ledger/internal/domain"
	"github.com/alturabank/ledger/internal/usecase"
)

// AdminService defines the privileged ledger operations needed by AdminHandler.
type AdminService interface {
	Mint(ctx context.Context, input usecase.MintInput) (*domain.Entry, error)
	Cancel(ctx context.Context, input usecase.CancelInput) (*usecase.CancelResult, error)
}

// ReconciliationService verifies ledger-wide invariants.
type ReconciliationService interface {
	CheckConsistency(ctx context.Context) (*usecase.ConsistencyReport, error)
}

// AuditService defines read access to the audit trail.
type AuditService interface {
	List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error)
}

// AdminHandler handles privileged operations: minting, cancellation,
// reconciliation and the audit trail.
type AdminHandler struct {
	adminUC  AdminService
	reconUC  ReconciliationService
	auditSvc AuditService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(adminUC AdminService, reconUC ReconciliationService, auditSvc AuditService) *AdminHandler {
	return &AdminHandler{
		adminUC:  adminUC,
		reconUC:  reconUC,
		auditSvc: auditSvc,
	}
}

// Mint credits an account with newly created money.
func (h *AdminHandler) Mint(w http.ResponseWriter, r *http.Request) {
	var req dto.MintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	entry, err := h.adminUC.Mint(r.Context(), usecase.MintInput{
		ActorID:   actorID(r),
		AccountID: req.AccountID,
		Amount:    req.Amount,
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to mint", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.EntryFromDomain(entry))
}

// CancelEntry cancels a completed entry and applies a reversal. If the
// entry is one leg of a transfer or exchange, the sibling leg is
// cancelled in the same transaction.
func (h *AdminHandler) CancelEntry(w http.ResponseWriter, r *http.Request) {
	var req dto.CancelEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := h.adminUC.Cancel(r.Context(), usecase.CancelInput{
		ActorID:   actorID(r),
		AccountID: req.AccountID,
		EntryID:   req.EntryID,
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to cancel entry", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.CancelFromResult(result))
}

// Reconcile runs a consistency check over the whole ledger. A drifted
// ledger still returns the report, with a 409 status.
func (h *AdminHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	report, err := h.reconUC.CheckConsistency(r.Context())
	if err != nil {
		if errors.Is(err, usecase.ErrInconsistentLedger) && report != nil {
			writeJSON(w, http.StatusConflict, dto.ReconciliationFromReport(report))
			return
		}

		writeError(w, mapDomainError(err), "failed to reconcile", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ReconciliationFromReport(report))
}

// ListAuditLogs lists audit trail records with optional filters.
func (h *AdminHandler) ListAuditLogs(w http.ResponseWriter, r *http.Request) {
	filter := domain.AuditFilter{
		ActorID:      r.URL.Query().Get("actor_id"),
		Action:       r.URL.Query().Get("action"),
		ResourceType: r.URL.Query().Get("resource_type"),
		ResourceID:   r.URL.Query().Get("resource_id"),
		Limit:        parseIntQuery(r, "limit", 50),
		Offset:       parseIntQuery(r, "offset", 0),
	}

	if v := r.URL.Query().Get("start_date"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			filter.StartDate = &t
		}
	}
	if v := r.URL.Query().Get("end_date"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			filter.EndDate = &t
		}
	}

	logs, err := h.auditSvc.List(r.Context(), filter)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list audit logs", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListAuditLogsResponse{
		Logs:  dto.AuditLogsFromDomain(logs),
		Total: int64(len(logs)),
	})
}
