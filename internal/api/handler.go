package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/orcap/tms/internal/calculation"
	"github.com/orcap/tms/internal/domain"
	"github.com/orcap/tms/internal/ledger"
)

// Handler provides HTTP endpoints for the reconciliation API.
type Handler struct {
	calculations *calculation.Service
}

// NewHandler creates a new API handler.
func NewHandler(calculations *calculation.Service) *Handler {
	return &Handler{calculations: calculations}
}

// GetLatestCalculation handles GET /api/v1/calculations/latest.
func (h *Handler) GetLatestCalculation(w http.ResponseWriter, r *http.Request) {
	calc, err := h.calculations.GetLatest(r.Context())
	if err != nil {
		if errors.Is(err, calculation.ErrNotFound) {
			writeError(w, http.StatusNotFound, "no calculations found")
			return
		}
		slog.Error("failed to get latest calculation", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, calc)
}

// GetCalculationByPeriod handles GET /api/v1/calculations/{period}.
func (h *Handler) GetCalculationByPeriod(w http.ResponseWriter, r *http.Request) {
	period, err := domain.ParsePeriod(r.PathValue("period"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid period, expected YYYY-MM")
		return
	}

	calc, err := h.calculations.GetByPeriod(r.Context(), period)
	if err != nil {
		if errors.Is(err, calculation.ErrNotFound) {
			writeError(w, http.StatusNotFound, "calculation not found for period")
			return
		}
		slog.Error("failed to get calculation", "period", period, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, calc)
}

// ListCalculations handles GET /api/v1/calculations.
func (h *Handler) ListCalculations(w http.ResponseWriter, r *http.Request) {
	periods, err := h.calculations.ListPeriods(r.Context())
	if err != nil {
		slog.Error("failed to list calculations", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"periods": periods})
}

// GetLedgerHistory handles GET /api/v1/ledger/{advisor}.
func (h *Handler) GetLedgerHistory(w http.ResponseWriter, r *http.Request) {
	advisorID := r.PathValue("advisor")

	entries, discontinuities, err := h.calculations.LedgerHistory(r.Context(), advisorID)
	if err != nil {
		slog.Error("failed to get ledger history", "advisor", advisorID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"advisorId":       advisorID,
		"entries":         entries,
		"discontinuities": discontinuities,
	})
}

// runRequest is the POST /api/v1/calculations/run payload: the period label
// plus the raw inputs already parsed out of their source files.
type runRequest struct {
	Period       string                  `json:"period"`
	Transactions []domain.RawTransaction `json:"transactions"`
	Expenses     []domain.ExpenseLine    `json:"expenses"`
}

// RunCalculation handles POST /api/v1/calculations/run.
func (h *Handler) RunCalculation(w http.ResponseWriter, r *http.Request) {
	var req runRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	period, err := domain.ParsePeriod(req.Period)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid period, expected YYYY-MM")
		return
	}

	calc, err := h.calculations.Run(r.Context(), period, req.Transactions, req.Expenses)
	if err != nil {
		if errors.Is(err, ledger.ErrOutOfOrderPeriod) {
			writeError(w, http.StatusConflict, "period is not after the last processed period")
			return
		}
		slog.Error("failed to run calculation", "period", period, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to run calculation")
		return
	}
	writeJSON(w, http.StatusOK, calc)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("failed to marshal JSON response", "error", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		slog.Warn("failed to write HTTP response body", "error", err)
		return
	}
	_, _ = w.Write([]byte("\n"))
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
