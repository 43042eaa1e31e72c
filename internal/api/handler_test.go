package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/orcap/tms/internal/calculation"
	"github.com/orcap/tms/internal/classify"
	"github.com/orcap/tms/internal/domain"
	"github.com/orcap/tms/internal/expense"
	"github.com/orcap/tms/internal/fx"
	"github.com/orcap/tms/internal/ledger"
	"github.com/orcap/tms/internal/registry"
	"github.com/orcap/tms/internal/waterfall"
)

type mockCalcRepo struct {
	saved []domain.MonthlyCalculation
}

func (m *mockCalcRepo) Save(_ context.Context, calc domain.MonthlyCalculation) error {
	m.saved = append(m.saved, calc)
	return nil
}

func (m *mockCalcRepo) GetByPeriod(_ context.Context, period domain.Period) (domain.MonthlyCalculation, error) {
	for _, c := range m.saved {
		if c.Period == period {
			return c, nil
		}
	}
	return domain.MonthlyCalculation{}, calculation.ErrNotFound
}

func (m *mockCalcRepo) GetLatest(_ context.Context) (domain.MonthlyCalculation, error) {
	if len(m.saved) == 0 {
		return domain.MonthlyCalculation{}, calculation.ErrNotFound
	}
	return m.saved[len(m.saved)-1], nil
}

func (m *mockCalcRepo) ListPeriods(_ context.Context) ([]domain.Period, error) {
	var periods []domain.Period
	for _, c := range m.saved {
		periods = append(periods, c.Period)
	}
	return periods, nil
}

type mockLedgerRepo struct {
	entries []ledger.Entry
}

func (m *mockLedgerRepo) AppendEntries(_ context.Context, entries []ledger.Entry) error {
	m.entries = append(m.entries, entries...)
	return nil
}

func (m *mockLedgerRepo) SaveDebts(_ context.Context, _ domain.Period, _ map[string]decimal.Decimal) error {
	return nil
}

func (m *mockLedgerRepo) History(_ context.Context, advisorID string) ([]ledger.Entry, error) {
	var out []ledger.Entry
	for _, e := range m.entries {
		if e.AdvisorID == advisorID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *mockLedgerRepo) LatestState(_ context.Context) (ledger.State, error) {
	return ledger.NewState(nil), nil
}

type sterlingOnly struct{}

func (sterlingOnly) Rate(_ context.Context, _ time.Time, from, to string) (decimal.Decimal, error) {
	return decimal.Zero, fmt.Errorf("no rate for %s->%s", from, to)
}

func newTestServer(t *testing.T, repo *mockCalcRepo, ledgerRepo *mockLedgerRepo, apiKey string) *httptest.Server {
	t.Helper()

	reg := registry.Default()
	allocator, err := expense.NewAllocator(reg, false, 2)
	if err != nil {
		t.Fatalf("NewAllocator: %v", err)
	}
	engine, err := waterfall.NewEngine(waterfall.Fractions{
		AdvisorShare:       domain.Money("0.70"),
		OperationsOverride: domain.Money("0.10"),
		WaterfallPool:      domain.Money("0.20"),
	})
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}

	svc := calculation.NewService(
		slog.New(slog.DiscardHandler),
		reg,
		classify.New(reg),
		fx.NewNormalizer("GBP", sterlingOnly{}),
		allocator,
		engine,
		repo,
		ledgerRepo,
	)

	srv := NewServer("0", svc, apiKey)
	ts := httptest.NewServer(srv.Handler)
	t.Cleanup(ts.Close)
	return ts
}

func storedCalculation(period domain.Period) domain.MonthlyCalculation {
	return domain.MonthlyCalculation{
		Period: period,
		Totals: domain.FirmTotals{GrossRevenue: domain.Money("30966.30")},
	}
}

func TestGetLatestCalculation(t *testing.T) {
	repo := &mockCalcRepo{saved: []domain.MonthlyCalculation{
		storedCalculation("2025-10"),
		storedCalculation("2025-11"),
	}}
	ts := newTestServer(t, repo, &mockLedgerRepo{}, "")

	resp, err := http.Get(ts.URL + "/api/v1/calculations/latest")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var calc domain.MonthlyCalculation
	if err := json.NewDecoder(resp.Body).Decode(&calc); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if calc.Period != "2025-11" {
		t.Errorf("period = %s, want 2025-11", calc.Period)
	}
}

func TestGetLatestCalculationEmpty(t *testing.T) {
	ts := newTestServer(t, &mockCalcRepo{}, &mockLedgerRepo{}, "")

	resp, err := http.Get(ts.URL + "/api/v1/calculations/latest")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestGetCalculationByPeriod(t *testing.T) {
	repo := &mockCalcRepo{saved: []domain.MonthlyCalculation{storedCalculation("2025-11")}}
	ts := newTestServer(t, repo, &mockLedgerRepo{}, "")

	resp, err := http.Get(ts.URL + "/api/v1/calculations/2025-11")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
}

func TestGetCalculationBadPeriod(t *testing.T) {
	ts := newTestServer(t, &mockCalcRepo{}, &mockLedgerRepo{}, "")

	resp, err := http.Get(ts.URL + "/api/v1/calculations/november")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestGetLedgerHistory(t *testing.T) {
	ledgerRepo := &mockLedgerRepo{entries: []ledger.Entry{
		{Period: "2025-10", AdvisorID: "mariia-filatenko", Opening: domain.Money("5744.00"), Recovery: domain.Money("1363.29"), Closing: domain.Money("4380.71")},
	}}
	ts := newTestServer(t, &mockCalcRepo{}, ledgerRepo, "")

	resp, err := http.Get(ts.URL + "/api/v1/ledger/mariia-filatenko")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var body struct {
		AdvisorID       string                 `json:"advisorId"`
		Entries         []ledger.Entry         `json:"entries"`
		Discontinuities []ledger.Discontinuity `json:"discontinuities"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(body.Entries) != 1 {
		t.Errorf("expected 1 entry, got %d", len(body.Entries))
	}
	if len(body.Discontinuities) != 0 {
		t.Errorf("expected no discontinuities, got %d", len(body.Discontinuities))
	}
}

func TestRunCalculationRequiresAuth(t *testing.T) {
	ts := newTestServer(t, &mockCalcRepo{}, &mockLedgerRepo{}, "secret-key")

	resp, err := http.Post(ts.URL+"/api/v1/calculations/run", "application/json",
		strings.NewReader(`{"period":"2025-11"}`))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
}

func TestRunCalculation(t *testing.T) {
	repo := &mockCalcRepo{}
	ts := newTestServer(t, repo, &mockLedgerRepo{}, "secret-key")

	payload := `{
		"period": "2025-11",
		"transactions": [
			{"id": "t1", "date": "2025-11-03T00:00:00Z", "description": "CBH RETROCESSION BARKOV", "amount": "5000.00", "currency": "GBP"}
		],
		"expenses": []
	}`
	req, err := http.NewRequest(http.MethodPost, ts.URL+"/api/v1/calculations/run", strings.NewReader(payload))
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	req.Header.Set("Authorization", "Bearer secret-key")
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var calc domain.MonthlyCalculation
	if err := json.NewDecoder(resp.Body).Decode(&calc); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(calc.Transactions) != 1 {
		t.Errorf("expected 1 transaction, got %d", len(calc.Transactions))
	}
	if len(repo.saved) != 1 {
		t.Errorf("expected the run to persist, got %d saved", len(repo.saved))
	}
}

func TestRunCalculationBadBody(t *testing.T) {
	ts := newTestServer(t, &mockCalcRepo{}, &mockLedgerRepo{}, "")

	resp, err := http.Post(ts.URL+"/api/v1/calculations/run", "application/json",
		strings.NewReader("{not json"))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}
