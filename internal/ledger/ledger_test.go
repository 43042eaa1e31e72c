package ledger

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/orcap/tms/internal/domain"
)

// mariiaHistory is the verified 13-period settlement sequence from the
// December 2025 forensic reconciliation, starting from the original 15551.00.
// The November row restates the opening balance: October closed at 3675.87 but
// the source books re-opened November at 4380.71, an inconsistency the ledger
// must flag rather than resolve.
var mariiaHistory = []Entry{
	{Period: "2024-11", AdvisorID: "mariia-filatenko", Opening: domain.Money("15551.00"), Recovery: domain.Money("2139.94"), Closing: domain.Money("13411.06")},
	{Period: "2024-12", AdvisorID: "mariia-filatenko", Opening: domain.Money("13411.06"), Recovery: domain.Money("386.27"), Closing: domain.Money("13024.79")},
	{Period: "2025-01", AdvisorID: "mariia-filatenko", Opening: domain.Money("13024.79"), Recovery: domain.Money("556.46"), Closing: domain.Money("12468.33")},
	{Period: "2025-02", AdvisorID: "mariia-filatenko", Opening: domain.Money("12468.33"), Recovery: domain.Money("2982.31"), Closing: domain.Money("9486.02")},
	{Period: "2025-03", AdvisorID: "mariia-filatenko", Opening: domain.Money("9486.02"), Recovery: domain.Money("423.23"), Closing: domain.Money("9062.79")},
	{Period: "2025-04", AdvisorID: "mariia-filatenko", Opening: domain.Money("9062.79"), Recovery: domain.Money("1219.36"), Closing: domain.Money("7843.43")},
	{Period: "2025-05", AdvisorID: "mariia-filatenko", Opening: domain.Money("7843.43"), Recovery: domain.Money("1406.88"), Closing: domain.Money("6436.55")},
	{Period: "2025-06", AdvisorID: "mariia-filatenko", Opening: domain.Money("6436.55"), Recovery: domain.Money("469.26"), Closing: domain.Money("5967.29")},
	{Period: "2025-07", AdvisorID: "mariia-filatenko", Opening: domain.Money("5967.29"), Recovery: domain.Money("744.47"), Closing: domain.Money("5222.82")},
	{Period: "2025-08", AdvisorID: "mariia-filatenko", Opening: domain.Money("5222.82"), Recovery: domain.Money("447.19"), Closing: domain.Money("4775.63")},
	{Period: "2025-09", AdvisorID: "mariia-filatenko", Opening: domain.Money("4775.63"), Recovery: domain.Money("394.92"), Closing: domain.Money("4380.71")},
	{Period: "2025-10", AdvisorID: "mariia-filatenko", Opening: domain.Money("4380.71"), Recovery: domain.Money("704.84"), Closing: domain.Money("3675.87")},
	{Period: "2025-11", AdvisorID: "mariia-filatenko", Opening: domain.Money("4380.71"), Recovery: domain.Money("1363.27"), Closing: domain.Money("3017.44")},
}

func TestMariiaSequenceRowArithmetic(t *testing.T) {
	tolerance := domain.Money("0.01")
	for _, e := range mariiaHistory {
		derived := e.Opening.Sub(e.Recovery)
		if derived.Sub(e.Closing).Abs().GreaterThan(tolerance) {
			t.Errorf("%s: opening %s - recovery %s = %s, listed closing %s",
				e.Period, e.Opening, e.Recovery, derived, e.Closing)
		}
	}

	final := mariiaHistory[len(mariiaHistory)-1]
	if !final.Closing.Equal(domain.Money("3017.44")) {
		t.Errorf("final closing = %s, want 3017.44", final.Closing)
	}
}

func TestVerifyHistoryFlagsRestatedOpening(t *testing.T) {
	got := VerifyHistory(mariiaHistory)

	if len(got) != 1 {
		t.Fatalf("discontinuities = %d, want exactly 1 (Oct->Nov restatement): %+v", len(got), got)
	}
	d := got[0]
	if d.Period != "2025-11" {
		t.Errorf("discontinuity period = %s, want 2025-11", d.Period)
	}
	if !d.PriorClosing.Equal(domain.Money("3675.87")) || !d.Opening.Equal(domain.Money("4380.71")) {
		t.Errorf("discontinuity balances = %s vs %s, want 3675.87 vs 4380.71", d.PriorClosing, d.Opening)
	}
}

func TestVerifyHistoryAcceptsExplicitRestatement(t *testing.T) {
	history := make([]Entry, len(mariiaHistory))
	copy(history, mariiaHistory)
	history[len(history)-1].Restated = true

	if got := VerifyHistory(history); len(got) != 0 {
		t.Errorf("explicitly restated history still flagged: %+v", got)
	}
}

func TestVerifyHistoryReportsDerivedClosingOnArithmeticBreak(t *testing.T) {
	history := []Entry{
		{Period: "2025-01", AdvisorID: "a", Opening: domain.Money("100.00"), Recovery: domain.Money("30.00"), Closing: domain.Money("75.00")},
	}
	got := VerifyHistory(history)
	if len(got) != 1 {
		t.Fatalf("discontinuities = %d, want 1", len(got))
	}
	if got[0].Detail != "closing does not equal opening minus recovery" {
		t.Errorf("detail = %q", got[0].Detail)
	}
	// The reconciliation figure the row was supposed to close at.
	if !got[0].PriorClosing.Equal(domain.Money("70.00")) {
		t.Errorf("reported closing = %s, want 70.00", got[0].PriorClosing)
	}
}

func TestVerifyHistoryFlagsRecoveryExceedingOpening(t *testing.T) {
	history := []Entry{
		{Period: "2025-01", AdvisorID: "a", Opening: domain.Money("100.00"), Recovery: domain.Money("150.00"), Closing: domain.Money("-50.00")},
	}
	got := VerifyHistory(history)
	if len(got) != 1 {
		t.Fatalf("discontinuities = %d, want 1", len(got))
	}
	if got[0].Detail != "recovery exceeds opening balance" {
		t.Errorf("detail = %q", got[0].Detail)
	}
}

func TestStateCloneIsIndependent(t *testing.T) {
	orig := NewState(map[string]decimal.Decimal{"a": domain.Money("100.00")})
	orig.Debts["b"] = domain.Money("50.00")

	clone := orig.Clone()
	clone.Settlements["a"] = domain.Money("0")
	clone.Debts["b"] = domain.Money("0")

	if !orig.Settlement("a").Equal(domain.Money("100.00")) {
		t.Error("mutating clone changed original settlements")
	}
	if !orig.Debt("b").Equal(domain.Money("50.00")) {
		t.Error("mutating clone changed original debts")
	}
}

func TestRestate(t *testing.T) {
	s := NewState(map[string]decimal.Decimal{"mariia-filatenko": domain.Money("3675.87")})
	s.Restate("mariia-filatenko", domain.Money("4380.71"))

	if !s.Settlement("mariia-filatenko").Equal(domain.Money("4380.71")) {
		t.Errorf("balance = %s, want 4380.71", s.Settlement("mariia-filatenko"))
	}
}
