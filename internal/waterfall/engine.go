// Package waterfall computes the monthly three-way distribution: each
// advisor's net distributable revenue is split into the advisor share, the
// operations override and the waterfall pool, with outstanding settlement
// debt recovered from the pool ahead of the firm's residual.
package waterfall

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/orcap/tms/internal/domain"
	"github.com/orcap/tms/internal/ledger"
)

// Fractions are the three distribution legs. They are configuration, not
// literals, and must sum to exactly 1.
type Fractions struct {
	AdvisorShare       decimal.Decimal
	OperationsOverride decimal.Decimal
	WaterfallPool      decimal.Decimal
}

// Validate rejects malformed distribution configuration before any
// calculation runs.
func (f Fractions) Validate() error {
	for _, leg := range []decimal.Decimal{f.AdvisorShare, f.OperationsOverride, f.WaterfallPool} {
		if leg.IsNegative() {
			return fmt.Errorf("distribution fraction %s is negative", leg)
		}
	}
	if sum := f.AdvisorShare.Add(f.OperationsOverride).Add(f.WaterfallPool); !sum.Equal(decimal.NewFromInt(1)) {
		return fmt.Errorf("distribution fractions sum to %s, must be exactly 1", sum)
	}
	return nil
}

// AdvisorInput is one standard advisor's classified revenue and allocated
// expenses for the period, in base currency.
type AdvisorInput struct {
	AdvisorID    string
	GrossRevenue decimal.Decimal
	Expenses     decimal.Decimal
}

// OverrideInput entitles an override-only recipient to the operations
// override on an inherited-client revenue subset. SubsetRevenue is the booked
// firm revenue for those clients; FeeShare is the booked fraction of the full
// client fee the override applies to (1 when nothing is split).
type OverrideInput struct {
	RecipientID   string
	SubsetRevenue decimal.Decimal
	FeeShare      decimal.Decimal
}

// Engine runs the per-period distribution.
type Engine struct {
	fractions Fractions
}

// NewEngine creates an Engine, failing fast on malformed fractions.
func NewEngine(fractions Fractions) (*Engine, error) {
	if err := fractions.Validate(); err != nil {
		return nil, fmt.Errorf("invalid waterfall configuration: %w", err)
	}
	return &Engine{fractions: fractions}, nil
}

// Calculate runs one period for every advisor and returns the results, firm
// totals and the next ledger state. The input state is never mutated. Periods
// must be strictly chronological; out-of-order processing is refused.
//
// Per-advisor results are deterministic functions of (input, state), so
// running the same period twice with identical inputs yields identical output.
func (e *Engine) Calculate(period domain.Period, inputs []AdvisorInput, overrides []OverrideInput, state ledger.State) ([]domain.WaterfallResult, domain.FirmTotals, ledger.State, error) {
	if state.Period != "" && !period.After(state.Period) {
		return nil, domain.FirmTotals{}, ledger.State{}, fmt.Errorf("%w: %s after %s", ledger.ErrOutOfOrderPeriod, period, state.Period)
	}

	next := state.Clone()
	next.Period = period

	results := make([]domain.WaterfallResult, 0, len(inputs)+len(overrides))
	for _, in := range inputs {
		results = append(results, e.distribute(in, &next))
	}

	var overrideResults []domain.WaterfallResult
	for _, ov := range overrides {
		overrideResults = append(overrideResults, e.overrideDistribution(ov))
	}
	results = append(results, overrideResults...)

	totals := calculateFirmTotals(results, overrideResults)
	return results, totals, next, nil
}

// distribute runs steps 1-6 for one standard advisor, updating the next
// ledger state in place.
func (e *Engine) distribute(in AdvisorInput, next *ledger.State) domain.WaterfallResult {
	res := domain.WaterfallResult{
		AdvisorID:    in.AdvisorID,
		GrossRevenue: in.GrossRevenue,
		Expenses:     in.Expenses,
	}

	net := in.GrossRevenue.Sub(in.Expenses)
	res.NetDistributable = net

	opening := next.Settlement(in.AdvisorID)
	debt := next.Debt(in.AdvisorID)

	if net.IsNegative() {
		// No waterfall. The shortfall becomes debt to the company, carried
		// forward and netted against the next positive period; the
		// settlement balance is untouched.
		res.DebtIncurred = net.Neg()
		next.Debts[in.AdvisorID] = debt.Add(res.DebtIncurred)
		res.DebtBalanceAfter = next.Debts[in.AdvisorID]
		res.SettlementBalanceAfter = opening
		return res
	}

	res.AdvisorShare = net.Mul(e.fractions.AdvisorShare)
	res.OperationsOverride = net.Mul(e.fractions.OperationsOverride)
	res.WaterfallPool = net.Mul(e.fractions.WaterfallPool)

	// Settlement recovery takes priority over the residual pool.
	res.SettlementRecovery = decimal.Min(opening, res.WaterfallPool)
	res.ResidualPoolShare = res.WaterfallPool.Sub(res.SettlementRecovery)
	next.Settlements[in.AdvisorID] = opening.Sub(res.SettlementRecovery)
	res.SettlementBalanceAfter = next.Settlements[in.AdvisorID]

	// Prior-period debt is netted against the advisor's own leg before any
	// cash is paid; it never enters the split.
	res.DebtRecovered = decimal.Min(debt, res.AdvisorShare)
	if res.DebtRecovered.IsPositive() {
		next.Debts[in.AdvisorID] = debt.Sub(res.DebtRecovered)
	}
	res.DebtBalanceAfter = next.Debt(in.AdvisorID)

	res.PaymentToAdvisor = res.AdvisorShare.Sub(res.DebtRecovered)
	return res
}

// overrideDistribution builds the result row for an override-only recipient:
// the override leg on the inherited subset's full fee, nothing else. The
// recipient pays no expenses, holds no settlement and earns no advisor share;
// its reported revenue is the booked subset.
func (e *Engine) overrideDistribution(ov OverrideInput) domain.WaterfallResult {
	basis := ov.SubsetRevenue
	if ov.FeeShare.IsPositive() && !ov.FeeShare.Equal(decimal.NewFromInt(1)) {
		basis = ov.SubsetRevenue.Div(ov.FeeShare)
	}
	override := basis.Mul(e.fractions.OperationsOverride)

	return domain.WaterfallResult{
		AdvisorID:          ov.RecipientID,
		GrossRevenue:       ov.SubsetRevenue,
		NetDistributable:   ov.SubsetRevenue,
		OperationsOverride: override,
		PaymentToAdvisor:   override,
	}
}
