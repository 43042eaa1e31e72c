// Package ledger holds the only cross-period state in the system: per-advisor
// settlement balances and the company-debt book. A State value is injected
// into each period's waterfall run and a new State comes back; nothing here is
// a hidden global.
package ledger

import (
	"errors"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/orcap/tms/internal/domain"
)

// ErrOutOfOrderPeriod indicates an attempt to process a period at or before
// the ledger's last processed period. Periods are strictly chronological:
// each opening balance is the previous closing balance.
var ErrOutOfOrderPeriod = errors.New("period is not after the ledger's last processed period")

// State is the ledger snapshot between two periods.
type State struct {
	// Period is the last processed period, empty for a fresh ledger.
	Period domain.Period `json:"period,omitempty"`
	// Settlements maps advisor ID to outstanding settlement balance. An
	// advisor whose balance reached zero stays at zero unless explicitly
	// restated.
	Settlements map[string]decimal.Decimal `json:"settlements"`
	// Debts maps advisor ID to the negative-period shortfall owed to the
	// company. Separate from settlements and recovered from the advisor's
	// own 70% leg, not from the pool.
	Debts map[string]decimal.Decimal `json:"debts,omitempty"`
}

// NewState creates a fresh ledger from original settlement amounts.
func NewState(settlements map[string]decimal.Decimal) State {
	s := State{
		Settlements: make(map[string]decimal.Decimal, len(settlements)),
		Debts:       make(map[string]decimal.Decimal),
	}
	for id, amount := range settlements {
		s.Settlements[id] = amount
	}
	return s
}

// Clone deep-copies the state so a period run never mutates its input.
func (s State) Clone() State {
	out := State{
		Period:      s.Period,
		Settlements: make(map[string]decimal.Decimal, len(s.Settlements)),
		Debts:       make(map[string]decimal.Decimal, len(s.Debts)),
	}
	for id, v := range s.Settlements {
		out.Settlements[id] = v
	}
	for id, v := range s.Debts {
		out.Debts[id] = v
	}
	return out
}

// Settlement returns the outstanding settlement balance for an advisor.
func (s State) Settlement(advisorID string) decimal.Decimal {
	return s.Settlements[advisorID]
}

// Debt returns the outstanding company debt for an advisor.
func (s State) Debt(advisorID string) decimal.Decimal {
	return s.Debts[advisorID]
}

// Restate sets an advisor's settlement balance to an explicitly provided
// figure. Restatements are audit-visible events, recorded as such in history;
// normal flow never re-opens a cleared balance.
func (s *State) Restate(advisorID string, balance decimal.Decimal) {
	s.Settlements[advisorID] = balance
}

// Entry is one row of the append-only settlement history.
type Entry struct {
	Period    domain.Period   `json:"period"`
	AdvisorID string          `json:"advisorId"`
	Opening   decimal.Decimal `json:"openingBalance"`
	Recovery  decimal.Decimal `json:"recovery"`
	Closing   decimal.Decimal `json:"closingBalance"`
	Restated  bool            `json:"restated,omitempty"`
}

// Discontinuity flags a break in an advisor's settlement history: either a
// period whose opening does not equal the prior closing, or a row whose own
// arithmetic does not hold. Discontinuities are reported, never silently
// resolved. PriorClosing carries the closing figure the row should reconcile
// to: the previous period's closing for an opening mismatch, or the closing
// derived from the row's own opening and recovery for an arithmetic break.
type Discontinuity struct {
	AdvisorID    string          `json:"advisorId"`
	Period       domain.Period   `json:"period"`
	PriorClosing decimal.Decimal `json:"priorClosing"`
	Opening      decimal.Decimal `json:"opening"`
	Detail       string          `json:"detail"`
}

// VerifyHistory replays an advisor-interleaved history in chronological order
// and returns every discontinuity found. A clean audit trail must be
// reproducible from the original settlement amount with no gaps.
func VerifyHistory(entries []Entry) []Discontinuity {
	byAdvisor := make(map[string][]Entry)
	for _, e := range entries {
		byAdvisor[e.AdvisorID] = append(byAdvisor[e.AdvisorID], e)
	}

	var out []Discontinuity
	for advisorID, history := range byAdvisor {
		sort.SliceStable(history, func(i, j int) bool {
			return history[j].Period.After(history[i].Period)
		})

		for i, e := range history {
			if expected := e.Opening.Sub(e.Recovery); !e.Closing.Equal(expected) && !domain.WithinTolerance(e.Closing, expected) {
				out = append(out, Discontinuity{
					AdvisorID:    advisorID,
					Period:       e.Period,
					PriorClosing: expected,
					Opening:      e.Opening,
					Detail:       "closing does not equal opening minus recovery",
				})
			}
			if e.Recovery.GreaterThan(e.Opening) {
				out = append(out, Discontinuity{
					AdvisorID: advisorID,
					Period:    e.Period,
					Opening:   e.Opening,
					Detail:    "recovery exceeds opening balance",
				})
			}
			if i == 0 || e.Restated {
				continue
			}
			prior := history[i-1]
			if !e.Opening.Equal(prior.Closing) {
				out = append(out, Discontinuity{
					AdvisorID:    advisorID,
					Period:       e.Period,
					PriorClosing: prior.Closing,
					Opening:      e.Opening,
					Detail:       "opening does not equal prior period's closing",
				})
			}
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].AdvisorID != out[j].AdvisorID {
			return out[i].AdvisorID < out[j].AdvisorID
		}
		return out[j].Period.After(out[i].Period)
	})
	return out
}
