// Package expense partitions a period's raw expense line items into
// shared/individual/firm-only/excluded buckets and computes each advisor's
// allocated total.
package expense

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/orcap/tms/internal/domain"
	"github.com/orcap/tms/internal/registry"
)

// Result is the allocation outcome for one period.
//
// PerAdvisor carries each advisor's allocated total. FirmOnly expenses are
// retained for firm-level reporting but never allocated. Excluded lines are
// dropped from all totals. RoundingResidual accumulates the fractional pennies
// a shared division leaves unallocated; it is tracked, not redistributed, and
// stays within the audit tolerance.
type Result struct {
	Expenses         []domain.MonthlyExpense
	PerAdvisor       map[string]decimal.Decimal
	FirmOnly         decimal.Decimal
	RoundingResidual decimal.Decimal
	Review           []domain.ReviewItem
}

// Allocator applies the registry's ordered expense rules to raw line items.
type Allocator struct {
	reg           *registry.Registry
	includeOwners bool
	ownerCount    int
}

// NewAllocator creates an Allocator. includeOwners is the global default for
// the shared-cost denominator; a rule's own owner policy takes precedence.
// ownerCount is the number of firm owners added to an owner-inclusive
// denominator.
func NewAllocator(reg *registry.Registry, includeOwners bool, ownerCount int) (*Allocator, error) {
	if reg == nil {
		panic("expense.NewAllocator: registry is nil")
	}
	if ownerCount < 0 {
		return nil, fmt.Errorf("owner count must be non-negative, got %d", ownerCount)
	}
	if len(reg.ActiveStandardAdvisors()) == 0 {
		return nil, fmt.Errorf("registry has no active standard advisors to share expenses across")
	}
	return &Allocator{reg: reg, includeOwners: includeOwners, ownerCount: ownerCount}, nil
}

// Allocate classifies and allocates every line item. Rules are evaluated in
// declared order, first match wins; an unmatched line is surfaced for review,
// never silently dropped.
func (a *Allocator) Allocate(lines []domain.ExpenseLine) Result {
	res := Result{
		PerAdvisor:       make(map[string]decimal.Decimal),
		FirmOnly:         decimal.Zero,
		RoundingResidual: decimal.Zero,
	}

	for _, line := range lines {
		rule, matched := a.matchRule(line)
		if !matched {
			res.Review = append(res.Review, domain.ReviewItem{
				Kind:        domain.ReviewUnclassifiedExpense,
				Description: line.Description,
				Amount:      line.Amount,
				Detail:      fmt.Sprintf("provider %q matched no expense rule", line.Provider),
			})
			continue
		}

		switch rule.Category {
		case domain.CategoryExcluded:
			// Dropped entirely.

		case domain.CategoryFirmOnly:
			res.FirmOnly = res.FirmOnly.Add(line.Amount)
			res.Expenses = append(res.Expenses, domain.MonthlyExpense{
				Category:    domain.CategoryFirmOnly,
				ExpenseType: rule.ExpenseType,
				Provider:    line.Provider,
				Total:       line.Amount,
			})

		case domain.CategoryIndividual:
			a.allocateIndividual(&res, line, rule)

		case domain.CategoryShared:
			a.allocateShared(&res, line, rule)
		}
	}

	return res
}

func (a *Allocator) matchRule(line domain.ExpenseLine) (registry.ExpenseRule, bool) {
	for _, rule := range a.reg.ExpenseRules {
		if rule.Pattern.MatchString(line.Description) || rule.Pattern.MatchString(line.Provider) {
			return rule, true
		}
	}
	return registry.ExpenseRule{}, false
}

func (a *Allocator) allocateIndividual(res *Result, line domain.ExpenseLine, rule registry.ExpenseRule) {
	advisorID := rule.AdvisorID
	if advisorID == "" {
		advisorID = line.AdvisorID
	}
	if advisorID == "" {
		res.Review = append(res.Review, domain.ReviewItem{
			Kind:        domain.ReviewUnresolvedIndividualExpense,
			Description: line.Description,
			Amount:      line.Amount,
			Detail:      fmt.Sprintf("individual expense %q has no advisor attribution", rule.ExpenseType),
		})
		return
	}

	res.PerAdvisor[advisorID] = res.PerAdvisor[advisorID].Add(line.Amount)
	res.Expenses = append(res.Expenses, domain.MonthlyExpense{
		Category:    domain.CategoryIndividual,
		ExpenseType: rule.ExpenseType,
		Provider:    line.Provider,
		Total:       line.Amount,
		Shares:      map[string]decimal.Decimal{advisorID: line.Amount},
	})
}

func (a *Allocator) allocateShared(res *Result, line domain.ExpenseLine, rule registry.ExpenseRule) {
	recipients := rule.AdvisorIDs
	if len(recipients) == 0 {
		recipients = lo.Map(a.reg.ActiveStandardAdvisors(), func(adv domain.Advisor, _ int) string {
			return adv.ID
		})
	}

	denominator := int64(len(recipients))
	if rule.IncludeOwners || a.includeOwners {
		denominator += int64(a.ownerCount)
	}
	// NewAllocator guarantees at least one active standard advisor, so the
	// denominator is never zero.
	share := line.Amount.Div(decimal.NewFromInt(denominator))

	shares := make(map[string]decimal.Decimal, len(recipients))
	for _, id := range recipients {
		res.PerAdvisor[id] = res.PerAdvisor[id].Add(share)
		shares[id] = share
	}

	allocated := share.Mul(decimal.NewFromInt(denominator))
	res.RoundingResidual = res.RoundingResidual.Add(line.Amount.Sub(allocated))

	res.Expenses = append(res.Expenses, domain.MonthlyExpense{
		Category:    domain.CategoryShared,
		ExpenseType: rule.ExpenseType,
		Provider:    line.Provider,
		Total:       line.Amount,
		Shares:      shares,
	})
}
