// Package registry holds the firm's static-per-period reference data: advisor
// identities, client rosters and the ordered pattern rule tables driving
// classification and expense allocation.
//
// Every rule table is an ordered slice with first-match-wins semantics. Rules
// may structurally overlap; the declaration order is the tie-break and must be
// preserved exactly, so tables are never re-sorted or stored in maps.
package registry

import (
	"regexp"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/orcap/tms/internal/domain"
)

// ExpenseRule matches an expense line item description and assigns a category.
// AdvisorID fixes the attribution for individual rules that always apply to
// one named advisor regardless of payer. For shared rules, AdvisorIDs limits
// the recipients (default: all active standard advisors) and IncludeOwners
// selects the owner-inclusive denominator, a per-provider policy.
type ExpenseRule struct {
	Pattern       *regexp.Regexp
	Category      domain.ExpenseCategory
	ExpenseType   string
	AdvisorID     string
	AdvisorIDs    []string
	IncludeOwners bool
}

// SourceType classifies where revenue originates.
type SourceType string

const (
	SourcePartnerBank      SourceType = "partner-bank"
	SourcePaymentProcessor SourceType = "payment-processor"
	SourceClientDirect     SourceType = "client-direct"
)

// RevenueSourceRule tags a transaction's origin bank or processor,
// independent of advisor attribution.
type RevenueSourceRule struct {
	Pattern    *regexp.Regexp
	Source     string
	Type       SourceType
	Currencies []string
}

// AdvisorPattern attributes a payer/payee alias directly to an advisor, or to
// the operations-override pseudo-advisor.
type AdvisorPattern struct {
	Pattern   *regexp.Regexp
	AdvisorID string
}

// ClientPattern attributes a named client to its advisor. Client patterns are
// more specific than advisor aliases and are always tried first.
type ClientPattern struct {
	Pattern    *regexp.Regexp
	ClientName string
	AdvisorID  string
}

// OverrideAgreement entitles an override-only recipient to the operations
// override on an inherited client now serviced by another advisor. FeeShare is
// the fraction of the client's full fee booked as firm revenue; the override
// applies to the full fee, so a 50/50 split books half the fee but pays the
// override on all of it.
type OverrideAgreement struct {
	RecipientID        string
	ClientPattern      *regexp.Regexp
	ServicingAdvisorID string
	FeeShare           decimal.Decimal
}

// Registry bundles the reference data for a run. Loaded once and treated as
// immutable thereafter.
type Registry struct {
	Advisors         []domain.Advisor
	ExpenseRules     []ExpenseRule
	RevenueSources   []RevenueSourceRule
	AdvisorPatterns  []AdvisorPattern
	ClientPatterns   []ClientPattern
	TransferPatterns []*regexp.Regexp
	Overrides        []OverrideAgreement
}

// Advisor looks up an advisor by ID.
func (r *Registry) Advisor(id string) (domain.Advisor, bool) {
	return lo.Find(r.Advisors, func(a domain.Advisor) bool { return a.ID == id })
}

// ActiveStandardAdvisors returns the active revenue-earning advisors; these
// form the default shared-expense pool.
func (r *Registry) ActiveStandardAdvisors() []domain.Advisor {
	return lo.Filter(r.Advisors, func(a domain.Advisor, _ int) bool {
		return a.Active && a.Role == domain.RoleStandard
	})
}

// OverrideRecipients returns the override-only recipients.
func (r *Registry) OverrideRecipients() []domain.Advisor {
	return lo.Filter(r.Advisors, func(a domain.Advisor, _ int) bool {
		return a.Role == domain.RoleOverrideOnly
	})
}

// IsOverrideOnly reports whether the ID belongs to an override-only recipient.
func (r *Registry) IsOverrideOnly(id string) bool {
	a, ok := r.Advisor(id)
	return ok && a.Role == domain.RoleOverrideOnly
}

// pattern compiles a case-insensitive match expression. Reference data uses it
// for both plain substrings and regular expressions.
func pattern(expr string) *regexp.Regexp {
	return regexp.MustCompile("(?i)" + expr)
}
