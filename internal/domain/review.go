package domain

import "github.com/shopspring/decimal"

// ReviewKind names a recoverable, period-scoped condition. Items of these
// kinds are collected and returned alongside the period's results so a human
// can correct source data and re-run; the engine never guesses.
type ReviewKind string

const (
	ReviewUnattributedTransaction     ReviewKind = "unattributed-transaction"
	ReviewUnresolvedIndividualExpense ReviewKind = "unresolved-individual-expense"
	ReviewUnclassifiedExpense         ReviewKind = "unclassified-expense"
	ReviewMissingRate                 ReviewKind = "currency-conversion-missing"
)

// ReviewItem is one unresolved record, carrying enough of the raw input for
// manual review.
type ReviewItem struct {
	Kind        ReviewKind      `json:"kind"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency,omitempty"`
	Detail      string          `json:"detail,omitempty"`
}
