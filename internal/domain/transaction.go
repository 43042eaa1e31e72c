package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RawTransaction is one bank or processor record as emitted by the ingestion
// layer: already parsed out of its source file format, not yet classified or
// currency-normalized.
type RawTransaction struct {
	ID          string          `json:"id"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
}

// Transaction is a classified, base-currency revenue record. The original
// amount, currency and rate are retained for the audit trail.
type Transaction struct {
	ID          string           `json:"id"`
	Date        time.Time        `json:"date"`
	Source      string           `json:"source,omitempty"`
	AdvisorID   string           `json:"advisorId"`
	ClientName  string           `json:"clientName,omitempty"`
	GrossAmount decimal.Decimal  `json:"grossAmount"`
	Currency    string           `json:"currency"`
	BaseAmount  decimal.Decimal  `json:"baseAmount"`
	FxRate      *decimal.Decimal `json:"fxRate,omitempty"`
	Description string           `json:"description"`
}

// ExpenseCategory partitions expense line items for allocation.
type ExpenseCategory string

const (
	CategoryShared     ExpenseCategory = "shared"
	CategoryIndividual ExpenseCategory = "individual"
	CategoryFirmOnly   ExpenseCategory = "firm-only"
	CategoryExcluded   ExpenseCategory = "excluded"
)

// ExpenseLine is one raw expense item for a period. AdvisorID is optional
// payer-matching metadata from the ingestion layer, used to resolve individual
// expenses whose rule carries no fixed advisor.
type ExpenseLine struct {
	Provider    string          `json:"provider"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Date        time.Time       `json:"date"`
	AdvisorID   string          `json:"advisorId,omitempty"`
}

// MonthlyExpense is a resolved expense item with its per-advisor shares.
type MonthlyExpense struct {
	Category    ExpenseCategory            `json:"category"`
	ExpenseType string                     `json:"expenseType"`
	Provider    string                     `json:"provider"`
	Total       decimal.Decimal            `json:"total"`
	Shares      map[string]decimal.Decimal `json:"shares,omitempty"`
}
