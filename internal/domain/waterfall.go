package domain

import "github.com/shopspring/decimal"

// WaterfallResult is one advisor's distribution for one period.
//
// For a standard advisor with non-negative net distributable:
//
//	AdvisorShare + OperationsOverride + WaterfallPool == NetDistributable
//	WaterfallPool == SettlementRecovery + ResidualPoolShare
//
// For a negative period all shares are zero, the shortfall is recorded in
// DebtIncurred and the settlement balance is untouched. Override-only
// recipients carry only GrossRevenue (the inherited subset), OperationsOverride
// and PaymentToAdvisor.
type WaterfallResult struct {
	AdvisorID              string          `json:"advisorId"`
	GrossRevenue           decimal.Decimal `json:"grossRevenue"`
	Expenses               decimal.Decimal `json:"expenses"`
	NetDistributable       decimal.Decimal `json:"netDistributable"`
	AdvisorShare           decimal.Decimal `json:"advisorShare70"`
	OperationsOverride     decimal.Decimal `json:"operationsOverride10"`
	WaterfallPool          decimal.Decimal `json:"waterfallPool20"`
	SettlementRecovery     decimal.Decimal `json:"settlementRecovery"`
	ResidualPoolShare      decimal.Decimal `json:"arNkShare"`
	DebtIncurred           decimal.Decimal `json:"debtIncurred"`
	DebtRecovered          decimal.Decimal `json:"debtRecovered"`
	DebtBalanceAfter       decimal.Decimal `json:"debtBalanceAfter"`
	PaymentToAdvisor       decimal.Decimal `json:"paymentToAdvisor"`
	SettlementBalanceAfter decimal.Decimal `json:"settlementBalanceAfter"`
}

// FirmTotals are the column-wise sums of every per-advisor result, override
// recipients included. ARNKEarnings additionally folds in the override
// collected on inherited clients, matching how the audit books the firm pool.
type FirmTotals struct {
	GrossRevenue       decimal.Decimal `json:"grossRevenue"`
	TotalExpenses      decimal.Decimal `json:"totalExpenses"`
	NetDistributable   decimal.Decimal `json:"netDistributable"`
	AdvisorPayments    decimal.Decimal `json:"totalAdvisorPayments"`
	OperationsOverride decimal.Decimal `json:"totalOperationsOverride"`
	SettlementRecovery decimal.Decimal `json:"totalSettlementRecovery"`
	ResidualPool       decimal.Decimal `json:"totalResidualPool"`
	ARNKEarnings       decimal.Decimal `json:"arNkEarnings"`
}

// MonthlyCalculation is the complete output for one period. It is produced
// fresh on every run and never mutated; only the settlement ledger carries
// state between periods.
type MonthlyCalculation struct {
	Period       Period            `json:"period"`
	Transactions []Transaction     `json:"transactions"`
	Expenses     []MonthlyExpense  `json:"expenses"`
	Results      []WaterfallResult `json:"waterfallResults"`
	Totals       FirmTotals        `json:"totals"`
	Review       []ReviewItem      `json:"review,omitempty"`
}
