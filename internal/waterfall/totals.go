package waterfall

import (
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/orcap/tms/internal/domain"
)

// calculateFirmTotals sums every per-advisor result column across the period,
// override recipients included. ARNKEarnings is the firm pool as the audit
// books it: the residual pool plus the override collected on inherited clients
// and settled onward to the override-only recipients.
func calculateFirmTotals(results, overrideResults []domain.WaterfallResult) domain.FirmTotals {
	sum := func(pick func(domain.WaterfallResult) decimal.Decimal) decimal.Decimal {
		return lo.Reduce(results, func(acc decimal.Decimal, r domain.WaterfallResult, _ int) decimal.Decimal {
			return acc.Add(pick(r))
		}, decimal.Zero)
	}

	residual := sum(func(r domain.WaterfallResult) decimal.Decimal { return r.ResidualPoolShare })
	overridePassThrough := lo.Reduce(overrideResults, func(acc decimal.Decimal, r domain.WaterfallResult, _ int) decimal.Decimal {
		return acc.Add(r.OperationsOverride)
	}, decimal.Zero)

	return domain.FirmTotals{
		GrossRevenue:       sum(func(r domain.WaterfallResult) decimal.Decimal { return r.GrossRevenue }),
		TotalExpenses:      sum(func(r domain.WaterfallResult) decimal.Decimal { return r.Expenses }),
		NetDistributable:   sum(func(r domain.WaterfallResult) decimal.Decimal { return r.NetDistributable }),
		AdvisorPayments:    sum(func(r domain.WaterfallResult) decimal.Decimal { return r.PaymentToAdvisor }),
		OperationsOverride: sum(func(r domain.WaterfallResult) decimal.Decimal { return r.OperationsOverride }),
		SettlementRecovery: sum(func(r domain.WaterfallResult) decimal.Decimal { return r.SettlementRecovery }),
		ResidualPool:       residual,
		ARNKEarnings:       residual.Add(overridePassThrough),
	}
}
