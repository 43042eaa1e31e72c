// Package export renders a period's payout report for the bookkeeper: one row
// per recipient with the full distribution breakdown, plus firm totals.
package export

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/orcap/tms/internal/domain"
	"github.com/orcap/tms/internal/registry"
)

// ReportRow is one recipient's line in the payout report. Amounts are rounded
// to pence; the stored calculation keeps the full precision.
type ReportRow struct {
	AdvisorID          string
	AdvisorName        string
	PaymentName        string
	GrossRevenue       decimal.Decimal
	Expenses           decimal.Decimal
	NetDistributable   decimal.Decimal
	AdvisorShare       decimal.Decimal
	OperationsOverride decimal.Decimal
	WaterfallPool      decimal.Decimal
	SettlementRecovery decimal.Decimal
	Payment            decimal.Decimal
	SettlementBalance  decimal.Decimal
}

// SheetWriter writes a payout report to a spreadsheet destination.
type SheetWriter interface {
	Write(ctx context.Context, period domain.Period, rows []ReportRow, totals domain.FirmTotals) error
}

// Service turns stored calculations into payout reports and delegates the
// rendering to a SheetWriter.
type Service struct {
	reg    *registry.Registry
	writer SheetWriter
}

// NewService creates an export Service.
func NewService(reg *registry.Registry, writer SheetWriter) *Service {
	if reg == nil || writer == nil {
		panic("export.NewService: nil dependency")
	}
	return &Service{reg: reg, writer: writer}
}

// Export renders the period's report and writes it out.
func (s *Service) Export(ctx context.Context, calc domain.MonthlyCalculation) error {
	rows := s.BuildRows(calc)
	if err := s.writer.Write(ctx, calc.Period, rows, calc.Totals); err != nil {
		return fmt.Errorf("writing payout report for %s: %w", calc.Period, err)
	}
	return nil
}

// BuildRows converts the calculation's results into report rows, resolving
// display and payment names from the advisor register. Result order is kept.
func (s *Service) BuildRows(calc domain.MonthlyCalculation) []ReportRow {
	return lo.Map(calc.Results, func(r domain.WaterfallResult, _ int) ReportRow {
		name, payName := r.AdvisorID, r.AdvisorID
		if adv, ok := s.reg.Advisor(r.AdvisorID); ok {
			name = adv.DisplayName
			payName = adv.PaymentName
		}
		return ReportRow{
			AdvisorID:          r.AdvisorID,
			AdvisorName:        name,
			PaymentName:        payName,
			GrossRevenue:       domain.Pounds(r.GrossRevenue),
			Expenses:           domain.Pounds(r.Expenses),
			NetDistributable:   domain.Pounds(r.NetDistributable),
			AdvisorShare:       domain.Pounds(r.AdvisorShare),
			OperationsOverride: domain.Pounds(r.OperationsOverride),
			WaterfallPool:      domain.Pounds(r.WaterfallPool),
			SettlementRecovery: domain.Pounds(r.SettlementRecovery),
			Payment:            domain.Pounds(r.PaymentToAdvisor),
			SettlementBalance:  domain.Pounds(r.SettlementBalanceAfter),
		}
	})
}

var reportHeader = []string{
	"Advisor", "Pay To", "Gross Revenue", "Expenses", "Net Distributable",
	"Advisor Share", "Operations Override", "Waterfall Pool",
	"Settlement Recovery", "Payment", "Settlement Balance",
}

func rowValues(r ReportRow) []any {
	return []any{
		r.AdvisorName, r.PaymentName,
		toFloat(r.GrossRevenue), toFloat(r.Expenses), toFloat(r.NetDistributable),
		toFloat(r.AdvisorShare), toFloat(r.OperationsOverride), toFloat(r.WaterfallPool),
		toFloat(r.SettlementRecovery), toFloat(r.Payment), toFloat(r.SettlementBalance),
	}
}

func totalsValues(t domain.FirmTotals) []any {
	return []any{
		"TOTAL", "",
		toFloat(domain.Pounds(t.GrossRevenue)),
		toFloat(domain.Pounds(t.TotalExpenses)),
		toFloat(domain.Pounds(t.NetDistributable)),
		"",
		toFloat(domain.Pounds(t.OperationsOverride)),
		toFloat(domain.Pounds(t.SettlementRecovery.Add(t.ResidualPool))),
		toFloat(domain.Pounds(t.SettlementRecovery)),
		toFloat(domain.Pounds(t.AdvisorPayments)),
		"",
	}
}

func firmEarningsValues(t domain.FirmTotals) []any {
	return []any{"FIRM EARNINGS", "", "", "", "", "", "", "", "", "", toFloat(domain.Pounds(t.ARNKEarnings))}
}

func toFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}
