package export

import (
	"context"
	"testing"

	"github.com/orcap/tms/internal/domain"
	"github.com/orcap/tms/internal/registry"
	"github.com/xuri/excelize/v2"
)

type captureWriter struct {
	period domain.Period
	rows   []ReportRow
	totals domain.FirmTotals
}

func (c *captureWriter) Write(_ context.Context, period domain.Period, rows []ReportRow, totals domain.FirmTotals) error {
	c.period = period
	c.rows = rows
	c.totals = totals
	return nil
}

func novemberCalculation() domain.MonthlyCalculation {
	return domain.MonthlyCalculation{
		Period: "2025-11",
		Results: []domain.WaterfallResult{
			{
				AdvisorID:              "mariia-filatenko",
				GrossRevenue:           domain.Money("7387.13"),
				Expenses:               domain.Money("570.819143"),
				NetDistributable:       domain.Money("6816.310857"),
				AdvisorShare:           domain.Money("4771.4176"),
				OperationsOverride:     domain.Money("681.6311"),
				WaterfallPool:          domain.Money("1363.2622"),
				SettlementRecovery:     domain.Money("1363.2622"),
				PaymentToAdvisor:       domain.Money("4771.4176"),
				SettlementBalanceAfter: domain.Money("3017.4478"),
			},
			{
				AdvisorID:          "regent-consulting",
				GrossRevenue:       domain.Money("2069.63"),
				NetDistributable:   domain.Money("2069.63"),
				OperationsOverride: domain.Money("413.926"),
				PaymentToAdvisor:   domain.Money("413.926"),
			},
		},
		Totals: domain.FirmTotals{
			GrossRevenue:  domain.Money("30966.30"),
			TotalExpenses: domain.Money("1882.93"),
			ARNKEarnings:  domain.Money("4515.15"),
		},
	}
}

func TestBuildRowsResolvesNamesAndRounds(t *testing.T) {
	writer := &captureWriter{}
	svc := NewService(registry.Default(), writer)

	rows := svc.BuildRows(novemberCalculation())
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	mariia := rows[0]
	if mariia.AdvisorName == "mariia-filatenko" {
		t.Error("expected display name, got raw ID")
	}
	if !mariia.Payment.Equal(domain.Money("4771.42")) {
		t.Errorf("payment = %s, want 4771.42 rounded to pence", mariia.Payment)
	}
	if !mariia.SettlementBalance.Equal(domain.Money("3017.45")) {
		t.Errorf("settlement balance = %s, want 3017.45", mariia.SettlementBalance)
	}

	regent := rows[1]
	if !regent.OperationsOverride.Equal(domain.Money("413.93")) {
		t.Errorf("override = %s, want 413.93", regent.OperationsOverride)
	}
}

func TestExportDelegatesToWriter(t *testing.T) {
	writer := &captureWriter{}
	svc := NewService(registry.Default(), writer)

	if err := svc.Export(context.Background(), novemberCalculation()); err != nil {
		t.Fatalf("Export: %v", err)
	}

	if writer.period != "2025-11" {
		t.Errorf("period = %s, want 2025-11", writer.period)
	}
	if len(writer.rows) != 2 {
		t.Errorf("expected 2 rows, got %d", len(writer.rows))
	}
	if !writer.totals.ARNKEarnings.Equal(domain.Money("4515.15")) {
		t.Errorf("totals not passed through: %s", writer.totals.ARNKEarnings)
	}
}

func TestXLSXWriterProducesWorkbook(t *testing.T) {
	dir := t.TempDir()
	writer := NewXLSXWriter(dir)
	svc := NewService(registry.Default(), writer)
	calc := novemberCalculation()

	if err := svc.Export(context.Background(), calc); err != nil {
		t.Fatalf("Export: %v", err)
	}

	f, err := excelize.OpenFile(writer.Path("2025-11"))
	if err != nil {
		t.Fatalf("opening workbook: %v", err)
	}
	defer f.Close()

	header, err := f.GetCellValue(payoutSheet, "A1")
	if err != nil {
		t.Fatalf("reading header: %v", err)
	}
	if header != "Advisor" {
		t.Errorf("A1 = %q, want Advisor", header)
	}

	name, err := f.GetCellValue(payoutSheet, "A2")
	if err != nil {
		t.Fatalf("reading first row: %v", err)
	}
	if name == "" || name == "mariia-filatenko" {
		t.Errorf("A2 = %q, want a display name", name)
	}

	total, err := f.GetCellValue(payoutSheet, "A5")
	if err != nil {
		t.Fatalf("reading totals row: %v", err)
	}
	if total != "TOTAL" {
		t.Errorf("A5 = %q, want TOTAL", total)
	}
}
