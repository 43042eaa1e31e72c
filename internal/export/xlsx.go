package export

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/orcap/tms/internal/domain"
)

const payoutSheet = "PAYOUTS"

// XLSXWriter implements SheetWriter by writing one workbook per period into a
// local directory.
type XLSXWriter struct {
	dir string
}

// NewXLSXWriter creates an XLSXWriter targeting the given directory.
func NewXLSXWriter(dir string) *XLSXWriter {
	return &XLSXWriter{dir: dir}
}

// Path returns the workbook path for a period.
func (w *XLSXWriter) Path(period domain.Period) string {
	return filepath.Join(w.dir, fmt.Sprintf("payouts_%s.xlsx", period))
}

// Write renders the report into payouts_<period>.xlsx, replacing any previous
// file for the same period.
func (w *XLSXWriter) Write(_ context.Context, period domain.Period, rows []ReportRow, totals domain.FirmTotals) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", payoutSheet); err != nil {
		return fmt.Errorf("renaming sheet: %w", err)
	}

	if err := setRow(f, 1, toAnySlice(reportHeader)); err != nil {
		return err
	}
	for i, row := range rows {
		if err := setRow(f, i+2, rowValues(row)); err != nil {
			return err
		}
	}
	if err := setRow(f, len(rows)+3, totalsValues(totals)); err != nil {
		return err
	}
	if err := setRow(f, len(rows)+4, firmEarningsValues(totals)); err != nil {
		return err
	}

	path := w.Path(period)
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving workbook %s: %w", path, err)
	}
	return nil
}

func setRow(f *excelize.File, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("building cell reference: %w", err)
	}
	if err := f.SetSheetRow(payoutSheet, cell, &values); err != nil {
		return fmt.Errorf("writing row %d: %w", row, err)
	}
	return nil
}

func toAnySlice(in []string) []any {
	out := make([]any, len(in))
	for i, v := range in {
		out[i] = v
	}
	return out
}
