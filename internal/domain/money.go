package domain

import "github.com/shopspring/decimal"

// Tolerance is the audit reconciliation tolerance: figures matching within
// two pence are considered equal.
var Tolerance = decimal.RequireFromString("0.02")

// Money parses a string into a decimal amount. It panics on invalid input and
// is intended for literals in reference data and tests.
func Money(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

// Pounds rounds an amount to whole pence for reporting. Internal arithmetic
// keeps full precision; rounding happens only at the edge.
func Pounds(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// WithinTolerance reports whether two amounts agree within the audit tolerance.
func WithinTolerance(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(Tolerance)
}
