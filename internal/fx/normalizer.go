// Package fx normalizes transaction amounts into the base currency.
//
// Rate orientation is fixed once for the whole system: a rate is the number of
// base-currency units per one native unit, so baseAmount = nativeAmount * rate.
package fx

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ErrRateUnavailable indicates that no rate could be resolved for the
// requested date and currency pair. The transaction must be flagged and
// excluded from totals, never silently zeroed.
var ErrRateUnavailable = errors.New("fx rate unavailable")

// RateResolver resolves a historical spot rate: base units per one unit of
// from-currency on the given date. The core treats it as an opaque synchronous
// function; the production implementation lives in internal/external.
type RateResolver interface {
	Rate(ctx context.Context, date time.Time, from, to string) (decimal.Decimal, error)
}

// Normalizer converts native amounts into the base currency, recording the
// rate used for the audit trail.
type Normalizer struct {
	base     string
	resolver RateResolver
}

// NewNormalizer creates a Normalizer for the given base currency.
func NewNormalizer(base string, resolver RateResolver) *Normalizer {
	if resolver == nil {
		panic("fx.NewNormalizer: resolver is nil")
	}
	return &Normalizer{base: base, resolver: resolver}
}

// Base returns the base currency code.
func (n *Normalizer) Base() string {
	return n.base
}

// Normalize converts amount from the given currency into the base currency.
// For base-currency input the amount passes through and the returned rate is
// nil. Rate lookup failures come back wrapped around ErrRateUnavailable.
func (n *Normalizer) Normalize(ctx context.Context, date time.Time, amount decimal.Decimal, currency string) (decimal.Decimal, *decimal.Decimal, error) {
	if currency == n.base {
		return amount, nil, nil
	}

	rate, err := n.resolver.Rate(ctx, date, currency, n.base)
	if err != nil {
		return decimal.Zero, nil, fmt.Errorf("%w: %s->%s on %s: %w",
			ErrRateUnavailable, currency, n.base, date.Format("2006-01-02"), err)
	}

	return amount.Mul(rate), &rate, nil
}
