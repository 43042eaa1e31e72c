// Package external resolves historical FX spot rates from the Frankfurter
// daily-rates API, caching every resolved rate so a period can be recomputed
// byte-identically without network access.
package external

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Service implements fx.RateResolver backed by the Frankfurter API and a
// persistent rate cache.
type Service struct {
	client     *FrankfurterClient
	repo       RateRepository
	base       string
	currencies []string
}

// NewService creates a rate resolution Service. currencies lists the non-base
// currencies refreshed by RefreshLatest.
func NewService(client *FrankfurterClient, repo RateRepository, base string, currencies []string) *Service {
	return &Service{client: client, repo: repo, base: base, currencies: currencies}
}

// Rate resolves a spot rate for the date, preferring the cache. A freshly
// fetched rate is cached before being returned; cache write failures are not
// fatal for the resolution itself.
func (s *Service) Rate(ctx context.Context, date time.Time, from, to string) (decimal.Decimal, error) {
	day := date.Truncate(24 * time.Hour)

	cached, err := s.repo.GetRate(ctx, day, from, to)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, ErrRateNotFound) {
		return decimal.Zero, fmt.Errorf("reading rate cache: %w", err)
	}

	rate, err := s.client.FetchRate(ctx, day, from, to)
	if err != nil {
		return decimal.Zero, fmt.Errorf("fetching rate: %w", err)
	}

	if err := s.repo.SaveRate(ctx, day, from, to, rate); err != nil {
		return decimal.Zero, fmt.Errorf("caching rate: %w", err)
	}
	return rate, nil
}

// RefreshLatest fetches and caches today's rate for every configured currency.
// Used by the daily worker so month-end runs hit the cache.
func (s *Service) RefreshLatest(ctx context.Context) error {
	day := time.Now().UTC().Truncate(24 * time.Hour)
	for _, cur := range s.currencies {
		rate, err := s.client.FetchRate(ctx, day, cur, s.base)
		if err != nil {
			return fmt.Errorf("refreshing %s->%s: %w", cur, s.base, err)
		}
		if err := s.repo.SaveRate(ctx, day, cur, s.base, rate); err != nil {
			return fmt.Errorf("storing %s->%s: %w", cur, s.base, err)
		}
	}
	return nil
}
