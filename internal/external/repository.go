package external

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// ErrRateNotFound indicates that no cached rate exists for the date and pair.
var ErrRateNotFound = errors.New("rate not found")

// RateRepository defines persistent storage for resolved FX rates.
type RateRepository interface {
	SaveRate(ctx context.Context, date time.Time, from, to string, rate decimal.Decimal) error
	GetRate(ctx context.Context, date time.Time, from, to string) (decimal.Decimal, error)
}

// PgRateRepository implements RateRepository with PostgreSQL.
type PgRateRepository struct {
	pool *pgxpool.Pool
}

// NewPgRateRepository creates a new PostgreSQL rate repository.
func NewPgRateRepository(pool *pgxpool.Pool) *PgRateRepository {
	return &PgRateRepository{pool: pool}
}

func (r *PgRateRepository) SaveRate(ctx context.Context, date time.Time, from, to string, rate decimal.Decimal) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO fx_rates (rate_date, from_currency, to_currency, rate)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (rate_date, from_currency, to_currency)
		 DO UPDATE SET rate = $4`,
		date, from, to, rate)
	if err != nil {
		return fmt.Errorf("saving rate %s->%s: %w", from, to, err)
	}
	return nil
}

func (r *PgRateRepository) GetRate(ctx context.Context, date time.Time, from, to string) (decimal.Decimal, error) {
	var rate decimal.Decimal
	err := r.pool.QueryRow(ctx,
		`SELECT rate FROM fx_rates
		 WHERE rate_date = $1 AND from_currency = $2 AND to_currency = $3`,
		date, from, to).Scan(&rate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, ErrRateNotFound
		}
		return decimal.Zero, fmt.Errorf("getting rate %s->%s: %w", from, to, err)
	}
	return rate, nil
}
