package calculation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/lo"

	"github.com/orcap/tms/internal/domain"
)

// ErrNotFound indicates that no calculation exists for the requested period.
var ErrNotFound = errors.New("calculation not found")

// Repository defines persistent storage for monthly calculations. Each period
// is stored as one JSONB document, the full audit-ready output of a run.
type Repository interface {
	Save(ctx context.Context, calc domain.MonthlyCalculation) error
	GetByPeriod(ctx context.Context, period domain.Period) (domain.MonthlyCalculation, error)
	GetLatest(ctx context.Context) (domain.MonthlyCalculation, error)
	ListPeriods(ctx context.Context) ([]domain.Period, error)
}

// PgRepository implements Repository with PostgreSQL.
type PgRepository struct {
	pool *pgxpool.Pool
}

// NewPgRepository creates a new PostgreSQL calculation repository.
func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

// Save upserts the period's document. Re-running a period with corrected
// inputs replaces the stored result.
func (r *PgRepository) Save(ctx context.Context, calc domain.MonthlyCalculation) error {
	data, err := json.Marshal(calc)
	if err != nil {
		return fmt.Errorf("marshaling calculation: %w", err)
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO calculations (period, data)
		 VALUES ($1, $2::jsonb)
		 ON CONFLICT (period)
		 DO UPDATE SET data = $2::jsonb`,
		string(calc.Period), data)
	if err != nil {
		return fmt.Errorf("saving calculation %s: %w", calc.Period, err)
	}
	return nil
}

func (r *PgRepository) GetByPeriod(ctx context.Context, period domain.Period) (domain.MonthlyCalculation, error) {
	var data []byte
	err := r.pool.QueryRow(ctx,
		`SELECT data FROM calculations WHERE period = $1`, string(period)).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.MonthlyCalculation{}, ErrNotFound
		}
		return domain.MonthlyCalculation{}, fmt.Errorf("getting calculation %s: %w", period, err)
	}
	return unmarshalCalculation(data)
}

func (r *PgRepository) GetLatest(ctx context.Context) (domain.MonthlyCalculation, error) {
	var data []byte
	err := r.pool.QueryRow(ctx,
		`SELECT data FROM calculations ORDER BY period DESC LIMIT 1`).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.MonthlyCalculation{}, ErrNotFound
		}
		return domain.MonthlyCalculation{}, fmt.Errorf("getting latest calculation: %w", err)
	}
	return unmarshalCalculation(data)
}

func (r *PgRepository) ListPeriods(ctx context.Context) ([]domain.Period, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT period FROM calculations ORDER BY period`)
	if err != nil {
		return nil, fmt.Errorf("listing calculation periods: %w", err)
	}
	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scanning calculation periods: %w", err)
	}
	return lo.Map(names, func(name string, _ int) domain.Period {
		return domain.Period(name)
	}), nil
}

func unmarshalCalculation(data []byte) (domain.MonthlyCalculation, error) {
	var calc domain.MonthlyCalculation
	if err := json.Unmarshal(data, &calc); err != nil {
		return domain.MonthlyCalculation{}, fmt.Errorf("unmarshaling calculation: %w", err)
	}
	return calc, nil
}
