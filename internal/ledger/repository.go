package ledger

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/orcap/tms/internal/domain"
)

// Repository defines persistent storage for the settlement ledger. History is
// append-only: one row per advisor per period, the audit trail.
type Repository interface {
	AppendEntries(ctx context.Context, entries []Entry) error
	SaveDebts(ctx context.Context, period domain.Period, debts map[string]decimal.Decimal) error
	History(ctx context.Context, advisorID string) ([]Entry, error)
	LatestState(ctx context.Context) (State, error)
}

// PgRepository implements Repository with PostgreSQL.
type PgRepository struct {
	pool *pgxpool.Pool
}

// NewPgRepository creates a new PostgreSQL ledger repository.
func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func (r *PgRepository) AppendEntries(ctx context.Context, entries []Entry) error {
	for _, e := range entries {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO settlement_ledger (period, advisor_id, opening_balance, recovery, closing_balance, restated)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			string(e.Period), e.AdvisorID, e.Opening, e.Recovery, e.Closing, e.Restated)
		if err != nil {
			return fmt.Errorf("appending ledger entry %s/%s: %w", e.Period, e.AdvisorID, err)
		}
	}
	return nil
}

func (r *PgRepository) SaveDebts(ctx context.Context, period domain.Period, debts map[string]decimal.Decimal) error {
	for advisorID, balance := range debts {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO debt_book (period, advisor_id, balance)
			 VALUES ($1, $2, $3)
			 ON CONFLICT (period, advisor_id) DO UPDATE SET balance = $3`,
			string(period), advisorID, balance)
		if err != nil {
			return fmt.Errorf("saving debt for %s: %w", advisorID, err)
		}
	}
	return nil
}

func (r *PgRepository) History(ctx context.Context, advisorID string) ([]Entry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT period, advisor_id, opening_balance, recovery, closing_balance, restated
		 FROM settlement_ledger
		 WHERE advisor_id = $1
		 ORDER BY period`, advisorID)
	if err != nil {
		return nil, fmt.Errorf("reading ledger history: %w", err)
	}

	entries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Entry, error) {
		var e Entry
		var period string
		err := row.Scan(&period, &e.AdvisorID, &e.Opening, &e.Recovery, &e.Closing, &e.Restated)
		e.Period = domain.Period(period)
		return e, err
	})
	if err != nil {
		return nil, fmt.Errorf("scanning ledger history: %w", err)
	}
	return entries, nil
}

// LatestState reconstructs the ledger state from the newest row per advisor in
// both tables. Only the latest entry is needed to continue; the full history
// stays behind as the audit trail.
func (r *PgRepository) LatestState(ctx context.Context) (State, error) {
	state := NewState(nil)

	rows, err := r.pool.Query(ctx,
		`SELECT DISTINCT ON (advisor_id) advisor_id, period, closing_balance
		 FROM settlement_ledger
		 ORDER BY advisor_id, period DESC`)
	if err != nil {
		return State{}, fmt.Errorf("reading latest settlements: %w", err)
	}
	for rows.Next() {
		var advisorID, period string
		var closing decimal.Decimal
		if err := rows.Scan(&advisorID, &period, &closing); err != nil {
			rows.Close()
			return State{}, fmt.Errorf("scanning latest settlement: %w", err)
		}
		state.Settlements[advisorID] = closing
		if domain.Period(period).After(state.Period) {
			state.Period = domain.Period(period)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return State{}, fmt.Errorf("iterating latest settlements: %w", err)
	}

	debtRows, err := r.pool.Query(ctx,
		`SELECT DISTINCT ON (advisor_id) advisor_id, balance
		 FROM debt_book
		 ORDER BY advisor_id, period DESC`)
	if err != nil {
		return State{}, fmt.Errorf("reading latest debts: %w", err)
	}
	for debtRows.Next() {
		var advisorID string
		var balance decimal.Decimal
		if err := debtRows.Scan(&advisorID, &balance); err != nil {
			debtRows.Close()
			return State{}, fmt.Errorf("scanning latest debt: %w", err)
		}
		state.Debts[advisorID] = balance
	}
	debtRows.Close()
	if err := debtRows.Err(); err != nil {
		return State{}, fmt.Errorf("iterating latest debts: %w", err)
	}

	return state, nil
}
