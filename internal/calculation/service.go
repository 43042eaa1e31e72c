// Package calculation orchestrates a monthly run: classify raw bank records,
// normalize currency, allocate expenses, run the distribution waterfall and
// persist the period's document and ledger movements.
package calculation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/orcap/tms/internal/classify"
	"github.com/orcap/tms/internal/domain"
	"github.com/orcap/tms/internal/expense"
	"github.com/orcap/tms/internal/fx"
	"github.com/orcap/tms/internal/ledger"
	"github.com/orcap/tms/internal/registry"
	"github.com/orcap/tms/internal/waterfall"
)

// Service runs monthly calculations end to end.
type Service struct {
	logger     *slog.Logger
	reg        *registry.Registry
	classifier *classify.Classifier
	normalizer *fx.Normalizer
	allocator  *expense.Allocator
	engine     *waterfall.Engine
	repo       Repository
	ledgerRepo ledger.Repository
}

// NewService creates a calculation service.
func NewService(
	logger *slog.Logger,
	reg *registry.Registry,
	classifier *classify.Classifier,
	normalizer *fx.Normalizer,
	allocator *expense.Allocator,
	engine *waterfall.Engine,
	repo Repository,
	ledgerRepo ledger.Repository,
) *Service {
	if logger == nil || reg == nil || classifier == nil || normalizer == nil ||
		allocator == nil || engine == nil || repo == nil || ledgerRepo == nil {
		panic("calculation.NewService: nil dependency")
	}
	return &Service{
		logger:     logger,
		reg:        reg,
		classifier: classifier,
		normalizer: normalizer,
		allocator:  allocator,
		engine:     engine,
		repo:       repo,
		ledgerRepo: ledgerRepo,
	}
}

// Run executes the period against the raw inputs and persists the outcome.
// Recoverable data problems (unattributed records, missing rates, unresolved
// expenses) land in the review list; the run itself still completes. Only
// out-of-order periods and infrastructure failures abort.
func (s *Service) Run(ctx context.Context, period domain.Period, raws []domain.RawTransaction, lines []domain.ExpenseLine) (domain.MonthlyCalculation, error) {
	if _, err := domain.ParsePeriod(string(period)); err != nil {
		return domain.MonthlyCalculation{}, err
	}

	state, err := s.ledgerRepo.LatestState(ctx)
	if err != nil {
		return domain.MonthlyCalculation{}, fmt.Errorf("loading ledger state: %w", err)
	}

	txs, review := s.classifyAll(ctx, raws)

	alloc := s.allocator.Allocate(lines)
	review = append(review, alloc.Review...)

	inputs, overrides := s.aggregate(txs, alloc)

	results, totals, next, err := s.engine.Calculate(period, inputs, overrides, state)
	if err != nil {
		return domain.MonthlyCalculation{}, err
	}

	calc := domain.MonthlyCalculation{
		Period:       period,
		Transactions: txs,
		Expenses:     alloc.Expenses,
		Results:      results,
		Totals:       totals,
		Review:       review,
	}

	if err := s.persist(ctx, calc, state, next); err != nil {
		return domain.MonthlyCalculation{}, err
	}

	s.logger.Info("period calculated",
		"period", period,
		"transactions", len(txs),
		"grossRevenue", totals.GrossRevenue,
		"reviewItems", len(review))
	return calc, nil
}

// classifyAll attributes and currency-normalizes every raw record. Internal
// transfers are dropped; records nobody can attribute or convert are surfaced
// for review and excluded from the revenue base.
func (s *Service) classifyAll(ctx context.Context, raws []domain.RawTransaction) ([]domain.Transaction, []domain.ReviewItem) {
	var txs []domain.Transaction
	var review []domain.ReviewItem

	for _, raw := range raws {
		cls, err := s.classifier.Classify(raw.Description)
		if err != nil {
			item := domain.ReviewItem{
				Kind:        domain.ReviewUnattributedTransaction,
				Description: raw.Description,
				Amount:      raw.Amount,
				Currency:    raw.Currency,
			}
			if !errors.Is(err, classify.ErrUnattributed) {
				item.Detail = err.Error()
			}
			review = append(review, item)
			continue
		}
		if cls.Excluded {
			continue
		}

		base, rate, err := s.normalizer.Normalize(ctx, raw.Date, raw.Amount, raw.Currency)
		if err != nil {
			review = append(review, domain.ReviewItem{
				Kind:        domain.ReviewMissingRate,
				Description: raw.Description,
				Amount:      raw.Amount,
				Currency:    raw.Currency,
				Detail:      err.Error(),
			})
			continue
		}

		txs = append(txs, domain.Transaction{
			ID:          raw.ID,
			Date:        raw.Date,
			Source:      cls.Source,
			AdvisorID:   cls.AdvisorID,
			ClientName:  cls.ClientName,
			GrossAmount: raw.Amount,
			Currency:    raw.Currency,
			BaseAmount:  base,
			FxRate:      rate,
			Description: raw.Description,
		})
	}

	return txs, review
}

// aggregate folds classified transactions into per-advisor revenue and the
// override subsets. Records attributed to the operations-override
// pseudo-advisor are firm-level inflows and never count as advisor revenue.
//
// A recipient's subset collects two kinds of revenue: records attributed
// directly to the recipient's inherited clients, where the full fee is booked,
// and records covered by an override agreement, where only FeeShare of the fee
// is booked but the override is still owed on the whole of it.
func (s *Service) aggregate(txs []domain.Transaction, alloc expense.Result) ([]waterfall.AdvisorInput, []waterfall.OverrideInput) {
	revenue := make(map[string]decimal.Decimal)
	booked := make(map[string]decimal.Decimal)
	basis := make(map[string]decimal.Decimal)
	one := decimal.NewFromInt(1)

	for _, tx := range txs {
		if tx.AdvisorID == domain.OperationsOverrideID {
			continue
		}

		if s.reg.IsOverrideOnly(tx.AdvisorID) {
			booked[tx.AdvisorID] = booked[tx.AdvisorID].Add(tx.BaseAmount)
			basis[tx.AdvisorID] = basis[tx.AdvisorID].Add(tx.BaseAmount)
			continue
		}

		revenue[tx.AdvisorID] = revenue[tx.AdvisorID].Add(tx.BaseAmount)

		for _, ag := range s.reg.Overrides {
			if ag.ServicingAdvisorID != tx.AdvisorID {
				continue
			}
			if ag.ClientPattern.MatchString(tx.ClientName) || ag.ClientPattern.MatchString(tx.Description) {
				booked[ag.RecipientID] = booked[ag.RecipientID].Add(tx.BaseAmount)
				share := ag.FeeShare
				if share.IsZero() {
					share = one
				}
				basis[ag.RecipientID] = basis[ag.RecipientID].Add(tx.BaseAmount.Div(share))
				break
			}
		}
	}

	// Every active advisor gets a row even with zero revenue: allocated
	// expenses still apply and a loss-making month must incur debt.
	var inputs []waterfall.AdvisorInput
	for _, adv := range s.reg.ActiveStandardAdvisors() {
		inputs = append(inputs, waterfall.AdvisorInput{
			AdvisorID:    adv.ID,
			GrossRevenue: revenue[adv.ID],
			Expenses:     alloc.PerAdvisor[adv.ID],
		})
	}

	// One input per recipient. The effective fee share reproduces the mixed
	// basis exactly: booked / (booked/effective) == basis.
	var overrides []waterfall.OverrideInput
	for _, adv := range s.reg.OverrideRecipients() {
		b := booked[adv.ID]
		if b.IsZero() {
			continue
		}
		overrides = append(overrides, waterfall.OverrideInput{
			RecipientID:   adv.ID,
			SubsetRevenue: b,
			FeeShare:      b.Div(basis[adv.ID]),
		})
	}

	return inputs, overrides
}

// persist stores the period document, the settlement ledger rows and the debt
// book balances.
func (s *Service) persist(ctx context.Context, calc domain.MonthlyCalculation, prev, next ledger.State) error {
	if err := s.repo.Save(ctx, calc); err != nil {
		return fmt.Errorf("saving calculation: %w", err)
	}

	var entries []ledger.Entry
	for _, r := range calc.Results {
		if s.reg.IsOverrideOnly(r.AdvisorID) {
			continue
		}
		opening := prev.Settlement(r.AdvisorID)
		if opening.IsZero() && r.SettlementRecovery.IsZero() {
			continue
		}
		entries = append(entries, ledger.Entry{
			Period:    calc.Period,
			AdvisorID: r.AdvisorID,
			Opening:   opening,
			Recovery:  r.SettlementRecovery,
			Closing:   r.SettlementBalanceAfter,
		})
	}
	if err := s.ledgerRepo.AppendEntries(ctx, entries); err != nil {
		return fmt.Errorf("appending ledger entries: %w", err)
	}

	if err := s.ledgerRepo.SaveDebts(ctx, calc.Period, next.Debts); err != nil {
		return fmt.Errorf("saving debt book: %w", err)
	}
	return nil
}

// GetByPeriod returns a stored calculation.
func (s *Service) GetByPeriod(ctx context.Context, period domain.Period) (domain.MonthlyCalculation, error) {
	return s.repo.GetByPeriod(ctx, period)
}

// GetLatest returns the most recent stored calculation.
func (s *Service) GetLatest(ctx context.Context) (domain.MonthlyCalculation, error) {
	return s.repo.GetLatest(ctx)
}

// ListPeriods returns every stored period in chronological order.
func (s *Service) ListPeriods(ctx context.Context) ([]domain.Period, error) {
	return s.repo.ListPeriods(ctx)
}

// LedgerHistory returns an advisor's settlement rows together with any
// discontinuities the verification pass finds in them.
func (s *Service) LedgerHistory(ctx context.Context, advisorID string) ([]ledger.Entry, []ledger.Discontinuity, error) {
	entries, err := s.ledgerRepo.History(ctx, advisorID)
	if err != nil {
		return nil, nil, fmt.Errorf("loading ledger history: %w", err)
	}
	return entries, ledger.VerifyHistory(entries), nil
}
