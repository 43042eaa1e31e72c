package main

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/urfave/cli/v2"

	"github.com/orcap/tms/internal/api"
	"github.com/orcap/tms/internal/calculation"
	"github.com/orcap/tms/internal/classify"
	"github.com/orcap/tms/internal/config"
	"github.com/orcap/tms/internal/database"
	"github.com/orcap/tms/internal/domain"
	"github.com/orcap/tms/internal/expense"
	"github.com/orcap/tms/internal/export"
	"github.com/orcap/tms/internal/external"
	"github.com/orcap/tms/internal/fx"
	"github.com/orcap/tms/internal/ledger"
	"github.com/orcap/tms/internal/registry"
	"github.com/orcap/tms/internal/waterfall"
	"github.com/orcap/tms/internal/worker"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

func main() {
	app := &cli.App{
		Name:  "tms",
		Usage: "transaction reconciliation and monthly payout engine",
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run migrations and start the HTTP API with background workers",
				Action: runServe,
			},
			{
				Name:   "migrate",
				Usage:  "apply pending database migrations and exit",
				Action: runMigrate,
			},
			{
				Name:  "export",
				Usage: "write a stored period's payout report to an XLSX workbook",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "period", Usage: "period label (YYYY-MM), defaults to the latest", Value: ""},
				},
				Action: runExport,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func connect(ctx context.Context, cfg config.Config) (*pgxpool.Pool, error) {
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	migrationsSub, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("creating migrations sub-fs: %w", err)
	}
	if err := database.RunMigrations(ctx, slog.Default(), pool, migrationsSub); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

func buildCalculationService(cfg config.Config, pool *pgxpool.Pool) (*calculation.Service, *external.Service, error) {
	reg := registry.Default()

	rates := external.NewService(
		external.NewFrankfurterClient(cfg.RatesURL, cfg.RatesRetryBaseDelay, cfg.RatesRetryMax),
		external.NewPgRateRepository(pool),
		cfg.BaseCurrency,
		cfg.SupportedCurrencies,
	)

	allocator, err := expense.NewAllocator(reg, cfg.IncludeOwnersInDenominator, cfg.OwnerCount)
	if err != nil {
		return nil, nil, err
	}
	engine, err := waterfall.NewEngine(cfg.Fractions())
	if err != nil {
		return nil, nil, err
	}

	svc := calculation.NewService(
		slog.Default(),
		reg,
		classify.New(reg),
		fx.NewNormalizer(cfg.BaseCurrency, rates),
		allocator,
		engine,
		calculation.NewPgRepository(pool),
		ledger.NewPgRepository(pool),
	)
	return svc, rates, nil
}

func runServe(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	pool, err := connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	calcSvc, rates, err := buildCalculationService(cfg, pool)
	if err != nil {
		return err
	}

	rateWorker := worker.NewRateWorker(rates, cfg.RateWorkerInterval)
	go rateWorker.Run(ctx)

	if cfg.AdminAPIKey == "" {
		slog.Warn("ADMIN_API_KEY not set, run endpoint is unprotected")
	}

	srv := api.NewServer(cfg.HTTPPort, calcSvc, cfg.AdminAPIKey)
	go func() {
		slog.Info("HTTP server listening", "port", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}
	return nil
}

func runMigrate(c *cli.Context) error {
	cfg := config.Load()
	pool, err := connect(c.Context, cfg)
	if err != nil {
		return err
	}
	pool.Close()
	return nil
}

func runExport(c *cli.Context) error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	pool, err := connect(c.Context, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	repo := calculation.NewPgRepository(pool)

	var writer export.SheetWriter = export.NewXLSXWriter(cfg.ReportDir)
	if cfg.SheetsSpreadsheetID != "" && cfg.SheetsCredentialsJSON != "" {
		writer, err = export.NewSheetsWriter(c.Context, cfg.SheetsSpreadsheetID, cfg.SheetsCredentialsJSON)
		if err != nil {
			return err
		}
	}
	svc := export.NewService(registry.Default(), writer)

	var calc domain.MonthlyCalculation
	if label := c.String("period"); label != "" {
		period, err := domain.ParsePeriod(label)
		if err != nil {
			return err
		}
		calc, err = repo.GetByPeriod(c.Context, period)
		if err != nil {
			return fmt.Errorf("loading calculation %s: %w", period, err)
		}
	} else {
		calc, err = repo.GetLatest(c.Context)
		if err != nil {
			return fmt.Errorf("loading latest calculation: %w", err)
		}
	}
	return svc.Export(c.Context, calc)
}
