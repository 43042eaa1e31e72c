package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/orcap/tms/internal/waterfall"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	DatabaseURL         string
	HTTPPort            string
	AdminAPIKey         string
	BaseCurrency        string
	SupportedCurrencies []string

	AdvisorShare       decimal.Decimal
	OperationsOverride decimal.Decimal
	WaterfallPool      decimal.Decimal

	IncludeOwnersInDenominator bool
	OwnerCount                 int

	RatesURL            string
	RatesRetryMax       int
	RatesRetryBaseDelay time.Duration
	RateWorkerInterval  time.Duration

	SheetsSpreadsheetID   string
	SheetsCredentialsJSON string
	ReportDir             string
}

// Load reads configuration from environment variables with sensible defaults.
// Call Validate before using the result; Load itself never fails.
func Load() Config {
	return Config{
		DatabaseURL:         envOrDefaultWarn("DATABASE_URL", ""),
		HTTPPort:            envOrDefault("HTTP_PORT", "8080"),
		AdminAPIKey:         envOrDefault("ADMIN_API_KEY", ""),
		BaseCurrency:        envOrDefault("BASE_CURRENCY", "GBP"),
		SupportedCurrencies: splitList(envOrDefault("SUPPORTED_CURRENCIES", "USD,EUR,CHF,AUD")),

		AdvisorShare:       envOrDefaultDecimal("ADVISOR_SHARE", "0.70"),
		OperationsOverride: envOrDefaultDecimal("OPERATIONS_OVERRIDE", "0.10"),
		WaterfallPool:      envOrDefaultDecimal("WATERFALL_POOL", "0.20"),

		// Contractual position: owners are outside shared-cost pools unless a
		// rule says otherwise.
		IncludeOwnersInDenominator: envOrDefaultBool("INCLUDE_OWNERS_IN_DENOMINATOR", false),
		OwnerCount:                 envOrDefaultInt("OWNER_COUNT", 2),

		RatesURL:            envOrDefault("RATES_URL", "https://api.frankfurter.app"),
		RatesRetryMax:       envOrDefaultInt("RATES_RETRY_MAX", 5),
		RatesRetryBaseDelay: envOrDefaultDuration("RATES_RETRY_BASE_DELAY", 2*time.Second),
		RateWorkerInterval:  envOrDefaultDuration("RATE_WORKER_INTERVAL", 24*time.Hour),

		SheetsSpreadsheetID:   envOrDefault("SHEETS_SPREADSHEET_ID", ""),
		SheetsCredentialsJSON: envOrDefault("SHEETS_CREDENTIALS_JSON", ""),
		ReportDir:             envOrDefault("REPORT_DIR", "."),
	}
}

// Validate checks the configuration once at load time and returns the first
// fatal problem found. No calculation may run on an invalid configuration.
func (c Config) Validate() error {
	if err := c.Fractions().Validate(); err != nil {
		return err
	}
	if c.OwnerCount < 0 {
		return fmt.Errorf("owner count must be non-negative, got %d", c.OwnerCount)
	}
	if c.BaseCurrency == "" {
		return fmt.Errorf("base currency is required")
	}
	return nil
}

// Fractions returns the distribution legs as waterfall configuration.
func (c Config) Fractions() waterfall.Fractions {
	return waterfall.Fractions{
		AdvisorShare:       c.AdvisorShare,
		OperationsOverride: c.OperationsOverride,
		WaterfallPool:      c.WaterfallPool,
	}
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envOrDefaultWarn(key, defaultVal string) string {
	v := envOrDefault(key, defaultVal)
	if v == "" {
		slog.Warn("required env var not set", "key", key)
	}
	return v
}

func envOrDefaultInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			slog.Warn("invalid integer env var, using default", "key", key, "value", v, "default", defaultVal)
			return defaultVal
		}
		return n
	}
	return defaultVal
}

func envOrDefaultBool(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			slog.Warn("invalid boolean env var, using default", "key", key, "value", v, "default", defaultVal)
			return defaultVal
		}
		return b
	}
	return defaultVal
}

func envOrDefaultDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			slog.Warn("invalid duration env var, using default", "key", key, "value", v, "default", defaultVal)
			return defaultVal
		}
		return d
	}
	return defaultVal
}

func envOrDefaultDecimal(key, defaultVal string) decimal.Decimal {
	fallback := decimal.RequireFromString(defaultVal)
	if v := os.Getenv(key); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			slog.Warn("invalid decimal env var, using default", "key", key, "value", v, "default", defaultVal)
			return fallback
		}
		return d
	}
	return fallback
}
