package config

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.HTTPPort != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.HTTPPort)
	}
	if cfg.BaseCurrency != "GBP" {
		t.Errorf("expected base currency GBP, got %s", cfg.BaseCurrency)
	}
	if !cfg.AdvisorShare.Equal(decimal.RequireFromString("0.70")) {
		t.Errorf("expected advisor share 0.70, got %s", cfg.AdvisorShare)
	}
	if cfg.IncludeOwnersInDenominator {
		t.Error("owners must be excluded from shared denominators by default")
	}
	if cfg.OwnerCount != 2 {
		t.Errorf("expected owner count 2, got %d", cfg.OwnerCount)
	}
	if cfg.RateWorkerInterval != 24*time.Hour {
		t.Errorf("expected 24h rate worker interval, got %s", cfg.RateWorkerInterval)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("ADVISOR_SHARE", "0.60")
	t.Setenv("OPERATIONS_OVERRIDE", "0.15")
	t.Setenv("WATERFALL_POOL", "0.25")
	t.Setenv("INCLUDE_OWNERS_IN_DENOMINATOR", "true")
	t.Setenv("SUPPORTED_CURRENCIES", "USD, EUR")

	cfg := Load()

	if cfg.HTTPPort != "9000" {
		t.Errorf("expected port 9000, got %s", cfg.HTTPPort)
	}
	if !cfg.AdvisorShare.Equal(decimal.RequireFromString("0.60")) {
		t.Errorf("expected advisor share 0.60, got %s", cfg.AdvisorShare)
	}
	if !cfg.IncludeOwnersInDenominator {
		t.Error("expected owners included in denominator")
	}
	if len(cfg.SupportedCurrencies) != 2 || cfg.SupportedCurrencies[1] != "EUR" {
		t.Errorf("unexpected currency list: %v", cfg.SupportedCurrencies)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}
}

func TestLoadInvalidValueFallsBack(t *testing.T) {
	t.Setenv("OWNER_COUNT", "two")
	t.Setenv("ADVISOR_SHARE", "not-a-number")

	cfg := Load()

	if cfg.OwnerCount != 2 {
		t.Errorf("expected fallback owner count 2, got %d", cfg.OwnerCount)
	}
	if !cfg.AdvisorShare.Equal(decimal.RequireFromString("0.70")) {
		t.Errorf("expected fallback advisor share 0.70, got %s", cfg.AdvisorShare)
	}
}

func TestValidateRejectsBrokenFractions(t *testing.T) {
	t.Setenv("ADVISOR_SHARE", "0.70")
	t.Setenv("OPERATIONS_OVERRIDE", "0.10")
	t.Setenv("WATERFALL_POOL", "0.30")

	cfg := Load()

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for fractions summing to 1.10")
	}
}

func TestValidateRejectsNegativeOwnerCount(t *testing.T) {
	t.Setenv("OWNER_COUNT", "-1")

	cfg := Load()

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for negative owner count")
	}
	if !strings.Contains(err.Error(), "owner count") {
		t.Errorf("unexpected error: %v", err)
	}
}
