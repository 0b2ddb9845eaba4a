package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"insurer/internal/insurance/models"
)

const (
	EnvDev  = "dev"
	EnvProd = "prod"

	DefaultSeedRisks = "Fire:3,Steam leakage:4,Natural disaster:2"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string
	Env             string
	Company         string
	SeedRisks       []models.Risk
	ShutdownTimeout time.Duration
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() (Server, error) {
	env := getenv("INSURER_ENV", EnvDev)
	if env != EnvDev && env != EnvProd {
		return Server{}, fmt.Errorf("INSURER_ENV must be %q or %q, got %q", EnvDev, EnvProd, env)
	}

	seed, err := ParseSeedRisks(getenv("INSURER_SEED_RISKS", DefaultSeedRisks))
	if err != nil {
		return Server{}, fmt.Errorf("INSURER_SEED_RISKS: %w", err)
	}

	timeout := 10 * time.Second
	if raw := os.Getenv("INSURER_SHUTDOWN_TIMEOUT"); raw != "" {
		timeout, err = time.ParseDuration(raw)
		if err != nil || timeout <= 0 {
			return Server{}, fmt.Errorf("INSURER_SHUTDOWN_TIMEOUT must be a positive duration, got %q", raw)
		}
	}

	return Server{
		Addr:            getenv("INSURER_ADDR", ":8080"),
		Env:             env,
		Company:         getenv("INSURER_COMPANY", "If"),
		SeedRisks:       seed,
		ShutdownTimeout: timeout,
	}, nil
}

// ParseSeedRisks reads a comma separated list of name:yearly_price pairs.
// An empty string yields an empty catalog.
func ParseSeedRisks(raw string) ([]models.Risk, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	var risks []models.Risk
	for entry := range strings.SplitSeq(raw, ",") {
		name, price, ok := strings.Cut(entry, ":")
		if !ok {
			return nil, fmt.Errorf("risk %q: expected name:price", strings.TrimSpace(entry))
		}
		amount, err := decimal.NewFromString(strings.TrimSpace(price))
		if err != nil {
			return nil, fmt.Errorf("risk %q: invalid price: %w", strings.TrimSpace(name), err)
		}
		risk, err := models.NewRisk(strings.TrimSpace(name), amount)
		if err != nil {
			return nil, fmt.Errorf("risk %q: %w", strings.TrimSpace(name), err)
		}
		risks = append(risks, risk)
	}
	return risks, nil
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
