package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	httpapi "insurer/internal/http"
	"insurer/internal/insurance"
	insurancemetrics "insurer/internal/insurance/metrics"
	"insurer/internal/insurance/service"
	"insurer/internal/insurance/store"
	catalogstore "insurer/internal/insurance/store/catalog"
	ledgerstore "insurer/internal/insurance/store/ledger"
	"insurer/internal/platform/config"
	"insurer/internal/platform/httpserver"
	"insurer/internal/platform/logger"
	platformmetrics "insurer/internal/platform/metrics"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal/insurance.
func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Env)

	if err := run(cfg, log); err != nil {
		log.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

func run(cfg config.Server, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	catalog := catalogstore.NewInMemory()
	if err := store.SeedCatalog(ctx, catalog, cfg.SeedRisks); err != nil {
		return err
	}
	ledger := ledgerstore.NewInMemory()

	reg := platformmetrics.NewRegistry()
	company, err := insurance.NewCompany(cfg.Company, catalog, ledger,
		service.WithLogger(log),
		service.WithMetrics(insurancemetrics.New(reg)),
	)
	if err != nil {
		return err
	}

	router := httpapi.NewRouter(httpapi.Config{Logger: log, Registry: reg},
		insurance.NewHandler(company, log),
	)
	srv := httpserver.New(cfg.Addr, router)

	catalogued, err := catalog.Count(ctx)
	if err != nil {
		return err
	}
	log.Info("starting insurer",
		"addr", cfg.Addr,
		"env", cfg.Env,
		"company", company.Name(),
		"catalog_risks", catalogued,
	)
	return httpserver.ListenAndRun(ctx, srv, cfg.ShutdownTimeout, log)
}
