// Package app assembles the register's services over one database client so
// the API, the cron worker and the operator CLI share the same wiring.
package app

import (
	"fmt"

	"github.com/catcoin/pos-backend/internal/catalog"
	"github.com/catcoin/pos-backend/internal/checkout"
	"github.com/catcoin/pos-backend/internal/export"
	"github.com/catcoin/pos-backend/internal/reconcile"
	"github.com/catcoin/pos-backend/internal/reports"
	"github.com/catcoin/pos-backend/internal/sales"
	"github.com/catcoin/pos-backend/internal/stats"
	"github.com/catcoin/pos-backend/pkg/config"
	"github.com/catcoin/pos-backend/pkg/db"
	"github.com/catcoin/pos-backend/pkg/logger"
	"github.com/catcoin/pos-backend/pkg/metrics"
)

type Services struct {
	Catalog   catalog.Service
	Checkout  checkout.Service
	Sales     sales.Service
	Stats     stats.Service
	Reports   reports.Service
	Reconcile reconcile.Service
	Export    export.Service
}

// Build constructs every service. saleMetrics may be nil.
func Build(client *db.Client, cfg config.SalesConfig, logg *logger.Logger, saleMetrics *metrics.SaleMetrics) (*Services, error) {
	if client == nil {
		return nil, fmt.Errorf("db client required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	secondary, err := checkout.SecondaryRuleFor(cfg.SecondaryRule)
	if err != nil {
		return nil, err
	}
	loc := cfg.Location()

	catalogRepo := catalog.NewRepository(client.DB())
	ledger := sales.NewRepository(client.DB())
	statsRepo := stats.NewRepository(client.DB())

	catalogService, err := catalog.NewService(catalogRepo, logg, cfg.LowStockThreshold)
	if err != nil {
		return nil, fmt.Errorf("catalog service: %w", err)
	}
	checkoutService, err := checkout.NewService(client, catalogRepo, ledger, statsRepo, checkout.Options{
		TaxRate:            cfg.TaxRateDecimal(),
		AllowNegativeStock: !cfg.EnforceStock,
		Secondary:          secondary,
		Location:           loc,
		Logger:             logg,
		Metrics:            saleMetrics,
	})
	if err != nil {
		return nil, fmt.Errorf("checkout service: %w", err)
	}
	salesService, err := sales.NewService(ledger)
	if err != nil {
		return nil, fmt.Errorf("sales service: %w", err)
	}
	statsService, err := stats.NewService(statsRepo, loc)
	if err != nil {
		return nil, fmt.Errorf("stats service: %w", err)
	}
	reportService, err := reports.NewService(ledger, loc)
	if err != nil {
		return nil, fmt.Errorf("report service: %w", err)
	}
	reconcileService, err := reconcile.NewService(ledger, statsRepo, secondary, loc)
	if err != nil {
		return nil, fmt.Errorf("reconcile service: %w", err)
	}
	exportService, err := export.NewService(ledger)
	if err != nil {
		return nil, fmt.Errorf("export service: %w", err)
	}

	return &Services{
		Catalog:   catalogService,
		Checkout:  checkoutService,
		Sales:     salesService,
		Stats:     statsService,
		Reports:   reportService,
		Reconcile: reconcileService,
		Export:    exportService,
	}, nil
}
