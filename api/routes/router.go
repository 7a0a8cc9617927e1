package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/catcoin/pos-backend/api/controllers"
	"github.com/catcoin/pos-backend/api/middleware"
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
	pkgredis "github.com/catcoin/pos-backend/pkg/redis"
)

// NewRouter wires the register API. redisClient and gatherer are optional.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *pkgredis.Client,
	gatherer prometheus.Gatherer,
	catalogService catalog.Service,
	checkoutService checkout.Service,
	salesService sales.Service,
	statsService stats.Service,
	reportService reports.Service,
	reconcileService reconcile.Service,
	exportService export.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	// a nil *Client must not reach the middleware as a non-nil interface
	var idempotencyStore pkgredis.IdempotencyStore
	var redisPinger pkgredis.Pinger
	if redisClient != nil {
		idempotencyStore = redisClient
		redisPinger = redisClient
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisPinger))
	})

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Idempotency(idempotencyStore, logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(catalogService, logg))
			r.Post("/", controllers.CreateProduct(catalogService, logg))
			r.Get("/low-stock", controllers.LowStockProducts(catalogService, logg))
			r.Get("/{id}", controllers.GetProduct(catalogService, logg))
			r.Put("/{id}", controllers.ReplaceProduct(catalogService, logg))
			r.Delete("/{id}", controllers.DeleteProduct(catalogService, logg))
		})

		r.Route("/sales", func(r chi.Router) {
			r.Get("/", controllers.ListSales(salesService, logg))
			r.Post("/", controllers.CommitSale(checkoutService, logg))
			r.Get("/{id}", controllers.GetSale(salesService, logg))
		})

		r.Route("/stats", func(r chi.Router) {
			r.Get("/today", controllers.TodayStats(statsService, logg))
			r.Get("/range", controllers.RangeStats(statsService, logg))
		})

		r.Get("/reports/x", controllers.XReport(reportService, logg))
		r.Get("/reconcile", controllers.Reconcile(reconcileService, logg))

		r.Route("/export/sales", func(r chi.Router) {
			r.Get("/csv", controllers.ExportSales(exportService, export.FormatCSV, logg))
			r.Get("/json", controllers.ExportSales(exportService, export.FormatJSON, logg))
		})
	})

	return r
}
