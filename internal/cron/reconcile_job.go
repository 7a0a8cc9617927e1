package cron

import (
	"context"
	"fmt"

	"github.com/catcoin/pos-backend/internal/reconcile"
	"github.com/catcoin/pos-backend/pkg/logger"
	"github.com/catcoin/pos-backend/pkg/metrics"
)

const reconcileJobName = "daily_stats_reconcile"

// ReconcileJobParams configure the daily stats reconcile job.
type ReconcileJobParams struct {
	Logger     *logger.Logger
	Reconciler reconcile.Service
	Days       int
	Metrics    *metrics.CronJobMetrics
}

// ReconcileJob compares the most recent daily aggregates with the ledger and
// reports drift. It never rewrites stored rows.
type ReconcileJob struct {
	logg       *logger.Logger
	reconciler reconcile.Service
	days       int
	metrics    *metrics.CronJobMetrics
}

// NewReconcileJob builds the reconcile job.
func NewReconcileJob(params ReconcileJobParams) (*ReconcileJob, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Reconciler == nil {
		return nil, fmt.Errorf("reconciler required")
	}
	days := params.Days
	if days <= 0 {
		days = 1
	}
	return &ReconcileJob{
		logg:       params.Logger,
		reconciler: params.Reconciler,
		days:       days,
		metrics:    params.Metrics,
	}, nil
}

func (j *ReconcileJob) Name() string { return reconcileJobName }

func (j *ReconcileJob) Run(ctx context.Context) error {
	results, err := j.reconciler.CheckRecent(ctx, j.days)
	if err != nil {
		return fmt.Errorf("check recent days: %w", err)
	}

	mismatches := reconcile.Mismatches(results)
	for _, m := range mismatches {
		warnCtx := j.logg.WithFields(ctx, map[string]any{
			"date":                m.Date,
			"ledger_total_sales":  m.Ledger.TotalSales.StringFixed(2),
			"ledger_order_count":  m.Ledger.OrderCount,
			"ledger_treats_eaten": m.Ledger.TreatsEaten,
			"stored_total_sales":  m.Stored.TotalSales.StringFixed(2),
			"stored_order_count":  m.Stored.OrderCount,
			"stored_treats_eaten": m.Stored.TreatsEaten,
		})
		j.logg.Warn(warnCtx, "daily stats disagree with sale ledger")
	}
	j.metrics.AddMismatches(reconcileJobName, len(mismatches))

	j.logg.Info(j.logg.WithFields(ctx, map[string]any{
		"days_checked": len(results),
		"mismatches":   len(mismatches),
	}), "daily stats reconcile finished")
	return nil
}
