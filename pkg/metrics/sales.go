package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Sale commit outcomes.
const (
	OutcomeCommitted         = "committed"
	OutcomeInvalid           = "invalid"
	OutcomeProductNotFound   = "product_not_found"
	OutcomeInsufficientStock = "insufficient_stock"
	OutcomeFailed            = "failed"
)

// SaleMetrics tracks sale commits at the register.
type SaleMetrics struct {
	commits  *prometheus.CounterVec
	duration prometheus.Histogram
	revenue  *prometheus.CounterVec
}

// NewSaleMetrics registers the sale metrics on reg. A nil registerer yields
// a no-op recorder.
func NewSaleMetrics(reg prometheus.Registerer) *SaleMetrics {
	if reg == nil {
		return &SaleMetrics{}
	}
	commits := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sale_commits_total",
		Help:      "Sale commit attempts by outcome.",
	}, []string{"outcome"})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "sale_commit_duration_seconds",
		Help:      "Time spent committing a sale, including the check phase.",
		Buckets:   prometheus.DefBuckets,
	})
	revenue := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sale_revenue_total",
		Help:      "Committed sale totals by payment method.",
	}, []string{"payment_method"})
	reg.MustRegister(commits, duration, revenue)
	return &SaleMetrics{commits: commits, duration: duration, revenue: revenue}
}

// ObserveCommit records one commit attempt.
func (m *SaleMetrics) ObserveCommit(outcome string, elapsed time.Duration) {
	if m == nil || m.commits == nil {
		return
	}
	m.commits.WithLabelValues(normalizeLabel(outcome)).Inc()
	m.duration.Observe(elapsed.Seconds())
}

// AddRevenue adds a committed total for the payment method.
func (m *SaleMetrics) AddRevenue(paymentMethod string, total float64) {
	if m == nil || m.revenue == nil || total < 0 {
		return
	}
	m.revenue.WithLabelValues(normalizeLabel(paymentMethod)).Add(total)
}
