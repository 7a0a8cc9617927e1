// Package reconcile checks the daily aggregate against the sale ledger it
// summarizes. It only reports drift; fixing a mismatch is an operator task.
package reconcile

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/catcoin/pos-backend/internal/sales"
	"github.com/catcoin/pos-backend/internal/stats"
	"github.com/catcoin/pos-backend/pkg/db/models"
	pkgerrors "github.com/catcoin/pos-backend/pkg/errors"
)

// Totals are the three aggregate counters for one day.
type Totals struct {
	TotalSales  decimal.Decimal
	OrderCount  int64
	TreatsEaten int64
}

// Equal compares totals at cent precision.
func (t Totals) Equal(other Totals) bool {
	return t.TotalSales.Round(2).Equal(other.TotalSales.Round(2)) &&
		t.OrderCount == other.OrderCount &&
		t.TreatsEaten == other.TreatsEaten
}

// Result compares one day's stored aggregate with the ledger.
type Result struct {
	Date    string
	Ledger  Totals
	Stored  Totals
	Matches bool
}

// Service runs reconciliation checks.
type Service interface {
	Check(ctx context.Context, date string) (*Result, error)
	CheckRecent(ctx context.Context, days int) ([]Result, error)
}

type service struct {
	ledger    sales.Repository
	stats     stats.Repository
	secondary func(decimal.Decimal) int64
	loc       *time.Location
	now       func() time.Time
}

// NewService builds the reconciliation service. secondary must be the rule
// the commit path uses for the secondary counter.
func NewService(ledger sales.Repository, statsRepo stats.Repository, secondary func(decimal.Decimal) int64, loc *time.Location) (Service, error) {
	if ledger == nil {
		return nil, fmt.Errorf("sales repository required")
	}
	if statsRepo == nil {
		return nil, fmt.Errorf("stats repository required")
	}
	if secondary == nil {
		return nil, fmt.Errorf("secondary rule required")
	}
	if loc == nil {
		loc = time.UTC
	}
	return &service{ledger: ledger, stats: statsRepo, secondary: secondary, loc: loc, now: time.Now}, nil
}

func (s *service) Check(ctx context.Context, date string) (*Result, error) {
	if date == "" {
		date = stats.DateKey(s.now(), s.loc)
	}
	start, end, err := stats.DayBounds(date, s.loc)
	if err != nil {
		return nil, err
	}
	rows, err := s.ledger.ListBetween(ctx, start, end)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load ledger for reconcile")
	}
	stored, err := s.stats.GetByDate(ctx, date)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load daily stats for reconcile")
	}

	result := Result{
		Date:   date,
		Ledger: Recompute(rows, s.secondary),
		Stored: Totals{
			TotalSales:  stored.TotalSales,
			OrderCount:  stored.OrderCount,
			TreatsEaten: stored.TreatsEaten,
		},
	}
	result.Matches = result.Ledger.Equal(result.Stored)
	return &result, nil
}

// CheckRecent checks today and the days-1 days before it, newest first.
func (s *service) CheckRecent(ctx context.Context, days int) ([]Result, error) {
	if days <= 0 {
		days = 1
	}
	today := s.now().In(s.loc)
	results := make([]Result, 0, days)
	for i := 0; i < days; i++ {
		date := stats.DateKey(today.AddDate(0, 0, -i), s.loc)
		result, err := s.Check(ctx, date)
		if err != nil {
			return nil, err
		}
		results = append(results, *result)
	}
	return results, nil
}

// Recompute derives the aggregate counters from ledger rows.
func Recompute(rows []models.Sale, secondary func(decimal.Decimal) int64) Totals {
	totals := Totals{TotalSales: decimal.Zero}
	for _, sale := range rows {
		totals.TotalSales = totals.TotalSales.Add(sale.Total)
		totals.OrderCount++
		totals.TreatsEaten += secondary(sale.Total)
	}
	return totals
}

// Mismatches returns the results that disagree.
func Mismatches(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if !r.Matches {
			out = append(out, r)
		}
	}
	return out
}
