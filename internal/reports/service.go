package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/catcoin/pos-backend/internal/sales"
	"github.com/catcoin/pos-backend/internal/stats"
	"github.com/catcoin/pos-backend/pkg/db/models"
	"github.com/catcoin/pos-backend/pkg/enums"
	pkgerrors "github.com/catcoin/pos-backend/pkg/errors"
)

// XReport is the mid-shift register summary, recomputed from the ledger.
type XReport struct {
	Date              string
	GeneratedAt       time.Time
	TotalTransactions int
	CashTransactions  int
	CardTransactions  int
	TotalSales        decimal.Decimal
	CashSales         decimal.Decimal
	CardSales         decimal.Decimal
	TaxCollected      decimal.Decimal
}

// Service builds register reports.
type Service interface {
	XReport(ctx context.Context, date string) (*XReport, error)
}

type service struct {
	ledger sales.Repository
	loc    *time.Location
	now    func() time.Time
}

// NewService builds the report service. Report days are calendar days in loc.
func NewService(ledger sales.Repository, loc *time.Location) (Service, error) {
	if ledger == nil {
		return nil, fmt.Errorf("sales repository required")
	}
	if loc == nil {
		loc = time.UTC
	}
	return &service{ledger: ledger, loc: loc, now: time.Now}, nil
}

// XReport summarizes the sales of date, or of today when date is empty.
func (s *service) XReport(ctx context.Context, date string) (*XReport, error) {
	now := s.now()
	if date == "" {
		date = stats.DateKey(now, s.loc)
	}
	start, end, err := stats.DayBounds(date, s.loc)
	if err != nil {
		return nil, err
	}
	rows, err := s.ledger.ListBetween(ctx, start, end)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load sales for report")
	}
	report := Summarize(date, rows)
	report.GeneratedAt = now.UTC()
	return &report, nil
}

// Summarize folds sales into an X-report for date.
func Summarize(date string, rows []models.Sale) XReport {
	report := XReport{
		Date:         date,
		TotalSales:   decimal.Zero,
		CashSales:    decimal.Zero,
		CardSales:    decimal.Zero,
		TaxCollected: decimal.Zero,
	}
	for _, sale := range rows {
		report.TotalTransactions++
		report.TotalSales = report.TotalSales.Add(sale.Total)
		report.TaxCollected = report.TaxCollected.Add(sale.Tax)
		switch sale.PaymentMethod {
		case enums.PaymentMethodCash:
			report.CashTransactions++
			report.CashSales = report.CashSales.Add(sale.Total)
		case enums.PaymentMethodCard:
			report.CardTransactions++
			report.CardSales = report.CardSales.Add(sale.Total)
		}
	}
	return report
}
