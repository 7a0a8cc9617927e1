package reports

import "time"

type XReportDTO struct {
	Date              string    `json:"date"`
	GeneratedAt       time.Time `json:"generated_at"`
	TotalTransactions int       `json:"total_transactions"`
	CashTransactions  int       `json:"cash_transactions"`
	CardTransactions  int       `json:"card_transactions"`
	TotalSales        float64   `json:"total_sales"`
	CashSales         float64   `json:"cash_sales"`
	CardSales         float64   `json:"card_sales"`
	TaxCollected      float64   `json:"tax_collected"`
}

func ToDTO(r XReport) XReportDTO {
	return XReportDTO{
		Date:              r.Date,
		GeneratedAt:       r.GeneratedAt,
		TotalTransactions: r.TotalTransactions,
		CashTransactions:  r.CashTransactions,
		CardTransactions:  r.CardTransactions,
		TotalSales:        r.TotalSales.InexactFloat64(),
		CashSales:         r.CashSales.InexactFloat64(),
		CardSales:         r.CardSales.InexactFloat64(),
		TaxCollected:      r.TaxCollected.InexactFloat64(),
	}
}
