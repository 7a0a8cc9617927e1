package reconcile

type TotalsDTO struct {
	TotalSales  float64 `json:"total_sales"`
	OrderCount  int64   `json:"order_count"`
	TreatsEaten int64   `json:"treats_eaten"`
}

type ResultDTO struct {
	Date    string    `json:"date"`
	Ledger  TotalsDTO `json:"ledger"`
	Stored  TotalsDTO `json:"stored"`
	Matches bool      `json:"matches"`
}

func ToDTO(r Result) ResultDTO {
	return ResultDTO{
		Date:    r.Date,
		Ledger:  totalsDTO(r.Ledger),
		Stored:  totalsDTO(r.Stored),
		Matches: r.Matches,
	}
}

func totalsDTO(t Totals) TotalsDTO {
	return TotalsDTO{
		TotalSales:  t.TotalSales.InexactFloat64(),
		OrderCount:  t.OrderCount,
		TreatsEaten: t.TreatsEaten,
	}
}
