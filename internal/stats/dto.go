package stats

import "github.com/catcoin/pos-backend/pkg/db/models"

// DailyStatDTO is the wire shape of a daily aggregate. A zero ID means no
// sale has been recorded for the date yet.
type DailyStatDTO struct {
	ID          int64   `json:"id,omitempty"`
	Date        string  `json:"date"`
	TotalSales  float64 `json:"total_sales"`
	OrderCount  int64   `json:"order_count"`
	TreatsEaten int64   `json:"treats_eaten"`
}

func ToDTO(row models.DailyStat) DailyStatDTO {
	return DailyStatDTO{
		ID:          row.ID,
		Date:        row.Date,
		TotalSales:  row.TotalSales.InexactFloat64(),
		OrderCount:  row.OrderCount,
		TreatsEaten: row.TreatsEaten,
	}
}

func ToDTOs(rows []models.DailyStat) []DailyStatDTO {
	out := make([]DailyStatDTO, len(rows))
	for i, row := range rows {
		out[i] = ToDTO(row)
	}
	return out
}
