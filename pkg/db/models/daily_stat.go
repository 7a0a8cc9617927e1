package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DailyStat is the per-date rollup maintained by the sale commit.
type DailyStat struct {
	ID          int64           `gorm:"column:id;primaryKey;autoIncrement"`
	Date        string          `gorm:"column:date;not null;uniqueIndex"`
	TotalSales  decimal.Decimal `gorm:"column:total_sales;type:numeric(14,2);not null;default:0"`
	OrderCount  int64           `gorm:"column:order_count;not null;default:0"`
	TreatsEaten int64           `gorm:"column:treats_eaten;not null;default:0"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
