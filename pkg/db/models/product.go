package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry sold at the register.
type Product struct {
	ID        int64           `gorm:"column:id;primaryKey;autoIncrement"`
	Name      string          `gorm:"column:name;not null"`
	Price     decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null;default:0"`
	Category  string          `gorm:"column:category;not null;default:''"`
	Stock     int             `gorm:"column:stock;not null;default:0"`
	Emoji     string          `gorm:"column:emoji;not null;default:''"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
