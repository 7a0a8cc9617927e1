package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/catcoin/pos-backend/pkg/enums"
)

// Sale is an immutable ledger entry written once by the sale commit.
type Sale struct {
	ID            int64               `gorm:"column:id;primaryKey;autoIncrement"`
	Subtotal      decimal.Decimal     `gorm:"column:subtotal;type:numeric(12,2);not null"`
	Tax           decimal.Decimal     `gorm:"column:tax;type:numeric(12,2);not null"`
	Total         decimal.Decimal     `gorm:"column:total;type:numeric(12,2);not null"`
	PaymentMethod enums.PaymentMethod `gorm:"column:payment_method;not null"`
	Items         []SaleLineItem      `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time           `gorm:"column:created_at;not null;index"`
}

// SaleLineItem snapshots the product as it was sold. ProductID is not a
// foreign key: catalog deletes leave history intact.
type SaleLineItem struct {
	ID        int64           `gorm:"column:id;primaryKey;autoIncrement"`
	SaleID    int64           `gorm:"column:sale_id;not null;index"`
	Position  int             `gorm:"column:position;not null"`
	ProductID int64           `gorm:"column:product_id;not null"`
	Name      string          `gorm:"column:name;not null"`
	Price     decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	Quantity  int             `gorm:"column:quantity;not null"`
}

// LineTotal returns price * quantity.
func (i SaleLineItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
