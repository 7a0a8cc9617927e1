package sales

import (
	"time"

	"github.com/catcoin/pos-backend/pkg/db/models"
)

// SaleItemDTO is a sold line. ID is the product id, as the register sent it.
type SaleItemDTO struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// SaleDTO is the wire shape of a ledger entry.
type SaleDTO struct {
	ID            int64         `json:"id"`
	Subtotal      float64       `json:"subtotal"`
	Tax           float64       `json:"tax"`
	Total         float64       `json:"total"`
	PaymentMethod string        `json:"payment_method"`
	Items         []SaleItemDTO `json:"items"`
	CreatedAt     time.Time     `json:"created_at"`
}

func ToDTO(s models.Sale) SaleDTO {
	items := make([]SaleItemDTO, len(s.Items))
	for i, item := range s.Items {
		items[i] = SaleItemDTO{
			ID:       item.ProductID,
			Name:     item.Name,
			Price:    item.Price.InexactFloat64(),
			Quantity: item.Quantity,
		}
	}
	return SaleDTO{
		ID:            s.ID,
		Subtotal:      s.Subtotal.InexactFloat64(),
		Tax:           s.Tax.InexactFloat64(),
		Total:         s.Total.InexactFloat64(),
		PaymentMethod: s.PaymentMethod.String(),
		Items:         items,
		CreatedAt:     s.CreatedAt.UTC(),
	}
}

func ToDTOs(rows []models.Sale) []SaleDTO {
	out := make([]SaleDTO, len(rows))
	for i, row := range rows {
		out[i] = ToDTO(row)
	}
	return out
}
