package catalog

import (
	"time"

	"github.com/catcoin/pos-backend/pkg/db/models"
)

// ProductDTO is the wire shape of a catalog product.
type ProductDTO struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	Category  string    `json:"category"`
	Stock     int       `json:"stock"`
	Emoji     string    `json:"emoji"`
	CreatedAt time.Time `json:"created_at"`
}

func ToDTO(p models.Product) ProductDTO {
	return ProductDTO{
		ID:        p.ID,
		Name:      p.Name,
		Price:     p.Price.InexactFloat64(),
		Category:  p.Category,
		Stock:     p.Stock,
		Emoji:     p.Emoji,
		CreatedAt: p.CreatedAt.UTC(),
	}
}

func ToDTOs(rows []models.Product) []ProductDTO {
	out := make([]ProductDTO, len(rows))
	for i, row := range rows {
		out[i] = ToDTO(row)
	}
	return out
}
