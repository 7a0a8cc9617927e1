package catalog

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/catcoin/pos-backend/pkg/db/models"
)

// DemoProducts is the starter menu for a new register.
func DemoProducts() []models.Product {
	item := func(name, price, category string, stock int, emoji string) models.Product {
		return models.Product{
			Name:     name,
			Price:    decimal.RequireFromString(price),
			Category: category,
			Stock:    stock,
			Emoji:    emoji,
		}
	}
	return []models.Product{
		item("Catnip Latte", "4.50", "Drinks", 50, "☕"),
		item("Tuna Sandwich", "7.99", "Food", 30, "🥪"),
		item("Salmon Sushi Roll", "12.99", "Food", 25, "🍱"),
		item("Milk Tea", "5.50", "Drinks", 40, "🧋"),
		item("Fish Cookies", "3.99", "Snacks", 60, "🍪"),
		item("Paw-cakes", "8.99", "Food", 20, "🥞"),
		item("Meow Muffin", "4.25", "Snacks", 35, "🧁"),
		item("Kitty Smoothie", "6.50", "Drinks", 45, "🥤"),
		item("Purr-rito", "9.99", "Food", 28, "🌯"),
		item("Cat Cake Slice", "5.99", "Desserts", 22, "🍰"),
	}
}

// Seed inserts DemoProducts when the catalog is empty and reports how many
// rows were written. A populated catalog is left alone.
func Seed(ctx context.Context, repo *Repository) (int, error) {
	count, err := repo.Count(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}
	products := DemoProducts()
	if err := repo.CreateBatch(ctx, products); err != nil {
		return 0, err
	}
	return len(products), nil
}
