package sales

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/catcoin/pos-backend/pkg/db/dbtest"
	"github.com/catcoin/pos-backend/pkg/db/models"
	"github.com/catcoin/pos-backend/pkg/enums"
)

func newSale(at time.Time, method enums.PaymentMethod, items ...models.SaleLineItem) *models.Sale {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.LineTotal())
	}
	tax := subtotal.Mul(decimal.RequireFromString("0.08")).Round(2)
	return &models.Sale{
		Subtotal:      subtotal,
		Tax:           tax,
		Total:         subtotal.Add(tax),
		PaymentMethod: method,
		Items:         items,
		CreatedAt:     at,
	}
}

func line(productID int64, name, price string, qty int) models.SaleLineItem {
	return models.SaleLineItem{ProductID: productID, Name: name, Price: decimal.RequireFromString(price), Quantity: qty}
}

func TestAppendStoresLineItemsInOrder(t *testing.T) {
	repo := NewRepository(dbtest.Open(t).DB())
	ctx := context.Background()

	sale := newSale(time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC), enums.PaymentMethodCash,
		line(2, "Tuna Sandwich", "7.99", 1),
		line(1, "Catnip Latte", "4.50", 2),
	)
	require.NoError(t, repo.Append(ctx, sale))
	require.NotZero(t, sale.ID)

	loaded, err := repo.GetByID(ctx, sale.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Items, 2)
	require.Equal(t, "Tuna Sandwich", loaded.Items[0].Name)
	require.Equal(t, 0, loaded.Items[0].Position)
	require.Equal(t, "Catnip Latte", loaded.Items[1].Name)
	require.Equal(t, "16.99", loaded.Subtotal.StringFixed(2))
	require.Equal(t, "1.36", loaded.Tax.StringFixed(2))
	require.Equal(t, "18.35", loaded.Total.StringFixed(2))
	require.Equal(t, enums.PaymentMethodCash, loaded.PaymentMethod)
	require.True(t, loaded.CreatedAt.Equal(sale.CreatedAt))

	_, err = repo.GetByID(ctx, 999)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestListIsNewestFirst(t *testing.T) {
	repo := NewRepository(dbtest.Open(t).DB())
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Append(ctx, newSale(base.Add(time.Duration(i)*time.Hour), enums.PaymentMethodCard, line(1, "Milk Tea", "5.50", 1))))
	}

	rows, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.True(t, rows[0].CreatedAt.After(rows[1].CreatedAt))
	require.True(t, rows[1].CreatedAt.After(rows[2].CreatedAt))
	require.Len(t, rows[0].Items, 1)
}

func TestListBetweenIsHalfOpen(t *testing.T) {
	repo := NewRepository(dbtest.Open(t).DB())
	ctx := context.Background()
	day := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	times := []time.Time{
		day.Add(-time.Minute),
		day,
		day.Add(12 * time.Hour),
		day.Add(24 * time.Hour),
	}
	for _, at := range times {
		require.NoError(t, repo.Append(ctx, newSale(at, enums.PaymentMethodCash, line(1, "Milk Tea", "5.50", 1))))
	}

	rows, err := repo.ListBetween(ctx, day, day.Add(24*time.Hour))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.True(t, rows[0].CreatedAt.Equal(day))
	require.True(t, rows[1].CreatedAt.Equal(day.Add(12*time.Hour)))
}

func TestAppendInsideRolledBackTxLeavesNoTrace(t *testing.T) {
	client := dbtest.Open(t)
	repo := NewRepository(client.DB())
	ctx := context.Background()

	err := client.WithTx(ctx, func(tx *gorm.DB) error {
		if err := repo.WithTx(tx).Append(ctx, newSale(time.Now(), enums.PaymentMethodCash, line(1, "Milk Tea", "5.50", 1))); err != nil {
			return err
		}
		return gorm.ErrInvalidTransaction
	})
	require.Error(t, err)

	rows, err := repo.List(ctx)
	require.NoError(t, err)
	require.Empty(t, rows)
}
