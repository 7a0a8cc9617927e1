package export

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/catcoin/pos-backend/internal/sales"
	"github.com/catcoin/pos-backend/pkg/db/dbtest"
	"github.com/catcoin/pos-backend/pkg/db/models"
	"github.com/catcoin/pos-backend/pkg/enums"
	pkgerrors "github.com/catcoin/pos-backend/pkg/errors"
)

func d(v string) decimal.Decimal { return decimal.RequireFromString(v) }

func fixtureSales() []models.Sale {
	return []models.Sale{
		{
			ID: 3, Subtotal: d("9.99"), Tax: d("0.80"), Total: d("10.79"),
			PaymentMethod: enums.PaymentMethodCash,
			Items:         []models.SaleLineItem{{ProductID: 9, Name: "Purr-rito, spicy", Price: d("9.99"), Quantity: 1}},
			CreatedAt:     time.Date(2025, 3, 1, 11, 30, 0, 0, time.UTC),
		},
		{
			ID: 2, Subtotal: d("16.99"), Tax: d("1.36"), Total: d("18.35"),
			PaymentMethod: enums.PaymentMethodCard,
			Items: []models.SaleLineItem{
				{ProductID: 2, Name: "Tuna Sandwich", Price: d("7.99"), Quantity: 1},
				{ProductID: 1, Name: "Catnip Latte", Price: d("4.50"), Quantity: 2},
			},
			CreatedAt: time.Date(2025, 3, 1, 10, 15, 0, 0, time.UTC),
		},
		{
			ID: 1, Subtotal: d("9"), Tax: d("0.72"), Total: d("9.72"),
			PaymentMethod: enums.PaymentMethodCash,
			Items:         []models.SaleLineItem{{ProductID: 1, Name: "Catnip Latte", Price: d("4.50"), Quantity: 2}},
			CreatedAt:     time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
		},
	}
}

func newGoldie(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func TestWriteCSVGolden(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, fixtureSales()))
	newGoldie(t).Assert(t, "sales_csv", buf.Bytes())
}

func TestWriteCSVEmptyLedgerHasHeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	newGoldie(t).Assert(t, "empty_csv", buf.Bytes())
}

func TestWriteJSONUsesSaleShape(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, fixtureSales()))

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 3)
	assert.Equal(t, float64(3), decoded[0]["id"])
	assert.Equal(t, 10.79, decoded[0]["total"])
	assert.Equal(t, "cash", decoded[0]["payment_method"])
	assert.Equal(t, "2025-03-01T11:30:00Z", decoded[0]["created_at"])
	items := decoded[1]["items"].([]any)
	require.Len(t, items, 2)
	assert.Equal(t, "Tuna Sandwich", items[0].(map[string]any)["name"])
}

func TestServiceExportsNewestFirst(t *testing.T) {
	ledger := sales.NewRepository(dbtest.Open(t).DB())
	ctx := context.Background()
	fixtures := fixtureSales()
	for i := len(fixtures) - 1; i >= 0; i-- {
		sale := fixtures[i]
		sale.ID = 0
		require.NoError(t, ledger.Append(ctx, &sale))
	}

	svc, err := NewService(ledger)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, svc.Sales(ctx, FormatCSV, &buf))
	newGoldie(t).Assert(t, "sales_csv", buf.Bytes())

	require.True(t, pkgerrors.IsCode(svc.Sales(ctx, Format("xml"), &buf), pkgerrors.CodeValidation))
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat(" JSON ")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)
	assert.Equal(t, "application/json", f.ContentType())
	assert.Equal(t, "sales.json", f.Filename())
	assert.Equal(t, "text/csv", FormatCSV.ContentType())

	_, err = ParseFormat("pdf")
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}
