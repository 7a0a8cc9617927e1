package stats

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/catcoin/pos-backend/pkg/db/dbtest"
	pkgerrors "github.com/catcoin/pos-backend/pkg/errors"
)

func TestTodayUsesConfiguredTimezone(t *testing.T) {
	repo := NewRepository(dbtest.Open(t).DB())
	loc := time.FixedZone("UTC-5", -5*60*60)
	svc, err := NewService(repo, loc)
	require.NoError(t, err)
	svc.(*service).now = func() time.Time { return time.Date(2025, 3, 2, 3, 0, 0, 0, time.UTC) }

	_, err = repo.UpsertIncrement(context.Background(), "2025-03-01", Delta{Amount: decimal.RequireFromString("9.72"), Orders: 1, Secondary: 9})
	require.NoError(t, err)

	row, err := svc.Today(context.Background())
	require.NoError(t, err)
	require.Equal(t, "2025-03-01", row.Date)
	require.Equal(t, "9.72", row.TotalSales.StringFixed(2))
}

func TestRangeValidatesDates(t *testing.T) {
	svc, err := NewService(NewRepository(dbtest.Open(t).DB()), nil)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = svc.Range(ctx, "03/01/2025", "2025-03-02")
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = svc.Range(ctx, "2025-03-05", "2025-03-02")
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	rows, err := svc.Range(ctx, "2025-03-01", "2025-03-01")
	require.NoError(t, err)
	require.Empty(t, rows)
}

func TestDayBounds(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	start, end, err := DayBounds("2025-03-01", loc)
	require.NoError(t, err)
	require.Equal(t, time.Date(2025, 2, 28, 22, 0, 0, 0, time.UTC), start.UTC())
	require.Equal(t, 24*time.Hour, end.Sub(start))

	_, _, err = DayBounds("nope", loc)
	require.Error(t, err)
}

func TestNewServiceRequiresRepository(t *testing.T) {
	_, err := NewService(nil, nil)
	require.Error(t, err)
}
