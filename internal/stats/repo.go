package stats

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/catcoin/pos-backend/pkg/db/models"
)

// DateLayout is the key format of the daily aggregate.
const DateLayout = "2006-01-02"

// Delta is the contribution of one or more sales to a day's aggregate.
type Delta struct {
	Amount    decimal.Decimal
	Orders    int64
	Secondary int64
}

// Repository maintains the per-date rollups.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	GetByDate(ctx context.Context, date string) (*models.DailyStat, error)
	UpsertIncrement(ctx context.Context, date string, delta Delta) (*models.DailyStat, error)
	GetRange(ctx context.Context, start, end string) ([]models.DailyStat, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns an aggregate repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// GetByDate never fails for a missing date: it returns a zero-valued row
// carrying only the date.
func (r *repository) GetByDate(ctx context.Context, date string) (*models.DailyStat, error) {
	row, err := r.find(ctx, date)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return &models.DailyStat{Date: date, TotalSales: decimal.Zero}, nil
	}
	return row, nil
}

// UpsertIncrement creates the row with delta as its initial value, or adds
// delta to the existing row. The sum is computed in decimal and written back
// whole, so callers must hold the commit lock or run inside a transaction.
func (r *repository) UpsertIncrement(ctx context.Context, date string, delta Delta) (*models.DailyStat, error) {
	row, err := r.find(ctx, date)
	if err != nil {
		return nil, err
	}
	if row == nil {
		row = &models.DailyStat{
			Date:        date,
			TotalSales:  delta.Amount.Round(2),
			OrderCount:  delta.Orders,
			TreatsEaten: delta.Secondary,
		}
		if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
			return nil, err
		}
		return row, nil
	}

	row.TotalSales = row.TotalSales.Add(delta.Amount).Round(2)
	row.OrderCount += delta.Orders
	row.TreatsEaten += delta.Secondary
	if err := r.db.WithContext(ctx).
		Model(&models.DailyStat{}).
		Where("id = ?", row.ID).
		Updates(map[string]any{
			"total_sales":  row.TotalSales,
			"order_count":  row.OrderCount,
			"treats_eaten": row.TreatsEaten,
		}).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// GetRange returns the stored rows with start <= date <= end, newest first.
// Dates without sales have no row and are not filled in.
func (r *repository) GetRange(ctx context.Context, start, end string) ([]models.DailyStat, error) {
	var rows []models.DailyStat
	if err := r.db.WithContext(ctx).
		Where("date >= ? AND date <= ?", start, end).
		Order("date DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) find(ctx context.Context, date string) (*models.DailyStat, error) {
	var row models.DailyStat
	err := r.db.WithContext(ctx).Where("date = ?", date).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}
