package sales

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/catcoin/pos-backend/pkg/db/models"
)

// Repository is the append-only sale ledger. It deliberately has no update
// or delete.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Append(ctx context.Context, sale *models.Sale) error
	GetByID(ctx context.Context, id int64) (*models.Sale, error)
	List(ctx context.Context) ([]models.Sale, error)
	ListBetween(ctx context.Context, start, end time.Time) ([]models.Sale, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a ledger repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// Append inserts the sale and its line items. CreatedAt must already be set;
// the ledger stores it in UTC.
func (r *repository) Append(ctx context.Context, sale *models.Sale) error {
	sale.CreatedAt = sale.CreatedAt.UTC()
	for i := range sale.Items {
		sale.Items[i].Position = i
	}
	return r.db.WithContext(ctx).Create(sale).Error
}

func (r *repository) GetByID(ctx context.Context, id int64) (*models.Sale, error) {
	var sale models.Sale
	if err := r.withItems(ctx).First(&sale, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &sale, nil
}

// List returns the whole ledger, newest first.
func (r *repository) List(ctx context.Context) ([]models.Sale, error) {
	var rows []models.Sale
	if err := r.withItems(ctx).
		Order("created_at DESC, id DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListBetween returns sales with start <= created_at < end, oldest first.
func (r *repository) ListBetween(ctx context.Context, start, end time.Time) ([]models.Sale, error) {
	var rows []models.Sale
	if err := r.withItems(ctx).
		Where("created_at >= ? AND created_at < ?", start.UTC(), end.UTC()).
		Order("created_at ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) withItems(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	})
}
