package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/catcoin/pos-backend/pkg/db"
	"github.com/catcoin/pos-backend/pkg/db/models"
	pkgerrors "github.com/catcoin/pos-backend/pkg/errors"
	"github.com/catcoin/pos-backend/pkg/logger"
)

// DefaultEmoji is assigned to products created without one.
const DefaultEmoji = "📦"

// Service exposes inventory management operations.
type Service interface {
	Create(ctx context.Context, input ProductInput) (*models.Product, error)
	Get(ctx context.Context, id int64) (*models.Product, error)
	List(ctx context.Context) ([]models.Product, error)
	ListLowStock(ctx context.Context, threshold int) ([]models.Product, error)
	Update(ctx context.Context, id int64, input ProductInput) (*models.Product, error)
	Delete(ctx context.Context, id int64) error
	Seed(ctx context.Context) (int, error)
}

// ProductInput is the full product record accepted by create and update.
// A nil Stock means zero.
type ProductInput struct {
	Name     string
	Price    decimal.Decimal
	Category string
	Stock    *int
	Emoji    string
}

type service struct {
	repo              *Repository
	logg              *logger.Logger
	lowStockThreshold int
}

// NewService constructs the catalog service. threshold is used by
// ListLowStock when the caller passes a non-positive value.
func NewService(repo *Repository, logg *logger.Logger, threshold int) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	if threshold <= 0 {
		threshold = 10
	}
	return &service{repo: repo, logg: logg, lowStockThreshold: threshold}, nil
}

func (s *service) Create(ctx context.Context, input ProductInput) (*models.Product, error) {
	product, err := input.toModel()
	if err != nil {
		return nil, err
	}
	if product.Emoji == "" {
		product.Emoji = DefaultEmoji
	}
	created, err := s.repo.Create(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create product")
	}
	s.logg.Info(s.logg.WithField(ctx, "product_id", created.ID), "product created")
	return created, nil
}

func (s *service) Get(ctx context.Context, id int64) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapLookupError(err, "load product")
	}
	return product, nil
}

func (s *service) List(ctx context.Context) ([]models.Product, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list products")
	}
	return rows, nil
}

func (s *service) ListLowStock(ctx context.Context, threshold int) ([]models.Product, error) {
	if threshold <= 0 {
		threshold = s.lowStockThreshold
	}
	rows, err := s.repo.ListLowStock(ctx, threshold)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list low stock products")
	}
	return rows, nil
}

func (s *service) Update(ctx context.Context, id int64, input ProductInput) (*models.Product, error) {
	product, err := input.toModel()
	if err != nil {
		return nil, err
	}
	product.ID = id
	updated, err := s.repo.Replace(ctx, product)
	if err != nil {
		return nil, mapLookupError(err, "update product")
	}
	s.logg.Info(s.logg.WithField(ctx, "product_id", id), "product updated")
	return updated, nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return mapLookupError(err, "delete product")
	}
	s.logg.Info(s.logg.WithField(ctx, "product_id", id), "product deleted")
	return nil
}

func (s *service) Seed(ctx context.Context) (int, error) {
	n, err := Seed(ctx, s.repo)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "seed catalog")
	}
	if n > 0 {
		s.logg.Info(s.logg.WithField(ctx, "products", n), "catalog seeded")
	}
	return n, nil
}

func (in ProductInput) toModel() (*models.Product, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if in.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be zero or greater")
	}
	stock := 0
	if in.Stock != nil {
		stock = *in.Stock
	}
	if stock < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock must be zero or greater")
	}
	return &models.Product{
		Name:     name,
		Price:    in.Price.Round(2),
		Category: strings.TrimSpace(in.Category),
		Stock:    stock,
		Emoji:    strings.TrimSpace(in.Emoji),
	}, nil
}

func mapLookupError(err error, action string) error {
	if db.IsNotFound(err) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, action)
}
