package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/catcoin/pos-backend/internal/catalog"
	"github.com/catcoin/pos-backend/internal/sales"
	"github.com/catcoin/pos-backend/internal/stats"
	"github.com/catcoin/pos-backend/pkg/db/models"
	"github.com/catcoin/pos-backend/pkg/enums"
	pkgerrors "github.com/catcoin/pos-backend/pkg/errors"
	"github.com/catcoin/pos-backend/pkg/logger"
	"github.com/catcoin/pos-backend/pkg/metrics"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service finalizes carts into persisted sales.
type Service interface {
	Commit(ctx context.Context, input CommitInput) (*models.Sale, error)
}

// CartLine is one product/quantity pair priced at the moment it was added
// to the cart.
type CartLine struct {
	ProductID int64
	UnitPrice decimal.Decimal
	Quantity  int
}

// CommitInput is a cart ready for payment.
type CommitInput struct {
	Items         []CartLine
	PaymentMethod enums.PaymentMethod
}

// Options tunes pricing and stock policy.
type Options struct {
	TaxRate decimal.Decimal
	// AllowNegativeStock skips the stock check and lets stock go below zero.
	AllowNegativeStock bool
	Secondary          SecondaryRule
	Location           *time.Location
	Logger             *logger.Logger
	Metrics            *metrics.SaleMetrics
}

type service struct {
	tx      txRunner
	catalog *catalog.Repository
	ledger  sales.Repository
	stats   stats.Repository

	taxRate       decimal.Decimal
	allowNegative bool
	secondary     SecondaryRule
	loc           *time.Location
	logg          *logger.Logger
	metrics       *metrics.SaleMetrics

	// mu serializes commits so the stock check and the decrement cannot be
	// interleaved by another sale.
	mu  sync.Mutex
	now func() time.Time
}

// NewService builds the sale commit orchestrator.
func NewService(tx txRunner, catalogRepo *catalog.Repository, ledger sales.Repository, statsRepo stats.Repository, opts Options) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if catalogRepo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if ledger == nil {
		return nil, fmt.Errorf("sales repository required")
	}
	if statsRepo == nil {
		return nil, fmt.Errorf("stats repository required")
	}
	if opts.TaxRate.IsNegative() {
		return nil, fmt.Errorf("tax rate must not be negative")
	}
	if opts.Secondary == nil {
		opts.Secondary = FloorTotal
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	return &service{
		tx:            tx,
		catalog:       catalogRepo,
		ledger:        ledger,
		stats:         statsRepo,
		taxRate:       opts.TaxRate,
		allowNegative: opts.AllowNegativeStock,
		secondary:     opts.Secondary,
		loc:           opts.Location,
		logg:          opts.Logger,
		metrics:       opts.Metrics,
		now:           time.Now,
	}, nil
}

func (s *service) Commit(ctx context.Context, input CommitInput) (*models.Sale, error) {
	started := time.Now()
	sale, err := s.commit(ctx, input)
	s.metrics.ObserveCommit(outcomeFor(err), time.Since(started))
	if err != nil {
		return nil, err
	}
	s.metrics.AddRevenue(sale.PaymentMethod.String(), sale.Total.InexactFloat64())
	return sale, nil
}

func (s *service) commit(ctx context.Context, input CommitInput) (*models.Sale, error) {
	if err := ValidateInput(input); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	totals := Price(input.Items, s.taxRate)
	if err := checkTotal(totals); err != nil {
		return nil, err
	}
	qty, productIDs, err := groupQuantities(input.Items)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Once the lock is held the commit runs to completion or fails; a
	// cancelled request must not abandon a half-written transaction.
	ctx = context.WithoutCancel(ctx)

	var sale *models.Sale
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		inventory := s.catalog.WithTx(tx)

		products, err := inventory.FindByIDs(ctx, productIDs)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart products")
		}
		if err := s.check(qty, productIDs, products); err != nil {
			return err
		}

		createdAt := s.now().UTC()
		sale = buildSale(input, totals, products, createdAt)
		if err := s.ledger.WithTx(tx).Append(ctx, sale); err != nil {
			return persistenceFailure(err, "append sale")
		}

		for _, id := range productIDs {
			err := inventory.DecrementStock(ctx, id, qty[id], s.allowNegative)
			switch {
			case errors.Is(err, catalog.ErrStockGuard) && s.allowNegative:
				return pkgerrors.New(pkgerrors.CodeProductNotFound, "product not found").
					WithDetails(map[string]any{"product_ids": []int64{id}})
			case errors.Is(err, catalog.ErrStockGuard):
				return insufficientStock([]map[string]any{{"product_id": id, "requested": qty[id]}})
			case err != nil:
				return persistenceFailure(err, "decrement stock")
			}
		}

		delta := stats.Delta{
			Amount:    sale.Total,
			Orders:    1,
			Secondary: s.secondary(sale.Total),
		}
		if _, err := s.stats.WithTx(tx).UpsertIncrement(ctx, stats.DateKey(createdAt, s.loc), delta); err != nil {
			return persistenceFailure(err, "update daily stats")
		}
		return nil
	})
	if err != nil {
		if pkgerrors.As(err) == nil {
			err = persistenceFailure(err, "commit sale transaction")
		}
		s.logFailure(ctx, input, err)
		return nil, err
	}

	logCtx := s.logg.WithSaleID(ctx, sale.ID)
	logCtx = s.logg.WithFields(logCtx, map[string]any{
		"total":          sale.Total.StringFixed(2),
		"payment_method": sale.PaymentMethod.String(),
		"lines":          len(sale.Items),
	})
	s.logg.Info(logCtx, "sale committed")
	return sale, nil
}

// check runs before any write. Missing products win over shortages.
func (s *service) check(qty map[int64]int, productIDs []int64, products map[int64]models.Product) error {
	var missing []int64
	for _, id := range productIDs {
		if _, ok := products[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return pkgerrors.New(pkgerrors.CodeProductNotFound, "product not found").
			WithDetails(map[string]any{"product_ids": missing})
	}
	if s.allowNegative {
		return nil
	}

	var shortages []map[string]any
	for _, id := range productIDs {
		product := products[id]
		if qty[id] > product.Stock {
			shortages = append(shortages, map[string]any{
				"product_id": id,
				"name":       product.Name,
				"requested":  qty[id],
				"available":  product.Stock,
			})
		}
	}
	if len(shortages) > 0 {
		return insufficientStock(shortages)
	}
	return nil
}

func buildSale(input CommitInput, totals Totals, products map[int64]models.Product, createdAt time.Time) *models.Sale {
	items := make([]models.SaleLineItem, len(input.Items))
	for i, line := range input.Items {
		items[i] = models.SaleLineItem{
			Position:  i,
			ProductID: line.ProductID,
			Name:      products[line.ProductID].Name,
			Price:     line.UnitPrice.Round(2),
			Quantity:  line.Quantity,
		}
	}
	return &models.Sale{
		Subtotal:      totals.Subtotal,
		Tax:           totals.Tax,
		Total:         totals.Total,
		PaymentMethod: input.PaymentMethod,
		Items:         items,
		CreatedAt:     createdAt,
	}
}

func persistenceFailure(err error, step string) error {
	return pkgerrors.Wrap(pkgerrors.CodePersistenceFailure, err, step)
}

func (s *service) logFailure(ctx context.Context, input CommitInput, err error) {
	ctx = s.logg.WithFields(ctx, map[string]any{
		"payment_method": input.PaymentMethod.String(),
		"lines":          len(input.Items),
	})
	if pkgerrors.IsCode(err, pkgerrors.CodePersistenceFailure) {
		s.logg.Error(ctx, "sale commit failed; no changes were kept", err)
		return
	}
	s.logg.Warn(s.logg.WithField(ctx, "error_code", string(pkgerrors.As(err).Code())), "sale rejected")
}

func outcomeFor(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeCommitted
	case pkgerrors.IsCode(err, pkgerrors.CodeValidation):
		return metrics.OutcomeInvalid
	case pkgerrors.IsCode(err, pkgerrors.CodeProductNotFound):
		return metrics.OutcomeProductNotFound
	case pkgerrors.IsCode(err, pkgerrors.CodeInsufficientStock):
		return metrics.OutcomeInsufficientStock
	default:
		return metrics.OutcomeFailed
	}
}
