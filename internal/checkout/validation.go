package checkout

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/catcoin/pos-backend/pkg/enums"
	pkgerrors "github.com/catcoin/pos-backend/pkg/errors"
)

// Register limits. Amounts must fit the numeric(12,2) sale columns.
const (
	MaxLineQuantity = 10_000
)

var (
	MaxUnitPrice = decimal.NewFromInt(100_000)
	MaxSaleTotal = decimal.RequireFromString("99999999.99")
)

// ValidateInput rejects carts that can never be committed.
func ValidateInput(input CommitInput) error {
	if len(input.Items) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}
	if !input.PaymentMethod.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unsupported payment method").
			WithDetails(map[string]any{
				"payment_method": string(input.PaymentMethod),
				"allowed":        []enums.PaymentMethod{enums.PaymentMethodCash, enums.PaymentMethodCard},
			})
	}

	var problems []map[string]any
	for i, line := range input.Items {
		switch {
		case line.ProductID <= 0:
			problems = append(problems, lineProblem(i, line, "product id is required"))
		case line.Quantity <= 0:
			problems = append(problems, lineProblem(i, line, "quantity must be greater than zero"))
		case line.Quantity > MaxLineQuantity:
			problems = append(problems, lineProblem(i, line, fmt.Sprintf("quantity must be at most %d", MaxLineQuantity)))
		case line.UnitPrice.IsNegative():
			problems = append(problems, lineProblem(i, line, "price must be zero or greater"))
		case line.UnitPrice.GreaterThan(MaxUnitPrice):
			problems = append(problems, lineProblem(i, line, "price must be at most "+MaxUnitPrice.StringFixed(2)))
		case !line.UnitPrice.Equal(line.UnitPrice.Round(2)):
			problems = append(problems, lineProblem(i, line, "price must be in whole cents"))
		}
	}
	if len(problems) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid cart lines").
			WithDetails(map[string]any{"lines": problems})
	}
	return nil
}

func lineProblem(index int, line CartLine, reason string) map[string]any {
	return map[string]any{
		"index":      index,
		"product_id": line.ProductID,
		"reason":     reason,
	}
}

// groupQuantities sums quantities per product, keeping first-seen order.
// A product's combined quantity is held to MaxLineQuantity.
func groupQuantities(lines []CartLine) (map[int64]int, []int64, error) {
	qty := make(map[int64]int, len(lines))
	order := make([]int64, 0, len(lines))
	for _, line := range lines {
		if line.Quantity <= 0 || line.Quantity > MaxLineQuantity {
			return nil, nil, quantityLimit(line.ProductID)
		}
		current, seen := qty[line.ProductID]
		if !seen {
			order = append(order, line.ProductID)
		}
		if current > MaxLineQuantity-line.Quantity {
			return nil, nil, quantityLimit(line.ProductID)
		}
		qty[line.ProductID] = current + line.Quantity
	}
	return qty, order, nil
}

func quantityLimit(productID int64) error {
	return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("combined quantity must be between 1 and %d", MaxLineQuantity)).
		WithDetails(map[string]any{"product_id": productID})
}

// checkTotal rejects sales too large to record.
func checkTotal(totals Totals) error {
	if totals.Total.GreaterThan(MaxSaleTotal) {
		return pkgerrors.New(pkgerrors.CodeValidation, "sale total exceeds register limit").
			WithDetails(map[string]any{"total": totals.Total.StringFixed(2), "max": MaxSaleTotal.StringFixed(2)})
	}
	return nil
}

func insufficientStock(shortages []map[string]any) error {
	return pkgerrors.New(pkgerrors.CodeInsufficientStock, fmt.Sprintf("insufficient stock for %d product(s)", len(shortages))).
		WithDetails(map[string]any{"lines": shortages})
}
