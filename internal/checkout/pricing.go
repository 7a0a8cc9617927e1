package checkout

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/catcoin/pos-backend/pkg/config"
)

// DefaultTaxRate is applied when no rate is configured.
var DefaultTaxRate = decimal.RequireFromString("0.08")

// Totals holds the priced amounts of a cart.
type Totals struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// Price computes subtotal = sum(unit price * quantity) from the cart's own
// prices, tax = round(subtotal * rate, 2) and total = subtotal + tax. Unit
// prices are taken at cents, the same value stored on the line snapshot.
func Price(lines []CartLine, taxRate decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(line.UnitPrice.Round(2).Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	tax := subtotal.Mul(taxRate).Round(2)
	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal.Add(tax),
	}
}

// SecondaryRule derives the secondary daily counter from a sale total.
type SecondaryRule func(total decimal.Decimal) int64

// FloorTotal counts one treat per whole currency unit of the total.
func FloorTotal(total decimal.Decimal) int64 {
	if total.IsNegative() {
		return 0
	}
	return total.Floor().IntPart()
}

// NoSecondary leaves the secondary counter untouched.
func NoSecondary(decimal.Decimal) int64 {
	return 0
}

// SecondaryRuleFor resolves a configured rule name.
func SecondaryRuleFor(name string) (SecondaryRule, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", config.SecondaryRuleFloorTotal:
		return FloorTotal, nil
	case config.SecondaryRuleNone:
		return NoSecondary, nil
	default:
		return nil, fmt.Errorf("unknown secondary rule %q", name)
	}
}
