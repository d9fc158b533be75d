package checkout

import (
	"github.com/fjod/clothify/internal/domain"
	"github.com/shopspring/decimal"
)

// Pricing turns a cart subtotal into the order total (shipping, tax, discounts).
type Pricing interface {
	Total(subtotal decimal.Decimal, items []domain.CartLine) decimal.Decimal
}

// FlatPricing charges exactly the subtotal.
type FlatPricing struct{}

func (FlatPricing) Total(subtotal decimal.Decimal, _ []domain.CartLine) decimal.Decimal {
	return subtotal
}

// Subtotal sums price x qty over items without float accumulation error.
func Subtotal(items []domain.CartLine) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Qty))))
	}
	return sum
}

func toFloat(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}
