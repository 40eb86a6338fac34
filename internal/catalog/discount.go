package catalog

import "github.com/shopspring/decimal"

// DiscountFunc applies a discount to a single product.
type DiscountFunc func(p *Product)

// NewDiscountApplier returns a DiscountFunc that lowers any product's price
// by amount, clamped at zero.
func NewDiscountApplier(amount decimal.Decimal) DiscountFunc {
	return func(p *Product) {
		p.ApplyDiscount(amount)
	}
}
