// Package money formats decimal amounts for display.
package money

import "github.com/shopspring/decimal"

const DefaultPrefix = "S/"

type Formatter struct {
	Prefix string
}

func NewFormatter(prefix string) Formatter {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return Formatter{Prefix: prefix}
}

// Format renders the amount with the currency prefix and two decimals.
func (f Formatter) Format(amount decimal.Decimal) string {
	return f.Prefix + amount.StringFixed(2)
}

func Format(amount decimal.Decimal) string {
	return NewFormatter(DefaultPrefix).Format(amount)
}
