package catalog

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/money"
)

type Variant int

const (
	VariantBase Variant = iota
	VariantElectronics
	VariantApparel
)

var taxRates = map[Variant]decimal.Decimal{
	VariantBase:        decimal.RequireFromString("0.12"),
	VariantElectronics: decimal.RequireFromString("0.18"),
	VariantApparel:     decimal.RequireFromString("0.08"),
}

// TaxRate returns the rate applied to products of the variant. Unknown
// variants are taxed like VariantBase.
func (v Variant) TaxRate() decimal.Decimal {
	if rate, ok := taxRates[v]; ok {
		return rate
	}
	return taxRates[VariantBase]
}

func (v Variant) String() string {
	switch v {
	case VariantElectronics:
		return "electronics"
	case VariantApparel:
		return "apparel"
	default:
		return "base"
	}
}

func (v Variant) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

func (v *Variant) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "base", "":
		*v = VariantBase
	case "electronics":
		*v = VariantElectronics
	case "apparel":
		*v = VariantApparel
	default:
		return fmt.Errorf("unknown variant %q", string(text))
	}
	return nil
}

type Product struct {
	ID       int             `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Category string          `json:"category"`
	Stock    int             `json:"stock"`
	Variant  Variant         `json:"variant"`
}

// Tax is the unit tax for the product at its current price.
func (p *Product) Tax() decimal.Decimal {
	return p.Price.Mul(p.Variant.TaxRate())
}

func (p *Product) DisplayLabel() string {
	return p.Name + " · " + money.Format(p.Price)
}

// ApplyDiscount lowers the price by amount, never below zero.
func (p *Product) ApplyDiscount(amount decimal.Decimal) {
	p.Price = decimal.Max(decimal.Zero, p.Price.Sub(amount))
}

var imageFiles = map[string]string{
	"Laptop Ultra X1":  "Laptop.png",
	"Auriculares Pro":  "Auriculares.png",
	"Camiseta Minimal": "Camiseta.png",
	"Taza Cerámica":    "Tazas.png",
	"Lámpara LED":      "Lampara.png",
	"Chaqueta Outdoor": "Chaqueta.png",
}

func (p *Product) ImagePath() string {
	file, ok := imageFiles[p.Name]
	if !ok {
		first, _, _ := strings.Cut(p.Name, " ")
		file = first + ".png"
	}
	return "img/" + file
}
