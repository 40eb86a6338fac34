// Package catalog holds the fixed in-memory product list of the storefront
// and the lookups the page runs against it.
package catalog

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrDuplicateID     = errors.New("duplicate product id")
)

const AllCategories = "all"

type SortOrder string

const (
	SortNone      SortOrder = ""
	SortPriceAsc  SortOrder = "price-asc"
	SortPriceDesc SortOrder = "price-desc"
)

// Catalog is not safe for concurrent use; callers serialize access.
type Catalog struct {
	products []*Product
}

func New(products ...*Product) (*Catalog, error) {
	seen := make(map[int]struct{}, len(products))
	for _, p := range products {
		if _, ok := seen[p.ID]; ok {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateID, p.ID)
		}
		if p.Price.IsNegative() {
			return nil, fmt.Errorf("product %d: negative price %s", p.ID, p.Price)
		}
		seen[p.ID] = struct{}{}
	}
	return &Catalog{products: products}, nil
}

// Default returns the demo catalog the storefront starts with.
func Default() *Catalog {
	c, err := New(
		&Product{ID: 1, Name: "Laptop Ultra X1", Price: decimal.RequireFromString("1299.99"), Category: "electronica", Stock: 6, Variant: VariantElectronics},
		&Product{ID: 2, Name: "Auriculares Pro", Price: decimal.RequireFromString("199.99"), Category: "electronica", Stock: 12, Variant: VariantElectronics},
		&Product{ID: 3, Name: "Camiseta Minimal", Price: decimal.RequireFromString("29.99"), Category: "ropa", Stock: 40, Variant: VariantApparel},
		&Product{ID: 4, Name: "Taza Cerámica", Price: decimal.RequireFromString("12.5"), Category: "hogar", Stock: 80, Variant: VariantBase},
		&Product{ID: 5, Name: "Lámpara LED", Price: decimal.RequireFromString("49.9"), Category: "hogar", Stock: 18, Variant: VariantBase},
		&Product{ID: 6, Name: "Chaqueta Outdoor", Price: decimal.RequireFromString("139.5"), Category: "ropa", Stock: 8, Variant: VariantApparel},
	)
	if err != nil {
		panic(err)
	}
	return c
}

// Products returns the catalog in its original order. The pointers are
// shared with the catalog.
func (c *Catalog) Products() []*Product {
	return slices.Clone(c.products)
}

func (c *Catalog) FindByID(id int) (*Product, bool) {
	for _, p := range c.products {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}

// FindByIDString resolves an id as received from the page. Ids that do not
// parse as integers are reported as not found.
func (c *Catalog) FindByIDString(raw string) (*Product, bool) {
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return nil, false
	}
	return c.FindByID(id)
}

// Search matches the query case-insensitively against name and category.
func (c *Catalog) Search(q string) []*Product {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return c.Products()
	}
	var out []*Product
	for _, p := range c.products {
		if strings.Contains(strings.ToLower(p.Name), q) || strings.Contains(strings.ToLower(p.Category), q) {
			out = append(out, p)
		}
	}
	return out
}

func (c *Catalog) FilterByCategory(category string) []*Product {
	return filterByCategory(c.products, category)
}

func filterByCategory(list []*Product, category string) []*Product {
	if category == "" || category == AllCategories {
		return slices.Clone(list)
	}
	var out []*Product
	for _, p := range list {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out
}

// SortByPrice returns a sorted copy of list. Unknown orders keep the input
// order.
func SortByPrice(list []*Product, order SortOrder) []*Product {
	out := slices.Clone(list)
	switch order {
	case SortPriceAsc:
		slices.SortStableFunc(out, func(a, b *Product) int { return a.Price.Cmp(b.Price) })
	case SortPriceDesc:
		slices.SortStableFunc(out, func(a, b *Product) int { return b.Price.Cmp(a.Price) })
	}
	return out
}

type Query struct {
	Search   string
	Category string
	Sort     SortOrder
}

func (c *Catalog) Query(q Query) []*Product {
	list := c.Search(q.Search)
	list = filterByCategory(list, q.Category)
	return SortByPrice(list, q.Sort)
}

func (c *Catalog) StockByCategory() map[string]int {
	out := make(map[string]int)
	for _, p := range c.products {
		out[p.Category] += p.Stock
	}
	return out
}

// Categories lists each category once, in the order first seen.
func (c *Catalog) Categories() []string {
	var out []string
	for _, p := range c.products {
		if !slices.Contains(out, p.Category) {
			out = append(out, p.Category)
		}
	}
	return out
}

func (c *Catalog) ApplyAll(fn DiscountFunc) {
	for _, p := range c.products {
		fn(p)
	}
}
