// Package render turns cart and catalog state into the view models the
// storefront page draws from.
package render

import (
	"sync"

	"github.com/shopspring/decimal"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/money"
)

// Sink receives every cart view the renderer produces.
type Sink interface {
	PublishCart(view CartView)
}

// Renderer is safe for concurrent use.
type Renderer struct {
	money money.Formatter
	sink  Sink

	mu     sync.RWMutex
	latest CartView
}

// NewRenderer returns a renderer that forwards views to sink. A nil sink is
// allowed.
func NewRenderer(f money.Formatter, sink Sink) *Renderer {
	return &Renderer{money: f, sink: sink}
}

// Attach renders the current state of c and re-renders after every
// mutation until the returned function is called.
func (r *Renderer) Attach(c *cart.Cart) (detach func()) {
	r.update(c.Snapshot())
	return c.Subscribe(r.update)
}

// Refresh re-renders c without a mutation, e.g. after catalog prices
// changed underneath it.
func (r *Renderer) Refresh(c *cart.Cart) {
	r.update(c.Snapshot())
}

func (r *Renderer) update(s cart.Snapshot) {
	view := r.Cart(s)

	r.mu.Lock()
	r.latest = view
	r.mu.Unlock()

	if r.sink != nil {
		r.sink.PublishCart(view)
	}
}

// Latest returns the most recently rendered cart.
func (r *Renderer) Latest() CartView {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.latest
}

func (r *Renderer) Cart(s cart.Snapshot) CartView {
	view := CartView{
		CartID:   s.CartID,
		Lines:    make([]LineView, 0, len(s.Items)),
		Badge:    s.ItemCount,
		Subtotal: r.money.Format(s.Subtotal),
		Tax:      r.money.Format(s.Tax),
		Total:    r.money.Format(s.Total),
		Empty:    len(s.Items) == 0,
	}
	for _, it := range s.Items {
		p := it.Product
		view.Lines = append(view.Lines, LineView{
			ProductID:    p.ID,
			Name:         p.Name,
			Image:        p.ImagePath(),
			UnitPrice:    r.money.Format(p.Price),
			Quantity:     it.Quantity,
			LineTotal:    r.money.Format(it.Subtotal()),
			RemoveID:     p.ID,
			ExceedsStock: it.Quantity > p.Stock,
		})
	}
	return view
}

func (r *Renderer) label(p *catalog.Product) string {
	return p.Name + " · " + r.money.Format(p.Price)
}

func (r *Renderer) Product(p *catalog.Product) ProductView {
	return ProductView{
		ID:       p.ID,
		Name:     p.Name,
		Category: p.Category,
		Variant:  p.Variant.String(),
		Label:    r.label(p),
		Price:    r.money.Format(p.Price),
		Tax:      r.money.Format(p.Tax()),
		Stock:    p.Stock,
		Image:    p.ImagePath(),
	}
}

func (r *Renderer) Products(list []*catalog.Product) []ProductView {
	out := make([]ProductView, 0, len(list))
	for _, p := range list {
		out = append(out, r.Product(p))
	}
	return out
}

func (r *Renderer) ProductInfo(p *catalog.Product) ProductInfo {
	return ProductInfo{
		ID:       p.ID,
		Name:     p.Name,
		Category: p.Category,
		Price:    r.money.Format(p.Price),
		Label:    r.label(p),
	}
}

// Categories lists categories in catalog order with their total stock.
func (r *Renderer) Categories(c *catalog.Catalog) []CategoryView {
	stock := c.StockByCategory()
	names := c.Categories()
	out := make([]CategoryView, 0, len(names))
	for _, name := range names {
		out = append(out, CategoryView{Name: name, Stock: stock[name]})
	}
	return out
}

// Amount formats a single decimal with the renderer's currency prefix.
func (r *Renderer) Amount(d decimal.Decimal) string {
	return r.money.Format(d)
}
