// Package cart implements the storefront cart: line items with merge-on-add
// semantics, totals derived on demand, and change notification to
// registered listeners.
package cart

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
)

var ErrEmptyCart = errors.New("cart is empty")

type subscription struct {
	id int
	fn Listener
}

// Cart is not safe for concurrent use. Listeners run synchronously on the
// goroutine that mutated the cart.
type Cart struct {
	id        string
	items     []*LineItem
	listeners []subscription
	nextSubID int
	now       func() time.Time
}

func New() *Cart {
	return &Cart{id: uuid.NewString(), now: time.Now}
}

func (c *Cart) ID() string {
	return c.id
}

// Subscribe registers fn to be called after every mutation. The returned
// function removes the registration.
func (c *Cart) Subscribe(fn Listener) (unsubscribe func()) {
	c.nextSubID++
	id := c.nextSubID
	c.listeners = append(c.listeners, subscription{id: id, fn: fn})
	return func() {
		for i, s := range c.listeners {
			if s.id == id {
				c.listeners = append(c.listeners[:i], c.listeners[i+1:]...)
				return
			}
		}
	}
}

func (c *Cart) find(id int) (int, *LineItem) {
	for i, it := range c.items {
		if it.Product.ID == id {
			return i, it
		}
	}
	return -1, nil
}

// Add merges quantity into the line for p, or appends a new line. Stock is
// not checked.
func (c *Cart) Add(p *catalog.Product, quantity int) {
	if _, it := c.find(p.ID); it != nil {
		it.Quantity += quantity
	} else {
		c.items = append(c.items, &LineItem{Product: p, Quantity: quantity})
	}
	c.emitChange()
}

// Remove drops the line for id. Unknown ids are ignored but still notify.
func (c *Cart) Remove(id int) {
	if i, _ := c.find(id); i >= 0 {
		c.items = append(c.items[:i], c.items[i+1:]...)
	}
	c.emitChange()
}

// SetQuantity overwrites the quantity of an existing line as given,
// including zero or negative values.
func (c *Cart) SetQuantity(id, quantity int) {
	if _, it := c.find(id); it != nil {
		it.Quantity = quantity
	}
	c.emitChange()
}

func (c *Cart) Clear() {
	c.items = nil
	c.emitChange()
}

func (c *Cart) Items() []LineItem {
	out := make([]LineItem, 0, len(c.items))
	for _, it := range c.items {
		out = append(out, *it)
	}
	return out
}

func (c *Cart) Len() int {
	return len(c.items)
}

// ItemCount is the sum of quantities across lines.
func (c *Cart) ItemCount() int {
	n := 0
	for _, it := range c.items {
		n += it.Quantity
	}
	return n
}

func (c *Cart) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, it := range c.items {
		sum = sum.Add(it.Subtotal())
	}
	return sum
}

func (c *Cart) Tax() decimal.Decimal {
	sum := decimal.Zero
	for _, it := range c.items {
		sum = sum.Add(it.Tax())
	}
	return sum
}

func (c *Cart) Total() decimal.Decimal {
	return c.Subtotal().Add(c.Tax())
}

func (c *Cart) Snapshot() Snapshot {
	return Snapshot{
		CartID:    c.id,
		Items:     c.Items(),
		ItemCount: c.ItemCount(),
		Subtotal:  c.Subtotal(),
		Tax:       c.Tax(),
		Total:     c.Total(),
	}
}

// Checkout freezes the current lines into a Receipt and empties the cart.
// An empty cart returns ErrEmptyCart and is left untouched.
func (c *Cart) Checkout() (Receipt, error) {
	if len(c.items) == 0 {
		return Receipt{}, ErrEmptyCart
	}

	r := Receipt{
		ID:           uuid.NewString(),
		CartID:       c.id,
		ItemCount:    c.ItemCount(),
		Subtotal:     c.Subtotal(),
		Tax:          c.Tax(),
		Total:        c.Total(),
		CheckedOutAt: c.now().UTC(),
	}
	for _, it := range c.items {
		r.Lines = append(r.Lines, ReceiptLine{
			ProductID: it.Product.ID,
			Name:      it.Product.Name,
			UnitPrice: it.Product.Price,
			UnitTax:   it.Product.Tax(),
			Quantity:  it.Quantity,
		})
	}

	c.Clear()
	return r, nil
}

func (c *Cart) emitChange() {
	if len(c.listeners) == 0 {
		return
	}
	snap := c.Snapshot()
	for _, s := range append([]subscription(nil), c.listeners...) {
		s.fn(snap)
	}
}
