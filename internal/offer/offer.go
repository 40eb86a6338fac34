// Package offer runs the storefront's global discount: a price cut applied
// to the whole catalog followed by a visible countdown.
package offer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
)

const (
	DefaultSeconds  = 8
	DefaultInterval = time.Second
)

var DefaultDiscount = decimal.NewFromInt(5)

// Tick is one countdown step as shown to the shopper.
type Tick struct {
	Remaining int    `json:"remaining"`
	Message   string `json:"message"`
}

// Message is the banner text for n remaining seconds. It is empty once the
// countdown has run out.
func Message(n int) string {
	if n <= 0 {
		return ""
	}
	return fmt.Sprintf("Oferta termina en %ds", n)
}

type Options struct {
	Discount decimal.Decimal
	Seconds  int
	Interval time.Duration
}

// Offer is safe for concurrent use. At most one countdown runs at a time.
type Offer struct {
	discount decimal.Decimal
	seconds  int
	interval time.Duration

	mu      sync.Mutex
	current *Countdown
}

func New(opts Options) *Offer {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	return &Offer{
		discount: opts.Discount,
		seconds:  opts.Seconds,
		interval: opts.Interval,
	}
}

func (o *Offer) Discount() decimal.Decimal {
	return o.discount
}

func (o *Offer) Seconds() int {
	return o.seconds
}

// Start applies the discount to every product in c and starts a fresh
// countdown, stopping the one already running. The catalog is mutated on
// the caller's goroutine; onTick runs on the countdown's goroutine.
func (o *Offer) Start(ctx context.Context, c *catalog.Catalog, onTick func(Tick)) *Countdown {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.current != nil {
		o.current.Stop()
		<-o.current.Done()
	}

	c.ApplyAll(catalog.NewDiscountApplier(o.discount))

	o.current = StartCountdown(ctx, o.seconds, o.interval, func(n int) {
		if onTick != nil {
			onTick(Tick{Remaining: n, Message: Message(n)})
		}
	})
	return o.current
}

// Stop cancels the running countdown, if any.
func (o *Offer) Stop() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.current != nil {
		o.current.Stop()
		o.current = nil
	}
}

// Active reports whether a countdown is still running.
func (o *Offer) Active() bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.current == nil {
		return false
	}
	select {
	case <-o.current.Done():
		return false
	default:
		return true
	}
}
