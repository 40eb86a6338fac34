// Package storefront ties the catalog, the cart and the global offer into
// the single shopper session the HTTP layer drives.
package storefront

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/events"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/middleware"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/offer"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/render"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/tracing"
)

const CheckoutMessage = "Gracias por su compra (simulación)."

// Broadcaster receives catalog and countdown updates for connected pages.
type Broadcaster interface {
	PublishCatalog(products []render.ProductView)
	PublishTick(t offer.Tick)
}

type Options struct {
	Catalog   *catalog.Catalog
	Offer     *offer.Offer
	Publisher events.Publisher
	Renderer  *render.Renderer
	Live      Broadcaster
	Logger    *zap.Logger
}

type CheckoutResult struct {
	Receipt cart.Receipt `json:"receipt"`
	Message string       `json:"message"`
	EventID string       `json:"eventId,omitempty"`
}

type OfferResult struct {
	Discount string               `json:"discount"`
	Seconds  int                  `json:"seconds"`
	Message  string               `json:"message"`
	Products []render.ProductView `json:"products"`
}

// Session is the one shopper the storefront serves. Every operation holds a
// single mutex, so the cart and catalog see one change at a time.
type Session struct {
	ctx       context.Context
	catalog   *catalog.Catalog
	cart      *cart.Cart
	offer     *offer.Offer
	publisher events.Publisher
	renderer  *render.Renderer
	live      Broadcaster
	logger    *zap.Logger

	mu     sync.Mutex
	detach func()
}

// NewSession creates the session's cart and attaches the renderer to it.
// ctx bounds background work such as the offer countdown.
func NewSession(ctx context.Context, opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Session{
		ctx:       ctx,
		catalog:   opts.Catalog,
		cart:      cart.New(),
		offer:     opts.Offer,
		publisher: opts.Publisher,
		renderer:  opts.Renderer,
		live:      opts.Live,
		logger:    logger,
	}
	s.detach = s.renderer.Attach(s.cart)
	return s
}

func (s *Session) CartID() string {
	return s.cart.ID()
}

func (s *Session) Products(q catalog.Query) []render.ProductView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.renderer.Products(s.catalog.Query(q))
}

func (s *Session) Product(id string) (render.ProductInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.find(id)
	if err != nil {
		return render.ProductInfo{}, err
	}
	return s.renderer.ProductInfo(p), nil
}

func (s *Session) Categories() []render.CategoryView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.renderer.Categories(s.catalog)
}

func (s *Session) Cart() render.CartView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.renderer.Cart(s.cart.Snapshot())
}

// AddItem adds quantity units of the product to the cart.
func (s *Session) AddItem(id string, quantity int) (render.CartView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.find(id)
	if err != nil {
		return render.CartView{}, err
	}
	s.cart.Add(p, quantity)
	snap := s.cart.Snapshot()
	for _, it := range snap.Items {
		if it.Product.ID == p.ID && it.Quantity > p.Stock {
			s.logger.Debug("cart quantity exceeds stock",
				zap.Int("product_id", p.ID),
				zap.Int("quantity", it.Quantity),
				zap.Int("stock", p.Stock),
			)
		}
	}
	return s.renderer.Cart(snap), nil
}

// UpdateQuantity overwrites the quantity of the product's cart line. A
// product that is in the catalog but not in the cart leaves the cart as is.
func (s *Session) UpdateQuantity(id string, quantity int) (render.CartView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.find(id)
	if err != nil {
		return render.CartView{}, err
	}
	s.cart.SetQuantity(p.ID, quantity)
	return s.renderer.Cart(s.cart.Snapshot()), nil
}

// RemoveItem drops the product's line. Unknown ids are ignored.
func (s *Session) RemoveItem(id string) render.CartView {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n, err := strconv.Atoi(strings.TrimSpace(id)); err == nil {
		s.cart.Remove(n)
	} else {
		s.logger.Warn("remove with malformed product id ignored", zap.String("product_id", id))
	}
	return s.renderer.Cart(s.cart.Snapshot())
}

// Checkout empties the cart into a receipt and announces it. Publishing
// happens after the cart is cleared and its failure does not undo the
// checkout.
func (s *Session) Checkout(ctx context.Context) (CheckoutResult, error) {
	ctx, span := tracing.AddSpan(ctx, "cart.checkout", attribute.String("cart.id", s.cart.ID()))
	defer span.End()

	s.mu.Lock()
	receipt, err := s.cart.Checkout()
	s.mu.Unlock()
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return CheckoutResult{}, err
	}

	span.SetAttributes(
		attribute.String("receipt.id", receipt.ID),
		attribute.Int("receipt.item_count", receipt.ItemCount),
		attribute.String("receipt.total", receipt.Total.String()),
	)
	s.logger.Info("checkout completed",
		zap.String("cart_id", receipt.CartID),
		zap.String("receipt_id", receipt.ID),
		zap.Int("item_count", receipt.ItemCount),
		zap.Stringer("total", receipt.Total),
	)

	res := CheckoutResult{Receipt: receipt, Message: CheckoutMessage}
	res.EventID = s.publish(ctx, receipt)
	return res, nil
}

func (s *Session) publish(ctx context.Context, r cart.Receipt) string {
	if s.publisher == nil {
		return ""
	}

	ctx, span := tracing.AddSpan(ctx, "events.publish CartCheckedOut",
		attribute.String("messaging.destination", events.EventsExchange),
		attribute.String("messaging.routing_key", events.CartCheckedOutRoutingKey),
	)
	defer span.End()

	cid := middleware.GetCorrelationID(ctx)
	env, err := s.publisher.PublishCartCheckedOut(ctx, events.EventMeta{
		CorrelationID: cid,
		CausationID:   r.ID,
	}, r)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		s.logger.Error("publish CartCheckedOut failed",
			zap.String("cart_id", r.CartID),
			zap.String("receipt_id", r.ID),
			zap.String("correlation_id", cid),
			zap.Error(err),
		)
		return ""
	}
	return env.EventID
}

// StartOffer discounts every product, pushes the new catalog to connected
// pages and restarts the offer countdown.
func (s *Session) StartOffer() OfferResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.offer.Start(s.ctx, s.catalog, func(t offer.Tick) {
		if s.live != nil {
			s.live.PublishTick(t)
		}
	})

	products := s.renderer.Products(s.catalog.Products())
	if s.live != nil {
		s.live.PublishCatalog(products)
	}
	s.renderer.Refresh(s.cart)

	s.logger.Info("global offer started",
		zap.Stringer("discount", s.offer.Discount()),
	)
	return OfferResult{
		Discount: s.renderer.Amount(s.offer.Discount()),
		Seconds:  s.offer.Seconds(),
		Message:  offer.Message(s.offer.Seconds()),
		Products: products,
	}
}

// LogStock writes the stock held per category.
func (s *Session) LogStock() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.renderer.Categories(s.catalog) {
		s.logger.Info("stock por categoría", zap.String("category", c.Name), zap.Int("stock", c.Stock))
	}
}

// Close stops the countdown and detaches the renderer.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.offer.Stop()
	if s.detach != nil {
		s.detach()
		s.detach = nil
	}
}

func (s *Session) find(id string) (*catalog.Product, error) {
	p, ok := s.catalog.FindByIDString(id)
	if !ok {
		s.logger.Warn("product not found", zap.String("product_id", id))
		return nil, fmt.Errorf("%w: %s", catalog.ErrProductNotFound, id)
	}
	return p, nil
}
