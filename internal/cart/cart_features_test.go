package cart_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/cucumber/godog"
	"github.com/shopspring/decimal"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
)

type cartTestContext struct {
	cart     *cart.Cart
	products map[int]*catalog.Product
	receipt  cart.Receipt
	err      error
}

func (c *cartTestContext) reset() {
	c.cart = nil
	c.products = make(map[int]*catalog.Product)
	c.receipt = cart.Receipt{}
	c.err = nil
}

func (c *cartTestContext) anEmptyCart() error {
	c.cart = cart.New()
	return nil
}

func (c *cartTestContext) aProductPricedAt(variant string, id int, price string) error {
	var v catalog.Variant
	if err := v.UnmarshalText([]byte(variant)); err != nil {
		return err
	}
	amount, err := decimal.NewFromString(price)
	if err != nil {
		return err
	}
	c.products[id] = &catalog.Product{ID: id, Name: fmt.Sprintf("product %d", id), Price: amount, Variant: v}
	return nil
}

func (c *cartTestContext) product(id int) (*catalog.Product, error) {
	p, ok := c.products[id]
	if !ok {
		return nil, fmt.Errorf("product %d was not declared", id)
	}
	return p, nil
}

func (c *cartTestContext) iAddProductWithQuantity(id, quantity int) error {
	p, err := c.product(id)
	if err != nil {
		return err
	}
	c.cart.Add(p, quantity)
	return nil
}

func (c *cartTestContext) iRemoveProduct(id int) error {
	c.cart.Remove(id)
	return nil
}

func (c *cartTestContext) iCheckOut() error {
	c.receipt, c.err = c.cart.Checkout()
	return nil
}

func (c *cartTestContext) aDiscountIsAppliedToProduct(amount string, id int) error {
	p, err := c.product(id)
	if err != nil {
		return err
	}
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return err
	}
	catalog.NewDiscountApplier(d)(p)
	return nil
}

func expectDecimal(name, want string, got decimal.Decimal) error {
	w, err := decimal.NewFromString(want)
	if err != nil {
		return err
	}
	if !got.Equal(w) {
		return fmt.Errorf("expected %s %s, got %s", name, want, got)
	}
	return nil
}

func (c *cartTestContext) theCartSubtotalIs(want string) error {
	return expectDecimal("subtotal", want, c.cart.Subtotal())
}

func (c *cartTestContext) theCartTaxIs(want string) error {
	return expectDecimal("tax", want, c.cart.Tax())
}

func (c *cartTestContext) theCartTotalIs(want string) error {
	return expectDecimal("total", want, c.cart.Total())
}

func (c *cartTestContext) theCartHasLines(n int) error {
	if got := c.cart.Len(); got != n {
		return fmt.Errorf("expected %d lines, got %d", n, got)
	}
	return nil
}

func (c *cartTestContext) productHasQuantity(id, quantity int) error {
	for _, it := range c.cart.Items() {
		if it.Product.ID == id {
			if it.Quantity != quantity {
				return fmt.Errorf("expected quantity %d, got %d", quantity, it.Quantity)
			}
			return nil
		}
	}
	return fmt.Errorf("product %d not in cart", id)
}

func (c *cartTestContext) theCheckoutSucceeds() error {
	if c.err != nil {
		return fmt.Errorf("expected checkout to succeed, got %v", c.err)
	}
	if c.receipt.ID == "" {
		return errors.New("expected a receipt id")
	}
	return nil
}

func (c *cartTestContext) theCheckoutFailsWith(msg string) error {
	if c.err == nil {
		return errors.New("expected checkout to fail")
	}
	if c.err.Error() != msg {
		return fmt.Errorf("expected error %q, got %q", msg, c.err.Error())
	}
	return nil
}

func (c *cartTestContext) productCosts(id int, want string) error {
	p, err := c.product(id)
	if err != nil {
		return err
	}
	return expectDecimal("price", want, p.Price)
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := &cartTestContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})

	ctx.Step(`^an empty cart$`, tc.anEmptyCart)
	ctx.Step(`^a "([^"]*)" product (\d+) priced at "([^"]*)"$`, tc.aProductPricedAt)

	ctx.Step(`^I add product (\d+) with quantity (-?\d+)$`, tc.iAddProductWithQuantity)
	ctx.Step(`^I remove product (\d+)$`, tc.iRemoveProduct)
	ctx.Step(`^I check out$`, tc.iCheckOut)
	ctx.Step(`^a discount of "([^"]*)" is applied to product (\d+)$`, tc.aDiscountIsAppliedToProduct)

	ctx.Step(`^the cart subtotal is "([^"]*)"$`, tc.theCartSubtotalIs)
	ctx.Step(`^the cart tax is "([^"]*)"$`, tc.theCartTaxIs)
	ctx.Step(`^the cart total is "([^"]*)"$`, tc.theCartTotalIs)
	ctx.Step(`^the cart has (\d+) lines?$`, tc.theCartHasLines)
	ctx.Step(`^product (\d+) has quantity (-?\d+)$`, tc.productHasQuantity)
	ctx.Step(`^the checkout succeeds$`, tc.theCheckoutSucceeds)
	ctx.Step(`^the checkout fails with "([^"]*)"$`, tc.theCheckoutFailsWith)
	ctx.Step(`^product (\d+) costs "([^"]*)"$`, tc.productCosts)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
