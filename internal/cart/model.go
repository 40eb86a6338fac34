package cart

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
)

// LineItem pairs a catalog product with a quantity. The product is shared
// with the catalog, so price changes show up in the cart totals.
type LineItem struct {
	Product  *catalog.Product
	Quantity int
}

func (l LineItem) Subtotal() decimal.Decimal {
	return l.Product.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

func (l LineItem) Tax() decimal.Decimal {
	return l.Product.Tax().Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Snapshot is the full cart state handed to listeners after a mutation.
type Snapshot struct {
	CartID    string
	Items     []LineItem
	ItemCount int
	Subtotal  decimal.Decimal
	Tax       decimal.Decimal
	Total     decimal.Decimal
}

type Listener func(Snapshot)

type ReceiptLine struct {
	ProductID int             `json:"productId"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	UnitTax   decimal.Decimal `json:"unitTax"`
	Quantity  int             `json:"quantity"`
}

// Receipt captures the cart at checkout, with prices frozen.
type Receipt struct {
	ID           string          `json:"receiptId"`
	CartID       string          `json:"cartId"`
	Lines        []ReceiptLine   `json:"lines"`
	ItemCount    int             `json:"itemCount"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	Tax          decimal.Decimal `json:"tax"`
	Total        decimal.Decimal `json:"total"`
	CheckedOutAt time.Time       `json:"checkedOutAt"`
}
