package render

// LineView is one row of the cart drawer.
type LineView struct {
	ProductID    int    `json:"productId"`
	Name         string `json:"name"`
	Image        string `json:"image"`
	UnitPrice    string `json:"unitPrice"`
	Quantity     int    `json:"quantity"`
	LineTotal    string `json:"lineTotal"`
	RemoveID     int    `json:"removeId"`
	ExceedsStock bool   `json:"exceedsStock,omitempty"`
}

type CartView struct {
	CartID   string     `json:"cartId"`
	Lines    []LineView `json:"lines"`
	Badge    int        `json:"badge"`
	Subtotal string     `json:"subtotal"`
	Tax      string     `json:"tax"`
	Total    string     `json:"total"`
	Empty    bool       `json:"empty"`
}

// ProductView is a catalog card.
type ProductView struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Variant  string `json:"variant"`
	Label    string `json:"label"`
	Price    string `json:"price"`
	Tax      string `json:"tax"`
	Stock    int    `json:"stock"`
	Image    string `json:"image"`
}

// ProductInfo is the content of the product details modal.
type ProductInfo struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Price    string `json:"price"`
	Label    string `json:"label"`
}

type CategoryView struct {
	Name  string `json:"name"`
	Stock int    `json:"stock"`
}
