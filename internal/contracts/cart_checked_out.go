package contracts

import (
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cart"
)

const (
	CartCheckedOutEventName           = "CartCheckedOut"
	CartCheckedOutEventVersion        = 1
	CartCheckedOutEnvelopedSchemaPath = "contracts/events/cart/CartCheckedOut.v1.enveloped.schema.json"
	StorefrontProducer                = "storefront"
)

type EventEnvelope struct {
	EventName     string                `json:"eventName"`
	EventVersion  int                   `json:"eventVersion"`
	EventID       string                `json:"eventId"`
	CorrelationID string                `json:"correlationId,omitempty"`
	CausationID   string                `json:"causationId,omitempty"`
	Producer      string                `json:"producer"`
	PartitionKey  string                `json:"partitionKey"`
	Sequence      int64                 `json:"sequence"`
	OccurredAt    time.Time             `json:"occurredAt"`
	Schema        string                `json:"schema"`
	Payload       CartCheckedOutPayload `json:"payload"`
}

type CartCheckedOutPayload struct {
	CartID      string               `json:"cartId"`
	ReceiptID   string               `json:"receiptId"`
	Items       []CartCheckedOutItem `json:"items"`
	ItemCount   int                  `json:"itemCount"`
	Subtotal    decimal.Decimal      `json:"subtotal"`
	Tax         decimal.Decimal      `json:"tax"`
	TotalAmount decimal.Decimal      `json:"totalAmount"`
	Timestamp   time.Time            `json:"timestamp"`
}

type CartCheckedOutItem struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Tax       decimal.Decimal `json:"tax"`
}

type EnvelopeOptions struct {
	PartitionKey  string
	Sequence      int64
	Producer      string
	SchemaPath    string
	CorrelationID string
	CausationID   string
	EventID       string
	OccurredAt    time.Time
}

// BuildCartCheckedOutEvent wraps a checkout receipt in a v1 envelope. Zero
// options fall back to a fresh event id, the receipt time, the storefront
// producer and the cart id as partition key.
func BuildCartCheckedOutEvent(r cart.Receipt, opts EnvelopeOptions) EventEnvelope {
	eventID := opts.EventID
	if eventID == "" {
		eventID = uuid.NewString()
	}

	occurredAt := opts.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = r.CheckedOutAt
	}
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}

	schemaPath := opts.SchemaPath
	if schemaPath == "" {
		schemaPath = CartCheckedOutEnvelopedSchemaPath
	}

	producer := opts.Producer
	if producer == "" {
		producer = StorefrontProducer
	}

	partitionKey := opts.PartitionKey
	if partitionKey == "" {
		partitionKey = r.CartID
	}

	payload := CartCheckedOutPayload{
		CartID:      r.CartID,
		ReceiptID:   r.ID,
		ItemCount:   r.ItemCount,
		Subtotal:    r.Subtotal,
		Tax:         r.Tax,
		TotalAmount: r.Total,
		Timestamp:   occurredAt,
	}

	for _, l := range r.Lines {
		payload.Items = append(payload.Items, CartCheckedOutItem{
			ProductID: strconv.Itoa(l.ProductID),
			Name:      l.Name,
			Quantity:  l.Quantity,
			Price:     l.UnitPrice,
			Tax:       l.UnitTax,
		})
	}

	return EventEnvelope{
		EventName:     CartCheckedOutEventName,
		EventVersion:  CartCheckedOutEventVersion,
		EventID:       eventID,
		CorrelationID: opts.CorrelationID,
		CausationID:   opts.CausationID,
		Producer:      producer,
		PartitionKey:  partitionKey,
		Sequence:      opts.Sequence,
		OccurredAt:    occurredAt,
		Schema:        schemaPath,
		Payload:       payload,
	}
}

// Validate checks the fields consumers rely on.
func (e EventEnvelope) Validate() error {
	switch {
	case e.EventName != CartCheckedOutEventName:
		return fieldError("eventName")
	case e.EventVersion != CartCheckedOutEventVersion:
		return fieldError("eventVersion")
	case e.EventID == "":
		return fieldError("eventId")
	case e.Producer == "":
		return fieldError("producer")
	case e.PartitionKey == "":
		return fieldError("partitionKey")
	case e.Sequence <= 0:
		return fieldError("sequence")
	case e.Schema != CartCheckedOutEnvelopedSchemaPath:
		return fieldError("schema")
	case e.Payload.CartID == "":
		return fieldError("payload.cartId")
	case len(e.Payload.Items) == 0:
		return fieldError("payload.items")
	}
	for _, it := range e.Payload.Items {
		if it.ProductID == "" || it.Quantity <= 0 || it.Price.IsNegative() {
			return fieldError("payload.items")
		}
	}
	return nil
}
