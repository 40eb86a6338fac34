package events

import (
	"context"
	"fmt"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/contracts"
)

// Publisher announces completed checkouts to the rest of the system.
type Publisher interface {
	PublishCartCheckedOut(ctx context.Context, meta EventMeta, r cart.Receipt) (contracts.EventEnvelope, error)
	Close() error
}

type EventMeta struct {
	CorrelationID string
	CausationID   string
}

type PublisherOptions struct {
	Producer string
}

func (o PublisherOptions) producer() string {
	if o.Producer == "" {
		return contracts.StorefrontProducer
	}
	return o.Producer
}

// nextEnvelope reserves the next sequence for the receipt's cart and builds
// a validated envelope.
func nextEnvelope(ctx context.Context, seq SequenceRepository, producer string, meta EventMeta, r cart.Receipt) (contracts.EventEnvelope, error) {
	n, err := seq.NextSequence(ctx, r.CartID)
	if err != nil {
		return contracts.EventEnvelope{}, fmt.Errorf("reserve sequence: %w", err)
	}

	env := contracts.BuildCartCheckedOutEvent(r, contracts.EnvelopeOptions{
		PartitionKey:  r.CartID,
		Sequence:      n,
		Producer:      producer,
		CorrelationID: meta.CorrelationID,
		CausationID:   meta.CausationID,
	})
	if err := env.Validate(); err != nil {
		return env, fmt.Errorf("invalid CartCheckedOut envelope: %w", err)
	}
	return env, nil
}
