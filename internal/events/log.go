package events

import (
	"context"

	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/contracts"
)

// LogPublisher records checkout events in the log instead of a broker. It
// is used when no RabbitMQ URL is configured.
type LogPublisher struct {
	logger   *zap.Logger
	seq      SequenceRepository
	producer string
}

func NewLogPublisher(logger *zap.Logger, seq SequenceRepository, opts PublisherOptions) *LogPublisher {
	return &LogPublisher{logger: logger, seq: seq, producer: opts.producer()}
}

func (p *LogPublisher) PublishCartCheckedOut(ctx context.Context, meta EventMeta, r cart.Receipt) (contracts.EventEnvelope, error) {
	env, err := nextEnvelope(ctx, p.seq, p.producer, meta, r)
	if err != nil {
		return env, err
	}

	p.logger.Info("cart checked out",
		zap.String("event_id", env.EventID),
		zap.String("routing_key", CartCheckedOutRoutingKey),
		zap.String("partition_key", env.PartitionKey),
		zap.Int64("sequence", env.Sequence),
		zap.String("correlation_id", env.CorrelationID),
		zap.Int("item_count", env.Payload.ItemCount),
		zap.Stringer("total", env.Payload.TotalAmount),
	)
	return env, nil
}

func (p *LogPublisher) Close() error {
	return nil
}
