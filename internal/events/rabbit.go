package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/contracts"
)

const DefaultPublishTimeout = 3 * time.Second

func Dial(url string) (*amqp.Connection, error) {
	conn, err := amqp.DialConfig(url, amqp.Config{
		Dial: amqp.DefaultDial(10 * time.Second),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to RabbitMQ: %w", err)
	}
	return conn, nil
}

type RabbitPublisher struct {
	ch       channel
	seq      SequenceRepository
	producer string
	timeout  time.Duration
}

type RabbitOptions struct {
	PublisherOptions
	PublishTimeout time.Duration
}

func NewRabbitPublisher(conn *amqp.Connection, seq SequenceRepository, opts RabbitOptions) (*RabbitPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}
	p, err := newRabbitPublisher(ch, seq, opts)
	if err != nil {
		_ = ch.Close()
		return nil, err
	}
	return p, nil
}

func newRabbitPublisher(ch channel, seq SequenceRepository, opts RabbitOptions) (*RabbitPublisher, error) {
	if err := declareEventsExchange(ch); err != nil {
		return nil, fmt.Errorf("declare events exchange: %w", err)
	}

	timeout := opts.PublishTimeout
	if timeout <= 0 {
		timeout = DefaultPublishTimeout
	}

	return &RabbitPublisher{
		ch:       ch,
		seq:      seq,
		producer: opts.producer(),
		timeout:  timeout,
	}, nil
}

func (p *RabbitPublisher) Close() error {
	return p.ch.Close()
}

func (p *RabbitPublisher) PublishCartCheckedOut(ctx context.Context, meta EventMeta, r cart.Receipt) (contracts.EventEnvelope, error) {
	env, err := nextEnvelope(ctx, p.seq, p.producer, meta, r)
	if err != nil {
		return env, err
	}

	body, err := json.Marshal(env)
	if err != nil {
		return env, fmt.Errorf("marshal CartCheckedOut envelope: %w", err)
	}

	if err := p.publishJSON(ctx, CartCheckedOutRoutingKey, env, body); err != nil {
		return env, fmt.Errorf("publish CartCheckedOut: %w", err)
	}
	return env, nil
}

func (p *RabbitPublisher) publishJSON(ctx context.Context, routingKey string, env contracts.EventEnvelope, body []byte) error {
	pubCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	return p.ch.PublishWithContext(
		pubCtx,
		EventsExchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:   "application/json",
			DeliveryMode:  amqp.Persistent,
			MessageId:     env.EventID,
			CorrelationId: env.CorrelationID,
			Timestamp:     env.OccurredAt,
			Type:          env.EventName,
			AppId:         env.Producer,
			Body:          body,
		},
	)
}
