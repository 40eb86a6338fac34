package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/contracts"
)

type published struct {
	exchange string
	key      string
	msg      amqp.Publishing
	deadline bool
}

type fakeChannel struct {
	declared   []string
	declareErr error
	publishErr error
	published  []published
	closed     bool
}

func (f *fakeChannel) ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error {
	if f.declareErr != nil {
		return f.declareErr
	}
	f.declared = append(f.declared, name+":"+kind)
	return nil
}

func (f *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	_, ok := ctx.Deadline()
	f.published = append(f.published, published{exchange: exchange, key: key, msg: msg, deadline: ok})
	return nil
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

func testReceipt(cartID string) cart.Receipt {
	return cart.Receipt{
		ID:     "r-1",
		CartID: cartID,
		Lines: []cart.ReceiptLine{
			{ProductID: 4, Name: "Taza Cerámica", UnitPrice: decimal.RequireFromString("12.5"), UnitTax: decimal.RequireFromString("1.5"), Quantity: 2},
		},
		ItemCount:    2,
		Subtotal:     decimal.RequireFromString("25"),
		Tax:          decimal.RequireFromString("3"),
		Total:        decimal.RequireFromString("28"),
		CheckedOutAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestRabbitPublisherPublishesEnvelope(t *testing.T) {
	ch := &fakeChannel{}
	p, err := newRabbitPublisher(ch, NewMemorySequence(), RabbitOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{EventsExchange + ":topic"}, ch.declared)

	meta := EventMeta{CorrelationID: "corr-1", CausationID: "cause-1"}
	env, err := p.PublishCartCheckedOut(context.Background(), meta, testReceipt("cart-1"))
	require.NoError(t, err)

	require.Len(t, ch.published, 1)
	got := ch.published[0]
	assert.Equal(t, EventsExchange, got.exchange)
	assert.Equal(t, CartCheckedOutRoutingKey, got.key)
	assert.True(t, got.deadline)
	assert.Equal(t, "application/json", got.msg.ContentType)
	assert.Equal(t, amqp.Persistent, got.msg.DeliveryMode)
	assert.Equal(t, env.EventID, got.msg.MessageId)
	assert.Equal(t, "corr-1", got.msg.CorrelationId)

	var decoded contracts.EventEnvelope
	require.NoError(t, json.Unmarshal(got.msg.Body, &decoded))
	assert.Equal(t, contracts.CartCheckedOutEventName, decoded.EventName)
	assert.Equal(t, "cart-1", decoded.PartitionKey)
	assert.Equal(t, int64(1), decoded.Sequence)
	assert.Equal(t, contracts.StorefrontProducer, decoded.Producer)
	assert.Equal(t, "cause-1", decoded.CausationID)
	assert.True(t, decoded.Payload.TotalAmount.Equal(decimal.RequireFromString("28")))
}

func TestRabbitPublisherSequencesPerCart(t *testing.T) {
	ch := &fakeChannel{}
	p, err := newRabbitPublisher(ch, NewMemorySequence(), RabbitOptions{PublisherOptions: PublisherOptions{Producer: "storefront-test"}})
	require.NoError(t, err)

	ctx := context.Background()
	var seqs []int64
	for _, id := range []string{"a", "a", "b", "a"} {
		env, err := p.PublishCartCheckedOut(ctx, EventMeta{}, testReceipt(id))
		require.NoError(t, err)
		assert.Equal(t, "storefront-test", env.Producer)
		seqs = append(seqs, env.Sequence)
	}
	assert.Equal(t, []int64{1, 2, 1, 3}, seqs)
}

func TestRabbitPublisherErrors(t *testing.T) {
	t.Run("declare fails", func(t *testing.T) {
		_, err := newRabbitPublisher(&fakeChannel{declareErr: errors.New("boom")}, NewMemorySequence(), RabbitOptions{})
		require.Error(t, err)
	})

	t.Run("publish fails", func(t *testing.T) {
		ch := &fakeChannel{publishErr: amqp.ErrClosed}
		p, err := newRabbitPublisher(ch, NewMemorySequence(), RabbitOptions{})
		require.NoError(t, err)

		_, err = p.PublishCartCheckedOut(context.Background(), EventMeta{}, testReceipt("c"))
		assert.ErrorIs(t, err, amqp.ErrClosed)
	})

	t.Run("invalid receipt is not published", func(t *testing.T) {
		ch := &fakeChannel{}
		p, err := newRabbitPublisher(ch, NewMemorySequence(), RabbitOptions{})
		require.NoError(t, err)

		r := testReceipt("c")
		r.Lines[0].Quantity = 0
		_, err = p.PublishCartCheckedOut(context.Background(), EventMeta{}, r)

		var verr *contracts.ValidationError
		assert.ErrorAs(t, err, &verr)
		assert.Empty(t, ch.published)
	})

	t.Run("missing cart id", func(t *testing.T) {
		ch := &fakeChannel{}
		p, err := newRabbitPublisher(ch, NewMemorySequence(), RabbitOptions{})
		require.NoError(t, err)

		_, err = p.PublishCartCheckedOut(context.Background(), EventMeta{}, testReceipt(""))
		assert.ErrorIs(t, err, ErrMissingPartitionKey)
	})
}

func TestRabbitPublisherClose(t *testing.T) {
	ch := &fakeChannel{}
	p, err := newRabbitPublisher(ch, NewMemorySequence(), RabbitOptions{})
	require.NoError(t, err)

	require.NoError(t, p.Close())
	assert.True(t, ch.closed)
}

func TestLogPublisher(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	p := NewLogPublisher(zap.New(core), NewMemorySequence(), PublisherOptions{})

	env, err := p.PublishCartCheckedOut(context.Background(), EventMeta{CorrelationID: "corr-9"}, testReceipt("cart-9"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), env.Sequence)

	entries := logs.FilterMessage("cart checked out").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "cart-9", fields["partition_key"])
	assert.Equal(t, "corr-9", fields["correlation_id"])
	assert.Equal(t, CartCheckedOutRoutingKey, fields["routing_key"])
	assert.Equal(t, "28", fields["total"])
	assert.NoError(t, p.Close())
}

func TestMemorySequence(t *testing.T) {
	s := NewMemorySequence()
	ctx := context.Background()

	n, err := s.NextSequence(ctx, "p")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = s.NextSequence(ctx, "p")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	_, err = s.NextSequence(ctx, "")
	assert.ErrorIs(t, err, ErrMissingPartitionKey)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = s.NextSequence(cancelled, "p")
	assert.ErrorIs(t, err, context.Canceled)
}
