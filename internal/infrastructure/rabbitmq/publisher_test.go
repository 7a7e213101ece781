package rabbitmq

import (
	"context"
	"encoding/json"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Cafeteria-api/internal/application/dto"
	"github.com/jhoicas/Cafeteria-api/pkg/logger"
)

type fakeChannel struct {
	exchange string
	key      string
	msg      amqp.Publishing
	closed   bool
}

func (f *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	f.exchange, f.key, f.msg = exchange, key, msg
	return nil
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

func TestNewPublisher_SinURLEsNoop(t *testing.T) {
	p, err := NewPublisher("", "", logger.Nop())
	require.NoError(t, err)
	assert.NoError(t, p.PublishTicket(context.Background(), dto.KitchenTicket{Status: "pending"}))
	p.Close()
}

func TestPublishTicket(t *testing.T) {
	ch := &fakeChannel{}
	p := &Publisher{ch: ch, exchange: DefaultExchange, log: logger.Nop()}

	err := p.PublishTicket(context.Background(), dto.KitchenTicket{OrderID: "o-1", Number: "ORD-000003", Status: "ready"})
	require.NoError(t, err)
	assert.Equal(t, "orders_topic", ch.exchange)
	assert.Equal(t, "kitchen.ready", ch.key)
	assert.Equal(t, amqp.Persistent, ch.msg.DeliveryMode)
	assert.Equal(t, "o-1", ch.msg.MessageId)

	var got dto.KitchenTicket
	require.NoError(t, json.Unmarshal(ch.msg.Body, &got))
	assert.Equal(t, "ORD-000003", got.Number)

	p.Close()
	assert.True(t, ch.closed)
}
