// Package rabbitmq publica las comandas de cocina en un exchange topic.
package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/jhoicas/Cafeteria-api/internal/application/dto"
	"github.com/jhoicas/Cafeteria-api/internal/application/orders"
	"github.com/jhoicas/Cafeteria-api/pkg/logger"
)

// DefaultExchange exchange topic de pedidos; la cocina enlaza su cola con "kitchen.*".
const DefaultExchange = "orders_topic"

var _ orders.TicketPublisher = (*Publisher)(nil)

// channel lo mínimo de *amqp.Channel que usa el publicador.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publisher publica KitchenTicket. Con URL vacía queda en modo noop.
type Publisher struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	ch       channel
	exchange string
	log      *logger.Logger
}

// NewPublisher conecta y declara el exchange. url vacía: devuelve un publicador noop.
func NewPublisher(url, exchange string, log *logger.Logger) (*Publisher, error) {
	if log == nil {
		log = logger.Nop()
	}
	if exchange == "" {
		exchange = DefaultExchange
	}
	p := &Publisher{exchange: exchange, log: log.Component("rabbitmq")}
	if url == "" {
		p.log.Info().Msg("RABBITMQ_URL vacío: comandas de cocina deshabilitadas")
		return p, nil
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq: dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq: channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq: exchange %s: %w", exchange, err)
	}
	p.conn = conn
	p.ch = ch
	p.log.Info().Str("exchange", exchange).Msg("conectado a RabbitMQ")
	return p, nil
}

// RoutingKey clave de ruteo del ticket: kitchen.<estado>.
func RoutingKey(status string) string {
	return "kitchen." + status
}

// PublishTicket publica el ticket como JSON persistente.
func (p *Publisher) PublishTicket(ctx context.Context, ticket dto.KitchenTicket) error {
	if p == nil || p.ch == nil {
		return nil
	}
	body, err := json.Marshal(ticket)
	if err != nil {
		return fmt.Errorf("rabbitmq: marshal ticket: %w", err)
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	p.mu.Lock()
	defer p.mu.Unlock()
	err = p.ch.PublishWithContext(ctx, p.exchange, RoutingKey(ticket.Status), false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		ContentType:  "application/json",
		MessageId:    ticket.OrderID,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("rabbitmq: publish %s: %w", ticket.Number, err)
	}
	return nil
}

// Close cierra canal y conexión.
func (p *Publisher) Close() {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}
