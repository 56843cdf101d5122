// Package messaging publishes domain events to RabbitMQ.
package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/AnderssonLeandro09/baloncesto-backend/internal/infrastructure/config"
	"github.com/AnderssonLeandro09/baloncesto-backend/internal/infrastructure/tracing"
)

// ErrNotConnected is returned while no broker channel is available.
var ErrNotConnected = errors.New("not connected to the message broker")

const retryDelay = 200 * time.Millisecond

// Event is the envelope of every published message.
type Event struct {
	ID         string    `json:"event_id"`
	Type       string    `json:"event_type"`
	OccurredAt time.Time `json:"occurred_at"`
	Data       any       `json:"data"`
}

// NewEvent wraps payload in an envelope with a fresh id.
func NewEvent(eventType string, payload any, now time.Time) Event {
	return Event{ID: uuid.NewString(), Type: eventType, OccurredAt: now.UTC(), Data: payload}
}

type publishChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// RabbitPublisher publishes events to a durable topic exchange. A background
// loop keeps the connection open and re-dials after the broker drops it.
type RabbitPublisher struct {
	url            string
	exchange       string
	retries        int
	reconnectDelay time.Duration
	now            func() time.Time

	mu   sync.RWMutex
	conn *amqp.Connection
	ch   publishChannel

	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// NewRabbitPublisher starts the connection loop and returns immediately.
// Events published before the first connection succeeds are retried and
// then dropped with ErrNotConnected.
func NewRabbitPublisher(cfg *config.MessagingConfig) *RabbitPublisher {
	p := &RabbitPublisher{
		url:            cfg.URL,
		exchange:       cfg.Exchange,
		retries:        max(cfg.PublishRetries, 0),
		reconnectDelay: cfg.ReconnectDelay,
		now:            time.Now,
		done:           make(chan struct{}),
	}
	if p.reconnectDelay <= 0 {
		p.reconnectDelay = 5 * time.Second
	}
	p.wg.Add(1)
	go p.run()
	return p
}

// Publish sends payload under routingKey, retrying while the channel is
// unavailable or the broker rejects the write.
func (p *RabbitPublisher) Publish(ctx context.Context, routingKey string, payload any) error {
	ctx, span := tracing.StartSpan(ctx, "messaging.publish",
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			attribute.String("messaging.system", "rabbitmq"),
			attribute.String("messaging.destination.name", p.exchange),
			attribute.String("messaging.rabbitmq.destination.routing_key", routingKey),
		),
	)
	defer span.End()

	event := NewEvent(routingKey, payload, p.now())
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event %s: %w", routingKey, err)
	}
	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.ID,
		Timestamp:    event.OccurredAt,
		Type:         routingKey,
		Body:         body,
	}

	for attempt := 0; ; attempt++ {
		err = ErrNotConnected
		if ch := p.channel(); ch != nil {
			err = ch.PublishWithContext(ctx, p.exchange, routingKey, false, false, msg)
		}
		if err == nil {
			return nil
		}
		if attempt >= p.retries {
			break
		}
		select {
		case <-ctx.Done():
			tracing.SetError(ctx, ctx.Err())
			return ctx.Err()
		case <-time.After(retryDelay * time.Duration(attempt+1)):
		}
	}

	tracing.SetError(ctx, err)
	return fmt.Errorf("failed to publish %s: %w", routingKey, err)
}

// Close stops the connection loop and closes the connection.
func (p *RabbitPublisher) Close() error {
	p.closeOnce.Do(func() { close(p.done) })
	p.wg.Wait()
	return nil
}

func (p *RabbitPublisher) channel() publishChannel {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.ch
}

func (p *RabbitPublisher) swap(conn *amqp.Connection, ch publishChannel) *amqp.Connection {
	p.mu.Lock()
	defer p.mu.Unlock()
	old := p.conn
	p.conn, p.ch = conn, ch
	return old
}

func (p *RabbitPublisher) run() {
	defer p.wg.Done()
	for {
		conn, ch, err := p.connect()
		if err != nil {
			log.Warn().Err(err).Dur("retry_in", p.reconnectDelay).Msg("RabbitMQ connection failed")
			select {
			case <-p.done:
				return
			case <-time.After(p.reconnectDelay):
				continue
			}
		}

		connClosed := conn.NotifyClose(make(chan *amqp.Error, 1))
		chanClosed := ch.NotifyClose(make(chan *amqp.Error, 1))
		p.swap(conn, ch)
		log.Info().Str("exchange", p.exchange).Msg("RabbitMQ publisher connected")

		select {
		case <-p.done:
			if old := p.swap(nil, nil); old != nil {
				_ = old.Close()
			}
			return
		case amqpErr := <-connClosed:
			log.Warn().Interface("reason", amqpErr).Msg("RabbitMQ connection closed, reconnecting")
		case amqpErr := <-chanClosed:
			log.Warn().Interface("reason", amqpErr).Msg("RabbitMQ channel closed, reconnecting")
		}
		if old := p.swap(nil, nil); old != nil && !old.IsClosed() {
			_ = old.Close()
		}
	}
}

func (p *RabbitPublisher) connect() (*amqp.Connection, *amqp.Channel, error) {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return nil, nil, fmt.Errorf("dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(p.exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("declare exchange %s: %w", p.exchange, err)
	}
	return conn, ch, nil
}

// NoopPublisher discards events. It is used when messaging is disabled.
type NoopPublisher struct{}

// Publish logs the event at debug level.
func (NoopPublisher) Publish(_ context.Context, routingKey string, _ any) error {
	log.Debug().Str("routing_key", routingKey).Msg("Messaging disabled, event discarded")
	return nil
}
