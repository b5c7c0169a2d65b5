package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"inventory/pkg/events"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const (
	dialAttempts   = 5
	confirmTimeout = 5 * time.Second
)

var errNotAcked = errors.New("message was not acknowledged by broker")

// Publisher implements events.Publisher on a topic exchange with publisher
// confirms. Each publish uses its own channel so confirmations never mix.
type Publisher struct {
	conn     *amqp.Connection
	service  string
	declared sync.Map
}

// NewPublisher dials url, retrying with a linear backoff until ctx is done or
// the attempts run out.
func NewPublisher(ctx context.Context, url, service string) (*Publisher, error) {
	var conn *amqp.Connection
	var err error

	for i := 0; i < dialAttempts; i++ {
		conn, err = amqp.Dial(url)
		if err == nil {
			break
		}
		zap.L().Warn("Failed to connect to RabbitMQ, retrying...",
			zap.Int("attempt", i+1),
			zap.Error(err))

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Second * time.Duration(i+1)):
		}
	}

	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ after retries: %w", err)
	}

	zap.L().Info("RabbitMQ publisher connected", zap.String("service", service))

	return &Publisher{conn: conn, service: service}, nil
}

func (p *Publisher) declareExchange(ch *amqp.Channel, exchange string) error {
	if _, ok := p.declared.Load(exchange); ok {
		return nil
	}

	err := ch.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		return err
	}

	p.declared.Store(exchange, struct{}{})
	return nil
}

// message builds the AMQP publishing for an event.
func message(event *events.Event, headers events.Headers, service string) (amqp.Publishing, error) {
	body, err := event.ToJSON()
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("failed to serialize event: %w", err)
	}

	if headers.Service != "" {
		service = headers.Service
	}

	return amqp.Publishing{
		ContentType:  "application/json",
		MessageId:    event.ID,
		Type:         event.Event,
		AppId:        service,
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    event.Timestamp,
		Headers: amqp.Table{
			"x-trace-id":       headers.TraceID,
			"x-correlation-id": headers.CorrelationID,
			"x-service":        service,
			"x-event-version":  event.Version,
		},
	}, nil
}

func (p *Publisher) Publish(ctx context.Context, exchange string, event *events.Event, headers events.Headers) error {
	msg, err := message(event, headers, p.service)
	if err != nil {
		return err
	}

	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to create publish channel: %w", err)
	}
	defer ch.Close()

	if err := p.declareExchange(ch, exchange); err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	if err := ch.Confirm(false); err != nil {
		return fmt.Errorf("failed to enable confirms: %w", err)
	}
	confirms := ch.NotifyPublish(make(chan amqp.Confirmation, 1))

	publishCtx, cancel := context.WithTimeout(ctx, confirmTimeout)
	defer cancel()

	routingKey := event.GetRoutingKey()
	if err := ch.PublishWithContext(publishCtx, exchange, routingKey, false, false, msg); err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	select {
	case confirm := <-confirms:
		if !confirm.Ack {
			return errNotAcked
		}
	case <-publishCtx.Done():
		return fmt.Errorf("publish confirmation timeout: %w", publishCtx.Err())
	}

	zap.L().Debug("Event published",
		zap.String("exchange", exchange),
		zap.String("routingKey", routingKey),
		zap.String("traceId", headers.TraceID),
	)

	return nil
}

func (p *Publisher) IsHealthy() bool {
	return p != nil && p.conn != nil && !p.conn.IsClosed()
}

func (p *Publisher) Close() error {
	if p.conn == nil {
		return nil
	}
	if err := p.conn.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
		zap.L().Error("Failed to close connection", zap.Error(err))
		return err
	}
	zap.L().Info("RabbitMQ publisher closed")
	return nil
}
