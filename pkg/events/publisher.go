package events

import "context"

// Publisher delivers catalog events to a broker. The RabbitMQ implementation
// lives in infra/rabbitmq.
type Publisher interface {
	Publish(ctx context.Context, exchange string, event *Event, headers Headers) error
	Close() error
}
