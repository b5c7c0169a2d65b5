package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event is the envelope every catalog message is published in.
type Event struct {
	ID            string      `json:"id"`
	Event         string      `json:"event"`   // e.g. "product.updated"
	Version       string      `json:"version"` // e.g. "v1"
	Source        string      `json:"source"`
	Timestamp     time.Time   `json:"timestamp"`
	Payload       interface{} `json:"payload"`
	TraceID       string      `json:"traceId"`
	CorrelationID string      `json:"correlationId"`
}

type Headers struct {
	TraceID       string
	CorrelationID string
	Service       string
}

func NewEvent(eventName, version string, payload interface{}, headers Headers) *Event {
	return &Event{
		ID:            uuid.NewString(),
		Event:         eventName,
		Version:       version,
		Source:        headers.Service,
		Timestamp:     time.Now().UTC(),
		Payload:       payload,
		TraceID:       headers.TraceID,
		CorrelationID: headers.CorrelationID,
	}
}

func (e *Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// GetRoutingKey is "<event>.<version>", so consumers can bind on
// "product.#" or "*.*.v1".
func (e *Event) GetRoutingKey() string {
	return e.Event + "." + e.Version
}

type correlationKey struct{}

// WithCorrelationID attaches the id of the request that caused a write.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationKey{}, id)
}

// CorrelationID returns the request id stored on ctx, or a fresh one.
func CorrelationID(ctx context.Context) string {
	if id, ok := ctx.Value(correlationKey{}).(string); ok && id != "" {
		return id
	}
	return uuid.NewString()
}
