package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	exchange string
	events   []*Event
	headers  []Headers
	err      error
}

func (p *recordingPublisher) Publish(_ context.Context, exchange string, event *Event, headers Headers) error {
	p.exchange = exchange
	p.events = append(p.events, event)
	p.headers = append(p.headers, headers)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func TestEmitPublishesVersionedEvent(t *testing.T) {
	pub := &recordingPublisher{}

	Emit(context.Background(), pub, ProductDeletedEvent, ProductDeletedPayload{ID: 3})

	require.Len(t, pub.events, 1)
	assert.Equal(t, CatalogExchange, pub.exchange)
	assert.Equal(t, "product.deleted.v1", pub.events[0].GetRoutingKey())
	assert.Equal(t, "inventory", pub.headers[0].Service)
	assert.NotEmpty(t, pub.events[0].TraceID)
	assert.Equal(t, pub.headers[0].TraceID, pub.events[0].TraceID)

	raw, err := pub.events[0].ToJSON()
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "product.deleted", decoded["event"])
	assert.Equal(t, float64(3), decoded["payload"].(map[string]any)["id"])
}

func TestEmitToleratesMissingOrFailingPublisher(t *testing.T) {
	assert.NotPanics(t, func() {
		Emit(context.Background(), nil, CategoryCreatedEvent, CategoryPayload{})
	})

	pub := &recordingPublisher{err: errors.New("broker down")}
	assert.NotPanics(t, func() {
		Emit(context.Background(), pub, CategoryCreatedEvent, CategoryPayload{})
	})
	assert.Len(t, pub.events, 1)
}

func TestEmitCarriesRequestCorrelationID(t *testing.T) {
	pub := &recordingPublisher{}
	ctx := WithCorrelationID(context.Background(), "req-42")

	Emit(ctx, pub, CategoryUpdatedEvent, CategoryPayload{ID: 1})
	Emit(context.Background(), pub, CategoryUpdatedEvent, CategoryPayload{ID: 1})

	require.Len(t, pub.events, 2)
	assert.Equal(t, "req-42", pub.events[0].CorrelationID)
	assert.Equal(t, "req-42", pub.headers[0].CorrelationID)
	assert.Equal(t, ServiceName, pub.events[0].Source)
	assert.NotEmpty(t, pub.events[1].CorrelationID)
	assert.NotEqual(t, "req-42", pub.events[1].CorrelationID)
	assert.NotEqual(t, pub.events[0].ID, pub.events[1].ID)
}
