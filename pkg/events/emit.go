package events

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Emit publishes a v1 event on the catalog exchange. Publishing is best
// effort: a nil publisher is a no-op and failures are only logged, since the
// write has already been committed.
func Emit(ctx context.Context, publisher Publisher, name string, payload any) {
	if publisher == nil {
		return
	}

	headers := Headers{
		TraceID:       uuid.NewString(),
		CorrelationID: CorrelationID(ctx),
		Service:       ServiceName,
	}

	event := NewEvent(name, EventVersionV1, payload, headers)

	if err := publisher.Publish(ctx, CatalogExchange, event, headers); err != nil {
		zap.L().Error("Failed to publish event",
			zap.String("event", name),
			zap.String("traceId", headers.TraceID),
			zap.Error(err),
		)
	}
}
