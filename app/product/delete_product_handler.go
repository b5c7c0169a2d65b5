package product

import (
	"context"
	"inventory/pkg/events"
	"time"
)

type DeleteProductHandler struct {
	repository     Repository
	eventPublisher events.Publisher
}

func NewDeleteProductHandler(repository Repository, eventPublisher events.Publisher) *DeleteProductHandler {
	return &DeleteProductHandler{
		repository:     repository,
		eventPublisher: eventPublisher,
	}
}

type DeleteProductRequest struct {
	ID int64 `params:"id"`
}

type DeleteProductResponse struct {
	Message string `json:"message"`
}

func (r DeleteProductResponse) FlashMessage() string {
	return r.Message
}

func (h DeleteProductHandler) Handle(ctx context.Context, req *DeleteProductRequest) (*DeleteProductResponse, error) {
	if _, err := h.repository.GetProduct(ctx, req.ID); err != nil {
		return nil, lookupError("product.destroy", err)
	}

	if err := h.repository.DeleteProduct(ctx, req.ID); err != nil {
		return nil, lookupError("product.destroy", err)
	}

	events.Emit(ctx, h.eventPublisher, events.ProductDeletedEvent, events.ProductDeletedPayload{
		ID:        req.ID,
		DeletedAt: time.Now().UTC(),
	})

	return &DeleteProductResponse{
		Message: MsgDeleted,
	}, nil
}
