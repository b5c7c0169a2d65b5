package product

import (
	"context"
	"errors"
	"inventory/domain"
	"inventory/pkg/events"
	"inventory/pkg/httperror"

	"go.uber.org/zap"
)

type UpdateProductHandler struct {
	repository     Repository
	eventPublisher events.Publisher
}

type UpdateProductRequest struct {
	ID     int64          `params:"id"`
	Fields map[string]any `json:"-"`
}

func (r *UpdateProductRequest) SetFields(fields map[string]any) {
	r.Fields = fields
}

type UpdateProductResponse struct {
	Message string         `json:"message"`
	Product domain.Product `json:"product"`
}

func NewUpdateProductHandler(repository Repository, eventPublisher events.Publisher) *UpdateProductHandler {
	return &UpdateProductHandler{
		repository:     repository,
		eventPublisher: eventPublisher,
	}
}

func (h UpdateProductHandler) Handle(ctx context.Context, req *UpdateProductRequest) (*UpdateProductResponse, error) {
	existing, err := h.repository.GetProduct(ctx, req.ID)
	if err != nil {
		return nil, lookupError("product.update", err)
	}

	values, err := Rules(h.repository).Validate(ctx, req.Fields)
	if err != nil {
		return nil, validationError("product.update", err)
	}

	if _, err := h.repository.UpdateProduct(ctx, existing.ID, applyValues(InputFrom(existing), values)); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, lookupError("product.update", err)
		}

		zap.L().Error("Failed to update product", zap.Int64("productId", req.ID), zap.Error(err))
		return nil, httperror.InternalServerError(
			"product.update.update_failed",
			"An error occurred while updating the product",
			nil,
		)
	}

	product, err := h.repository.GetProduct(ctx, existing.ID)
	if err != nil {
		return nil, lookupError("product.update", err)
	}

	events.Emit(ctx, h.eventPublisher, events.ProductUpdatedEvent, payload(product))

	return &UpdateProductResponse{
		Message: MsgUpdated,
		Product: product,
	}, nil
}
