package category

import (
	"context"
	"errors"
	"inventory/domain"
	"inventory/pkg/events"
	"inventory/pkg/httperror"

	"go.uber.org/zap"
)

type UpdateCategoryHandler struct {
	repository     Repository
	eventPublisher events.Publisher
}

type UpdateCategoryRequest struct {
	ID     int64          `params:"id"`
	Fields map[string]any `json:"-"`
}

func (r *UpdateCategoryRequest) SetFields(fields map[string]any) {
	r.Fields = fields
}

type UpdateCategoryResponse struct {
	Message  string          `json:"message"`
	Category domain.Category `json:"category"`
}

func NewUpdateCategoryHandler(repository Repository, eventPublisher events.Publisher) *UpdateCategoryHandler {
	return &UpdateCategoryHandler{
		repository:     repository,
		eventPublisher: eventPublisher,
	}
}

func (h UpdateCategoryHandler) Handle(ctx context.Context, req *UpdateCategoryRequest) (*UpdateCategoryResponse, error) {
	existing, err := h.repository.GetCategory(ctx, req.ID)
	if err != nil {
		return nil, lookupError("category.update", err)
	}

	values, err := Rules(h.repository, existing.ID).Validate(ctx, req.Fields)
	if err != nil {
		return nil, validationError("category.update", err)
	}

	category, err := h.repository.UpdateCategory(ctx, existing.ID, applyValues(InputFrom(existing), values))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, lookupError("category.update", err)
		}
		if errors.Is(err, domain.ErrDuplicateName) {
			return nil, duplicateNameError("category.update")
		}

		zap.L().Error("Failed to update category", zap.Int64("categoryId", req.ID), zap.Error(err))
		return nil, httperror.InternalServerError(
			"category.update.update_failed",
			"An error occurred while updating the category",
			nil,
		)
	}

	events.Emit(ctx, h.eventPublisher, events.CategoryUpdatedEvent, payload(category))

	return &UpdateCategoryResponse{
		Message:  MsgUpdated,
		Category: category,
	}, nil
}

func lookupError(op string, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return httperror.NotFound(
			op+".not_found",
			"Category not found",
			nil,
		)
	}

	zap.L().Error("Failed to get category", zap.String("operation", op), zap.Error(err))
	return httperror.InternalServerError(
		op+".failed",
		"Failed to get category",
		nil,
	)
}
