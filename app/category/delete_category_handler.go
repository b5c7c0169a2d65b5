package category

import (
	"context"
	"inventory/domain"
	"inventory/pkg/events"
	"inventory/pkg/httperror"
	"time"

	"go.uber.org/zap"
)

type DeleteCategoryHandler struct {
	repository     Repository
	eventPublisher events.Publisher
	policy         domain.DeletePolicy
}

func NewDeleteCategoryHandler(repository Repository, eventPublisher events.Publisher, policy domain.DeletePolicy) *DeleteCategoryHandler {
	if policy == "" {
		policy = domain.DeletePolicyKeep
	}

	return &DeleteCategoryHandler{
		repository:     repository,
		eventPublisher: eventPublisher,
		policy:         policy,
	}
}

type DeleteCategoryRequest struct {
	ID int64 `params:"id"`
}

type DeleteCategoryResponse struct {
	Message string `json:"message"`
}

func (r DeleteCategoryResponse) FlashMessage() string {
	return r.Message
}

func (h DeleteCategoryHandler) Handle(ctx context.Context, req *DeleteCategoryRequest) (*DeleteCategoryResponse, error) {
	category, err := h.repository.GetCategory(ctx, req.ID)
	if err != nil {
		return nil, lookupError("category.destroy", err)
	}

	if h.policy == domain.DeletePolicyRestrict {
		count, err := h.repository.CountCategoryProducts(ctx, category.ID)
		if err != nil {
			zap.L().Error("Failed to count category products", zap.Int64("categoryId", category.ID), zap.Error(err))
			return nil, httperror.InternalServerError(
				"category.destroy.failed",
				"Failed to delete category",
				nil,
			)
		}
		if count > 0 {
			return nil, httperror.Conflict(
				"category.destroy.in_use",
				"Category is still assigned to products",
				map[string]int{"products": count},
			)
		}
	}

	detach := h.policy == domain.DeletePolicyNullify
	if err := h.repository.DeleteCategory(ctx, category.ID, detach); err != nil {
		return nil, lookupError("category.destroy", err)
	}

	events.Emit(ctx, h.eventPublisher, events.CategoryDeletedEvent, events.CategoryDeletedPayload{
		ID:               category.ID,
		DetachedProducts: detach,
		DeletedAt:        time.Now().UTC(),
	})

	return &DeleteCategoryResponse{
		Message: MsgDeleted,
	}, nil
}
