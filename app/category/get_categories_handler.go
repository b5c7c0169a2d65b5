package category

import (
	"context"
	"inventory/domain"
	"inventory/pkg/httperror"
)

type GetCategoriesHandler struct {
	repository Repository
}

func NewGetCategoriesHandler(repository Repository) *GetCategoriesHandler {
	return &GetCategoriesHandler{
		repository: repository,
	}
}

type GetCategoriesRequest struct{}

type GetCategoriesResponse struct {
	Categories []domain.Category `json:"categories"`
}

func (h GetCategoriesHandler) Handle(ctx context.Context, req *GetCategoriesRequest) (*GetCategoriesResponse, error) {
	categories, err := h.repository.GetCategories(ctx)
	if err != nil {
		return nil, httperror.InternalServerError(
			"category.index.failed",
			"Failed to retrieve categories",
			nil,
		)
	}

	return &GetCategoriesResponse{
		Categories: categories,
	}, nil
}
