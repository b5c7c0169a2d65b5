package product

import (
	"context"
	"inventory/domain"
	"inventory/pkg/httperror"
)

type GetProductsHandler struct {
	repository Repository
}

func NewGetProductsHandler(repository Repository) *GetProductsHandler {
	return &GetProductsHandler{
		repository: repository,
	}
}

type GetProductsRequest struct{}

// GetProductsResponse also carries the active categories offered by the
// product form's picker.
type GetProductsResponse struct {
	Products   []domain.Product  `json:"products"`
	Categories []domain.Category `json:"categories"`
}

func (h GetProductsHandler) Handle(ctx context.Context, req *GetProductsRequest) (*GetProductsResponse, error) {
	products, err := h.repository.GetProducts(ctx)
	if err != nil {
		return nil, httperror.InternalServerError(
			"product.index.failed",
			"Failed to retrieve products",
			nil,
		)
	}

	categories, err := h.repository.GetActiveCategories(ctx)
	if err != nil {
		return nil, httperror.InternalServerError(
			"product.index.categories_failed",
			"Failed to retrieve categories",
			nil,
		)
	}

	return &GetProductsResponse{
		Products:   products,
		Categories: categories,
	}, nil
}
