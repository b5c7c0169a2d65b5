package product

import (
	"context"
	"inventory/domain"
)

type Repository interface {
	GetProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, id int64) (domain.Product, error)
	GetActiveCategories(ctx context.Context) ([]domain.Category, error)
	CategoryExists(ctx context.Context, id int64) (bool, error)
	CreateProduct(ctx context.Context, in domain.ProductInput) (domain.Product, error)
	UpdateProduct(ctx context.Context, id int64, in domain.ProductInput) (domain.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
}
