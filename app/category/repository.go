package category

import (
	"context"
	"inventory/domain"
)

type Repository interface {
	GetCategories(ctx context.Context) ([]domain.Category, error)
	GetCategory(ctx context.Context, id int64) (domain.Category, error)
	CategoryNameExists(ctx context.Context, name string, exceptID int64) (bool, error)
	CountCategoryProducts(ctx context.Context, id int64) (int, error)
	CreateCategory(ctx context.Context, in domain.CategoryInput) (domain.Category, error)
	UpdateCategory(ctx context.Context, id int64, in domain.CategoryInput) (domain.Category, error)
	DeleteCategory(ctx context.Context, id int64, detachProducts bool) error
}
