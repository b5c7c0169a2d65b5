package postgres

import (
	"context"
	"fmt"
	"inventory/domain"
)

func (r *PgRepository) GetCategories(ctx context.Context) ([]domain.Category, error) {
	categories := make([]domain.Category, 0)
	query := `SELECT * FROM categories ORDER BY created_at DESC, id DESC`

	if err := r.db.SelectContext(ctx, &categories, query); err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *PgRepository) GetActiveCategories(ctx context.Context) ([]domain.Category, error) {
	categories := make([]domain.Category, 0)
	query := `SELECT * FROM categories WHERE active = TRUE ORDER BY id`

	if err := r.db.SelectContext(ctx, &categories, query); err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *PgRepository) GetCategory(ctx context.Context, id int64) (domain.Category, error) {
	var c domain.Category
	query := `SELECT * FROM categories WHERE id = $1`

	err := r.db.GetContext(ctx, &c, query, id)
	return c, notFound(err)
}

func (r *PgRepository) CategoryExists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM categories WHERE id = $1)`

	err := r.db.GetContext(ctx, &exists, query, id)
	return exists, err
}

func (r *PgRepository) CategoryNameExists(ctx context.Context, name string, exceptID int64) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM categories WHERE name = $1 AND id <> $2)`

	err := r.db.GetContext(ctx, &exists, query, name, exceptID)
	return exists, err
}

func (r *PgRepository) CountCategoryProducts(ctx context.Context, id int64) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM products WHERE category_id = $1`

	err := r.db.GetContext(ctx, &count, query, id)
	return count, err
}

func (r *PgRepository) CreateCategory(ctx context.Context, in domain.CategoryInput) (domain.Category, error) {
	var c domain.Category
	query := `
		INSERT INTO categories (name, description, color, active)
		VALUES (:name, :description, :color, :active)
		RETURNING *`

	err := r.namedReturning(ctx, query, in, &c)
	return c, duplicate(err)
}

func (r *PgRepository) UpdateCategory(ctx context.Context, id int64, in domain.CategoryInput) (domain.Category, error) {
	var c domain.Category
	query := `
		UPDATE categories SET
			name = :name,
			description = :description,
			color = :color,
			active = :active,
			updated_at = NOW()
		WHERE id = :id
		RETURNING *`

	params := map[string]interface{}{
		"id":          id,
		"name":        in.Name,
		"description": in.Description,
		"color":       in.Color,
		"active":      in.Active,
	}

	err := r.namedReturning(ctx, query, params, &c)
	return c, duplicate(notFound(err))
}

// DeleteCategory removes the row. With detachProducts set, every referencing
// product has its category_id cleared in the same transaction.
func (r *PgRepository) DeleteCategory(ctx context.Context, id int64, detachProducts bool) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if detachProducts {
		query := `UPDATE products SET category_id = NULL, updated_at = NOW() WHERE category_id = $1`
		if _, err := tx.ExecContext(ctx, query, id); err != nil {
			return fmt.Errorf("failed to detach products: %w", err)
		}
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}

	return tx.Commit()
}
