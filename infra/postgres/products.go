package postgres

import (
	"context"
	"database/sql"
	"inventory/domain"
)

const productColumns = `
	p.id, p.name, p.description, p.price, p.stock, p.status,
	p.category_id, p.created_at, p.updated_at,
	c.id AS c_id, c.name AS c_name, c.description AS c_description,
	c.color AS c_color, c.active AS c_active,
	c.created_at AS c_created_at, c.updated_at AS c_updated_at`

// productRow is a product with its LEFT JOINed category. Every category
// column is nullable because the reference may be absent or dangling.
type productRow struct {
	domain.Product
	CID          sql.NullInt64  `db:"c_id"`
	CName        sql.NullString `db:"c_name"`
	CDescription sql.NullString `db:"c_description"`
	CColor       sql.NullString `db:"c_color"`
	CActive      sql.NullBool   `db:"c_active"`
	CCreatedAt   sql.NullTime   `db:"c_created_at"`
	CUpdatedAt   sql.NullTime   `db:"c_updated_at"`
}

func (row productRow) toDomain() domain.Product {
	p := row.Product
	if !row.CID.Valid {
		return p
	}

	c := domain.Category{
		ID:        row.CID.Int64,
		Name:      row.CName.String,
		Active:    row.CActive.Bool,
		CreatedAt: row.CCreatedAt.Time,
		UpdatedAt: row.CUpdatedAt.Time,
	}
	if row.CDescription.Valid {
		c.Description = &row.CDescription.String
	}
	if row.CColor.Valid {
		c.Color = &row.CColor.String
	}
	p.Category = &c
	return p
}

func (r *PgRepository) GetProducts(ctx context.Context) ([]domain.Product, error) {
	var rows []productRow
	query := `SELECT ` + productColumns + `
		FROM products p
		LEFT JOIN categories c ON c.id = p.category_id
		ORDER BY p.created_at DESC, p.id DESC`

	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, err
	}

	products := make([]domain.Product, 0, len(rows))
	for _, row := range rows {
		products = append(products, row.toDomain())
	}
	return products, nil
}

func (r *PgRepository) GetProduct(ctx context.Context, id int64) (domain.Product, error) {
	var row productRow
	query := `SELECT ` + productColumns + `
		FROM products p
		LEFT JOIN categories c ON c.id = p.category_id
		WHERE p.id = $1`

	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		return domain.Product{}, notFound(err)
	}
	return row.toDomain(), nil
}

func (r *PgRepository) CreateProduct(ctx context.Context, in domain.ProductInput) (domain.Product, error) {
	var p domain.Product
	query := `
		INSERT INTO products (name, description, price, stock, status, category_id)
		VALUES (:name, :description, :price, :stock, :status, :category_id)
		RETURNING *`

	err := r.namedReturning(ctx, query, in, &p)
	return p, err
}

func (r *PgRepository) UpdateProduct(ctx context.Context, id int64, in domain.ProductInput) (domain.Product, error) {
	var p domain.Product
	query := `
		UPDATE products SET
			name = :name,
			description = :description,
			price = :price,
			stock = :stock,
			status = :status,
			category_id = :category_id,
			updated_at = NOW()
		WHERE id = :id
		RETURNING *`

	params := map[string]interface{}{
		"id":          id,
		"name":        in.Name,
		"description": in.Description,
		"price":       in.Price,
		"stock":       in.Stock,
		"status":      string(in.Status),
		"category_id": in.CategoryID,
	}

	err := r.namedReturning(ctx, query, params, &p)
	return p, notFound(err)
}

func (r *PgRepository) DeleteProduct(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
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
	return nil
}
