package gormstore

import (
	"inventory/domain"
	"time"

	"github.com/shopspring/decimal"
)

type categoryRow struct {
	ID          int64   `gorm:"primaryKey"`
	Name        string  `gorm:"size:100;not null;uniqueIndex"`
	Description *string `gorm:"type:text"`
	Color       *string `gorm:"size:7"`
	Active      bool    `gorm:"not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (categoryRow) TableName() string { return "categories" }

func (r categoryRow) toDomain() domain.Category {
	return domain.Category{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Color:       r.Color,
		Active:      r.Active,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func (r *categoryRow) assign(in domain.CategoryInput) {
	r.Name = in.Name
	r.Description = in.Description
	r.Color = in.Color
	r.Active = in.Active
}

// productRow.Category is read only. Writes go through Omit so a loaded
// association is never upserted back.
type productRow struct {
	ID          int64           `gorm:"primaryKey"`
	Name        string          `gorm:"size:255;not null"`
	Description *string         `gorm:"type:text"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Stock       int64           `gorm:"not null"`
	Status      string          `gorm:"size:20;not null"`
	CategoryID  *int64          `gorm:"index"`
	Category    *categoryRow    `gorm:"foreignKey:CategoryID"`
	CreatedAt   time.Time       `gorm:"index"`
	UpdatedAt   time.Time
}

func (productRow) TableName() string { return "products" }

func (r productRow) toDomain() domain.Product {
	p := domain.Product{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Stock:       r.Stock,
		Status:      domain.ProductStatus(r.Status),
		CategoryID:  r.CategoryID,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
	if r.Category != nil {
		c := r.Category.toDomain()
		p.Category = &c
	}
	return p
}

func (r *productRow) assign(in domain.ProductInput) {
	r.Name = in.Name
	r.Description = in.Description
	r.Price = in.Price
	r.Stock = in.Stock
	r.Status = string(in.Status)
	r.CategoryID = in.CategoryID
}
