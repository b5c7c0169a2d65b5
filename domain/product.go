package domain

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// PriceScale is the number of fractional digits kept for prices.
const PriceScale = 2

// Upper bounds of what the products table can hold: NUMERIC(10,2) and
// INTEGER.
const (
	MaxPrice       = "99999999.99"
	MaxStock int64 = 2147483647
)

type ProductStatus string

const (
	ProductStatusActive       ProductStatus = "active"
	ProductStatusInactive     ProductStatus = "inactive"
	ProductStatusDiscontinued ProductStatus = "discontinued"
)

// ProductStatuses lists every accepted status, in display order.
var ProductStatuses = []ProductStatus{
	ProductStatusActive,
	ProductStatusInactive,
	ProductStatusDiscontinued,
}

type Product struct {
	ID          int64           `json:"id" db:"id"`
	Name        string          `json:"name" db:"name"`
	Description *string         `json:"description" db:"description"`
	Price       decimal.Decimal `json:"price" db:"price"`
	Stock       int64           `json:"stock" db:"stock"`
	Status      ProductStatus   `json:"status" db:"status"`
	CategoryID  *int64          `json:"category_id" db:"category_id"`
	Category    *Category       `json:"category" db:"-"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}

// MarshalJSON writes price with exactly PriceScale fractional digits, so 9.9
// goes out as "9.90".
func (p Product) MarshalJSON() ([]byte, error) {
	type plain Product
	return json.Marshal(struct {
		plain
		Price string `json:"price"`
	}{plain(p), p.Price.StringFixed(PriceScale)})
}

// ProductInput is the accepted value set for a create or update request.
type ProductInput struct {
	Name        string          `db:"name"`
	Description *string         `db:"description"`
	Price       decimal.Decimal `db:"price"`
	Stock       int64           `db:"stock"`
	Status      ProductStatus   `db:"status"`
	CategoryID  *int64          `db:"category_id"`
}
