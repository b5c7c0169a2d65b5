package client

import (
	"context"
	"encoding/json"
	"inventory/domain"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ProductData is the editable state of the product form. Numeric fields are
// kept as typed text until submit.
type ProductData struct {
	Name        string
	Description string
	Price       string
	Stock       string
	Status      domain.ProductStatus
	CategoryID  string
}

// fields sends numbers as JSON numbers when they parse and as the raw text
// otherwise, so the server reports the type error.
func (d ProductData) fields() map[string]any {
	fields := map[string]any{
		"name":        d.Name,
		"description": nullable(d.Description),
		"price":       d.Price,
		"stock":       d.Stock,
		"status":      string(d.Status),
		"category_id": nil,
	}

	if p, err := decimal.NewFromString(strings.TrimSpace(d.Price)); err == nil {
		fields["price"] = json.Number(p.String())
	}
	if s, err := strconv.ParseInt(strings.TrimSpace(d.Stock), 10, 64); err == nil {
		fields["stock"] = s
	}
	if id := strings.TrimSpace(d.CategoryID); id != "" {
		if n, err := strconv.ParseInt(id, 10, 64); err == nil {
			fields["category_id"] = n
		} else {
			fields["category_id"] = id
		}
	}
	return fields
}

func checkProduct(d ProductData) map[string]string {
	errs := map[string]string{}
	if strings.TrimSpace(d.Name) == "" {
		errs["name"] = "The name field is required."
	}
	if p, err := decimal.NewFromString(strings.TrimSpace(d.Price)); err != nil || p.IsNegative() {
		errs["price"] = "The price must be a number greater than or equal to 0."
	}
	if s, err := strconv.ParseInt(strings.TrimSpace(d.Stock), 10, 64); err != nil || s < 0 {
		errs["stock"] = "The stock must be a whole number greater than or equal to 0."
	}
	return errs
}

type ProductForm struct {
	*Form[ProductData, domain.Product]
}

func NewProductForm(c *Client) *ProductForm {
	return &ProductForm{NewForm(FormConfig[ProductData, domain.Product]{
		Defaults: func() ProductData {
			return ProductData{Stock: "0", Status: domain.ProductStatusActive}
		},
		Seed: func(p domain.Product) (int64, ProductData) {
			d := ProductData{
				Name:        p.Name,
				Description: deref(p.Description),
				Price:       p.Price.StringFixed(domain.PriceScale),
				Stock:       strconv.FormatInt(p.Stock, 10),
				Status:      p.Status,
			}
			if p.CategoryID != nil {
				d.CategoryID = strconv.FormatInt(*p.CategoryID, 10)
			}
			return p.ID, d
		},
		Check: checkProduct,
		Create: func(ctx context.Context, d ProductData) (domain.Product, error) {
			return c.CreateProduct(ctx, d.fields())
		},
		Update: func(ctx context.Context, id int64, d ProductData) (domain.Product, error) {
			return c.UpdateProduct(ctx, id, d.fields())
		},
	})}
}

func (f *ProductForm) SetName(v string) {
	f.set("name", func(d *ProductData) { d.Name = v })
}

func (f *ProductForm) SetDescription(v string) {
	f.set("description", func(d *ProductData) { d.Description = v })
}

func (f *ProductForm) SetPrice(v string) {
	f.set("price", func(d *ProductData) { d.Price = v })
}

func (f *ProductForm) SetStock(v string) {
	f.set("stock", func(d *ProductData) { d.Stock = v })
}

func (f *ProductForm) SetStatus(v domain.ProductStatus) {
	f.set("status", func(d *ProductData) { d.Status = v })
}

// SetCategoryID selects a category by id; "" clears the selection.
func (f *ProductForm) SetCategoryID(v string) {
	f.set("category_id", func(d *ProductData) { d.CategoryID = v })
}
