package product

import (
	"context"
	"inventory/domain"
	"inventory/pkg/validation"

	"github.com/shopspring/decimal"
)

const NameMaxLength = 255

const PriceScale = domain.PriceScale

func statuses() []string {
	out := make([]string, len(domain.ProductStatuses))
	for i, s := range domain.ProductStatuses {
		out[i] = string(s)
	}
	return out
}

// Rules is shared by create and update.
func Rules(repository Repository) validation.Table {
	exists := func(ctx context.Context, v any) (bool, error) {
		return repository.CategoryExists(ctx, v.(int64))
	}

	return validation.Table{
		{Name: "name", Rules: []validation.Rule{validation.Required(), validation.String(), validation.Max(NameMaxLength)}},
		{Name: "description", Rules: []validation.Rule{validation.String()}},
		{Name: "price", Rules: []validation.Rule{validation.Required(), validation.Numeric(), validation.Min(0), validation.MaxNumber(decimal.RequireFromString(domain.MaxPrice))}},
		{Name: "stock", Rules: []validation.Rule{validation.Required(), validation.Integer(), validation.Min(0), validation.MaxNumber(decimal.NewFromInt(domain.MaxStock))}},
		{Name: "status", Rules: []validation.Rule{validation.Required(), validation.String(), validation.In(statuses()...)}},
		{Name: "category_id", Rules: []validation.Rule{
			validation.Integer(),
			validation.Custom("exists", "The selected :attribute is invalid.", exists),
		}},
	}
}

// InputFrom copies existing so optional fields absent from the request keep
// their value.
func InputFrom(existing domain.Product) domain.ProductInput {
	return domain.ProductInput{
		Name:        existing.Name,
		Description: existing.Description,
		Price:       existing.Price,
		Stock:       existing.Stock,
		Status:      existing.Status,
		CategoryID:  existing.CategoryID,
	}
}

func applyValues(base domain.ProductInput, values validation.Values) domain.ProductInput {
	base.Name = values.String("name")
	base.Price = values.Decimal("price").Round(PriceScale)
	base.Stock = values.Int("stock")
	base.Status = domain.ProductStatus(values.String("status"))
	if values.Has("description") {
		base.Description = values.OptionalString("description")
	}
	if values.Has("category_id") {
		base.CategoryID = values.OptionalInt("category_id")
	}
	return base
}
