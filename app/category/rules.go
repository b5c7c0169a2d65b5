package category

import (
	"context"
	"inventory/domain"
	"inventory/pkg/validation"
)

const (
	NameMaxLength  = 100
	ColorMaxLength = 7
)

// Rules is shared by create and update. exceptID is the id of the category
// being updated (0 on create) and is ignored by the uniqueness check.
func Rules(repository Repository, exceptID int64) validation.Table {
	unique := func(ctx context.Context, v any) (bool, error) {
		exists, err := repository.CategoryNameExists(ctx, v.(string), exceptID)
		return !exists, err
	}

	return validation.Table{
		{Name: "name", Rules: []validation.Rule{
			validation.Required(),
			validation.String(),
			validation.Max(NameMaxLength),
			validation.Custom("unique", "The :attribute has already been taken.", unique),
		}},
		{Name: "description", Rules: []validation.Rule{validation.String()}},
		{Name: "color", Rules: []validation.Rule{validation.String(), validation.Max(ColorMaxLength)}},
		{Name: "active", Rules: []validation.Rule{validation.Boolean()}},
	}
}

// DefaultInput is the starting point for a new category.
func DefaultInput() domain.CategoryInput {
	return domain.CategoryInput{Active: true}
}

// InputFrom copies existing so fields absent from the request keep their value.
func InputFrom(existing domain.Category) domain.CategoryInput {
	return domain.CategoryInput{
		Name:        existing.Name,
		Description: existing.Description,
		Color:       existing.Color,
		Active:      existing.Active,
	}
}

func applyValues(base domain.CategoryInput, values validation.Values) domain.CategoryInput {
	base.Name = values.String("name")
	if values.Has("description") {
		base.Description = values.OptionalString("description")
	}
	if values.Has("color") {
		base.Color = values.OptionalString("color")
	}
	if values.Has("active") {
		base.Active = values.Bool("active", base.Active)
	}
	return base
}
