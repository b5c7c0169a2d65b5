package client

import (
	"context"
	"inventory/domain"
	"strings"
)

const DefaultCategoryColor = "#000000"

// CategoryData is the editable state of the category form.
type CategoryData struct {
	Name        string
	Description string
	Color       string
	Active      bool
}

func (d CategoryData) fields() map[string]any {
	return map[string]any{
		"name":        d.Name,
		"description": nullable(d.Description),
		"color":       nullable(d.Color),
		"active":      d.Active,
	}
}

type CategoryForm struct {
	*Form[CategoryData, domain.Category]
}

func NewCategoryForm(c *Client) *CategoryForm {
	return &CategoryForm{NewForm(FormConfig[CategoryData, domain.Category]{
		Defaults: func() CategoryData {
			return CategoryData{Color: DefaultCategoryColor, Active: true}
		},
		Seed: func(c domain.Category) (int64, CategoryData) {
			return c.ID, CategoryData{
				Name:        c.Name,
				Description: deref(c.Description),
				Color:       deref(c.Color),
				Active:      c.Active,
			}
		},
		Check: func(d CategoryData) map[string]string {
			errs := map[string]string{}
			if strings.TrimSpace(d.Name) == "" {
				errs["name"] = "The name field is required."
			}
			return errs
		},
		Create: func(ctx context.Context, d CategoryData) (domain.Category, error) {
			return c.CreateCategory(ctx, d.fields())
		},
		Update: func(ctx context.Context, id int64, d CategoryData) (domain.Category, error) {
			return c.UpdateCategory(ctx, id, d.fields())
		},
	})}
}

func (f *CategoryForm) SetName(v string) {
	f.set("name", func(d *CategoryData) { d.Name = v })
}

func (f *CategoryForm) SetDescription(v string) {
	f.set("description", func(d *CategoryData) { d.Description = v })
}

func (f *CategoryForm) SetColor(v string) {
	f.set("color", func(d *CategoryData) { d.Color = v })
}

func (f *CategoryForm) SetActive(v bool) {
	f.set("active", func(d *CategoryData) { d.Active = v })
}

func nullable(s string) any {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
