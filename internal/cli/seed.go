package cli

import (
	"context"
	"errors"
	"fmt"
	"inventory/app/category"
	"inventory/app/product"
	"inventory/internal/storage"
	"inventory/pkg/httperror"
	"inventory/pkg/validation"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type seedFile struct {
	Categories []seedCategory `yaml:"categories"`
	Products   []seedProduct  `yaml:"products"`
}

type seedCategory struct {
	Name        string  `yaml:"name"`
	Description *string `yaml:"description"`
	Color       *string `yaml:"color"`
	Active      *bool   `yaml:"active"`
}

// seedProduct names its category instead of referencing an id.
type seedProduct struct {
	Name        string  `yaml:"name"`
	Description *string `yaml:"description"`
	Price       string  `yaml:"price"`
	Stock       int64   `yaml:"stock"`
	Status      string  `yaml:"status"`
	Category    string  `yaml:"category"`
}

type seedResult struct {
	CategoriesCreated int
	CategoriesSkipped int
	ProductsCreated   int
}

var seedFilePath string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load categories and products from a YAML file",
	Long:  "Creates every category and product in the file through the same validation as the HTTP API. Categories whose name already exists are skipped.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		f, err := os.Open(seedFilePath)
		if err != nil {
			return err
		}
		defer f.Close()

		store, err := storage.Open(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		res, err := seed(cmd.Context(), store, f)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Categories: %d created, %d skipped\nProducts: %d created\n",
			res.CategoriesCreated, res.CategoriesSkipped, res.ProductsCreated)
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVarP(&seedFilePath, "file", "f", "seed.yaml", "seed file")
}

func seed(ctx context.Context, store storage.Store, r io.Reader) (seedResult, error) {
	var res seedResult

	var file seedFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return res, fmt.Errorf("invalid seed file: %w", err)
	}

	createCategory := category.NewCreateCategoryHandler(store, nil)
	createProduct := product.NewCreateProductHandler(store, nil)

	ids := make(map[string]int64)
	categories, err := store.GetCategories(ctx)
	if err != nil {
		return res, err
	}
	for _, c := range categories {
		ids[c.Name] = c.ID
	}

	for _, c := range file.Categories {
		if _, ok := ids[c.Name]; ok {
			res.CategoriesSkipped++
			continue
		}

		fields := map[string]any{"name": c.Name}
		if c.Description != nil {
			fields["description"] = *c.Description
		}
		if c.Color != nil {
			fields["color"] = *c.Color
		}
		if c.Active != nil {
			fields["active"] = *c.Active
		}

		created, err := createCategory.Handle(ctx, &category.CreateCategoryRequest{Fields: fields})
		if err != nil {
			return res, describe(fmt.Sprintf("category %q", c.Name), err)
		}
		ids[created.Category.Name] = created.Category.ID
		res.CategoriesCreated++
	}

	for _, p := range file.Products {
		fields := map[string]any{
			"name":   p.Name,
			"price":  p.Price,
			"stock":  p.Stock,
			"status": p.Status,
		}
		if p.Description != nil {
			fields["description"] = *p.Description
		}
		if p.Category != "" {
			id, ok := ids[p.Category]
			if !ok {
				return res, fmt.Errorf("product %q: unknown category %q", p.Name, p.Category)
			}
			fields["category_id"] = id
		}

		if _, err := createProduct.Handle(ctx, &product.CreateProductRequest{Fields: fields}); err != nil {
			return res, describe(fmt.Sprintf("product %q", p.Name), err)
		}
		res.ProductsCreated++
	}

	return res, nil
}

func describe(what string, err error) error {
	var httpErr *httperror.Error
	if errors.As(err, &httpErr) && httpErr.Fields != nil {
		return fmt.Errorf("%s: %w", what, validation.Errors(httpErr.Fields))
	}
	return fmt.Errorf("%s: %w", what, err)
}
