package client

import (
	"context"
	"inventory/domain"
)

const (
	ConfirmDeleteCategory = "Are you sure you want to delete this category?"
	ConfirmDeleteProduct  = "Are you sure you want to delete this product?"
)

// ConfirmFunc asks the user before a destructive action.
type ConfirmFunc func(prompt string) bool

type CategoriesView struct {
	client *Client

	Items  *List[domain.Category]
	Create *CategoryForm
	Edit   *CategoryForm
	// Flash is the last success message received from the server.
	Flash string
}

func NewCategoriesView(c *Client) *CategoriesView {
	return &CategoriesView{
		client: c,
		Items:  NewList(func(c domain.Category) int64 { return c.ID }),
		Create: NewCategoryForm(c),
		Edit:   NewCategoryForm(c),
	}
}

// Load replaces the local rows with the server's.
func (v *CategoriesView) Load(ctx context.Context) error {
	page, err := v.client.LoadCategories(ctx)
	if err != nil {
		return err
	}
	v.Items.Reset(page.Categories)
	v.Flash = page.Flash.Success
	return nil
}

func (v *CategoriesView) SubmitCreate(ctx context.Context) error {
	return v.Create.Submit(ctx, v.Items.Prepend)
}

func (v *CategoriesView) SubmitEdit(ctx context.Context) error {
	return v.Edit.Submit(ctx, func(c domain.Category) { v.Items.Replace(c) })
}

// Delete asks confirm, then deletes and drops the row locally. It reports
// whether the row was deleted.
func (v *CategoriesView) Delete(ctx context.Context, id int64, confirm ConfirmFunc) (bool, error) {
	if confirm != nil && !confirm(ConfirmDeleteCategory) {
		return false, nil
	}

	flash, err := v.client.DeleteCategory(ctx, id)
	if err != nil {
		return false, err
	}
	v.Items.Remove(id)
	v.Flash = flash
	return true, nil
}

type ProductsView struct {
	client *Client

	Items *List[domain.Product]
	// Categories are the choices for the product form's category picker.
	Categories []domain.Category
	Create     *ProductForm
	Edit       *ProductForm
	Flash      string
}

func NewProductsView(c *Client) *ProductsView {
	return &ProductsView{
		client: c,
		Items:  NewList(func(p domain.Product) int64 { return p.ID }),
		Create: NewProductForm(c),
		Edit:   NewProductForm(c),
	}
}

func (v *ProductsView) Load(ctx context.Context) error {
	page, err := v.client.LoadProducts(ctx)
	if err != nil {
		return err
	}
	v.Items.Reset(page.Products)
	v.Categories = page.Categories
	v.Flash = page.Flash.Success
	return nil
}

func (v *ProductsView) SubmitCreate(ctx context.Context) error {
	return v.Create.Submit(ctx, v.Items.Prepend)
}

func (v *ProductsView) SubmitEdit(ctx context.Context) error {
	return v.Edit.Submit(ctx, func(p domain.Product) { v.Items.Replace(p) })
}

func (v *ProductsView) Delete(ctx context.Context, id int64, confirm ConfirmFunc) (bool, error) {
	if confirm != nil && !confirm(ConfirmDeleteProduct) {
		return false, nil
	}

	flash, err := v.client.DeleteProduct(ctx, id)
	if err != nil {
		return false, err
	}
	v.Items.Remove(id)
	v.Flash = flash
	return true, nil
}
