package product

import (
	"context"
	"errors"
	"inventory/domain"
	"inventory/infra/memory"
	"inventory/pkg/events"
	"inventory/pkg/httperror"
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tickingClock() func() time.Time {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		now = now.Add(time.Second)
		return now
	}
}

func requireHTTPError(t *testing.T, err error, status int, code string) *httperror.Error {
	t.Helper()

	var httpErr *httperror.Error
	require.True(t, errors.As(err, &httpErr), "expected *httperror.Error, got %v", err)
	assert.Equal(t, status, httpErr.Status)
	assert.Equal(t, code, httpErr.Code)
	return httpErr
}

func seedCategory(t *testing.T, repo *memory.Repository, name string, active bool) domain.Category {
	t.Helper()

	c, err := repo.CreateCategory(context.Background(), domain.CategoryInput{Name: name, Active: active})
	require.NoError(t, err)
	return c
}

func cable(categoryID any) map[string]any {
	return map[string]any{
		"name":        "Cable",
		"description": nil,
		"price":       9.99,
		"stock":       float64(100),
		"status":      "active",
		"category_id": categoryID,
	}
}

func TestCreateProductAttachesCategory(t *testing.T) {
	repo := memory.NewRepository()
	electronics := seedCategory(t, repo, "Electronics", true)

	res, err := NewCreateProductHandler(repo, nil).Handle(context.Background(), &CreateProductRequest{
		Fields: cable(float64(electronics.ID)),
	})
	require.NoError(t, err)

	assert.Equal(t, http.StatusCreated, res.StatusCode())
	assert.Equal(t, MsgCreated, res.Message)
	assert.True(t, res.Product.Price.Equal(decimal.RequireFromString("9.99")))
	assert.Equal(t, int64(100), res.Product.Stock)
	assert.Equal(t, domain.ProductStatusActive, res.Product.Status)
	require.NotNil(t, res.Product.Category)
	assert.Equal(t, "Electronics", res.Product.Category.Name)
}

func TestCreateProductWithoutCategory(t *testing.T) {
	repo := memory.NewRepository()

	res, err := NewCreateProductHandler(repo, nil).Handle(context.Background(), &CreateProductRequest{
		Fields: cable(nil),
	})
	require.NoError(t, err)

	assert.Nil(t, res.Product.CategoryID)
	assert.Nil(t, res.Product.Category)
}

func TestCreateProductRoundsPrice(t *testing.T) {
	repo := memory.NewRepository()
	fields := cable(nil)
	fields["price"] = "10.005"

	res, err := NewCreateProductHandler(repo, nil).Handle(context.Background(), &CreateProductRequest{Fields: fields})
	require.NoError(t, err)

	assert.Equal(t, "10.01", res.Product.Price.StringFixed(2))
}

type payloadPublisher struct {
	payloads []any
}

func (p *payloadPublisher) Publish(_ context.Context, _ string, event *events.Event, _ events.Headers) error {
	p.payloads = append(p.payloads, event.Payload)
	return nil
}

func (p *payloadPublisher) Close() error { return nil }

func TestProductEventCarriesFixedScalePrice(t *testing.T) {
	repo := memory.NewRepository()
	pub := &payloadPublisher{}
	fields := cable(nil)
	fields["price"] = 9.9

	_, err := NewCreateProductHandler(repo, pub).Handle(context.Background(), &CreateProductRequest{Fields: fields})
	require.NoError(t, err)

	require.Len(t, pub.payloads, 1)
	assert.Equal(t, "9.90", pub.payloads[0].(events.ProductPayload).Price)
}

func TestProductBoundsMatchStorage(t *testing.T) {
	testCases := []struct {
		name  string
		field string
		value any
		ok    bool
	}{
		{"largest price", "price", "99999999.99", true},
		{"price over column range", "price", "100000000", false},
		{"price over range by a fraction", "price", "99999999.995", false},
		{"largest stock", "stock", float64(2147483647), true},
		{"stock over column range", "stock", float64(2147483648), false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			repo := memory.NewRepository()
			fields := cable(nil)
			fields[tc.field] = tc.value

			_, err := NewCreateProductHandler(repo, nil).Handle(context.Background(), &CreateProductRequest{Fields: fields})
			if tc.ok {
				require.NoError(t, err)
				return
			}
			httpErr := requireHTTPError(t, err, http.StatusUnprocessableEntity, "product.create.validation_failed")
			assert.Contains(t, httpErr.Fields, tc.field)
		})
	}
}

func TestProductValidationRejectsWithoutWriting(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(map[string]any)
		field  string
	}{
		{"negative price", func(f map[string]any) { f["price"] = -1 }, "price"},
		{"negative stock", func(f map[string]any) { f["stock"] = -5 }, "stock"},
		{"unknown category", func(f map[string]any) { f["category_id"] = 404 }, "category_id"},
		{"bad status", func(f map[string]any) { f["status"] = "sold" }, "status"},
		{"missing name", func(f map[string]any) { delete(f, "name") }, "name"},
	}

	for _, tc := range testCases {
		t.Run(tc.name+" on create", func(t *testing.T) {
			repo := memory.NewRepository()
			fields := cable(nil)
			tc.mutate(fields)

			_, err := NewCreateProductHandler(repo, nil).Handle(context.Background(), &CreateProductRequest{Fields: fields})
			httpErr := requireHTTPError(t, err, http.StatusUnprocessableEntity, "product.create.validation_failed")
			assert.Contains(t, httpErr.Fields, tc.field)

			products, _ := repo.GetProducts(context.Background())
			assert.Empty(t, products)
		})

		t.Run(tc.name+" on update", func(t *testing.T) {
			repo := memory.NewRepository()
			created, err := NewCreateProductHandler(repo, nil).Handle(context.Background(), &CreateProductRequest{Fields: cable(nil)})
			require.NoError(t, err)

			fields := cable(nil)
			tc.mutate(fields)

			_, err = NewUpdateProductHandler(repo, nil).Handle(context.Background(), &UpdateProductRequest{ID: created.Product.ID, Fields: fields})
			httpErr := requireHTTPError(t, err, http.StatusUnprocessableEntity, "product.update.validation_failed")
			assert.Contains(t, httpErr.Fields, tc.field)

			stored, err := repo.GetProduct(context.Background(), created.Product.ID)
			require.NoError(t, err)
			assert.Equal(t, created.Product, stored)
		})
	}
}

func TestUpdateProductRoundTrip(t *testing.T) {
	repo := memory.NewRepository(memory.WithClock(tickingClock()))
	electronics := seedCategory(t, repo, "Electronics", true)
	fields := cable(electronics.ID)

	created, err := NewCreateProductHandler(repo, nil).Handle(context.Background(), &CreateProductRequest{Fields: fields})
	require.NoError(t, err)

	updated, err := NewUpdateProductHandler(repo, nil).Handle(context.Background(), &UpdateProductRequest{ID: created.Product.ID, Fields: fields})
	require.NoError(t, err)

	assert.Equal(t, MsgUpdated, updated.Message)
	assert.True(t, updated.Product.UpdatedAt.After(created.Product.UpdatedAt))
	updated.Product.UpdatedAt = created.Product.UpdatedAt
	assert.Equal(t, created.Product, updated.Product)
}

func TestUpdateProductCanClearCategory(t *testing.T) {
	repo := memory.NewRepository()
	electronics := seedCategory(t, repo, "Electronics", true)

	created, err := NewCreateProductHandler(repo, nil).Handle(context.Background(), &CreateProductRequest{Fields: cable(electronics.ID)})
	require.NoError(t, err)

	updated, err := NewUpdateProductHandler(repo, nil).Handle(context.Background(), &UpdateProductRequest{ID: created.Product.ID, Fields: cable(nil)})
	require.NoError(t, err)

	assert.Nil(t, updated.Product.CategoryID)
	assert.Nil(t, updated.Product.Category)
}

func TestMissingProduct(t *testing.T) {
	repo := memory.NewRepository()

	_, err := NewUpdateProductHandler(repo, nil).Handle(context.Background(), &UpdateProductRequest{ID: 7, Fields: cable(nil)})
	requireHTTPError(t, err, http.StatusNotFound, "product.update.not_found")

	_, err = NewDeleteProductHandler(repo, nil).Handle(context.Background(), &DeleteProductRequest{ID: 7})
	requireHTTPError(t, err, http.StatusNotFound, "product.destroy.not_found")
}

func TestDeleteProduct(t *testing.T) {
	repo := memory.NewRepository()
	created, err := NewCreateProductHandler(repo, nil).Handle(context.Background(), &CreateProductRequest{Fields: cable(nil)})
	require.NoError(t, err)

	res, err := NewDeleteProductHandler(repo, nil).Handle(context.Background(), &DeleteProductRequest{ID: created.Product.ID})
	require.NoError(t, err)
	assert.Equal(t, MsgDeleted, res.FlashMessage())

	_, err = repo.GetProduct(context.Background(), created.Product.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetProductsListsNewestFirstWithActiveCategories(t *testing.T) {
	repo := memory.NewRepository(memory.WithClock(tickingClock()))
	electronics := seedCategory(t, repo, "Electronics", true)
	seedCategory(t, repo, "Archived", false)

	create := NewCreateProductHandler(repo, nil)
	first, err := create.Handle(context.Background(), &CreateProductRequest{Fields: cable(electronics.ID)})
	require.NoError(t, err)
	fields := cable(nil)
	fields["name"] = "Plug"
	second, err := create.Handle(context.Background(), &CreateProductRequest{Fields: fields})
	require.NoError(t, err)

	res, err := NewGetProductsHandler(repo).Handle(context.Background(), &GetProductsRequest{})
	require.NoError(t, err)

	require.Len(t, res.Products, 2)
	assert.Equal(t, second.Product.ID, res.Products[0].ID)
	assert.Equal(t, first.Product.ID, res.Products[1].ID)
	require.NotNil(t, res.Products[1].Category)
	assert.Equal(t, "Electronics", res.Products[1].Category.Name)

	require.Len(t, res.Categories, 1)
	assert.Equal(t, "Electronics", res.Categories[0].Name)
}
