package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"inventory/domain"
	"inventory/infra/memory"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// browser carries cookies and the anti-forgery token between requests the
// way a page and its scripts would.
type browser struct {
	t       *testing.T
	app     *fiber.App
	cookies map[string]string
	token   string
	headers map[string]string
}

func newBrowser(t *testing.T, cfg Config) (*browser, *memory.Repository) {
	t.Helper()

	repo := memory.NewRepository()
	app := New(cfg, repo, nil)

	return &browser{
		t:       t,
		app:     app,
		cookies: map[string]string{},
		headers: map[string]string{},
	}, repo
}

func (b *browser) do(method, target string, body any, extra map[string]string) *http.Response {
	b.t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(b.t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	req.Header.Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)
	for name, value := range b.cookies {
		req.AddCookie(&http.Cookie{Name: name, Value: value})
	}
	for k, v := range b.headers {
		req.Header.Set(k, v)
	}
	for k, v := range extra {
		req.Header.Set(k, v)
	}

	resp, err := b.app.Test(req, -1)
	require.NoError(b.t, err)

	for _, c := range resp.Cookies() {
		if c.MaxAge < 0 || c.Value == "" {
			delete(b.cookies, c.Name)
			continue
		}
		b.cookies[c.Name] = c.Value
	}
	return resp
}

func (b *browser) visit(target string) Page {
	b.t.Helper()

	resp := b.do(http.MethodGet, target, nil, nil)
	require.Equal(b.t, http.StatusOK, resp.StatusCode)

	var p Page
	require.NoError(b.t, json.NewDecoder(resp.Body).Decode(&p))
	b.token = p.CSRFToken
	return p
}

func (b *browser) send(method, target string, body any) *http.Response {
	b.t.Helper()
	return b.do(method, target, body, map[string]string{CSRFHeader: b.token})
}

func decode(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestCategoriesPageCarriesToken(t *testing.T) {
	b, _ := newBrowser(t, Config{})

	p := b.visit("/categories")

	assert.Equal(t, "Categories/Index", p.Component)
	assert.Equal(t, "/categories", p.URL)
	assert.NotEmpty(t, p.CSRFToken)
	assert.Empty(t, p.Flash.Success)

	props, ok := p.Props.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, []any{}, props["categories"])
}

func TestMutationsRequireToken(t *testing.T) {
	b, repo := newBrowser(t, Config{})
	b.visit("/categories")

	resp := b.do(http.MethodPost, "/categories", map[string]any{"name": "Tools"}, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "csrf.token_mismatch", decode(t, resp)["code"])

	resp = b.do(http.MethodPost, "/categories", map[string]any{"name": "Tools"}, map[string]string{CSRFHeader: "forged"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	categories, err := repo.GetCategories(t.Context())
	require.NoError(t, err)
	assert.Empty(t, categories)
}

func TestCreateCategory(t *testing.T) {
	b, _ := newBrowser(t, Config{})
	b.visit("/categories")

	resp := b.send(http.MethodPost, "/categories", map[string]any{"name": "Electronics", "active": true})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	body := decode(t, resp)
	assert.Equal(t, "Category created successfully!", body["message"])
	created := body["category"].(map[string]any)
	assert.Equal(t, "Electronics", created["name"])
	assert.Nil(t, created["description"])
	assert.Nil(t, created["color"])
	assert.Equal(t, true, created["active"])

	resp = b.send(http.MethodPost, "/categories", map[string]any{"name": "Electronics"})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	body = decode(t, resp)
	assert.Equal(t, "category.create.validation_failed", body["code"])
	assert.Equal(t, map[string]any{
		"name": []any{"The name has already been taken."},
	}, body["errors"])
}

func TestRejectsMalformedBody(t *testing.T) {
	b, _ := newBrowser(t, Config{})
	b.visit("/categories")

	resp := b.do(http.MethodPost, "/categories", nil, map[string]string{
		CSRFHeader:              b.token,
		fiber.HeaderContentType: fiber.MIMEApplicationJSON,
	})
	// An empty body is an empty field map.
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	req := httptest.NewRequest(http.MethodPost, "/categories", bytes.NewReader([]byte(`[1,2]`)))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	req.Header.Set(CSRFHeader, b.token)
	for name, value := range b.cookies {
		req.AddCookie(&http.Cookie{Name: name, Value: value})
	}
	res, err := b.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Equal(t, "request.invalid_body", decode(t, res)["code"])
}

func TestUpdateMissingCategory(t *testing.T) {
	b, _ := newBrowser(t, Config{})
	b.visit("/categories")

	resp := b.send(http.MethodPut, "/categories/404", map[string]any{"name": ""})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "category.update.not_found", decode(t, resp)["code"])

	resp = b.send(http.MethodPut, "/categories/abc", map[string]any{"name": "x"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDeleteRedirectsBackWithFlash(t *testing.T) {
	b, repo := newBrowser(t, Config{})
	c, err := repo.CreateCategory(t.Context(), domain.CategoryInput{Name: "Tools", Active: true})
	require.NoError(t, err)

	b.visit("/categories")

	resp := b.do(http.MethodDelete, fmt.Sprintf("/categories/%d", c.ID), nil, map[string]string{
		CSRFHeader:          b.token,
		fiber.HeaderReferer: "http://example.com/categories?sort=name",
	})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/categories?sort=name", resp.Header.Get(fiber.HeaderLocation))

	p := b.visit("/categories")
	assert.Equal(t, "Category deleted successfully!", p.Flash.Success)

	p = b.visit("/categories")
	assert.Empty(t, p.Flash.Success)

	resp = b.send(http.MethodDelete, fmt.Sprintf("/categories/%d", c.ID), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDeleteWithoutRefererFallsBackToIndex(t *testing.T) {
	b, repo := newBrowser(t, Config{})
	p, err := repo.CreateProduct(t.Context(), domain.ProductInput{Name: "Cable", Status: domain.ProductStatusActive})
	require.NoError(t, err)

	b.visit("/products")

	resp := b.do(http.MethodDelete, fmt.Sprintf("/products/%d", p.ID), nil, map[string]string{
		CSRFHeader:          b.token,
		fiber.HeaderReferer: "https://elsewhere.test/phish",
	})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/products", resp.Header.Get(fiber.HeaderLocation))

	page := b.visit("/products")
	assert.Equal(t, "Product deleted successfully!", page.Flash.Success)
}

func TestProductScenario(t *testing.T) {
	b, _ := newBrowser(t, Config{})
	b.visit("/categories")

	resp := b.send(http.MethodPost, "/categories", map[string]any{"name": "Electronics", "active": true})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	categoryID := decode(t, resp)["category"].(map[string]any)["id"]

	resp = b.send(http.MethodPost, "/products", map[string]any{
		"name":        "Cable",
		"price":       9.99,
		"stock":       100,
		"status":      "active",
		"category_id": categoryID,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode(t, resp)["product"].(map[string]any)
	assert.Equal(t, "Electronics", created["category"].(map[string]any)["name"])
	assert.Equal(t, "9.99", created["price"])

	resp = b.send(http.MethodPost, "/products", map[string]any{
		"name": "Broken", "price": -1, "stock": -2, "status": "sold", "category_id": 999,
	})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	errs := decode(t, resp)["errors"].(map[string]any)
	assert.Contains(t, errs, "price")
	assert.Contains(t, errs, "stock")
	assert.Contains(t, errs, "status")
	assert.Contains(t, errs, "category_id")

	page := b.visit("/products")
	assert.Equal(t, "Products/Index", page.Component)
	props := page.Props.(map[string]any)
	assert.Len(t, props["products"], 1)
	assert.Len(t, props["categories"], 1)
}

func TestProductPriceHasTwoDecimals(t *testing.T) {
	b, _ := newBrowser(t, Config{})
	b.visit("/products")

	for input, want := range map[any]string{9.9: "9.90", 10: "10.00", "12.50": "12.50", 0.005: "0.01"} {
		resp := b.send(http.MethodPost, "/products", map[string]any{
			"name": "Cable", "price": input, "stock": 1, "status": "active",
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		assert.Equal(t, want, decode(t, resp)["product"].(map[string]any)["price"], "price %v", input)
	}

	products := b.visit("/products").Props.(map[string]any)["products"].([]any)
	require.Len(t, products, 4)
	for _, p := range products {
		assert.Regexp(t, `^\d+\.\d{2}$`, p.(map[string]any)["price"])
	}
}

func TestProductRejectsValuesBeyondColumnRange(t *testing.T) {
	b, repo := newBrowser(t, Config{})
	b.visit("/products")

	resp := b.send(http.MethodPost, "/products", map[string]any{
		"name": "Vault", "price": "100000000", "stock": 2147483648, "status": "active",
	})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	errs := decode(t, resp)["errors"].(map[string]any)
	assert.Equal(t, []any{"The price field must not be greater than 99999999.99."}, errs["price"])
	assert.Equal(t, []any{"The stock field must not be greater than 2147483647."}, errs["stock"])

	resp = b.send(http.MethodPost, "/products", map[string]any{
		"name": "Vault", "price": "99999999.99", "stock": 2147483647, "status": "active",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	products, err := repo.GetProducts(t.Context())
	require.NoError(t, err)
	assert.Len(t, products, 1)
}

func TestIdentityHeadersRequired(t *testing.T) {
	b, _ := newBrowser(t, Config{RequireIdentityHeaders: true})

	resp := b.do(http.MethodGet, "/categories", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "identity.headers_missing", decode(t, resp)["code"])

	b.headers["User-ID"] = "42"
	b.headers["User-Email"] = "ops@example.com"
	b.visit("/categories")

	resp = b.do(http.MethodGet, "/healthz", nil, map[string]string{"User-ID": ""})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHealthz(t *testing.T) {
	b, _ := newBrowser(t, Config{})

	resp := b.do(http.MethodGet, "/healthz", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", decode(t, resp)["status"])
	assert.NotEmpty(t, resp.Header.Get(fiber.HeaderXRequestID))
}

func TestUnknownRoute(t *testing.T) {
	b, _ := newBrowser(t, Config{})

	resp := b.do(http.MethodGet, "/nope", nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "route.not_found", decode(t, resp)["code"])
}
