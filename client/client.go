// Package client drives the inventory HTTP surface the way the browser pages
// do: it loads list pages, keeps the session and anti-forgery token, and
// submits create, update and delete requests.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"inventory/domain"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"
)

const csrfHeader = "X-CSRF-Token"

type Client struct {
	base    *url.URL
	http    *http.Client
	headers http.Header

	mu    sync.RWMutex
	token string
}

type Option func(*Client)

// WithTransport replaces the underlying round tripper.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.http.Transport = rt
	}
}

// WithHeader adds a header to every request, e.g. the identity headers a
// gateway would set.
func WithHeader(key, value string) Option {
	return func(c *Client) {
		c.headers.Set(key, value)
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

func New(baseURL string, opts ...Option) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, err
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	c := &Client{
		base:    base,
		http:    &http.Client{Jar: jar, Timeout: 15 * time.Second},
		headers: make(http.Header),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type Flash struct {
	Success string `json:"success"`
}

type CategoriesPage struct {
	Categories []domain.Category
	Flash      Flash
}

type ProductsPage struct {
	Products []domain.Product
	// Categories are the active categories offered by the product form.
	Categories []domain.Category
	Flash      Flash
}

type envelope[P any] struct {
	Component string `json:"component"`
	Props     P      `json:"props"`
	CSRFToken string `json:"csrf_token"`
	Flash     Flash  `json:"flash"`
}

type categoriesProps struct {
	Categories []domain.Category `json:"categories"`
}

type productsProps struct {
	Products   []domain.Product  `json:"products"`
	Categories []domain.Category `json:"categories"`
}

type saved struct {
	Message  string           `json:"message"`
	Category *domain.Category `json:"category"`
	Product  *domain.Product  `json:"product"`
}

func (c *Client) LoadCategories(ctx context.Context) (CategoriesPage, error) {
	var env envelope[categoriesProps]
	if err := c.loadPage(ctx, "/categories", &env); err != nil {
		return CategoriesPage{}, err
	}
	return CategoriesPage{Categories: env.Props.Categories, Flash: env.Flash}, nil
}

func (c *Client) LoadProducts(ctx context.Context) (ProductsPage, error) {
	var env envelope[productsProps]
	if err := c.loadPage(ctx, "/products", &env); err != nil {
		return ProductsPage{}, err
	}
	return ProductsPage{Products: env.Props.Products, Categories: env.Props.Categories, Flash: env.Flash}, nil
}

func (c *Client) CreateCategory(ctx context.Context, fields map[string]any) (domain.Category, error) {
	var res saved
	if err := c.mutate(ctx, http.MethodPost, "/categories", fields, &res); err != nil {
		return domain.Category{}, err
	}
	return entity(res.Category)
}

func (c *Client) UpdateCategory(ctx context.Context, id int64, fields map[string]any) (domain.Category, error) {
	var res saved
	if err := c.mutate(ctx, http.MethodPut, fmt.Sprintf("/categories/%d", id), fields, &res); err != nil {
		return domain.Category{}, err
	}
	return entity(res.Category)
}

// DeleteCategory returns the flash message of the page the server redirected to.
func (c *Client) DeleteCategory(ctx context.Context, id int64) (string, error) {
	var env envelope[categoriesProps]
	if err := c.mutate(ctx, http.MethodDelete, fmt.Sprintf("/categories/%d", id), nil, &env); err != nil {
		return "", err
	}
	c.setToken(env.CSRFToken)
	return env.Flash.Success, nil
}

func (c *Client) CreateProduct(ctx context.Context, fields map[string]any) (domain.Product, error) {
	var res saved
	if err := c.mutate(ctx, http.MethodPost, "/products", fields, &res); err != nil {
		return domain.Product{}, err
	}
	return entity(res.Product)
}

func (c *Client) UpdateProduct(ctx context.Context, id int64, fields map[string]any) (domain.Product, error) {
	var res saved
	if err := c.mutate(ctx, http.MethodPut, fmt.Sprintf("/products/%d", id), fields, &res); err != nil {
		return domain.Product{}, err
	}
	return entity(res.Product)
}

func (c *Client) DeleteProduct(ctx context.Context, id int64) (string, error) {
	var env envelope[productsProps]
	if err := c.mutate(ctx, http.MethodDelete, fmt.Sprintf("/products/%d", id), nil, &env); err != nil {
		return "", err
	}
	c.setToken(env.CSRFToken)
	return env.Flash.Success, nil
}

func entity[E any](e *E) (E, error) {
	if e == nil {
		var zero E
		return zero, &TransportError{Message: "response carried no entity"}
	}
	return *e, nil
}

func (c *Client) setToken(token string) {
	if token == "" {
		return
	}
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) csrfToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) loadPage(ctx context.Context, path string, out interface{ token() string }) error {
	if err := c.do(ctx, http.MethodGet, path, nil, out); err != nil {
		return err
	}
	c.setToken(out.token())
	return nil
}

func (e *envelope[P]) token() string {
	return e.CSRFToken
}

// mutate sends a write. A token is fetched first if no page was loaded yet.
func (c *Client) mutate(ctx context.Context, method, path string, body any, out any) error {
	if c.csrfToken() == "" {
		var env envelope[json.RawMessage]
		if err := c.loadPage(ctx, indexOf(path), &env); err != nil {
			return err
		}
	}
	return c.do(ctx, method, path, body, out)
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return &TransportError{Err: err}
		}
		reader = bytes.NewReader(raw)
	}

	target := c.base.String() + path
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return &TransportError{Err: err}
	}

	for k, v := range c.headers {
		req.Header[k] = v
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method != http.MethodGet {
		req.Header.Set(csrfHeader, c.csrfToken())
		// Deletes redirect back to the referring page.
		req.Header.Set("Referer", c.base.String()+indexOf(path))
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &TransportError{Status: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
		}
		return nil
	}

	var problem struct {
		Code    string              `json:"code"`
		Message string              `json:"message"`
		Errors  map[string][]string `json:"errors"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&problem)

	switch resp.StatusCode {
	case http.StatusUnprocessableEntity:
		return &ValidationError{Message: problem.Message, Fields: problem.Errors}
	case http.StatusNotFound:
		return &NotFoundError{Message: problem.Message}
	}
	return &TransportError{Status: resp.StatusCode, Code: problem.Code, Message: problem.Message}
}

// indexOf maps "/products/7" to "/products".
func indexOf(path string) string {
	if i := strings.Index(path[1:], "/"); i >= 0 {
		return path[:i+1]
	}
	return path
}
