// Package server wires the category and product handlers to a fiber app.
package server

import (
	"context"
	"inventory/app/category"
	"inventory/app/product"
	"inventory/domain"
	"inventory/internal/middleware"
	"inventory/pkg/events"
	"inventory/pkg/httperror"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/session"
)

const (
	CSRFHeader        = "X-CSRF-Token"
	SessionCookieName = "inventory_session"
	CSRFCookieName    = "inventory_csrf"

	csrfContextKey = "csrf"
	sessionTTL     = 2 * time.Hour
)

// Repository is everything the HTTP surface needs from storage.
type Repository interface {
	category.Repository
	product.Repository
	Ping(ctx context.Context) error
}

type Config struct {
	CategoryDeletePolicy   domain.DeletePolicy
	RequireIdentityHeaders bool
	CookieSecure           bool
	// SessionStorage backs sessions and anti-forgery tokens. Nil keeps them
	// in process memory.
	SessionStorage fiber.Storage
	// Renderer renders list pages. Nil renders them as JSON.
	Renderer Renderer
}

func New(cfg Config, repo Repository, publisher events.Publisher) *fiber.App {
	app := fiber.New(fiber.Config{
		IdleTimeout:  5 * time.Second,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		Concurrency:  256 * 1024,
		ErrorHandler: ErrorHandler,
	})

	store := session.New(session.Config{
		Storage:        cfg.SessionStorage,
		Expiration:     sessionTTL,
		KeyLookup:      "cookie:" + SessionCookieName,
		CookieSecure:   cfg.CookieSecure,
		CookieHTTPOnly: true,
		CookieSameSite: fiber.CookieSameSiteLaxMode,
	})

	renderer := cfg.Renderer
	if renderer == nil {
		renderer = JSONRenderer{}
	}
	p := &pages{store: store, renderer: renderer}

	app.Use(requestid.New())
	app.Use(middleware.NewRequestLogger())
	app.Use(recover.New())

	app.Get("/healthz", healthz(repo, publisher))

	if cfg.RequireIdentityHeaders {
		app.Use(middleware.NewIdentityMiddleware())
	}

	app.Use(csrf.New(csrf.Config{
		KeyLookup:         "header:" + CSRFHeader,
		CookieName:        CSRFCookieName,
		CookieSecure:      cfg.CookieSecure,
		CookieHTTPOnly:    true,
		CookieSameSite:    fiber.CookieSameSiteLaxMode,
		CookieSessionOnly: true,
		Expiration:        sessionTTL,
		Session:           store,
		SessionKey:        "csrf_token",
		ContextKey:        csrfContextKey,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return writeError(c, httperror.Forbidden(
				"csrf.token_mismatch",
				"CSRF token mismatch.",
				nil,
			))
		},
	}))

	policy := cfg.CategoryDeletePolicy
	if policy == "" {
		policy = domain.DeletePolicyKeep
	}

	getCategoriesHandler := category.NewGetCategoriesHandler(repo)
	createCategoryHandler := category.NewCreateCategoryHandler(repo, publisher)
	updateCategoryHandler := category.NewUpdateCategoryHandler(repo, publisher)
	deleteCategoryHandler := category.NewDeleteCategoryHandler(repo, publisher, policy)

	getProductsHandler := product.NewGetProductsHandler(repo)
	createProductHandler := product.NewCreateProductHandler(repo, publisher)
	updateProductHandler := product.NewUpdateProductHandler(repo, publisher)
	deleteProductHandler := product.NewDeleteProductHandler(repo, publisher)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect("/products", fiber.StatusFound)
	})

	categories := app.Group("/categories")
	categories.Get("/", page[category.GetCategoriesRequest, category.GetCategoriesResponse](p, "Categories/Index", getCategoriesHandler))
	categories.Post("/", handle[category.CreateCategoryRequest, category.CreateCategoryResponse](createCategoryHandler))
	categories.Put("/:id<int>", handle[category.UpdateCategoryRequest, category.UpdateCategoryResponse](updateCategoryHandler))
	categories.Delete("/:id<int>", redirect[category.DeleteCategoryRequest, category.DeleteCategoryResponse](p, deleteCategoryHandler))

	products := app.Group("/products")
	products.Get("/", page[product.GetProductsRequest, product.GetProductsResponse](p, "Products/Index", getProductsHandler))
	products.Post("/", handle[product.CreateProductRequest, product.CreateProductResponse](createProductHandler))
	products.Put("/:id<int>", handle[product.UpdateProductRequest, product.UpdateProductResponse](updateProductHandler))
	products.Delete("/:id<int>", redirect[product.DeleteProductRequest, product.DeleteProductResponse](p, deleteProductHandler))

	return app
}

func csrfToken(c *fiber.Ctx) string {
	token, _ := c.Locals(csrfContextKey).(string)
	return token
}
