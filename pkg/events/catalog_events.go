package events

import (
	"time"
)

// Domain constants
const (
	ServiceName     = "inventory"
	CatalogDomain   = "catalog"
	CatalogExchange = "inventory.catalog"
)

// Event names
const (
	CategoryCreatedEvent = "category.created"
	CategoryUpdatedEvent = "category.updated"
	CategoryDeletedEvent = "category.deleted"
	ProductCreatedEvent  = "product.created"
	ProductUpdatedEvent  = "product.updated"
	ProductDeletedEvent  = "product.deleted"
)

// Event versions
const (
	EventVersionV1 = "v1"
)

// CategoryPayload is carried by category.created and category.updated.
type CategoryPayload struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	Color       *string   `json:"color"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CategoryDeletedPayload sets DetachedProducts when the nullify delete policy
// cleared the category from its products.
type CategoryDeletedPayload struct {
	ID               int64     `json:"id"`
	DetachedProducts bool      `json:"detachedProducts"`
	DeletedAt        time.Time `json:"deletedAt"`
}

// ProductPayload is carried by product.created and product.updated.
type ProductPayload struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	Price       string    `json:"price"`
	Stock       int64     `json:"stock"`
	Status      string    `json:"status"`
	CategoryID  *int64    `json:"categoryId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type ProductDeletedPayload struct {
	ID        int64     `json:"id"`
	DeletedAt time.Time `json:"deletedAt"`
}
