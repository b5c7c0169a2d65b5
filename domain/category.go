package domain

import "time"

type Category struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description" db:"description"`
	Color       *string   `json:"color" db:"color"`
	Active      bool      `json:"active" db:"active"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// CategoryInput is the accepted value set for a create or update request.
type CategoryInput struct {
	Name        string  `db:"name"`
	Description *string `db:"description"`
	Color       *string `db:"color"`
	Active      bool    `db:"active"`
}

// DeletePolicy decides what happens to products that still reference a
// category when that category is deleted.
type DeletePolicy string

const (
	// DeletePolicyKeep leaves products.category_id untouched, so it may dangle.
	DeletePolicyKeep DeletePolicy = "keep"
	// DeletePolicyRestrict refuses to delete a category that is still referenced.
	DeletePolicyRestrict DeletePolicy = "restrict"
	// DeletePolicyNullify clears the reference on every product before deleting.
	DeletePolicyNullify DeletePolicy = "nullify"
)

func ParseDeletePolicy(s string) (DeletePolicy, bool) {
	switch p := DeletePolicy(s); p {
	case DeletePolicyKeep, DeletePolicyRestrict, DeletePolicyNullify:
		return p, true
	case "":
		return DeletePolicyKeep, true
	}
	return "", false
}
