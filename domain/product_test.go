package domain

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductMarshalsFixedScalePrice(t *testing.T) {
	categoryID := int64(3)
	p := Product{
		ID:         7,
		Name:       "Cable",
		Price:      decimal.RequireFromString("9.9"),
		Stock:      4,
		Status:     ProductStatusActive,
		CategoryID: &categoryID,
		Category:   &Category{ID: 3, Name: "Electronics"},
	}

	raw, err := json.Marshal(p)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, "9.90", out["price"])
	assert.Equal(t, float64(7), out["id"])
	assert.Equal(t, "Electronics", out["category"].(map[string]any)["name"])

	var back Product
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.True(t, p.Price.Equal(back.Price))
	assert.Equal(t, int64(3), *back.CategoryID)
}
