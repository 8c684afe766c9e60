package catalog

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryDecodesStringForm(t *testing.T) {
	var p Product
	err := json.Unmarshal([]byte(`{"name":"Tea","category":"Beverages"}`), &p)
	require.NoError(t, err)
	assert.Equal(t, "", p.Category.ID)
	assert.Equal(t, "Beverages", p.Category.Name)
	assert.Equal(t, "Beverages", p.Category.Display())
}

func TestCategoryDecodesObjectForm(t *testing.T) {
	var p Product
	err := json.Unmarshal([]byte(`{"name":"Tea","category":{"_id":"64ab","name":"Beverages"}}`), &p)
	require.NoError(t, err)
	assert.Equal(t, "64ab", p.Category.ID)
	assert.Equal(t, "Beverages", p.Category.Name)
}

func TestMissingOptionalFieldsDegradeToDefaults(t *testing.T) {
	var p Product
	err := json.Unmarshal([]byte(`{"name":"Bare","price":10}`), &p)
	require.NoError(t, err)

	assert.Equal(t, "Uncategorized", p.Category.Display())
	assert.Equal(t, "N/A", p.DisplaySKU())
	assert.Nil(t, p.ComparePrice)
	assert.True(t, p.CreatedAt.IsZero())
	assert.Equal(t, "", p.PrimaryImage())

	// Malformed records must filter without panicking.
	spec := DefaultFilterSpec()
	spec.Search = "bare"
	assert.Len(t, Filter([]Product{p}, spec), 1)
}

func TestCreatedAtParsesISO8601(t *testing.T) {
	var p Product
	err := json.Unmarshal([]byte(`{"name":"T","createdAt":"2025-03-01T12:00:00Z"}`), &p)
	require.NoError(t, err)
	assert.Equal(t, 2025, p.CreatedAt.Year())
}
