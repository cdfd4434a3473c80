package filter

import (
	"net/url"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDefaults(t *testing.T) {
	query := Build(ParseParams(url.Values{}))

	assert.True(t, query.Where.IsEmpty())
	assert.Equal(t, Sort{Field: FieldCreatedAt, Descending: true}, query.Sort)
	assert.Equal(t, "-createdAt", query.Sort.String())
	assert.Equal(t, 1, query.Page)
	assert.Equal(t, 12, query.Limit)
	assert.Equal(t, 0, query.Offset())
}

func TestResolveSort(t *testing.T) {
	tests := map[SortKey]string{
		SortNewest:       "-createdAt",
		SortOldest:       "createdAt",
		SortPriceLowHigh: "price",
		SortPriceHighLow: "-price",
		SortNameAZ:       "name",
		SortNameZA:       "-name",
		"":               "-createdAt",
		"popularity":     "-createdAt",
	}
	for key, expected := range tests {
		assert.Equal(t, expected, ResolveSort(key).String(), "sort key=%q", key)
	}
}

func TestParseParams(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		expected func(t *testing.T, p Params)
	}{
		{
			name:  "given invalid page should default to first page",
			query: "page=abc",
			expected: func(t *testing.T, p Params) {
				assert.Equal(t, 1, p.Page)
			},
		},
		{
			name:  "given negative page should default to first page",
			query: "page=-3",
			expected: func(t *testing.T, p Params) {
				assert.Equal(t, 1, p.Page)
			},
		},
		{
			name:  "given page should keep it",
			query: "page=4",
			expected: func(t *testing.T, p Params) {
				assert.Equal(t, 4, p.Page)
			},
		},
		{
			name:  "given unparsable prices should ignore them",
			query: "minPrice=cheap&maxPrice=500",
			expected: func(t *testing.T, p Params) {
				assert.Nil(t, p.MinPrice)
				require.NotNil(t, p.MaxPrice)
				assert.True(t, p.MaxPrice.Equal(decimal.NewFromInt(500)))
			},
		},
		{
			name:  "given flags other than true should ignore them",
			query: "inStock=1&featured=yes",
			expected: func(t *testing.T, p Params) {
				assert.False(t, p.InStock)
				assert.False(t, p.Featured)
			},
		},
		{
			name:  "given tags with blanks should drop empty entries",
			query: "tags=glass,, metal ,",
			expected: func(t *testing.T, p Params) {
				assert.Equal(t, []string{"glass", "metal"}, p.Tags)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := url.ParseQuery(tt.query)
			require.NoError(t, err)
			tt.expected(t, ParseParams(values))
		})
	}
}

func TestBuildConditions(t *testing.T) {
	values, err := url.ParseQuery(
		"category=cat-1&minPrice=100&maxPrice=500&search=vase&inStock=true&featured=true&tags=glass,metal&sortBy=price-high-low&page=2",
	)
	require.NoError(t, err)

	query := Build(ParseParams(values))
	min, max := decimal.NewFromInt(100), decimal.NewFromInt(500)

	require.Len(t, query.Where.Conditions, 6)
	assert.Equal(t, Equals{Field: FieldCategory, Value: "cat-1"}, query.Where.Conditions[0])
	rng, ok := query.Where.Conditions[1].(Range)
	require.True(t, ok)
	assert.True(t, rng.Min.Equal(min))
	assert.True(t, rng.Max.Equal(max))
	assert.Equal(t, Or{Conditions: []Condition{
		Contains{Field: FieldName, Value: "vase"},
		Contains{Field: FieldDescription, Value: "vase"},
	}}, query.Where.Conditions[2])
	assert.Equal(t, Equals{Field: FieldInStock, Value: true}, query.Where.Conditions[3])
	assert.Equal(t, Equals{Field: FieldFeatured, Value: true}, query.Where.Conditions[4])
	assert.Equal(t, AnyOf{Field: FieldTag, Values: []string{"glass", "metal"}}, query.Where.Conditions[5])

	assert.Equal(t, "-price", query.Sort.String())
	assert.Equal(t, 2, query.Page)
	assert.Equal(t, 12, query.Offset())
}

func TestBuildCategoryAll(t *testing.T) {
	query := Build(ParseParams(url.Values{"category": {"all"}}))
	assert.True(t, query.Where.IsEmpty())
}

func TestTotalPages(t *testing.T) {
	query := Build(Params{})
	assert.Equal(t, 0, query.TotalPages(0))
	assert.Equal(t, 1, query.TotalPages(12))
	assert.Equal(t, 2, query.TotalPages(13))
}
