package repository

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/storefront/catalog/pkg/filter"
)

func TestTranslateCriteria(t *testing.T) {
	min := decimal.NewFromInt(100)
	max := decimal.NewFromInt(500)

	tests := []struct {
		name         string
		criteria     filter.Criteria
		firstArg     int
		expectedSql  string
		expectedArgs []any
		expectedErr  error
	}{
		{
			name:        "given empty criteria should match everything",
			criteria:    filter.Criteria{},
			firstArg:    1,
			expectedSql: "TRUE",
		},
		{
			name: "given category should match id or slug with one placeholder",
			criteria: filter.Criteria{Conditions: []filter.Condition{
				filter.Equals{Field: filter.FieldCategory, Value: "tables"},
			}},
			firstArg:     1,
			expectedSql:  "(p.category_id::text = $1 OR EXISTS (SELECT 1 FROM categories c WHERE c.id = p.category_id AND c.slug = $1))",
			expectedArgs: []any{"tables"},
		},
		{
			name: "given price range with both bounds should render inclusive bounds",
			criteria: filter.Criteria{Conditions: []filter.Condition{
				filter.Range{Field: filter.FieldPrice, Min: &min, Max: &max},
			}},
			firstArg:     3,
			expectedSql:  "(p.price >= $3 AND p.price <= $4)",
			expectedArgs: []any{NumericFromDecimal(min), NumericFromDecimal(max)},
		},
		{
			name: "given price range with only max should render upper bound",
			criteria: filter.Criteria{Conditions: []filter.Condition{
				filter.Range{Field: filter.FieldPrice, Max: &max},
			}},
			firstArg:     1,
			expectedSql:  "(p.price <= $1)",
			expectedArgs: []any{NumericFromDecimal(max)},
		},
		{
			name: "given search should render or over name and description with escaped wildcards",
			criteria: filter.Criteria{Conditions: []filter.Condition{
				filter.Or{Conditions: []filter.Condition{
					filter.Contains{Field: filter.FieldName, Value: "50%_oak"},
					filter.Contains{Field: filter.FieldDescription, Value: "50%_oak"},
				}},
			}},
			firstArg:     1,
			expectedSql:  "(p.name ILIKE '%' || $1 || '%' OR p.description ILIKE '%' || $2 || '%')",
			expectedArgs: []any{`50\%\_oak`, `50\%\_oak`},
		},
		{
			name: "given flags and tags should join conditions with and",
			criteria: filter.Criteria{Conditions: []filter.Condition{
				filter.Equals{Field: filter.FieldInStock, Value: true},
				filter.Equals{Field: filter.FieldFeatured, Value: true},
				filter.AnyOf{Field: filter.FieldTag, Values: []string{"oak", "teak"}},
			}},
			firstArg: 1,
			expectedSql: "p.in_stock = $1 AND p.featured = $2 AND " +
				"EXISTS (SELECT 1 FROM product_tags t WHERE t.product_id = p.id AND t.tag = ANY($3))",
			expectedArgs: []any{true, true, []string{"oak", "teak"}},
		},
		{
			name: "given contains on unsupported field should return error",
			criteria: filter.Criteria{Conditions: []filter.Condition{
				filter.Contains{Field: filter.FieldTag, Value: "oak"},
			}},
			firstArg:    1,
			expectedErr: ErrUnsupportedField,
		},
		{
			name: "given flag with non bool value should return error",
			criteria: filter.Criteria{Conditions: []filter.Condition{
				filter.Equals{Field: filter.FieldFeatured, Value: "yes"},
			}},
			firstArg:    1,
			expectedErr: ErrUnsupportedCondition,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			sql, args, err := TranslateCriteria(test.criteria, test.firstArg)
			if test.expectedErr != nil {
				require.ErrorIs(t, err, test.expectedErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.expectedSql, sql)
			assert.Equal(t, test.expectedArgs, args)
		})
	}
}

func TestTranslateSort(t *testing.T) {
	sql, err := TranslateSort(filter.Sort{Field: filter.FieldPrice, Descending: true})
	require.NoError(t, err)
	assert.Equal(t, "p.price DESC NULLS LAST, p.id ASC", sql)

	sql, err = TranslateSort(filter.Sort{Field: filter.FieldName})
	require.NoError(t, err)
	assert.Equal(t, "p.name ASC NULLS LAST, p.id ASC", sql)

	_, err = TranslateSort(filter.Sort{Field: filter.FieldTag})
	assert.ErrorIs(t, err, ErrUnsupportedField)
}
