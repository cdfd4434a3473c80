package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Alturino/storefront/catalog/pkg/filter"
)

var (
	ErrUnsupportedField     = errors.New("unsupported filter field")
	ErrUnsupportedCondition = errors.New("unsupported filter condition")
)

var sortColumns = map[filter.Field]string{
	filter.FieldCreatedAt: "p.created_at",
	filter.FieldPrice:     "p.price",
	filter.FieldName:      "p.name",
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// TranslateCriteria renders criteria as a SQL boolean expression over the products table aliased
// as p. Placeholders start at $firstArg. An empty criteria yields "TRUE".
func TranslateCriteria(criteria filter.Criteria, firstArg int) (string, []any, error) {
	t := translator{next: firstArg}
	if criteria.IsEmpty() {
		return "TRUE", nil, nil
	}
	parts := make([]string, 0, len(criteria.Conditions))
	for _, cond := range criteria.Conditions {
		sql, err := t.condition(cond)
		if err != nil {
			return "", nil, err
		}
		parts = append(parts, sql)
	}
	return strings.Join(parts, " AND "), t.args, nil
}

// TranslateSort renders an ORDER BY list. Ties are broken by id so pages are stable.
func TranslateSort(sort filter.Sort) (string, error) {
	column, ok := sortColumns[sort.Field]
	if !ok {
		return "", fmt.Errorf("failed translating sort=%s with error=%w", sort, ErrUnsupportedField)
	}
	direction := "ASC"
	if sort.Descending {
		direction = "DESC"
	}
	return fmt.Sprintf("%s %s NULLS LAST, p.id ASC", column, direction), nil
}

type translator struct {
	next int
	args []any
}

func (t *translator) arg(v any) string {
	t.args = append(t.args, v)
	placeholder := fmt.Sprintf("$%d", t.next)
	t.next++
	return placeholder
}

func (t *translator) condition(cond filter.Condition) (string, error) {
	switch c := cond.(type) {
	case filter.Equals:
		return t.equals(c)
	case filter.Range:
		if c.Field != filter.FieldPrice {
			return "", fmt.Errorf("failed translating range on field=%s with error=%w", c.Field, ErrUnsupportedField)
		}
		bounds := []string{}
		if c.Min != nil {
			bounds = append(bounds, "p.price >= "+t.arg(NumericFromDecimal(*c.Min)))
		}
		if c.Max != nil {
			bounds = append(bounds, "p.price <= "+t.arg(NumericFromDecimal(*c.Max)))
		}
		if len(bounds) == 0 {
			return "TRUE", nil
		}
		return "(" + strings.Join(bounds, " AND ") + ")", nil
	case filter.Contains:
		column := ""
		switch c.Field {
		case filter.FieldName:
			column = "p.name"
		case filter.FieldDescription:
			column = "p.description"
		default:
			return "", fmt.Errorf("failed translating contains on field=%s with error=%w", c.Field, ErrUnsupportedField)
		}
		return fmt.Sprintf("%s ILIKE '%%' || %s || '%%'", column, t.arg(likeEscaper.Replace(c.Value))), nil
	case filter.AnyOf:
		if c.Field != filter.FieldTag {
			return "", fmt.Errorf("failed translating any of on field=%s with error=%w", c.Field, ErrUnsupportedField)
		}
		return fmt.Sprintf(
			"EXISTS (SELECT 1 FROM product_tags t WHERE t.product_id = p.id AND t.tag = ANY(%s))",
			t.arg(c.Values),
		), nil
	case filter.Or:
		if len(c.Conditions) == 0 {
			return "FALSE", nil
		}
		parts := make([]string, 0, len(c.Conditions))
		for _, inner := range c.Conditions {
			sql, err := t.condition(inner)
			if err != nil {
				return "", err
			}
			parts = append(parts, sql)
		}
		return "(" + strings.Join(parts, " OR ") + ")", nil
	default:
		return "", fmt.Errorf("failed translating condition=%T with error=%w", cond, ErrUnsupportedCondition)
	}
}

func (t *translator) equals(c filter.Equals) (string, error) {
	switch c.Field {
	case filter.FieldCategory:
		value, ok := c.Value.(string)
		if !ok {
			return "", fmt.Errorf("failed translating category=%v with error=%w", c.Value, ErrUnsupportedCondition)
		}
		placeholder := t.arg(value)
		return fmt.Sprintf(
			"(p.category_id::text = %[1]s OR EXISTS (SELECT 1 FROM categories c WHERE c.id = p.category_id AND c.slug = %[1]s))",
			placeholder,
		), nil
	case filter.FieldInStock, filter.FieldFeatured:
		value, ok := c.Value.(bool)
		if !ok {
			return "", fmt.Errorf("failed translating flag=%v with error=%w", c.Value, ErrUnsupportedCondition)
		}
		column := "p.in_stock"
		if c.Field == filter.FieldFeatured {
			column = "p.featured"
		}
		return fmt.Sprintf("%s = %s", column, t.arg(value)), nil
	default:
		return "", fmt.Errorf("failed translating equals on field=%s with error=%w", c.Field, ErrUnsupportedField)
	}
}
