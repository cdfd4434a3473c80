package service

import (
	"context"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/Alturino/storefront/catalog/pkg/filter"
	"github.com/Alturino/storefront/internal/repository"
)

// memoryStore evaluates filter criteria over an in memory product list.
type memoryStore struct {
	mu         sync.Mutex
	products   []repository.ProductWithTags
	categories []repository.Category
	err        error
}

func (m *memoryStore) match(p repository.ProductWithTags, cond filter.Condition) bool {
	switch c := cond.(type) {
	case filter.Equals:
		switch c.Field {
		case filter.FieldCategory:
			if !p.CategoryID.Valid {
				return false
			}
			id := uuid.UUID(p.CategoryID.Bytes)
			for _, category := range m.categories {
				if category.ID == id && (category.Slug == c.Value || id.String() == c.Value) {
					return true
				}
			}
			return false
		case filter.FieldInStock:
			return p.InStock == c.Value
		case filter.FieldFeatured:
			return p.Featured == c.Value
		}
	case filter.Range:
		price := repository.NullableDecimalFromNumeric(p.Price)
		if price == nil {
			return false
		}
		if c.Min != nil && price.LessThan(*c.Min) {
			return false
		}
		if c.Max != nil && price.GreaterThan(*c.Max) {
			return false
		}
		return true
	case filter.Contains:
		value := p.Name
		if c.Field == filter.FieldDescription {
			value = p.Description
		}
		return strings.Contains(strings.ToLower(value), strings.ToLower(c.Value))
	case filter.AnyOf:
		for _, tag := range p.Tags {
			if slices.Contains(c.Values, tag) {
				return true
			}
		}
		return false
	case filter.Or:
		for _, inner := range c.Conditions {
			if m.match(p, inner) {
				return true
			}
		}
		return false
	}
	return false
}

func (m *memoryStore) filter(criteria filter.Criteria) []repository.ProductWithTags {
	out := []repository.ProductWithTags{}
	for _, p := range m.products {
		ok := true
		for _, cond := range criteria.Conditions {
			if !m.match(p, cond) {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, p)
		}
	}
	return out
}

func (m *memoryStore) SearchProducts(_ context.Context, query filter.Query) ([]repository.ProductWithTags, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	items := m.filter(query.Where)
	less := func(a, b repository.ProductWithTags) bool {
		switch query.Sort.Field {
		case filter.FieldPrice:
			return repository.DecimalFromNumeric(a.Price).LessThan(repository.DecimalFromNumeric(b.Price))
		case filter.FieldName:
			return a.Name < b.Name
		default:
			return a.CreatedAt.Time.Before(b.CreatedAt.Time)
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		if query.Sort.Descending {
			return less(items[j], items[i])
		}
		return less(items[i], items[j])
	})
	start := min(query.Offset(), len(items))
	end := min(start+query.Limit, len(items))
	return items[start:end], nil
}

func (m *memoryStore) CountProducts(_ context.Context, criteria filter.Criteria) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.filter(criteria))), m.err
}

func (m *memoryStore) FindCategories(_ context.Context, limit int32) ([]repository.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := slices.Clone(m.categories)
	if len(out) > int(limit) {
		out = out[:limit]
	}
	return out, m.err
}

func (m *memoryStore) FindPriceBounds(_ context.Context) (repository.FindPriceBoundsRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row := repository.FindPriceBoundsRow{}
	for _, p := range m.products {
		price := repository.NullableDecimalFromNumeric(p.Price)
		if price == nil || !price.IsPositive() {
			continue
		}
		if !row.Min.Valid || price.LessThan(repository.DecimalFromNumeric(row.Min)) {
			row.Min = p.Price
		}
		if !row.Max.Valid || price.GreaterThan(repository.DecimalFromNumeric(row.Max)) {
			row.Max = p.Price
		}
	}
	return row, m.err
}

func (m *memoryStore) FindDistinctTags(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tags := []string{}
	for _, p := range m.products {
		tags = append(tags, p.Tags...)
	}
	slices.Sort(tags)
	return slices.Compact(tags), m.err
}

func (m *memoryStore) FindProductBySlug(_ context.Context, slug string) (repository.ProductWithTags, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.products {
		if p.Slug == slug {
			return p, nil
		}
	}
	return repository.ProductWithTags{}, pgx.ErrNoRows
}

func (m *memoryStore) InsertCategory(_ context.Context, title string, slug string) (repository.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	category := repository.Category{ID: uuid.New(), Title: title, Slug: slug}
	m.categories = append(m.categories, category)
	return category, nil
}

func (m *memoryStore) CreateProduct(
	_ context.Context,
	arg repository.InsertProductParams,
	tags []string,
) (repository.ProductWithTags, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := repository.ProductWithTags{
		Product: repository.Product{
			ID:            uuid.New(),
			Name:          arg.Name,
			Slug:          arg.Slug,
			Image:         arg.Image,
			Description:   arg.Description,
			CategoryID:    arg.CategoryID,
			Price:         arg.Price,
			StockQuantity: arg.StockQuantity,
			InStock:       arg.InStock,
			Featured:      arg.Featured,
			PublishedAt:   arg.PublishedAt,
			CreatedAt:     pgtype.Timestamptz{Time: arg.PublishedAt.Time, Valid: true},
			UpdatedAt:     pgtype.Timestamptz{Time: arg.PublishedAt.Time, Valid: true},
		},
		Tags: tags,
	}
	m.products = append(m.products, p)
	return p, nil
}
