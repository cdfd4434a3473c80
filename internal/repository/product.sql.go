package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/Alturino/storefront/catalog/pkg/filter"
)

const productColumns = `p.id, p.name, p.slug, p.image, p.description, p.category_id, p.price,
       p.stock_quantity, p.in_stock, p.featured, p.published_at, p.created_at, p.updated_at,
       COALESCE(ARRAY(SELECT t.tag FROM product_tags t WHERE t.product_id = p.id ORDER BY t.tag), '{}')::text[] AS tags`

type scanner interface {
	Scan(dest ...any) error
}

func scanProductWithTags(row scanner) (ProductWithTags, error) {
	var p ProductWithTags
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Slug,
		&p.Image,
		&p.Description,
		&p.CategoryID,
		&p.Price,
		&p.StockQuantity,
		&p.InStock,
		&p.Featured,
		&p.PublishedAt,
		&p.CreatedAt,
		&p.UpdatedAt,
		&p.Tags,
	)
	return p, err
}

// SearchProducts returns one page of products matching query.
func (q *Queries) SearchProducts(c context.Context, query filter.Query) ([]ProductWithTags, error) {
	where, args, err := TranslateCriteria(query.Where, 1)
	if err != nil {
		return nil, err
	}
	orderBy, err := TranslateSort(query.Sort)
	if err != nil {
		return nil, err
	}
	sql := fmt.Sprintf(
		"SELECT %s FROM products p WHERE %s ORDER BY %s LIMIT $%d OFFSET $%d",
		productColumns, where, orderBy, len(args)+1, len(args)+2,
	)
	args = append(args, query.Limit, query.Offset())

	rows, err := q.db.Query(c, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []ProductWithTags{}
	for rows.Next() {
		p, err := scanProductWithTags(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (q *Queries) CountProducts(c context.Context, criteria filter.Criteria) (int64, error) {
	where, args, err := TranslateCriteria(criteria, 1)
	if err != nil {
		return 0, err
	}
	var count int64
	err = q.db.QueryRow(c, "SELECT COUNT(*) FROM products p WHERE "+where, args...).Scan(&count)
	return count, err
}

const findProductBySlug = `SELECT ` + productColumns + ` FROM products p WHERE p.slug = $1`

func (q *Queries) FindProductBySlug(c context.Context, slug string) (ProductWithTags, error) {
	return scanProductWithTags(q.db.QueryRow(c, findProductBySlug, slug))
}

const findProductsByIds = `SELECT ` + productColumns + ` FROM products p WHERE p.id = ANY($1::uuid[])`

func (q *Queries) FindProductsByIds(c context.Context, ids []uuid.UUID) ([]ProductWithTags, error) {
	rows, err := q.db.Query(c, findProductsByIds, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []ProductWithTags{}
	for rows.Next() {
		p, err := scanProductWithTags(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const findCategories = `-- name: FindCategories :many
SELECT id, title, slug, created_at, updated_at FROM categories ORDER BY title LIMIT $1`

func (q *Queries) FindCategories(c context.Context, limit int32) ([]Category, error) {
	rows, err := q.db.Query(c, findCategories, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Category{}
	for rows.Next() {
		var i Category
		if err := rows.Scan(&i.ID, &i.Title, &i.Slug, &i.CreatedAt, &i.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const insertCategory = `-- name: InsertCategory :one
INSERT INTO categories (title, slug) VALUES ($1, $2)
RETURNING id, title, slug, created_at, updated_at`

func (q *Queries) InsertCategory(c context.Context, title string, slug string) (Category, error) {
	var i Category
	err := q.db.QueryRow(c, insertCategory, title, slug).
		Scan(&i.ID, &i.Title, &i.Slug, &i.CreatedAt, &i.UpdatedAt)
	return i, err
}

const findPriceBounds = `-- name: FindPriceBounds :one
SELECT MIN(price), MAX(price) FROM products WHERE price > 0`

type FindPriceBoundsRow struct {
	Min pgtype.Numeric
	Max pgtype.Numeric
}

// FindPriceBounds returns NULL bounds when no product has a positive price.
func (q *Queries) FindPriceBounds(c context.Context) (FindPriceBoundsRow, error) {
	var i FindPriceBoundsRow
	err := q.db.QueryRow(c, findPriceBounds).Scan(&i.Min, &i.Max)
	return i, err
}

const findDistinctTags = `-- name: FindDistinctTags :many
SELECT DISTINCT tag FROM product_tags ORDER BY tag`

func (q *Queries) FindDistinctTags(c context.Context) ([]string, error) {
	rows, err := q.db.Query(c, findDistinctTags)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []string{}
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, err
		}
		items = append(items, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const insertProduct = `-- name: InsertProduct :one
INSERT INTO products (name, slug, image, description, category_id, price, stock_quantity, in_stock, featured, published_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING id, name, slug, image, description, category_id, price, stock_quantity, in_stock, featured,
          published_at, created_at, updated_at`

type InsertProductParams struct {
	Name          string
	Slug          string
	Image         string
	Description   string
	CategoryID    pgtype.UUID
	Price         pgtype.Numeric
	StockQuantity int32
	InStock       bool
	Featured      bool
	PublishedAt   pgtype.Timestamptz
}

func (q *Queries) InsertProduct(c context.Context, arg InsertProductParams) (Product, error) {
	row := q.db.QueryRow(c, insertProduct,
		arg.Name,
		arg.Slug,
		arg.Image,
		arg.Description,
		arg.CategoryID,
		arg.Price,
		arg.StockQuantity,
		arg.InStock,
		arg.Featured,
		arg.PublishedAt,
	)
	var i Product
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Slug,
		&i.Image,
		&i.Description,
		&i.CategoryID,
		&i.Price,
		&i.StockQuantity,
		&i.InStock,
		&i.Featured,
		&i.PublishedAt,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const insertProductTags = `-- name: InsertProductTags :exec
INSERT INTO product_tags (product_id, tag)
SELECT $1::uuid, UNNEST($2::text[])
ON CONFLICT DO NOTHING`

func (q *Queries) InsertProductTags(c context.Context, productID uuid.UUID, tags []string) error {
	_, err := q.db.Exec(c, insertProductTags, productID, tags)
	return err
}

const decrementProductStock = `-- name: DecrementProductStock :execrows
UPDATE products
SET stock_quantity = stock_quantity - $2,
    in_stock = stock_quantity - $2 > 0,
    updated_at = NOW()
WHERE id = $1 AND stock_quantity >= $2`

// DecrementProductStock reserves quantity units. Zero affected rows means the stock was short.
func (q *Queries) DecrementProductStock(c context.Context, id uuid.UUID, quantity int32) (int64, error) {
	result, err := q.db.Exec(c, decrementProductStock, id, quantity)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
