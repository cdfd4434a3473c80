package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const orderColumns = `id, order_number, customer_name, customer_email, customer_phone, shipping_address,
       billing_address, subtotal, shipping_cost, tax_amount, discount_amount, total_amount, currency,
       payment_method, payment_status, transaction_id, status, customer_notes, internal_notes,
       created_at, updated_at`

func scanOrder(row scanner) (Order, error) {
	var i Order
	err := row.Scan(
		&i.ID,
		&i.OrderNumber,
		&i.CustomerName,
		&i.CustomerEmail,
		&i.CustomerPhone,
		&i.ShippingAddress,
		&i.BillingAddress,
		&i.Subtotal,
		&i.ShippingCost,
		&i.TaxAmount,
		&i.DiscountAmount,
		&i.TotalAmount,
		&i.Currency,
		&i.PaymentMethod,
		&i.PaymentStatus,
		&i.TransactionID,
		&i.Status,
		&i.CustomerNotes,
		&i.InternalNotes,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const insertOrder = `-- name: InsertOrder :one
INSERT INTO orders (
    order_number, customer_name, customer_email, customer_phone, shipping_address, billing_address,
    subtotal, shipping_cost, tax_amount, discount_amount, total_amount, currency, payment_method,
    payment_status, status, customer_notes
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
RETURNING ` + orderColumns

type InsertOrderParams struct {
	OrderNumber     string
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	ShippingAddress []byte
	BillingAddress  []byte
	Subtotal        pgtype.Numeric
	ShippingCost    pgtype.Numeric
	TaxAmount       pgtype.Numeric
	DiscountAmount  pgtype.Numeric
	TotalAmount     pgtype.Numeric
	Currency        string
	PaymentMethod   string
	PaymentStatus   string
	Status          string
	CustomerNotes   string
}

func (q *Queries) InsertOrder(c context.Context, arg InsertOrderParams) (Order, error) {
	return scanOrder(q.db.QueryRow(c, insertOrder,
		arg.OrderNumber,
		arg.CustomerName,
		arg.CustomerEmail,
		arg.CustomerPhone,
		arg.ShippingAddress,
		arg.BillingAddress,
		arg.Subtotal,
		arg.ShippingCost,
		arg.TaxAmount,
		arg.DiscountAmount,
		arg.TotalAmount,
		arg.Currency,
		arg.PaymentMethod,
		arg.PaymentStatus,
		arg.Status,
		arg.CustomerNotes,
	))
}

const insertOrderItem = `-- name: InsertOrderItem :one
INSERT INTO order_items (
    order_id, product_id, product_name, product_price, product_image, product_description,
    quantity, unit_price, total_price
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING id, order_id, product_id, product_name, product_price, product_image, product_description,
          quantity, unit_price, total_price`

type InsertOrderItemParams struct {
	OrderID            uuid.UUID
	ProductID          uuid.UUID
	ProductName        string
	ProductPrice       pgtype.Numeric
	ProductImage       string
	ProductDescription string
	Quantity           int32
	UnitPrice          pgtype.Numeric
	TotalPrice         pgtype.Numeric
}

func scanOrderItem(row scanner) (OrderItem, error) {
	var i OrderItem
	err := row.Scan(
		&i.ID,
		&i.OrderID,
		&i.ProductID,
		&i.ProductName,
		&i.ProductPrice,
		&i.ProductImage,
		&i.ProductDescription,
		&i.Quantity,
		&i.UnitPrice,
		&i.TotalPrice,
	)
	return i, err
}

func (q *Queries) InsertOrderItem(c context.Context, arg InsertOrderItemParams) (OrderItem, error) {
	return scanOrderItem(q.db.QueryRow(c, insertOrderItem,
		arg.OrderID,
		arg.ProductID,
		arg.ProductName,
		arg.ProductPrice,
		arg.ProductImage,
		arg.ProductDescription,
		arg.Quantity,
		arg.UnitPrice,
		arg.TotalPrice,
	))
}

const findOrderById = `-- name: FindOrderById :one
SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

func (q *Queries) FindOrderById(c context.Context, id uuid.UUID) (Order, error) {
	return scanOrder(q.db.QueryRow(c, findOrderById, id))
}

const findOrderItemsByOrderId = `-- name: FindOrderItemsByOrderId :many
SELECT id, order_id, product_id, product_name, product_price, product_image, product_description,
       quantity, unit_price, total_price
FROM order_items WHERE order_id = $1 ORDER BY product_name, id`

func (q *Queries) FindOrderItemsByOrderId(c context.Context, orderID uuid.UUID) ([]OrderItem, error) {
	rows, err := q.db.Query(c, findOrderItemsByOrderId, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []OrderItem{}
	for rows.Next() {
		i, err := scanOrderItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const findOrders = `-- name: FindOrders :many
SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC, id LIMIT $1 OFFSET $2`

func (q *Queries) FindOrders(c context.Context, limit int32, offset int32) ([]Order, error) {
	rows, err := q.db.Query(c, findOrders, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Order{}
	for rows.Next() {
		i, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const countOrders = `-- name: CountOrders :one
SELECT COUNT(*) FROM orders`

func (q *Queries) CountOrders(c context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRow(c, countOrders).Scan(&count)
	return count, err
}

const updateOrder = `-- name: UpdateOrder :one
UPDATE orders
SET status = $2,
    payment_status = $3,
    transaction_id = $4,
    internal_notes = $5,
    subtotal = $6,
    total_amount = $7,
    updated_at = NOW()
WHERE id = $1
RETURNING ` + orderColumns

type UpdateOrderParams struct {
	ID            uuid.UUID
	Status        string
	PaymentStatus string
	TransactionID string
	InternalNotes string
	Subtotal      pgtype.Numeric
	TotalAmount   pgtype.Numeric
}

func (q *Queries) UpdateOrder(c context.Context, arg UpdateOrderParams) (Order, error) {
	return scanOrder(q.db.QueryRow(c, updateOrder,
		arg.ID,
		arg.Status,
		arg.PaymentStatus,
		arg.TransactionID,
		arg.InternalNotes,
		arg.Subtotal,
		arg.TotalAmount,
	))
}
