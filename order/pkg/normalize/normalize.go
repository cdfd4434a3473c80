// Package normalize recomputes the derived fields of an order before it is persisted. It runs on
// every create and update so client submitted totals are never trusted.
package normalize

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MaxQuantity bounds a single line so quantities fit the int32 columns they are stored in.
const MaxQuantity = 999

type Operation string

const (
	OperationCreate Operation = "create"
	OperationUpdate Operation = "update"
)

const (
	StatusPending        = "pending"
	PaymentStatusPending = "pending"
	CurrencyINR          = "INR"
)

type Customer struct {
	Name  string
	Email string
	Phone string
}

// Item is one line of an order. Name, Price, Image and Description are the product snapshot taken
// at purchase time.
type Item struct {
	ProductID   uuid.UUID
	Name        string
	Price       decimal.Decimal
	Image       string
	Description string
	Quantity    int
	UnitPrice   decimal.Decimal
	TotalPrice  decimal.Decimal
}

type Pricing struct {
	Subtotal       decimal.Decimal
	ShippingCost   decimal.Decimal
	TaxAmount      decimal.Decimal
	DiscountAmount decimal.Decimal
	Total          decimal.Decimal
	Currency       string
}

type Order struct {
	OrderNumber   string
	Customer      Customer
	CustomerName  string
	CustomerEmail string
	Items         []Item
	Pricing       Pricing
	Status        string
	PaymentStatus string
}

// ValidationError is the structured rejection returned instead of a normalized order.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

type NumberGenerator interface {
	Next() string
}

// Normalize returns a copy of in with line totals, subtotal, total and the denormalized customer
// fields recomputed. On create an empty order number is filled from numbers.
func Normalize(in Order, op Operation, numbers NumberGenerator) (Order, error) {
	if len(in.Items) == 0 {
		return Order{}, &ValidationError{Field: "items", Message: "at least one item is required"}
	}

	out := in
	out.Items = make([]Item, len(in.Items))
	subtotal := decimal.Zero
	for i, item := range in.Items {
		if item.Quantity < 1 {
			return Order{}, &ValidationError{
				Field:   fmt.Sprintf("items[%d].quantity", i),
				Message: "quantity must be at least 1",
			}
		}
		if item.Quantity > MaxQuantity {
			return Order{}, &ValidationError{
				Field:   fmt.Sprintf("items[%d].quantity", i),
				Message: fmt.Sprintf("quantity must be at most %d", MaxQuantity),
			}
		}
		if item.UnitPrice.IsNegative() {
			return Order{}, &ValidationError{
				Field:   fmt.Sprintf("items[%d].unitPrice", i),
				Message: "unit price must not be negative",
			}
		}
		item.TotalPrice = item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		subtotal = subtotal.Add(item.TotalPrice)
		out.Items[i] = item
	}

	out.Pricing.Subtotal = subtotal
	out.Pricing.Total = subtotal.
		Add(in.Pricing.ShippingCost).
		Sub(in.Pricing.DiscountAmount).
		Add(in.Pricing.TaxAmount)
	if out.Pricing.Currency == "" {
		out.Pricing.Currency = CurrencyINR
	}

	out.CustomerName = in.Customer.Name
	out.CustomerEmail = in.Customer.Email

	if op == OperationCreate {
		if out.OrderNumber == "" {
			out.OrderNumber = numbers.Next()
		}
		if out.Status == "" {
			out.Status = StatusPending
		}
		if out.PaymentStatus == "" {
			out.PaymentStatus = PaymentStatusPending
		}
	}

	return out, nil
}
