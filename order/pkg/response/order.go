package response

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	MessageOrderCreated    = "Order created successfully"
	MessageRedirectPayment = "Order created, redirect to payment"
	ErrorProcessOrder      = "Failed to process order"
)

type Checkout struct {
	Success         bool      `json:"success"`
	OrderID         uuid.UUID `json:"orderId"`
	OrderNumber     string    `json:"orderNumber"`
	Message         string    `json:"message"`
	RequiresPayment bool      `json:"requiresPayment,omitempty"`
	PaymentMethod   string    `json:"paymentMethod,omitempty"`
}

type CheckoutFailed struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

type ProductSnapshot struct {
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
	Description string          `json:"description"`
}

type OrderItem struct {
	ID              uuid.UUID       `json:"id"`
	Product         uuid.UUID       `json:"product"`
	ProductSnapshot ProductSnapshot `json:"productSnapshot"`
	Quantity        int32           `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unitPrice"`
	TotalPrice      decimal.Decimal `json:"totalPrice"`
}

type CustomerInfo struct {
	CustomerName  string `json:"customerName"`
	CustomerEmail string `json:"customerEmail"`
	CustomerPhone string `json:"customerPhone"`
}

type Pricing struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	ShippingCost   decimal.Decimal `json:"shippingCost"`
	TaxAmount      decimal.Decimal `json:"taxAmount"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	TotalAmount    decimal.Decimal `json:"totalAmount"`
	Currency       string          `json:"currency"`
}

type PaymentInfo struct {
	PaymentMethod string `json:"paymentMethod"`
	TransactionID string `json:"transactionId,omitempty"`
}

type Order struct {
	ID              uuid.UUID       `json:"id"`
	OrderNumber     string          `json:"orderNumber"`
	CustomerInfo    CustomerInfo    `json:"customerInfo"`
	ShippingAddress json.RawMessage `json:"shippingAddress"`
	BillingAddress  json.RawMessage `json:"billingAddress"`
	Items           []OrderItem     `json:"items"`
	Pricing         Pricing         `json:"pricing"`
	PaymentInfo     PaymentInfo     `json:"paymentInfo"`
	PaymentStatus   string          `json:"paymentStatus"`
	Status          string          `json:"status"`
	CustomerNotes   string          `json:"customerNotes,omitempty"`
	InternalNotes   string          `json:"internalNotes,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// Public is the customer facing confirmation view. Staff notes and the gateway transaction id are
// left out.
func (o Order) Public() Order {
	o.InternalNotes = ""
	o.PaymentInfo.TransactionID = ""
	return o
}

type Orders struct {
	Orders      []Order `json:"orders"`
	TotalOrders int64   `json:"totalOrders"`
	TotalPages  int     `json:"totalPages"`
	CurrentPage int     `json:"currentPage"`
}
