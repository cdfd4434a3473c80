package request

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	PaymentMethodCod      = "cod"
	PaymentMethodRazorpay = "razorpay"
	PaymentMethodPhonepe  = "phonepe"
)

type CustomerInfo struct {
	FullName string `json:"fullName" validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Phone    string `json:"phone"    validate:"required"`
}

type Address struct {
	FullName     string `json:"fullName"     validate:"required"`
	AddressLine1 string `json:"addressLine1" validate:"required"`
	AddressLine2 string `json:"addressLine2"`
	City         string `json:"city"         validate:"required"`
	State        string `json:"state"        validate:"required"`
	PostalCode   string `json:"postalCode"   validate:"required"`
	Country      string `json:"country"`
}

// BillingAddress only needs its own fields when SameAsShipping is false.
type BillingAddress struct {
	SameAsShipping bool   `json:"sameAsShipping"`
	FullName       string `json:"fullName"       validate:"required_unless=SameAsShipping true"`
	AddressLine1   string `json:"addressLine1"   validate:"required_unless=SameAsShipping true"`
	AddressLine2   string `json:"addressLine2"`
	City           string `json:"city"           validate:"required_unless=SameAsShipping true"`
	State          string `json:"state"          validate:"required_unless=SameAsShipping true"`
	PostalCode     string `json:"postalCode"     validate:"required_unless=SameAsShipping true"`
	Country        string `json:"country"`
}

func (b BillingAddress) Address() Address {
	return Address{
		FullName:     b.FullName,
		AddressLine1: b.AddressLine1,
		AddressLine2: b.AddressLine2,
		City:         b.City,
		State:        b.State,
		PostalCode:   b.PostalCode,
		Country:      b.Country,
	}
}

// OrderItem carries what the client has in its cart. The product snapshot and prices it may send
// are ignored; they are read from the catalog when the order is created.
type OrderItem struct {
	Product  uuid.UUID `json:"product"  validate:"required"`
	Quantity int       `json:"quantity" validate:"gte=1,lte=999"`
}

type Pricing struct {
	ShippingCost   decimal.Decimal `json:"shippingCost"   validate:"gte=0"`
	TaxAmount      decimal.Decimal `json:"taxAmount"      validate:"gte=0"`
	DiscountAmount decimal.Decimal `json:"discountAmount" validate:"gte=0"`
}

type Checkout struct {
	CustomerInfo    CustomerInfo   `json:"customerInfo"`
	ShippingAddress Address        `json:"shippingAddress"`
	BillingAddress  BillingAddress `json:"billingAddress"`
	Items           []OrderItem    `json:"items"         validate:"required,gt=0,dive"`
	Pricing         Pricing        `json:"pricing"`
	PaymentMethod   string         `json:"paymentMethod" validate:"required,oneof=cod razorpay phonepe"`
	CustomerNotes   string         `json:"customerNotes"`
}

type FindOrders struct {
	Page  int `validate:"gte=1"`
	Limit int `validate:"gte=1,lte=100"`
}

// UpdateOrder is the staff edit of an order. Empty fields are left unchanged.
type UpdateOrder struct {
	Status        string `json:"status"        validate:"omitempty,oneof=pending processing shipped delivered cancelled refunded"`
	PaymentStatus string `json:"paymentStatus" validate:"omitempty,oneof=pending paid failed refunded partially_refunded"`
	TransactionID string `json:"transactionId"`
	InternalNotes string `json:"internalNotes"`
}

// OrderCreated is published on the order.created topic.
type OrderCreated struct {
	OrderID       uuid.UUID       `json:"orderId"`
	OrderNumber   string          `json:"orderNumber"`
	CustomerName  string          `json:"customerName"`
	CustomerEmail string          `json:"customerEmail"`
	PaymentMethod string          `json:"paymentMethod"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	CreatedAt     time.Time       `json:"createdAt"`
}
