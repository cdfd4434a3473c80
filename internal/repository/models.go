package repository

import (
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type User struct {
	ID        uuid.UUID          `json:"id"`
	Email     string             `json:"email"`
	Password  string             `json:"password"`
	CreatedAt pgtype.Timestamptz `json:"created_at"`
	UpdatedAt pgtype.Timestamptz `json:"updated_at"`
}

type Category struct {
	ID        uuid.UUID          `json:"id"`
	Title     string             `json:"title"`
	Slug      string             `json:"slug"`
	CreatedAt pgtype.Timestamptz `json:"created_at"`
	UpdatedAt pgtype.Timestamptz `json:"updated_at"`
}

type Product struct {
	ID            uuid.UUID          `json:"id"`
	Name          string             `json:"name"`
	Slug          string             `json:"slug"`
	Image         string             `json:"image"`
	Description   string             `json:"description"`
	CategoryID    pgtype.UUID        `json:"category_id"`
	Price         pgtype.Numeric     `json:"price"`
	StockQuantity int32              `json:"stock_quantity"`
	InStock       bool               `json:"in_stock"`
	Featured      bool               `json:"featured"`
	PublishedAt   pgtype.Timestamptz `json:"published_at"`
	CreatedAt     pgtype.Timestamptz `json:"created_at"`
	UpdatedAt     pgtype.Timestamptz `json:"updated_at"`
}

// ProductWithTags is a product row joined with its aggregated tags.
type ProductWithTags struct {
	Product
	Tags []string `json:"tags"`
}

type Order struct {
	ID              uuid.UUID          `json:"id"`
	OrderNumber     string             `json:"order_number"`
	CustomerName    string             `json:"customer_name"`
	CustomerEmail   string             `json:"customer_email"`
	CustomerPhone   string             `json:"customer_phone"`
	ShippingAddress []byte             `json:"shipping_address"`
	BillingAddress  []byte             `json:"billing_address"`
	Subtotal        pgtype.Numeric     `json:"subtotal"`
	ShippingCost    pgtype.Numeric     `json:"shipping_cost"`
	TaxAmount       pgtype.Numeric     `json:"tax_amount"`
	DiscountAmount  pgtype.Numeric     `json:"discount_amount"`
	TotalAmount     pgtype.Numeric     `json:"total_amount"`
	Currency        string             `json:"currency"`
	PaymentMethod   string             `json:"payment_method"`
	PaymentStatus   string             `json:"payment_status"`
	TransactionID   string             `json:"transaction_id"`
	Status          string             `json:"status"`
	CustomerNotes   string             `json:"customer_notes"`
	InternalNotes   string             `json:"internal_notes"`
	CreatedAt       pgtype.Timestamptz `json:"created_at"`
	UpdatedAt       pgtype.Timestamptz `json:"updated_at"`
}

type OrderItem struct {
	ID                 uuid.UUID      `json:"id"`
	OrderID            uuid.UUID      `json:"order_id"`
	ProductID          uuid.UUID      `json:"product_id"`
	ProductName        string         `json:"product_name"`
	ProductPrice       pgtype.Numeric `json:"product_price"`
	ProductImage       string         `json:"product_image"`
	ProductDescription string         `json:"product_description"`
	Quantity           int32          `json:"quantity"`
	UnitPrice          pgtype.Numeric `json:"unit_price"`
	TotalPrice         pgtype.Numeric `json:"total_price"`
}

type Lead struct {
	ID                     uuid.UUID          `json:"id"`
	CustomerName           string             `json:"customer_name"`
	Email                  string             `json:"email"`
	Phone                  string             `json:"phone"`
	Company                string             `json:"company"`
	Address                []byte             `json:"address"`
	ProjectDetails         []byte             `json:"project_details"`
	AdditionalRequirements string             `json:"additional_requirements"`
	HearAboutUs            string             `json:"hear_about_us"`
	Status                 string             `json:"status"`
	Priority               string             `json:"priority"`
	QuotedAmount           pgtype.Numeric     `json:"quoted_amount"`
	FollowUpDate           pgtype.Timestamptz `json:"follow_up_date"`
	CreatedAt              pgtype.Timestamptz `json:"created_at"`
	UpdatedAt              pgtype.Timestamptz `json:"updated_at"`
}

type LeadProduct struct {
	ID                 uuid.UUID `json:"id"`
	LeadID             uuid.UUID `json:"lead_id"`
	ProductID          uuid.UUID `json:"product_id"`
	ProductName        string    `json:"product_name"`
	Quantity           int32     `json:"quantity"`
	CustomRequirements string    `json:"custom_requirements"`
}

type LeadNote struct {
	ID        uuid.UUID          `json:"id"`
	LeadID    uuid.UUID          `json:"lead_id"`
	Note      string             `json:"note"`
	Author    string             `json:"author"`
	CreatedAt pgtype.Timestamptz `json:"created_at"`
}

type LeadDetail struct {
	Lead
	Products []LeadProduct `json:"products"`
	Notes    []LeadNote    `json:"notes"`
}
