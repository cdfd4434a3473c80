package request

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateProduct is the staff request adding a product. A nil Price lists the product as
// quotation only. An empty Slug is derived from Name.
type CreateProduct struct {
	Name          string           `json:"name"          validate:"required,max=255"`
	Slug          string           `json:"slug"          validate:"omitempty,max=255"`
	Image         string           `json:"image"`
	Description   string           `json:"description"`
	Category      *uuid.UUID       `json:"category"`
	Price         *decimal.Decimal `json:"price"`
	StockQuantity int32            `json:"stockQuantity" validate:"gte=0"`
	InStock       *bool            `json:"inStock"`
	Featured      bool             `json:"featured"`
	Tags          []string         `json:"tags"          validate:"dive,required,max=100"`
	PublishedAt   *time.Time       `json:"publishedAt"`
}

type CreateCategory struct {
	Title string `json:"title" validate:"required,max=255"`
	Slug  string `json:"slug"  validate:"omitempty,max=255"`
}
