package response

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const ErrorFetchProducts = "Failed to fetch products"

type Tag struct {
	Tag string `json:"tag"`
}

type Product struct {
	ID             uuid.UUID        `json:"id"`
	Name           string           `json:"name"`
	Slug           string           `json:"slug"`
	Image          string           `json:"image"`
	Description    string           `json:"description"`
	Category       *uuid.UUID       `json:"category"`
	Price          *decimal.Decimal `json:"price"`
	FormattedPrice string           `json:"formattedPrice"`
	StockQuantity  int32            `json:"stockQuantity"`
	InStock        bool             `json:"inStock"`
	Featured       bool             `json:"featured"`
	Tags           []Tag            `json:"tags"`
	PublishedAt    time.Time        `json:"publishedAt"`
	CreatedAt      time.Time        `json:"createdAt"`
	UpdatedAt      time.Time        `json:"updatedAt"`
}

type Category struct {
	ID    uuid.UUID `json:"id"`
	Title string    `json:"title"`
	Slug  string    `json:"slug"`
}

type PriceRange struct {
	Min decimal.Decimal `json:"min"`
	Max decimal.Decimal `json:"max"`
}

type Shop struct {
	Products      []Product  `json:"products"`
	TotalPages    int        `json:"totalPages"`
	CurrentPage   int        `json:"currentPage"`
	TotalProducts int64      `json:"totalProducts"`
	Categories    []Category `json:"categories"`
	PriceRange    PriceRange `json:"priceRange"`
	AvailableTags []string   `json:"availableTags"`
}

type Failed struct {
	Error string `json:"error"`
}
