package request

import (
	"github.com/google/uuid"
)

// AddItem adds a product to a cart or a quotation. A zero quantity counts as one.
type AddItem struct {
	ProductID uuid.UUID `json:"productId" validate:"required"`
	Quantity  int       `json:"quantity"  validate:"gte=0,lte=999"`
}

// UpdateQuantity sets a line's quantity. Zero or less removes the line.
type UpdateQuantity struct {
	Quantity int `json:"quantity" validate:"lte=999"`
}

type UpdateRequirements struct {
	CustomRequirements string `json:"customRequirements" validate:"max=2000"`
}

type SetOpen struct {
	Open bool `json:"open"`
}
