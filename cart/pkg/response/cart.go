package response

import (
	"github.com/shopspring/decimal"

	"github.com/Alturino/storefront/cart/pkg/state"
)

type Cart struct {
	SessionID      string           `json:"sessionId"`
	Items          []state.CartItem `json:"items"`
	TotalItems     int              `json:"totalItems"`
	TotalPrice     decimal.Decimal  `json:"totalPrice"`
	FormattedTotal string           `json:"formattedTotal"`
}

type Quotation struct {
	SessionID  string                `json:"sessionId"`
	Items      []state.QuotationItem `json:"items"`
	TotalItems int                   `json:"totalItems"`
	IsOpen     bool                  `json:"isOpen"`
}
