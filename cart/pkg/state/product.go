// Package state holds the cart and quotation state machines. Reducers are pure; containers wrap
// them with locking and persistence for a single visitor session.
package state

import (
	"github.com/shopspring/decimal"
)

// Product is the denormalized snapshot copied into a cart or quotation line at add time so later
// catalog edits do not alter what the visitor picked.
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Slug        string          `json:"slug,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image,omitempty"`
	Description string          `json:"description,omitempty"`
}
