package state

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type CartItem struct {
	ID       string  `json:"id"`
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// LineTotal is price × quantity for the item.
func (i CartItem) LineTotal() decimal.Decimal {
	return i.Product.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Cart is the purchase working set. TotalItems and TotalPrice are always derived from Items by
// ReduceCart and never set independently.
type Cart struct {
	Items      []CartItem      `json:"items"`
	TotalItems int             `json:"totalItems"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
	IsLoading  bool            `json:"isLoading"`
}

// NewCart returns the state a container starts in before hydration.
func NewCart() Cart {
	return Cart{Items: []CartItem{}, TotalPrice: decimal.Zero, IsLoading: true}
}

// ItemQuantity returns the quantity held for productID across all lines.
func (c Cart) ItemQuantity(productID string) int {
	total := 0
	for _, item := range c.Items {
		if item.Product.ID == productID {
			total += item.Quantity
		}
	}
	return total
}

type CartAction interface {
	cartAction()
}

// AddItem adds Quantity units of Product. Quantities below 1 are treated as 1.
type AddItem struct {
	Product  Product
	Quantity int
	AddedAt  time.Time
}

type RemoveItem struct {
	ItemID string
}

// UpdateQuantity replaces the quantity of a line. A quantity of zero or below removes the line.
type UpdateQuantity struct {
	ItemID   string
	Quantity int
}

type ClearCart struct{}

type LoadCart struct {
	Items []CartItem
}

type SetLoading struct {
	Loading bool
}

func (AddItem) cartAction()        {}
func (RemoveItem) cartAction()     {}
func (UpdateQuantity) cartAction() {}
func (ClearCart) cartAction()      {}
func (LoadCart) cartAction()       {}
func (SetLoading) cartAction()     {}

// CartItemID builds the synthetic line id from the product id and the time it was added.
func CartItemID(productID string, addedAt time.Time) string {
	return fmt.Sprintf("%s_%d", productID, addedAt.UnixMilli())
}

// ReduceCart returns the state after applying action to state. The input is never mutated.
func ReduceCart(state Cart, action CartAction) Cart {
	next := state
	next.Items = append([]CartItem(nil), state.Items...)

	switch a := action.(type) {
	case AddItem:
		quantity := a.Quantity
		if quantity < 1 {
			quantity = 1
		}
		idx := -1
		for i, item := range next.Items {
			if item.Product.ID == a.Product.ID {
				idx = i
				break
			}
		}
		if idx >= 0 {
			next.Items[idx].Quantity += quantity
		} else {
			next.Items = append(next.Items, CartItem{
				ID:       CartItemID(a.Product.ID, a.AddedAt),
				Product:  a.Product,
				Quantity: quantity,
			})
		}
	case RemoveItem:
		next.Items = removeCartItem(next.Items, a.ItemID)
	case UpdateQuantity:
		if a.Quantity <= 0 {
			next.Items = removeCartItem(next.Items, a.ItemID)
			break
		}
		for i := range next.Items {
			if next.Items[i].ID == a.ItemID {
				next.Items[i].Quantity = a.Quantity
			}
		}
	case ClearCart:
		next.Items = []CartItem{}
		next.IsLoading = false
	case LoadCart:
		next.Items = make([]CartItem, 0, len(a.Items))
		for _, item := range a.Items {
			if item.Quantity >= 1 {
				next.Items = append(next.Items, item)
			}
		}
		next.IsLoading = false
	case SetLoading:
		next.IsLoading = a.Loading
	default:
		return state
	}

	return withTotals(next)
}

func removeCartItem(items []CartItem, itemID string) []CartItem {
	kept := make([]CartItem, 0, len(items))
	for _, item := range items {
		if item.ID != itemID {
			kept = append(kept, item)
		}
	}
	return kept
}

func withTotals(cart Cart) Cart {
	cart.TotalItems = 0
	cart.TotalPrice = decimal.Zero
	for _, item := range cart.Items {
		cart.TotalItems += item.Quantity
		cart.TotalPrice = cart.TotalPrice.Add(item.LineTotal())
	}
	return cart
}
