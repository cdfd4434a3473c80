package state

import (
	"math/rand"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	vase = Product{ID: "p-vase", Name: "Brass Vase", Price: decimal.NewFromInt(100)}
	lamp = Product{ID: "p-lamp", Name: "Glass Lamp", Price: decimal.RequireFromString("49.50")}
	rug  = Product{ID: "p-rug", Name: "Jute Rug", Price: decimal.NewFromInt(1200)}
	t0   = time.UnixMilli(1_700_000_000_000)
)

func assertTotals(t *testing.T, cart Cart) {
	t.Helper()
	items := 0
	price := decimal.Zero
	for _, item := range cart.Items {
		require.GreaterOrEqual(t, item.Quantity, 1, "item quantity should never drop below 1")
		items += item.Quantity
		price = price.Add(item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	assert.Equal(t, items, cart.TotalItems, "totalItems should equal the sum of quantities")
	assert.True(t, price.Equal(cart.TotalPrice), "totalPrice=%s should equal %s", cart.TotalPrice, price)
}

func TestReduceCart(t *testing.T) {
	tests := []struct {
		name     string
		initial  Cart
		actions  []CartAction
		expected func(t *testing.T, cart Cart)
	}{
		{
			name:    "given new product should append item with synthetic id",
			initial: ReduceCart(NewCart(), LoadCart{}),
			actions: []CartAction{AddItem{Product: vase, Quantity: 2, AddedAt: t0}},
			expected: func(t *testing.T, cart Cart) {
				require.Len(t, cart.Items, 1)
				assert.Equal(t, "p-vase_1700000000000", cart.Items[0].ID)
				assert.Equal(t, 2, cart.TotalItems)
				assert.Equal(t, "200", cart.TotalPrice.String())
			},
		},
		{
			name:    "given same product twice should merge quantities into one item",
			initial: ReduceCart(NewCart(), LoadCart{}),
			actions: []CartAction{
				AddItem{Product: vase, Quantity: 2, AddedAt: t0},
				AddItem{Product: vase, Quantity: 3, AddedAt: t0.Add(time.Second)},
			},
			expected: func(t *testing.T, cart Cart) {
				require.Len(t, cart.Items, 1)
				assert.Equal(t, 5, cart.Items[0].Quantity)
				assert.Equal(t, "p-vase_1700000000000", cart.Items[0].ID)
			},
		},
		{
			name:    "given add without quantity should default to one",
			initial: ReduceCart(NewCart(), LoadCart{}),
			actions: []CartAction{AddItem{Product: lamp, AddedAt: t0}},
			expected: func(t *testing.T, cart Cart) {
				require.Len(t, cart.Items, 1)
				assert.Equal(t, 1, cart.Items[0].Quantity)
				assert.Equal(t, "49.5", cart.TotalPrice.String())
			},
		},
		{
			name:    "given update to zero should remove item",
			initial: ReduceCart(NewCart(), LoadCart{}),
			actions: []CartAction{
				AddItem{Product: vase, Quantity: 2, AddedAt: t0},
				AddItem{Product: lamp, Quantity: 1, AddedAt: t0},
				UpdateQuantity{ItemID: CartItemID(vase.ID, t0), Quantity: 0},
			},
			expected: func(t *testing.T, cart Cart) {
				require.Len(t, cart.Items, 1)
				assert.Equal(t, lamp.ID, cart.Items[0].Product.ID)
			},
		},
		{
			name:    "given update to negative should remove item",
			initial: ReduceCart(NewCart(), LoadCart{}),
			actions: []CartAction{
				AddItem{Product: vase, Quantity: 2, AddedAt: t0},
				UpdateQuantity{ItemID: CartItemID(vase.ID, t0), Quantity: -4},
			},
			expected: func(t *testing.T, cart Cart) {
				assert.Empty(t, cart.Items)
				assert.Equal(t, 0, cart.TotalItems)
				assert.True(t, cart.TotalPrice.IsZero())
			},
		},
		{
			name:    "given remove by synthetic id should drop only that item",
			initial: ReduceCart(NewCart(), LoadCart{}),
			actions: []CartAction{
				AddItem{Product: vase, Quantity: 1, AddedAt: t0},
				AddItem{Product: rug, Quantity: 1, AddedAt: t0},
				RemoveItem{ItemID: CartItemID(rug.ID, t0)},
			},
			expected: func(t *testing.T, cart Cart) {
				require.Len(t, cart.Items, 1)
				assert.Equal(t, vase.ID, cart.Items[0].Product.ID)
				assert.Equal(t, "100", cart.TotalPrice.String())
			},
		},
		{
			name:    "given clear should reset and stop loading",
			initial: NewCart(),
			actions: []CartAction{AddItem{Product: vase, AddedAt: t0}, ClearCart{}},
			expected: func(t *testing.T, cart Cart) {
				assert.Empty(t, cart.Items)
				assert.False(t, cart.IsLoading)
				assert.Equal(t, 0, cart.TotalItems)
			},
		},
		{
			name:    "given load should replace items and recompute totals",
			initial: NewCart(),
			actions: []CartAction{LoadCart{Items: []CartItem{
				{ID: "a", Product: vase, Quantity: 2},
				{ID: "b", Product: rug, Quantity: 1},
				{ID: "c", Product: lamp, Quantity: 0},
			}}},
			expected: func(t *testing.T, cart Cart) {
				require.Len(t, cart.Items, 2)
				assert.False(t, cart.IsLoading)
				assert.Equal(t, 3, cart.TotalItems)
				assert.Equal(t, "1400", cart.TotalPrice.String())
			},
		},
		{
			name:    "given set loading should only flip the flag",
			initial: ReduceCart(NewCart(), LoadCart{Items: []CartItem{{ID: "a", Product: vase, Quantity: 1}}}),
			actions: []CartAction{SetLoading{Loading: true}},
			expected: func(t *testing.T, cart Cart) {
				assert.True(t, cart.IsLoading)
				assert.Len(t, cart.Items, 1)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cart := tt.initial
			for _, action := range tt.actions {
				cart = ReduceCart(cart, action)
				assertTotals(t, cart)
			}
			tt.expected(t, cart)
		})
	}
}

func TestReduceCartDoesNotMutateInput(t *testing.T) {
	before := ReduceCart(NewCart(), AddItem{Product: vase, Quantity: 1, AddedAt: t0})
	snapshot := append([]CartItem(nil), before.Items...)

	_ = ReduceCart(before, AddItem{Product: vase, Quantity: 4, AddedAt: t0})
	_ = ReduceCart(before, UpdateQuantity{ItemID: CartItemID(vase.ID, t0), Quantity: 9})

	assert.Equal(t, snapshot, before.Items)
}

func TestReduceCartTotalsHoldForRandomActions(t *testing.T) {
	products := []Product{vase, lamp, rug}
	rnd := rand.New(rand.NewSource(42))

	for run := 0; run < 50; run++ {
		cart := ReduceCart(NewCart(), LoadCart{})
		for step := 0; step < 40; step++ {
			var action CartAction
			switch rnd.Intn(4) {
			case 0, 1:
				p := products[rnd.Intn(len(products))]
				action = AddItem{Product: p, Quantity: rnd.Intn(5) - 1, AddedAt: t0.Add(time.Duration(step) * time.Millisecond)}
			case 2:
				if len(cart.Items) == 0 {
					continue
				}
				item := cart.Items[rnd.Intn(len(cart.Items))]
				action = UpdateQuantity{ItemID: item.ID, Quantity: rnd.Intn(6) - 2}
			case 3:
				if len(cart.Items) == 0 {
					continue
				}
				action = RemoveItem{ItemID: cart.Items[rnd.Intn(len(cart.Items))].ID}
			}
			cart = ReduceCart(cart, action)
			assertTotals(t, cart)

			seen := map[string]bool{}
			for _, item := range cart.Items {
				assert.False(t, seen[item.Product.ID], "product %s should appear once", item.Product.ID)
				seen[item.Product.ID] = true
			}
		}
	}
}

func TestCartItemQuantity(t *testing.T) {
	cart := ReduceCart(NewCart(), AddItem{Product: vase, Quantity: 3, AddedAt: t0})
	assert.Equal(t, 3, cart.ItemQuantity(vase.ID))
	assert.Equal(t, 0, cart.ItemQuantity(rug.ID))
}
