package validate

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type item struct {
	Name  string          `json:"name"  validate:"required"`
	Price decimal.Decimal `json:"price" validate:"gte=0"`
	Raw   string          `json:"raw"   validate:"omitempty,price"`
}

func TestFirstFailedUsesJsonNames(t *testing.T) {
	err := New().Struct(item{Price: decimal.NewFromInt(1)})
	field, tag, ok := FirstFailed(err)
	assert.True(t, ok)
	assert.Equal(t, "name", field)
	assert.Equal(t, "required", tag)
}

func TestDecimalAndPriceRules(t *testing.T) {
	assert.NoError(t, New().Struct(item{Name: "vase", Price: decimal.Zero, Raw: "10.50"}))

	field, tag, ok := FirstFailed(New().Struct(item{Name: "vase", Price: decimal.NewFromInt(-1)}))
	assert.True(t, ok)
	assert.Equal(t, "price", field)
	assert.Equal(t, "gte", tag)

	field, _, ok = FirstFailed(New().Struct(item{Name: "vase", Raw: "abc"}))
	assert.True(t, ok)
	assert.Equal(t, "raw", field)
}

func TestFirstFailedIgnoresOtherErrors(t *testing.T) {
	_, _, ok := FirstFailed(assert.AnError)
	assert.False(t, ok)
}

type address struct {
	City string `json:"city" validate:"required"`
}

type order struct {
	Shipping address `json:"shippingAddress"`
	Items    []item  `json:"items" validate:"required,dive"`
}

func TestFirstFailedReportsNestedPath(t *testing.T) {
	field, _, ok := FirstFailed(New().Struct(order{
		Shipping: address{City: "Pune"},
		Items:    []item{{Name: "vase"}, {}},
	}))
	assert.True(t, ok)
	assert.Equal(t, "items[1].name", field)

	field, _, ok = FirstFailed(New().Struct(order{Items: []item{{Name: "vase"}}}))
	assert.True(t, ok)
	assert.Equal(t, "shippingAddress.city", field)
}
