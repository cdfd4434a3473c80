package format

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func price(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		name     string
		price    *decimal.Decimal
		currency string
		expected string
	}{
		{name: "given nil price should ask for quotation", price: nil, expected: RequestQuote},
		{name: "given small price should not group", price: price("999"), expected: "₹999"},
		{name: "given thousands should group by three", price: price("1500"), expected: "₹1,500"},
		{name: "given lakhs should group by two after thousands", price: price("123456"), expected: "₹1,23,456"},
		{name: "given crores should keep grouping by two", price: price("12345678"), expected: "₹1,23,45,678"},
		{name: "given fraction should keep significant digits", price: price("1234.50"), expected: "₹1,234.5"},
		{name: "given fraction with more digits should round to paise", price: price("10.256"), expected: "₹10.26"},
		{name: "given custom currency should use it", price: price("2500"), currency: "$", expected: "$2,500"},
		{name: "given negative price should keep the sign", price: price("-1500"), expected: "₹-1,500"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatPrice(tt.price, tt.currency))
		})
	}
}

func TestFormatDiscount(t *testing.T) {
	assert.Equal(t, "25% OFF", FormatDiscount(decimal.NewFromInt(200), decimal.NewFromInt(150)))
	assert.Equal(t, "33% OFF", FormatDiscount(decimal.NewFromInt(300), decimal.NewFromInt(200)))
	assert.Equal(t, "", FormatDiscount(decimal.Zero, decimal.NewFromInt(10)))
}

func TestTruncateText(t *testing.T) {
	assert.Equal(t, "short", TruncateText("short", 10))
	assert.Equal(t, "hand made...", TruncateText("hand made vase", 10))
	assert.Equal(t, "हस्त...", TruncateText("हस्तनिर्मित", 4))
}

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"Brass Table Lamp":      "brass-table-lamp",
		"  Hand-made  Vase!! ":  "hand-made-vase",
		"Glass & Metal (Large)": "glass-metal-large",
		"---":                   "",
	}
	for input, expected := range tests {
		assert.Equal(t, expected, Slugify(input), input)
	}
}
