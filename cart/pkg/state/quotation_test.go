package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReduceQuotation(t *testing.T) {
	tests := []struct {
		name     string
		actions  []QuotationAction
		expected func(t *testing.T, q Quotation)
	}{
		{
			name: "given same product twice should increment quantity",
			actions: []QuotationAction{
				AddQuoteItem{Product: vase, Quantity: 2},
				AddQuoteItem{Product: vase, Quantity: 3},
			},
			expected: func(t *testing.T, q Quotation) {
				require.Len(t, q.Items, 1)
				assert.Equal(t, 5, q.Items[0].Quantity)
				assert.Equal(t, 5, q.TotalItems())
			},
		},
		{
			name:    "given zero quantity add should default to one",
			actions: []QuotationAction{AddQuoteItem{Product: rug}},
			expected: func(t *testing.T, q Quotation) {
				require.Len(t, q.Items, 1)
				assert.Equal(t, 1, q.Items[0].Quantity)
			},
		},
		{
			name: "given update quantity to zero should remove product",
			actions: []QuotationAction{
				AddQuoteItem{Product: vase, Quantity: 2},
				AddQuoteItem{Product: lamp, Quantity: 1},
				UpdateQuoteQuantity{ProductID: vase.ID, Quantity: 0},
			},
			expected: func(t *testing.T, q Quotation) {
				require.Len(t, q.Items, 1)
				assert.Equal(t, lamp.ID, q.Items[0].Product.ID)
			},
		},
		{
			name: "given update quantity should replace it",
			actions: []QuotationAction{
				AddQuoteItem{Product: vase, Quantity: 2},
				UpdateQuoteQuantity{ProductID: vase.ID, Quantity: 7},
			},
			expected: func(t *testing.T, q Quotation) {
				assert.Equal(t, 7, q.Items[0].Quantity)
			},
		},
		{
			name: "given requirements should attach them to the product",
			actions: []QuotationAction{
				AddQuoteItem{Product: vase, Quantity: 1},
				UpdateRequirements{ProductID: vase.ID, Requirements: "matte finish"},
			},
			expected: func(t *testing.T, q Quotation) {
				assert.Equal(t, "matte finish", q.Items[0].CustomRequirements)
			},
		},
		{
			name: "given remove and clear should drop items but keep sidebar flag",
			actions: []QuotationAction{
				AddQuoteItem{Product: vase, Quantity: 1},
				AddQuoteItem{Product: rug, Quantity: 1},
				SetSidebarOpen{Open: true},
				RemoveQuoteItem{ProductID: vase.ID},
				ClearQuotation{},
			},
			expected: func(t *testing.T, q Quotation) {
				assert.Empty(t, q.Items)
				assert.True(t, q.IsOpen)
			},
		},
		{
			name:    "given toggle twice should return to closed",
			actions: []QuotationAction{ToggleSidebar{}, ToggleSidebar{}},
			expected: func(t *testing.T, q Quotation) {
				assert.False(t, q.IsOpen)
			},
		},
		{
			name: "given load with duplicates should merge them",
			actions: []QuotationAction{LoadQuotation{Items: []QuotationItem{
				{Product: vase, Quantity: 1},
				{Product: vase, Quantity: 2, CustomRequirements: "gold"},
				{Product: rug, Quantity: 0},
			}}},
			expected: func(t *testing.T, q Quotation) {
				require.Len(t, q.Items, 1)
				assert.Equal(t, 3, q.Items[0].Quantity)
				assert.Equal(t, "gold", q.Items[0].CustomRequirements)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := NewQuotation()
			for _, action := range tt.actions {
				q = ReduceQuotation(q, action)
				ids := map[string]bool{}
				for _, item := range q.Items {
					require.False(t, ids[item.Product.ID], "product id should be unique")
					ids[item.Product.ID] = true
				}
			}
			tt.expected(t, q)
		})
	}
}
