package request

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/Alturino/storefront/internal/validate"
)

func TestOrderItemQuantityBounds(t *testing.T) {
	tests := []struct {
		name     string
		quantity int
		valid    bool
	}{
		{name: "given one should pass", quantity: 1, valid: true},
		{name: "given upper limit should pass", quantity: 999, valid: true},
		{name: "given zero should fail", quantity: 0, valid: false},
		{name: "given more than the limit should fail", quantity: 1000, valid: false},
		{name: "given a value past int32 should fail", quantity: 4294967301, valid: false},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := validate.New().Struct(OrderItem{Product: uuid.New(), Quantity: test.quantity})
			if test.valid {
				assert.NoError(t, err)
				return
			}
			assert.Error(t, err)
			field, tag, ok := validate.FirstFailed(err)
			assert.True(t, ok)
			assert.Equal(t, "quantity", field)
			assert.Contains(t, []string{"gte", "lte"}, tag)
		})
	}
}
