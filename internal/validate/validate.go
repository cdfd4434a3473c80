// Package validate configures the request validator shared by every service.
package validate

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	once     sync.Once
	validate *validator.Validate
)

// New returns the process wide validator. Field errors are reported with their json names so they
// can be echoed back to clients.
func New() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		validate.RegisterCustomTypeFunc(DecimalValue, decimal.Decimal{})
		if err := validate.RegisterValidation("price", ValidatePrice); err != nil {
			panic(err)
		}
	})
	return validate
}

// ValidatePrice accepts zero or positive decimals, given either as a decimal or a string.
func ValidatePrice(fl validator.FieldLevel) bool {
	switch v := fl.Field().Interface().(type) {
	case string:
		d, err := decimal.NewFromString(v)
		if err != nil {
			return false
		}
		return !d.IsNegative()
	case float64:
		return v >= 0
	default:
		return false
	}
}

// DecimalValue lets validator compare decimals as float64, e.g. with gte=0.
func DecimalValue(v reflect.Value) interface{} {
	d, ok := v.Interface().(decimal.Decimal)
	if !ok {
		return nil
	}
	f, _ := d.Float64()
	return f
}

// FirstFailed returns the json path and tag of the first failing field, in struct order. The path
// omits the root struct name, e.g. "shippingAddress.city" or "items[0].quantity".
func FirstFailed(err error) (field string, tag string, ok bool) {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return "", "", false
	}
	path := errs[0].Namespace()
	if _, rest, found := strings.Cut(path, "."); found {
		path = rest
	}
	return path, errs[0].Tag(), true
}
