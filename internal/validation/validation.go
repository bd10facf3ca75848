// Package validation builds the shared payload validator.
package validation

import (
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/school-admin-api/internal/models"
)

// New returns a validator that understands decimal amounts and calendar dates,
// so tags such as gte=0 and required behave as they do for float64 and time.Time.
func New() *validator.Validate {
	v := validator.New()
	v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
	v.RegisterCustomTypeFunc(dateValue, models.Date{})
	return v
}

func decimalValue(field reflect.Value) interface{} {
	d, ok := field.Interface().(decimal.Decimal)
	if !ok {
		return nil
	}
	f, _ := d.Float64()
	return f
}

func dateValue(field reflect.Value) interface{} {
	d, ok := field.Interface().(models.Date)
	if !ok {
		return nil
	}
	return d.Time
}
