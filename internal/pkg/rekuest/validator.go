package rekuest

import (
	"reflect"

	"github.com/go-playground/validator/v10"
	"gopkg.in/guregu/null.v3"
)

func newValidator() *validator.Validate {
	validate := validator.New()
	validate.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if v, ok := field.Interface().(null.String); ok && v.Valid {
			return v.String
		}
		return nil
	}, null.String{})
	return validate
}
