package validator

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// CustomValidator implements echo.Validator using go-playground/validator
type CustomValidator struct {
	v *validator.Validate
}

// New creates the validator. Field errors are named after the json, query or
// param tag, whichever the field binds from.
func New() *CustomValidator {
	v := validator.New()
	v.RegisterTagNameFunc(fieldName)
	return &CustomValidator{v: v}
}

func fieldName(f reflect.StructField) string {
	for _, tag := range []string{"json", "query", "param"} {
		name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
		if name != "" && name != "-" {
			return name
		}
	}
	return f.Name
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.v.Struct(i)
}

// Describe turns validation errors into "field: rule" pairs
func Describe(err error) map[string]string {
	out := map[string]string{}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return out
	}
	for _, fe := range verrs {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		out[fe.Field()] = rule
	}
	return out
}
