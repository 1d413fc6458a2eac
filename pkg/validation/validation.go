package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// required menerima "   "; notblank tidak
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	_ = v.RegisterValidation("currency", func(fl validator.FieldLevel) bool {
		_, err := NormalizeCurrency(fl.Field().String())
		return err == nil
	})
	return v
}

// Struct validates s against its `validate` tags and returns one error whose
// message lists every failing field.
func Struct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	if msgs := FormatValidationError(err); len(msgs) > 0 {
		return errors.New(strings.Join(msgs, "; "))
	}
	return err
}

func FormatValidationError(err error) []string {
	var errs []string

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, e := range validationErrors {
			field := e.Field()
			tag := e.Tag()

			switch tag {
			case "required":
				errs = append(errs, fmt.Sprintf("%s is required", field))
			case "notblank":
				errs = append(errs, fmt.Sprintf("%s must not be blank", field))
			case "gt":
				errs = append(errs, fmt.Sprintf("%s must be greater than %s", field, e.Param()))
			case "gte":
				errs = append(errs, fmt.Sprintf("%s must be at least %s", field, e.Param()))
			case "lte":
				errs = append(errs, fmt.Sprintf("%s must be at most %s", field, e.Param()))
			case "max":
				errs = append(errs, fmt.Sprintf("%s must have maximum length %s", field, e.Param()))
			case "oneof":
				errs = append(errs, fmt.Sprintf("%s must be one of [%s]", field, e.Param()))
			case "currency":
				errs = append(errs, fmt.Sprintf("%s %s", field, ErrInvalidCurrency.Error()))
			default:
				errs = append(errs, fmt.Sprintf("%s is invalid (%s)", field, tag))
			}
		}
	}
	return errs
}
