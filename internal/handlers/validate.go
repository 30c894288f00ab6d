package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"flyerpress/internal/models"
)

// newValidator builds the request validator: json field names in messages,
// a "price" rule for decimal strings and a product completeness rule.
func newValidator() *validator.Validate {
	v := validator.New()

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation("price", func(fl validator.FieldLevel) bool {
		p, err := models.ParsePrice(fl.Field().String())
		return err == nil && p >= 0
	}); err != nil {
		panic(fmt.Sprintf("register price validation: %v", err))
	}

	v.RegisterStructValidation(func(sl validator.StructLevel) {
		p := sl.Current().Interface().(models.Product)
		if p.ID <= 0 {
			sl.ReportError(p.ID, "id", "ID", "required", "")
		}
		if strings.TrimSpace(p.Name) == "" {
			sl.ReportError(p.Name, "name", "Name", "required", "")
		}
	}, models.Product{})

	return v
}

// validationMessage turns the first validation error into a short message.
func validationMessage(err error) string {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return "Invalid request"
	}
	fe := errs[0]
	field := strings.TrimPrefix(fe.Namespace(), "promotionRequest.")
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "price":
		return fmt.Sprintf("%s must be a non-negative decimal price", field)
	case "gtefield":
		return fmt.Sprintf("%s must not be before %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid (%s)", field, fe.Tag())
	}
}
