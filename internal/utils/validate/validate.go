// Package validate wraps a shared go-playground validator configured to
// report fields by their JSON names, and turns its errors into the
// sentences shown to users.
package validate

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// The validator caches struct metadata, so one instance is shared.
var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New(validator.WithRequiredStructEnabled())
	val.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return val
}

// Struct checks every validate:"..." tag on s. A failure is returned as
// validator.ValidationErrors.
func Struct(s any) error {
	return v.Struct(s)
}

// Message converts field errors into one human-readable sentence, e.g.
// "field name is required, field email must be a valid email address".
func Message(errs validator.ValidationErrors) string {
	var msgs []string

	for _, e := range errs {
		switch e.ActualTag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("field %s is required", e.Field()))
		case "email":
			msgs = append(msgs, fmt.Sprintf("field %s must be a valid email address", e.Field()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("field %s must be one of: %s", e.Field(), strings.ReplaceAll(e.Param(), " ", ", ")))
		default:
			msgs = append(msgs, fmt.Sprintf("field %s is invalid", e.Field()))
		}
	}

	return strings.Join(msgs, ", ")
}
