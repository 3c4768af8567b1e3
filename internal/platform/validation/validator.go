// Package validation wires go-playground/validator into echo so handlers can
// call c.Validate on bound request structs.
package validation

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/clinichq/clinic-server/internal/platform/apperr"
)

type EchoValidator struct {
	validate *validator.Validate
}

func New() *EchoValidator {
	return &EchoValidator{validate: validator.New(validator.WithRequiredStructEnabled())}
}

// Validate checks struct tags and converts failures into a single Invalid
// error listing the offending fields.
func (ev *EchoValidator) Validate(i interface{}) error {
	err := ev.validate.Struct(i)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperr.Invalid("invalid request body")
	}

	var fields []string
	for _, fe := range verrs {
		fields = append(fields, strings.ToLower(fe.Field())+" ("+fe.Tag()+")")
	}
	return apperr.Invalid("invalid request: " + strings.Join(fields, ", "))
}
