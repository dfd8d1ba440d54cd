// Package validation checks service inputs with struct tags and reports
// failures as apperr validation errors naming the offending JSON fields.
package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/thyagolima23/cozinha-backend/apperr"
	"github.com/thyagolima23/cozinha-backend/model"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	// a zero Date counts as missing for required
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(model.Date); ok && !d.IsZero() {
			return d.String()
		}
		return nil
	}, model.Date{})
	return v
}

// Struct validates s. Missing required fields produce message, followed by
// the field names; any other rule violation names the field as invalid.
func Struct(s any, message string) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperr.Wrap(apperr.KindInternal, "Erro de validação", err)
	}

	var missing, invalid []string
	for _, fe := range fieldErrs {
		if fe.Tag() == "required" {
			missing = append(missing, fe.Field())
		} else {
			invalid = append(invalid, fe.Field())
		}
	}

	var parts []string
	if len(missing) > 0 {
		parts = append(parts, message+": "+strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		parts = append(parts, "Campos inválidos: "+strings.Join(invalid, ", "))
	}
	return apperr.Wrap(apperr.KindValidation, strings.Join(parts, "; "), err)
}
