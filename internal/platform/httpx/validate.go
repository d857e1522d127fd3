package httpx

import (
	"errors"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Messages attached to validation failures.
const (
	RequiredFieldsMessage = "Please fill in all required fields"
	InvalidFieldsMessage  = "Some fields have invalid values"
)

// Validator checks request payloads with struct tags.
type Validator struct {
	v *validator.Validate
}

// NewValidator returns a Validator reporting JSON field names.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonFieldName)
	return &Validator{v: v}
}

// Struct validates s and converts failures into a ValidationError naming
// every failing field. Missing input takes precedence in the message.
func (val *Validator) Struct(s any) error {
	err := val.v.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	fields := make([]string, 0, len(fieldErrs))
	message := InvalidFieldsMessage
	for _, fe := range fieldErrs {
		fields = append(fields, fe.Field())
		if fe.Tag() == "required" {
			message = RequiredFieldsMessage
		}
	}
	sort.Strings(fields)
	return NewValidationError(message, fields...)
}

func jsonFieldName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	if name == "" {
		return fld.Name
	}
	return name
}

// OneOf reports a ValidationError for field unless value is empty or one of
// allowed. Empty values are left to the required tag.
func OneOf(field, value string, allowed []string) error {
	if value == "" {
		return nil
	}
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return NewValidationError(InvalidFieldsMessage, field)
}
