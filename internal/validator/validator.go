package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	val "github.com/go-playground/validator/v10"

	apperrors "smartparking/internal/errors"
)

var validate *val.Validate

var messages = map[string]string{
	"required": "{field} is required",
	"email":    "{field} must be a valid email address",
	"oneof":    "{field} must be one of {param}",
	"gt":       "{field} must be greater than {param}",
	"max":      "{field} must be at most {param} characters",
}

func init() {
	validate = val.New(val.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
}

// Decode reads JSON from r into data and validates the struct tags.
func Decode[T any](r io.Reader, data *T) error {
	if err := json.NewDecoder(r).Decode(data); err != nil {
		return apperrors.ErrBadRequest(fmt.Sprintf("invalid request body: %v", err))
	}
	return Struct(data)
}

// Struct validates data; failures become a 422 with one message per field.
func Struct[T any](data *T) error {
	err := validate.Struct(data)
	if err == nil {
		return nil
	}

	var valErrs val.ValidationErrors
	if !errors.As(err, &valErrs) {
		return apperrors.ErrBadRequest(err.Error())
	}

	fields := make(map[string]string, len(valErrs))
	for _, fe := range valErrs {
		fields[fe.Field()] = message(fe)
	}
	return apperrors.ErrValidation("invalid request", fields)
}

func message(fe val.FieldError) string {
	tmpl, ok := messages[fe.Tag()]
	if !ok {
		return fe.Error()
	}
	msg := strings.ReplaceAll(tmpl, "{field}", fe.Field())
	return strings.ReplaceAll(msg, "{param}", fe.Param())
}
