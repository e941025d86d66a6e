package http

import (
	"errors"
	"reflect"
	"strings"
	"unicode/utf8"

	"workorders/internal/pkg/errs"

	"github.com/go-playground/validator/v10"
)

// RequestValidator validates request bodies for echo's Context.Validate.
// Failures are reported with the domain error types so they map to 400.
type RequestValidator struct {
	validate *validator.Validate
}

func NewRequestValidator() *RequestValidator {
	v := validator.New(validator.WithRequiredStructEnabled())

	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	return &RequestValidator{validate: v}
}

func (rv *RequestValidator) Validate(i any) error {
	err := rv.validate.Struct(i)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return errs.NewValueIsInvalidErrorWithCause("request", err)
	}

	joined := make([]error, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		joined = append(joined, fieldError(fe))
	}
	return errors.Join(joined...)
}

func fieldError(fe validator.FieldError) error {
	switch fe.Tag() {
	case "required", "notblank":
		return errs.NewValueIsRequiredError(fe.Field())
	case "max":
		return errs.NewValueIsOutOfRangeError(fe.Field()+" length", length(fe.Value()), 0, fe.Param())
	case "min":
		return errs.NewValueIsOutOfRangeError(fe.Field()+" length", length(fe.Value()), fe.Param(), "unbounded")
	default:
		return errs.NewValueIsInvalidErrorWithCause(fe.Field(), fe)
	}
}

func length(v any) int {
	if s, ok := v.(string); ok {
		return utf8.RuneCountInString(s)
	}
	return reflect.ValueOf(v).Len()
}
