package domain

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationTag is the struct tag read by both gin binding and NewValidator.
const ValidationTag = "binding"

// NewValidator returns a validator that reads binding tags and knows the domain rules.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.SetTagName(ValidationTag)
	if err := RegisterValidations(v); err != nil {
		panic(err)
	}
	return v
}

// RegisterValidations installs the custom rules on v. It is shared with gin's engine
// so request binding and service validation agree.
func RegisterValidations(v *validator.Validate) error {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	return v.RegisterValidation("track", func(fl validator.FieldLevel) bool {
		return Track(fl.Field().String()).Valid()
	})
}

// AsValidationError converts the first validator failure into a ValidationError.
// Other errors are returned unchanged.
func AsValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	return &ValidationError{Field: fe.Field(), Reason: describeRule(fe)}
}

func describeRule(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "gt":
		return "must be greater than " + fe.Param()
	case "track":
		return fmt.Sprintf("unknown track %q", fe.Value())
	default:
		return "failed " + fe.Tag() + " rule"
	}
}
