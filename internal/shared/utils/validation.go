package utils

import (
	stderrors "errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/lukekerwin/the-spreadsheet-backend/internal/shared/errors"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ruleMessages renders a failed rule; the first verb is the field, the second
// the rule parameter when the rule has one.
var ruleMessages = map[string]string{
	"required": "%s is required",
	"min":      "%s must be at least %s",
	"max":      "%s must be at most %s",
	"gt":       "%s must be greater than %s",
	"gte":      "%s must be greater than or equal to %s",
	"oneof":    "%s must be one of [%s]",
	"url":      "%s must be a valid URL",
}

// Validate checks the struct's validate tags and folds every violation into
// one validation AppError. Field names follow the json tags.
func Validate(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var violations validator.ValidationErrors
	if !stderrors.As(err, &violations) {
		return errors.NewInternalError("Validation could not run", err.Error())
	}

	details := make([]string, 0, len(violations))
	for _, fe := range violations {
		details = append(details, describeViolation(fe))
	}
	return errors.NewValidationError("Validation failed", strings.Join(details, "; "))
}

func describeViolation(fe validator.FieldError) string {
	format, ok := ruleMessages[fe.Tag()]
	if !ok {
		return fmt.Sprintf("%s failed the %s rule", fe.Field(), fe.Tag())
	}
	if fe.Param() == "" {
		return fmt.Sprintf(format, fe.Field())
	}
	// a slice max is a length, not a value
	if fe.Tag() == "max" && fe.Kind() == reflect.Slice {
		return fmt.Sprintf("%s must contain at most %s items", fe.Field(), fe.Param())
	}
	return fmt.Sprintf(format, fe.Field(), fe.Param())
}
