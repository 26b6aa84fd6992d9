// Package validator adapts go-playground/validator to echo's Validator
// interface and turns tag failures into readable messages.
package validator

import (
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// RequestValidator implements echo.Validator on top of go-playground/validator.
type RequestValidator struct {
	validate *validator.Validate
}

// uidPattern restricts session subjects to the characters the token minter
// accepts. Anything else is rejected before it reaches Firebase.
var uidPattern = regexp.MustCompile(`^[A-Za-z0-9._:@-]+$`)

// New creates a RequestValidator with struct tag validation enabled.
func New() *RequestValidator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// uid_charset validates minted-token subjects.
	_ = v.RegisterValidation("uid_charset", func(fl validator.FieldLevel) bool {
		return uidPattern.MatchString(fl.Field().String())
	})

	return &RequestValidator{validate: v}
}

// Validate checks the bound request struct and returns an echo.HTTPError
// carrying all failed-field messages, so handlers can return it directly.
func (rv *RequestValidator) Validate(i any) error {
	err := rv.validate.Struct(i)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	messages := make([]string, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		messages = append(messages, describe(fe))
	}

	return echo.NewHTTPError(http.StatusBadRequest, strings.Join(messages, "; "))
}

// describe renders one field error as a short human-readable sentence.
func describe(fe validator.FieldError) string {
	field := fe.Field()

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "uid_charset":
		return fmt.Sprintf("%s may only contain letters, digits and ._:@-", field)
	default:
		return fmt.Sprintf("%s failed on the '%s' rule", field, fe.Tag())
	}
}
