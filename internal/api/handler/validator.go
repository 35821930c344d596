package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/99minutos/user-admin/internal/core/domain"
)

// formatTags are the custom tags backed by the domain's regulated-field
// validators. A failure on one of them is a format error, not a schema error.
var formatTags = map[string]func(string) error{
	domain.FieldRFC:        domain.ValidateRFC,
	domain.FieldCURP:       domain.ValidateCURP,
	domain.FieldPostalCode: domain.ValidatePostalCode,
	domain.FieldPhone:      domain.ValidatePhone,
	domain.FieldDate:       domain.ValidateDate,
	"role": func(s string) error {
		if !domain.Role(s).Valid() {
			return &domain.FormatError{Field: "role"}
		}
		return nil
	},
}

// echoValidator wraps go-playground/validator so Echo can call c.Validate(req).
type echoValidator struct {
	v *validator.Validate
}

// NewValidator returns an echoValidator ready to be assigned to echo.Echo.Validator.
func NewValidator() *echoValidator {
	v := validator.New()
	for tag, check := range formatTags {
		// Empty means absent; presence is enforced by "required" where needed.
		_ = v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			s := fl.Field().String()
			return s == "" || check(s) == nil
		})
	}
	return &echoValidator{v: v}
}

// Validate satisfies the echo.Validator interface. Format failures become
// *domain.FormatError; other failures are reported as 422.
func (ev *echoValidator) Validate(i any) error {
	err := ev.v.Struct(i)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}

	msgs := make([]string, 0, len(ve))
	for _, fe := range ve {
		if _, ok := formatTags[fe.Tag()]; ok {
			return &domain.FormatError{Field: fe.Tag()}
		}
		msgs = append(msgs, fieldError(fe))
	}
	return echo.NewHTTPError(http.StatusUnprocessableEntity, strings.Join(msgs, "; "))
}

// fieldError converts a single ValidationError into a human-readable message.
func fieldError(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
