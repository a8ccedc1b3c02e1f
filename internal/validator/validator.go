package validator

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/omniwatch/cinema-client/internal/domain"
)

var hasSpecialRgx = regexp.MustCompile(`[!@#$%^&*]`)

func NewValidator() *validator.Validate {
	validator := validator.New(validator.WithRequiredStructEnabled())

	validator.RegisterValidation("password", validatePassword)

	return validator
}

func validatePassword(fl validator.FieldLevel) bool {
	password := fl.Field().String()

	if len(password) < 8 || len(password) > 25 {
		return false
	}

	containsUpper, containsLower, containsDigit, containsSpecial := false, false, false, false

	for _, ch := range password {
		switch {
		case unicode.IsUpper(ch):
			containsUpper = true
		case unicode.IsLower(ch):
			containsLower = true
		case unicode.IsDigit(ch):
			containsDigit = true
		case hasSpecialRgx.MatchString(string(ch)):
			containsSpecial = true
		}
	}

	return containsUpper && containsLower && containsDigit && containsSpecial
}

// ValidationMessage converts validator errors into readable messages
func ValidationMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s", err.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", err.Param())
	case "numeric":
		return "must contain only digits"
	case "credit_card":
		return "must be a valid card number"
	case "password":
		return "must be 8-25 characters and include at least one uppercase letter, one lowercase letter, " +
			"one number, and one special character (!@#$%^&*)"
	default:
		return "is invalid"
	}
}

// ToValidationError converts validator output into the same field-level
// error shape the backend reports, so the UI renders both identically.
func ToValidationError(errs validator.ValidationErrors) *domain.ValidationError {
	fields := make([]domain.FieldError, len(errs))

	for i, err := range errs {
		fields[i] = domain.FieldError{
			Field: strings.ToLower(err.Field()),
			Issue: ValidationMessage(err),
		}
	}

	return &domain.ValidationError{Fields: fields}
}
