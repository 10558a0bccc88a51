package services

import (
	"errors"
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/rolegate/backend/internal/apperrors"
)

const passwordPolicy = "must be at least 8 characters long and contain at least one uppercase letter, one lowercase letter, one number, and one special character."

// emailRegex validates email format
var emailRegex = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Z|a-z]{2,7}$`)

// passwordRegex validates password: at least 8 chars on one line, uppercase, lowercase, number, special: !@#$%^&*()_-+=<>?
var passwordRegex = []*regexp.Regexp{
	regexp.MustCompile(`^.{8,}$`),
	regexp.MustCompile(`[A-Z]`),
	regexp.MustCompile(`[a-z]`),
	regexp.MustCompile(`[0-9]`),
	regexp.MustCompile(`[!@#$%^&*()_\-+=<>?]`),
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// requiredMessages maps a struct field to the message returned when it is missing
var requiredMessages = map[string]string{
	"RoleID":    "Role id is required",
	"FirstName": "Firstname is required",
	"LastName":  "Lastname is required",
	"Email":     "Email id is required",
	"Password":  "Password is required",
}

// validateRequired runs the struct's validate tags and reports the first failing field.
// Fields are checked in declaration order.
func validateRequired(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return err
	}

	first := validationErrors[0]
	if msg, ok := requiredMessages[first.StructField()]; ok && first.Tag() == "required" {
		return apperrors.Validation("%s", msg)
	}
	return apperrors.Validation("%s is invalid", first.Field())
}

func isValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

func isValidPassword(password string) bool {
	for _, re := range passwordRegex {
		if !re.MatchString(password) {
			return false
		}
	}
	return true
}
