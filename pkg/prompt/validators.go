package prompt

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidatorFunc checks a raw entered string. A non-nil error carries the
// user-facing message shown before the prompt retries.
type ValidatorFunc func(input string) error

var fieldValidator = validator.New()

// Validators returns the registry of named answer validators available to
// step definitions via the `validate` field.
func Validators() map[string]ValidatorFunc {
	return map[string]ValidatorFunc{
		"required":        validateRequired,
		"email":           validateEmail,
		"domain":          validateDomain,
		"integer":         validateInteger,
		"password_length": validatePasswordLength,
	}
}

// LookupValidator resolves a validator by name; unknown names yield nil,
// which prompts treat as "accept anything".
func LookupValidator(name string) ValidatorFunc {
	return Validators()[name]
}

func validateRequired(input string) error {
	if strings.TrimSpace(input) == "" {
		return errors.New("this field is required")
	}
	return nil
}

func validateEmail(input string) error {
	if input == "" {
		return nil // optional fields stay optional
	}
	if err := fieldValidator.Var(input, "email"); err != nil {
		return errors.New("invalid email format")
	}
	return nil
}

func validateDomain(input string) error {
	if input == "" {
		return errors.New("domain cannot be empty")
	}
	if err := fieldValidator.Var(input, "fqdn"); err != nil {
		return errors.New("invalid domain format")
	}
	return nil
}

func validateInteger(input string) error {
	if input == "" {
		return nil
	}
	if _, err := strconv.Atoi(input); err != nil {
		return errors.New("must be a valid integer")
	}
	return nil
}

func validatePasswordLength(input string) error {
	if len(input) < 8 {
		return errors.New("password must be at least 8 characters long")
	}
	return nil
}
