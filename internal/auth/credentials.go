package auth

import "github.com/go-playground/validator/v10"

const (
	emailRules = "required,email"

	// At least eight ASCII letters or digits, mixing upper case, lower case
	// and digits.
	passwordRules = "min=8,alphanum," +
		"containsany=ABCDEFGHIJKLMNOPQRSTUVWXYZ," +
		"containsany=abcdefghijklmnopqrstuvwxyz," +
		"containsany=0123456789"
)

var validate = validator.New()

// ValidateEmail reports whether s has the local@domain.tld shape.
func ValidateEmail(s string) bool {
	return validate.Var(s, emailRules) == nil
}

// ValidatePassword reports whether s is a strong enough password.
func ValidatePassword(s string) bool {
	return validate.Var(s, passwordRules) == nil
}
