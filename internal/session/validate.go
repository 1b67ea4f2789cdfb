package session

import (
	"regexp"
	"strings"
)

// emailPattern is the loose shape check the signup and login forms apply.
// It is deliberately a substring test, not a full RFC address grammar.
var emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)

// MinPasswordLength applies to registration only; login just requires a
// non-empty password.
const MinPasswordLength = 6

// ValidateRegistrationForm performs the presentation-boundary shape checks
// for signup. The result maps field name to message; an empty map means the
// form is valid. These checks run once at the boundary — the Manager itself
// only enforces uniqueness.
func ValidateRegistrationForm(name, email, password, confirmPassword string) map[string]string {
	errs := map[string]string{}

	if strings.TrimSpace(name) == "" {
		errs["name"] = "Name is required"
	}

	if email == "" {
		errs["email"] = "Email is required"
	} else if !emailPattern.MatchString(email) {
		errs["email"] = "Email is invalid"
	}

	if password == "" {
		errs["password"] = "Password is required"
	} else if len(password) < MinPasswordLength {
		errs["password"] = "Password must be at least 6 characters"
	}

	if confirmPassword == "" {
		errs["confirmPassword"] = "Please confirm your password"
	} else if password != confirmPassword {
		errs["confirmPassword"] = "Passwords do not match"
	}

	return errs
}

// ValidateLoginForm performs the presentation-boundary shape checks for
// login.
func ValidateLoginForm(email, password string) map[string]string {
	errs := map[string]string{}

	if email == "" {
		errs["email"] = "Email is required"
	} else if !emailPattern.MatchString(email) {
		errs["email"] = "Email is invalid"
	}

	if password == "" {
		errs["password"] = "Password is required"
	}

	return errs
}
