// utils/validation.go
package utils

import (
	"errors"
	"regexp"
	"unicode"
)

var (
	emailRegex    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]{3,15}$`)
	phoneRegex    = regexp.MustCompile(`^[0-9]{7,15}$`)
)

// ValidateEmail checks for a single "@" followed by a dotted domain.
func ValidateEmail(email string) error {
	if email == "" {
		return errors.New("email is required")
	}
	if !emailRegex.MatchString(email) {
		return errors.New("email is invalid")
	}
	return nil
}

// ValidatePassword requires at least 6 characters made of letters and digits,
// with at least one of each.
func ValidatePassword(password string) error {
	if password == "" {
		return errors.New("password is required")
	}

	var letters, digits int
	for _, r := range password {
		switch {
		case r <= unicode.MaxASCII && unicode.IsLetter(r):
			letters++
		case r <= unicode.MaxASCII && unicode.IsDigit(r):
			digits++
		default:
			return errors.New("password may only contain letters and numbers")
		}
	}
	if letters+digits < 6 || letters == 0 || digits == 0 {
		return errors.New("password must be at least 6 characters, include at least one letter and one number")
	}
	return nil
}

// ValidateUsername allows 3 to 15 letters, digits or underscores.
func ValidateUsername(username string) error {
	if !usernameRegex.MatchString(username) {
		return errors.New("username must be 3-15 characters: letters, numbers or underscore")
	}
	return nil
}

// ValidatePhone allows 7 to 15 digits.
func ValidatePhone(phone string) error {
	if !phoneRegex.MatchString(phone) {
		return errors.New("phone must be 7-15 digits")
	}
	return nil
}
