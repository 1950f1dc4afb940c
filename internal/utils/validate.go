package utils

import (
	"errors"
	"regexp"
	"unicode"
)

var (
	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	phonePattern = regexp.MustCompile(`^\+?1?\d{9,15}$`)
)

// ValidEmail reports whether v looks like an email address.
func ValidEmail(v string) bool {
	return emailPattern.MatchString(v)
}

// ValidPhone reports whether v matches the loose international phone
// pattern. Empty is acceptable since phone numbers are optional.
func ValidPhone(v string) bool {
	return v == "" || phonePattern.MatchString(v)
}

// ValidatePassword enforces the minimum password policy: at least eight
// characters and not entirely numeric.
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return errors.New("Password must be at least 8 characters long.")
	}

	numeric := true
	for _, r := range password {
		if !unicode.IsDigit(r) {
			numeric = false
			break
		}
	}
	if numeric {
		return errors.New("Password cannot be entirely numeric.")
	}

	return nil
}
