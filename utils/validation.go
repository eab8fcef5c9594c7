// utils/validation.go
package utils

import (
	"regexp"
	"strings"
)

var phonePattern = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)

// CleanPhone strips spaces, dashes and parentheses.
func CleanPhone(phone string) string {
	return strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(phone)
}

// ValidatePhone checks if a phone number is in a valid international format
func ValidatePhone(phone string) bool {
	return phonePattern.MatchString(CleanPhone(phone))
}

// IsE164 reports whether phone carries a country code, which is what the
// WhatsApp channel requires.
func IsE164(phone string) bool {
	cleaned := CleanPhone(phone)
	return strings.HasPrefix(cleaned, "+") && phonePattern.MatchString(cleaned)
}
