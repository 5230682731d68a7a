// Package validation provides input validation and normalization helpers.
package validation

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// NormalizeBedName collapses whitespace and title-cases a bed name word by
// word. Words that arrive fully uppercase and longer than one rune are kept
// as-is so acronyms like "NE" or "USDA" survive normalization.
func NormalizeBedName(name string) string {
	words := strings.Fields(name)
	for i, w := range words {
		if utf8.RuneCountInString(w) > 1 && w == strings.ToUpper(w) && w != strings.ToLower(w) {
			continue
		}
		lower := strings.ToLower(w)
		r, size := utf8.DecodeRuneInString(lower)
		words[i] = string(unicode.ToUpper(r)) + lower[size:]
	}
	return strings.Join(words, " ")
}

// ValidatePassword checks that a password meets the minimum requirements.
func ValidatePassword(password string) error {
	if len(password) < 6 {
		return fmt.Errorf("password must be at least 6 characters")
	}
	if len(password) > 128 {
		return fmt.Errorf("password must not exceed 128 characters")
	}
	return nil
}

// ValidateEmail checks that an address is syntactically plausible.
func ValidateEmail(email string) error {
	trimmed := strings.TrimSpace(email)
	if trimmed == "" || !strings.Contains(trimmed, "@") {
		return fmt.Errorf("please enter a valid email address")
	}
	if len(trimmed) > 254 {
		return fmt.Errorf("email must not exceed 254 characters")
	}
	return nil
}

// ValidateUsername checks that a username is usable after trimming.
func ValidateUsername(username string) error {
	trimmed := strings.TrimSpace(username)
	if trimmed == "" {
		return fmt.Errorf("username is required")
	}
	if utf8.RuneCountInString(trimmed) > 30 {
		return fmt.Errorf("username must not exceed 30 characters")
	}
	return nil
}
