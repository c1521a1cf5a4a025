package utils

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// bcrypt only reads the first 72 bytes of a password.
const maxPasswordBytes = 72

var emailPattern = regexp.MustCompile(`^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}$`)

// IsBlank reports whether s has nothing but whitespace.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// IsValidEmail accepts addresses case-insensitively, ignoring surrounding whitespace.
func IsValidEmail(email string) bool {
	return emailPattern.MatchString(strings.ToLower(strings.TrimSpace(email)))
}

// IsAcceptablePassword checks that password has at least minRunes characters and
// still fits in what bcrypt hashes.
func IsAcceptablePassword(password string, minRunes int) bool {
	return utf8.RuneCountInString(password) >= minRunes && len(password) <= maxPasswordBytes
}
