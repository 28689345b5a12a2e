package utils

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// emailShape is a shape filter, not an RFC 5322 parser: one @, no
// whitespace, and a dot somewhere in the domain.
var emailShape = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func ValidateEmail(email string) bool {
	return emailShape.MatchString(email)
}

// HasControlChars reports whether s contains an ASCII control byte other
// than tab, line feed or carriage return.
func HasControlChars(s string) bool {
	for i := 0; i < len(s); i++ {
		b := s[i]
		if b < 0x20 && b != '\t' && b != '\n' && b != '\r' {
			return true
		}
	}
	return false
}

// CharCount counts characters (runes), not bytes.
func CharCount(s string) int {
	return utf8.RuneCountInString(s)
}

// HeaderSafe collapses every run of whitespace, CR and LF included, into a
// single space so a value can be placed in a mail header.
func HeaderSafe(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func MaskEmail(email string) string {
	if len(email) < 5 {
		return email
	}

	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return email
	}

	username := parts[0]
	domain := parts[1]

	if len(username) > 2 {
		maskedUsername := string(username[0]) + "***" + string(username[len(username)-1])
		return maskedUsername + "@" + domain
	}

	return username + "@" + domain
}
