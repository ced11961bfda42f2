// Package emailaddr normalizes and validates email addresses before they are
// used as store lookup keys or rate-limit counter keys.
package emailaddr

import (
	"errors"
	"net/mail"
	"strings"
)

// ErrInvalid reports an address that does not parse as a bare RFC 5322
// address after normalization.
var ErrInvalid = errors.New("invalid email address")

// Normalize trims surrounding whitespace and lowercases the address. The
// normalized form is the canonical key for user lookups and failed-login
// counters, so "  User@Example.COM  " and "user@example.com" throttle and
// resolve identically.
func Normalize(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizeAndValidate normalizes email and verifies it parses as a single
// bare address (no display name, no group syntax).
func NormalizeAndValidate(email string) (string, error) {
	normalized := Normalize(email)
	if normalized == "" {
		return "", ErrInvalid
	}
	addr, err := mail.ParseAddress(normalized)
	if err != nil || addr.Address != normalized {
		return "", ErrInvalid
	}
	return normalized, nil
}
