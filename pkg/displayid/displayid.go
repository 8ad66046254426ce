// Package displayid generates the short human-readable codes shown
// for listings in place of the store's opaque document keys.
package displayid

import (
	"math/rand"
	"regexp"
)

const (
	letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digits  = "0123456789"
)

var pattern = regexp.MustCompile(`^[A-Z][0-9]{3}[A-Z]$`)

// New draws a fresh code: one uppercase letter, three digits, one
// uppercase letter, each uniform and independent. The 676,000-code
// space makes collisions within a working set unlikely; no uniqueness
// check is performed here.
func New() string {
	b := make([]byte, 5)
	b[0] = letters[rand.Intn(len(letters))]
	b[1] = digits[rand.Intn(len(digits))]
	b[2] = digits[rand.Intn(len(digits))]
	b[3] = digits[rand.Intn(len(digits))]
	b[4] = letters[rand.Intn(len(letters))]
	return string(b)
}

// IsValid checks that a string has the letter-digit-digit-digit-letter
// shape.
func IsValid(id string) bool {
	return pattern.MatchString(id)
}
