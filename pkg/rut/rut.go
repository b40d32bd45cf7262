// Package rut validates Chilean RUT identifiers (modulo-11 check digit).
package rut

import (
	"fmt"
	"strings"
)

// Normalize strips dots and the dash and upper-cases the check digit,
// returning the compact form (e.g. "12.345.678-5" -> "123456785").
func Normalize(rut string) string {
	s := strings.ReplaceAll(rut, ".", "")
	s = strings.ReplaceAll(s, "-", "")
	return strings.ToUpper(strings.TrimSpace(s))
}

// Validate checks the format and check digit of a RUT. Both dotted
// ("12.345.678-5") and plain ("12345678-5") forms are accepted.
func Validate(rut string) error {
	s := Normalize(rut)
	if len(s) < 2 {
		return fmt.Errorf("rut too short")
	}
	body := s[:len(s)-1]
	dv := s[len(s)-1]

	sum := 0
	mul := 2
	for i := len(body) - 1; i >= 0; i-- {
		c := body[i]
		if c < '0' || c > '9' {
			return fmt.Errorf("rut contains non-digit character %q", c)
		}
		sum += int(c-'0') * mul
		mul++
		if mul == 8 {
			mul = 2
		}
	}

	var want byte
	switch 11 - sum%11 {
	case 11:
		want = '0'
	case 10:
		want = 'K'
	default:
		want = byte('0' + 11 - sum%11)
	}
	if dv != want {
		return fmt.Errorf("rut check digit mismatch")
	}
	return nil
}

// Valid reports whether rut passes Validate.
func Valid(rut string) bool { return Validate(rut) == nil }
