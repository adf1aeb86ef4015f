// Package cpf validates Brazilian taxpayer numbers used as patient identifiers.
package cpf

import "strings"

// Sanitize strips everything but digits ("123.456.789-09" -> "12345678909").
func Sanitize(cpf string) string {
	var b strings.Builder
	b.Grow(len(cpf))
	for _, r := range cpf {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// HasValidFormat reports whether cpf is exactly 11 ASCII digits.
func HasValidFormat(cpf string) bool {
	if len(cpf) != 11 {
		return false
	}
	for i := 0; i < len(cpf); i++ {
		if cpf[i] < '0' || cpf[i] > '9' {
			return false
		}
	}
	return true
}

// IsValid checks the format after sanitizing, rejects repeated-digit numbers
// and verifies both check digits.
func IsValid(cpf string) bool {
	clean := Sanitize(cpf)
	if !HasValidFormat(clean) {
		return false
	}

	allEqual := true
	for i := 1; i < len(clean); i++ {
		if clean[i] != clean[0] {
			allEqual = false
			break
		}
	}
	if allEqual {
		return false
	}

	return checkDigit(clean[:9]) == clean[9] && checkDigit(clean[:10]) == clean[10]
}

// checkDigit computes the mod-11 verifier for the given prefix.
func checkDigit(prefix string) byte {
	weight := len(prefix) + 1
	sum := 0
	for i := 0; i < len(prefix); i++ {
		sum += int(prefix[i]-'0') * (weight - i)
	}
	rest := sum % 11
	if rest < 2 {
		return '0'
	}
	return byte('0' + 11 - rest)
}
