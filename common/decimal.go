package common

import (
	"regexp"
	"strings"
)

var (
	integerRe = regexp.MustCompile(`^-?[0-9]+$`)
	decimalRe = regexp.MustCompile(`^([0-9]+(\.[0-9]+)?|\.[0-9]+)$`)
)

// IsDecimal reports whether str is a plain non-negative decimal such as
// "3", "1.5" or ".5". Signs, exponents and hex floats are rejected.
func IsDecimal(str string) bool {
	return decimalRe.MatchString(strings.TrimSpace(str))
}

// NormalizeDecimal turns a user amount into a Pact decimal literal.
//
//	".5"   -> "0.5"
//	"3"    -> "3.0"
//	"2.25" -> "2.25"
//	"10."  -> "10.0"
func NormalizeDecimal(amount string) string {
	amount = strings.TrimSpace(amount)
	if strings.HasPrefix(amount, ".") {
		return "0" + amount
	}
	if strings.HasSuffix(amount, ".") && integerRe.MatchString(amount[:len(amount)-1]) {
		return amount + "0"
	}
	if strings.Contains(amount, ".") {
		return amount
	}
	if integerRe.MatchString(amount) {
		return amount + ".0"
	}
	return amount
}
