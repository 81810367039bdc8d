package analyzer

import (
	"errors"
	"strings"
)

// ErrInvalidSymbol is returned for symbols that do not resolve to a 6-digit
// A-share code.
var ErrInvalidSymbol = errors.New("invalid symbol format: must be a 6-digit code")

var exchangeTags = []string{"sh", "sz", "bj"}

// NormalizeSymbol strips exchange prefixes/suffixes (sh600000, 600000.SH)
// down to the bare 6-digit code.
func NormalizeSymbol(symbol string) string {
	s := strings.ToLower(strings.TrimSpace(symbol))
	for _, tag := range exchangeTags {
		if strings.HasPrefix(s, tag) {
			s = s[len(tag):]
			break
		}
	}
	for _, tag := range exchangeTags {
		if strings.HasSuffix(s, "."+tag) {
			s = s[:len(s)-len(tag)-1]
			break
		}
	}
	return s
}

// ValidateSymbol normalizes and shape-checks a symbol.
func ValidateSymbol(symbol string) (string, error) {
	s := NormalizeSymbol(symbol)
	if len(s) != 6 {
		return "", ErrInvalidSymbol
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return "", ErrInvalidSymbol
		}
	}
	return s, nil
}
