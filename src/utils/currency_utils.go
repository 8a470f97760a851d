package utils

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Money on 1099-B statements shows up as "$1,234.56", "(1,234.56)"
// (accounting negative), "-123.45", or garbled fragments of any of those.
var nonAmountChars = regexp.MustCompile(`[^0-9.,\-]`)

// ParseAmount converts a raw monetary string to a float64. Parenthesized
// amounts are negative regardless of sign characters inside. The cleanup
// drops currency symbols and stray text, one trailing dot, and thousands
// separators; whatever remains must parse as a number or an error is
// returned so the caller can discard the offending row.
func ParseAmount(raw string) (float64, error) {
	negative := strings.Contains(raw, "(") && strings.Contains(raw, ")")
	cleaned := nonAmountChars.ReplaceAllString(raw, "")
	cleaned = strings.TrimSuffix(cleaned, ".")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("amount %q is not numeric", raw)
	}
	if negative {
		return -math.Abs(value), nil
	}
	return value, nil
}

// NormalizeCurrency is the tolerant form of ParseAmount: any failure yields
// 0.0. Extractors scanning summary figures work on partial or garbled
// matches and must not abort a whole document over one bad capture.
func NormalizeCurrency(raw string) float64 {
	value, err := ParseAmount(raw)
	if err != nil {
		return 0.0
	}
	return value
}
