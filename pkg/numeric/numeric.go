// Package numeric provides coercion of currency-formatted statement values
// into exact decimals. It handles the formatting conventions of filed
// financial statements: thousands separators, dollar signs, and
// accountant-style parenthesized negatives.
package numeric

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// CoerceError reports a value that could not be coerced to a number.
type CoerceError struct {
	Raw string
}

func (e *CoerceError) Error() string {
	return fmt.Sprintf("numeric: cannot coerce %q to a decimal value", e.Raw)
}

// Parse coerces a currency-formatted string to a decimal.
// Stripping order: surrounding whitespace, "$", ",". A value wrapped in
// parentheses is negative. An empty or whitespace-only input is "no value":
// ok=false with a nil error. Any other input that still fails to parse
// returns ok=false and a *CoerceError.
func Parse(s string) (decimal.Decimal, bool, error) {
	cleaned, negative, empty := normalize(s)
	if empty {
		return decimal.Zero, false, nil
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, false, &CoerceError{Raw: s}
	}

	if negative {
		d = d.Neg()
	}
	return d, true, nil
}

// IsNumeric reports whether the value coerces to a number. Empty values and
// garbage both report false; this is the lenient path used when deciding
// whether a row is data or a section header.
func IsNumeric(s string) bool {
	_, ok, _ := Parse(s)
	return ok
}

// normalize strips currency formatting and detects the parenthesized
// negative convention. It returns the cleaned string, whether the value was
// negative, and whether the input was empty after trimming.
func normalize(s string) (cleaned string, negative, empty bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false, true
	}

	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}

	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false, true
	}

	return s, negative, false
}
