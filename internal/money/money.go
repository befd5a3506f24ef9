// Package money holds the tolerant numeric parsing and rounding rules shared
// by every stage that touches an amount.
//
// Source data is hand-maintained (spreadsheets, CSV exports) so numbers show
// up as "1,250.00", "$40", " 12 ", "30%" or garbage. Parsing never fails: an
// unusable value is zero.
package money

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Parse converts text to a decimal. Currency symbols, thousands separators
// and surrounding spaces are ignored. When the cleaned text is not a number,
// the longest leading numeric prefix is used ("12abc" is 12). Otherwise 0.
func Parse(s string) decimal.Decimal {
	cleaned := clean(s)
	if cleaned == "" {
		return decimal.Zero
	}
	if d, err := decimal.NewFromString(cleaned); err == nil {
		return d
	}
	if prefix := leadingNumber(cleaned); prefix != "" {
		if d, err := decimal.NewFromString(prefix); err == nil {
			return d
		}
	}
	return decimal.Zero
}

// IsNumeric reports whether s is blank or a complete number once currency
// symbols and separators are removed. Parse would read anything else as 0 or
// a prefix.
func IsNumeric(s string) bool {
	cleaned := clean(s)
	if cleaned == "" {
		return true
	}
	_, err := decimal.NewFromString(cleaned)
	return err == nil
}

// ParseAny parses a decoded JSON value.
func ParseAny(v any) decimal.Decimal {
	switch val := v.(type) {
	case nil:
		return decimal.Zero
	case decimal.Decimal:
		return val
	case Amount:
		return val.Decimal
	case json.Number:
		return Parse(val.String())
	case float64:
		return decimal.NewFromFloat(val)
	case int:
		return decimal.NewFromInt(int64(val))
	case int64:
		return decimal.NewFromInt(val)
	case string:
		return Parse(val)
	default:
		return decimal.Zero
	}
}

// ParsePercent converts "50%" to 0.5. Empty, null and non-numeric values
// ("abc%") are 0. A value without a percent sign is still read as a
// percentage ("50" is 0.5).
func ParsePercent(v any) decimal.Decimal {
	var s string
	switch val := v.(type) {
	case nil:
		return decimal.Zero
	case string:
		s = val
	default:
		s = ParseAny(val).String()
	}
	s = strings.TrimSpace(strings.Replace(s, "%", "", 1))
	if s == "" {
		return decimal.Zero
	}
	return Parse(s).Div(hundred)
}

// LeadingInt parses the leading integer of s ("30 days" is 30). Otherwise 0.
func LeadingInt(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}

// Clamp01 limits d to [0, 1].
func Clamp01(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	if d.GreaterThan(decimal.NewFromInt(1)) {
		return decimal.NewFromInt(1)
	}
	return d
}

// Round2 rounds half away from zero to two places.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Format2 renders d with exactly two decimals ("12.50").
func Format2(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// clean strips everything that cannot appear in a plain decimal literal
// except the characters needed to recognise a prefix.
func clean(s string) string {
	s = strings.TrimSpace(s)
	replacer := strings.NewReplacer("$", "", ",", "", " ", "", "\u00a0", "")
	return replacer.Replace(s)
}

// leadingNumber returns the longest prefix of s that looks like a decimal
// number: optional sign, digits, optional fraction.
func leadingNumber(s string) string {
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
		digits++
	}
	if end < len(s) && s[end] == '.' {
		frac := end + 1
		for frac < len(s) && s[frac] >= '0' && s[frac] <= '9' {
			frac++
		}
		if frac > end+1 {
			digits += frac - end - 1
			end = frac
		}
	}
	if digits == 0 {
		return ""
	}
	return strings.TrimPrefix(s[:end], "+")
}

// =============================================================================
// AMOUNT
// =============================================================================

// Amount is a monetary value that serialises as a JSON number rounded to two
// places (60, 12.5, 200.01).
type Amount struct {
	decimal.Decimal
}

// NewAmount wraps d.
func NewAmount(d decimal.Decimal) Amount {
	return Amount{Decimal: d}
}

// MarshalJSON implements json.Marshaler.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(Round2(a.Decimal).String()), nil
}

// UnmarshalJSON accepts a number or a numeric string.
func (a *Amount) UnmarshalJSON(data []byte) error {
	text := strings.TrimSpace(string(data))
	if text == "null" {
		a.Decimal = decimal.Zero
		return nil
	}
	a.Decimal = Parse(strings.Trim(text, "\""))
	return nil
}

// String renders the rounded value.
func (a Amount) String() string {
	return Round2(a.Decimal).String()
}
