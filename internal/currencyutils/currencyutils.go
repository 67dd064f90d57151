// Package currencyutils converts between decimal amount strings and integer
// minor units (cents). All statement formats ultimately store amounts as
// int64 minor units, so every string that enters the system passes through
// ParseMinorUnits and every string that leaves it through a Format helper.
package currencyutils

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"ypbank/statements/internal/parsererror"
)

const parserName = "amount"

// ParseMinorUnits parses a decimal amount string into minor units. Both '.'
// and ',' are accepted as the decimal separator, at most one of either. The
// fractional part is padded or truncated to two digits: "123.45" -> 12345,
// "123,4" -> 12340, "123" -> 12300. Values outside the int64 minor-unit
// range are an error, never a silent wrap.
func ParseMinorUnits(amountStr string) (int64, error) {
	s := strings.TrimSpace(amountStr)
	if s == "" {
		return 0, parseErr(amountStr, errors.New("empty amount"))
	}

	negative := false
	switch s[0] {
	case '-':
		negative = true
		s = s[1:]
	case '+':
		s = s[1:]
	}

	digits, separators := 0, 0
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9':
			digits++
		case c == '.' || c == ',':
			separators++
		default:
			return 0, parseErr(amountStr, errors.New("unexpected character in amount"))
		}
	}
	if digits == 0 {
		return 0, parseErr(amountStr, errors.New("no digits in amount"))
	}
	if separators > 1 {
		return 0, parseErr(amountStr, errors.New("multiple decimal separators"))
	}

	normalized := strings.ReplaceAll(s, ",", ".")
	whole, frac := normalized, ""
	if i := strings.IndexByte(normalized, '.'); i >= 0 {
		whole, frac = normalized[:i], normalized[i+1:]
	}
	if whole == "" {
		whole = "0"
	}
	switch {
	case len(frac) == 0:
		frac = "00"
	case len(frac) == 1:
		frac += "0"
	case len(frac) > 2:
		frac = frac[:2]
	}

	dec, err := decimal.NewFromString(whole + "." + frac)
	if err != nil {
		return 0, parseErr(amountStr, err)
	}
	units := dec.Shift(2).BigInt()
	if !units.IsInt64() {
		return 0, parseErr(amountStr, errors.New("amount overflows int64 minor units"))
	}
	value := units.Int64()
	if negative {
		value = -value
	}
	return value, nil
}

// FormatMinorUnits renders minor units as a decimal string with a '.'
// separator and exactly two fractional digits, as CAMT.053 expects.
func FormatMinorUnits(value int64) string {
	return decimal.New(value, -2).StringFixed(2)
}

// FormatMinorUnitsComma is FormatMinorUnits with a ',' separator, as MT940
// expects.
func FormatMinorUnitsComma(value int64) string {
	return strings.Replace(FormatMinorUnits(value), ".", ",", 1)
}

func parseErr(value string, err error) error {
	return &parsererror.ParseError{Parser: parserName, Field: "value", Value: value, Err: err}
}
