// Package dateutils parses and formats the date shapes the statement
// formats use: MT940 YYMMDD, CAMT.053 ISO YYYY-MM-DD and the bank CSV
// DD.MM.YYYY.
package dateutils

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"ypbank/statements/internal/models"
	"ypbank/statements/internal/parsererror"
)

const parserName = "date"

// centuryPivot splits two-digit years: values above it belong to the 1900s,
// the rest to the 2000s.
const centuryPivot = 50

// ParseYYMMDD parses an MT940 six-digit date. Two-digit years above 50 map
// to the 1900s, the rest to the 2000s: "990101" -> 1999, "200101" -> 2020.
func ParseYYMMDD(s string) (models.Date, error) {
	if len(s) != 6 {
		return models.Date{}, parseErr(s, errors.New("expected 6 digits YYMMDD"))
	}
	yy, err := atoi(s[0:2], s)
	if err != nil {
		return models.Date{}, err
	}
	month, err := atoi(s[2:4], s)
	if err != nil {
		return models.Date{}, err
	}
	day, err := atoi(s[4:6], s)
	if err != nil {
		return models.Date{}, err
	}
	year := 2000 + yy
	if yy > centuryPivot {
		year = 1900 + yy
	}
	return models.Date{Year: year, Month: month, Day: day}, nil
}

// FormatYYMMDD renders a date in MT940 YYMMDD form.
func FormatYYMMDD(d models.Date) string {
	return fmt.Sprintf("%02d%02d%02d", d.Year%100, d.Month, d.Day)
}

// ParseISODate parses a YYYY-MM-DD date.
func ParseISODate(s string) (models.Date, error) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) != 3 {
		return models.Date{}, parseErr(s, errors.New("expected YYYY-MM-DD"))
	}
	year, err := atoi(parts[0], s)
	if err != nil {
		return models.Date{}, err
	}
	month, err := atoi(parts[1], s)
	if err != nil {
		return models.Date{}, err
	}
	day, err := atoi(parts[2], s)
	if err != nil {
		return models.Date{}, err
	}
	return models.Date{Year: year, Month: month, Day: day}, nil
}

// FormatISODate renders a date as YYYY-MM-DD.
func FormatISODate(d models.Date) string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// ParseEuropeanDate parses a DD.MM.YYYY date as used by the bank CSV
// listing.
func ParseEuropeanDate(s string) (models.Date, error) {
	parts := strings.Split(strings.TrimSpace(s), ".")
	if len(parts) != 3 {
		return models.Date{}, parseErr(s, errors.New("expected DD.MM.YYYY"))
	}
	day, err := atoi(parts[0], s)
	if err != nil {
		return models.Date{}, err
	}
	month, err := atoi(parts[1], s)
	if err != nil {
		return models.Date{}, err
	}
	year, err := atoi(parts[2], s)
	if err != nil {
		return models.Date{}, err
	}
	return models.Date{Year: year, Month: month, Day: day}, nil
}

// FormatEuropeanDate renders a date as DD.MM.YYYY.
func FormatEuropeanDate(d models.Date) string {
	return fmt.Sprintf("%02d.%02d.%04d", d.Day, d.Month, d.Year)
}

// IsEuropeanDate reports whether s has the DD.MM.YYYY shape. The CSV parser
// uses it to recognize transaction rows.
func IsEuropeanDate(s string) bool {
	if len(s) != 10 || s[2] != '.' || s[5] != '.' {
		return false
	}
	for i, c := range s {
		if i == 2 || i == 5 {
			continue
		}
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func atoi(part, whole string) (int, error) {
	v, err := strconv.Atoi(part)
	if err != nil {
		return 0, parseErr(whole, err)
	}
	return v, nil
}

func parseErr(value string, err error) error {
	return &parsererror.ParseError{Parser: parserName, Field: "value", Value: value, Err: err}
}
