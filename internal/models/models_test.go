package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateString(t *testing.T) {
	d := Date{Year: 2024, Month: 3, Day: 7}
	assert.Equal(t, "2024-03-07", d.String())
}

func TestAmountString(t *testing.T) {
	assert.Equal(t, "123.45 EUR", Amount{Value: 12345, Currency: "EUR"}.String())
	assert.Equal(t, "0.05 RUB", Amount{Value: 5, Currency: "RUB"}.String())
	// sign survives even when the whole part is zero
	assert.Equal(t, "-0.50 EUR", Amount{Value: -50, Currency: "EUR"}.String())
	assert.Equal(t, "-123.45 EUR", Amount{Value: -12345, Currency: "EUR"}.String())
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input string
		want  Format
	}{
		{"mt940", FormatMT940},
		{"MT940", FormatMT940},
		{"camt053", FormatCAMT053},
		{"camt", FormatCAMT053},
		{"xml", FormatCAMT053},
		{"csv", FormatCSV},
		{" CSV ", FormatCSV},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.input)
		require.NoError(t, err, "input %q", tt.input)
		assert.Equal(t, tt.want, got, "input %q", tt.input)
	}
}

func TestParseFormatUnknown(t *testing.T) {
	_, err := ParseFormat("ofx")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ofx")
}

func TestFormatString(t *testing.T) {
	assert.Equal(t, "mt940", FormatMT940.String())
	assert.Equal(t, "camt053", FormatCAMT053.String())
	assert.Equal(t, "csv", FormatCSV.String())
}
