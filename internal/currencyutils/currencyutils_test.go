package currencyutils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"1234.56", "1234.56"},
		{"-150.00", "-150"},
		{"1,234.56", "1234.56"},
		{"1.234,56", "1234.56"},
		{"1'234.50", "1234.5"},
		{"1234,5", "1234.5"},
		{"1,234", "1234"},
		{"1,234,567", "1234567"},
		{"CHF 12.50", "12.5"},
		{"€ -7,20", "-7.2"},
		{"  42  ", "42"},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got, err := ParseAmount(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got.String())
		})
	}
}

func TestParseAmount_Errors(t *testing.T) {
	_, err := ParseAmount("   ")
	assert.ErrorIs(t, err, ErrEmptyAmount)

	_, err = ParseAmount("twelve")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse amount 'twelve'")
}
