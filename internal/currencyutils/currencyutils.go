// Package currencyutils parses amount strings as they appear in bank exports.
package currencyutils

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrEmptyAmount is returned for blank amount strings.
var ErrEmptyAmount = errors.New("missing amount")

var symbols = regexp.MustCompile(`[€$£¥₣₹₽₩\s]|CHF|EUR|USD|GBP`)

// ParseAmount parses "1234.56", "1,234.56", "1.234,56", "1'234.56", "CHF 12.50" and
// similar forms into a decimal.
func ParseAmount(amountStr string) (decimal.Decimal, error) {
	standardized := StandardizeAmount(amountStr)
	if standardized == "" {
		return decimal.Zero, ErrEmptyAmount
	}

	amount, err := decimal.NewFromString(standardized)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse amount '%s': %w", amountStr, err)
	}
	return amount, nil
}

// StandardizeAmount strips currency markers and thousands separators and turns a
// decimal comma into a point.
func StandardizeAmount(amountStr string) string {
	s := symbols.ReplaceAllString(strings.TrimSpace(amountStr), "")
	s = strings.ReplaceAll(s, "'", "")

	comma := strings.LastIndex(s, ",")
	point := strings.LastIndex(s, ".")
	switch {
	case comma >= 0 && point >= 0 && point < comma:
		// 1.234,56
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case comma >= 0 && point >= 0:
		// 1,234.56
		s = strings.ReplaceAll(s, ",", "")
	case comma >= 0 && len(s)-comma-1 <= 2 && strings.Count(s, ",") == 1:
		// 1234,5 or 1234,56
		s = strings.Replace(s, ",", ".", 1)
	case comma >= 0:
		// 1,234 or 1,234,567
		s = strings.ReplaceAll(s, ",", "")
	}
	return s
}
