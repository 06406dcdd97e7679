package ledger

import (
	"errors"
	"fmt"

	"fjacquet/ledger-analytics/internal/currencyutils"
)

var (
	// ErrUnsupportedFormat is returned for files that are neither CSV nor YAML.
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrMissingAmount is returned for a row with a blank amount or balance.
	ErrMissingAmount = currencyutils.ErrEmptyAmount
	// ErrInvalidAccountType is returned for an account type outside the known set.
	ErrInvalidAccountType = errors.New("invalid account type")
)

// RowError reports a record that could not be converted. Row is 1-based and counts
// data records, not the header.
type RowError struct {
	File  string
	Row   int
	Field string
	Err   error
}

func (e *RowError) Error() string {
	if e.File == "" {
		return fmt.Sprintf("row %d: %s: %v", e.Row, e.Field, e.Err)
	}
	return fmt.Sprintf("%s: row %d: %s: %v", e.File, e.Row, e.Field, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}
