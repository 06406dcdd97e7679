// Package timewindow implements the rolling time windows used to scope analytics.
//
// Every range other than All denotes a trailing window of fixed length ending at "now"
// (last 7/30/90/365 days), not a calendar-aligned period.
package timewindow

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fjacquet/ledger-analytics/internal/logging"
	"fjacquet/ledger-analytics/internal/models"
)

// Range is the closed enumeration of supported windows.
type Range int

const (
	All Range = iota
	Week
	Month
	Quarter
	Year
)

// ErrUnknownRange is returned by Parse for tokens outside the enumeration.
var ErrUnknownRange = errors.New("unknown time range")

var rangeNames = map[Range]string{
	All:     "all",
	Week:    "week",
	Month:   "month",
	Quarter: "quarter",
	Year:    "year",
}

var rangeDays = map[Range]int{
	Week:    7,
	Month:   30,
	Quarter: 90,
	Year:    365,
}

// Ranges lists every valid range in ascending window length.
func Ranges() []Range {
	return []Range{Week, Month, Quarter, Year, All}
}

// String returns the token for the range, or "invalid(n)".
func (r Range) String() string {
	if name, ok := rangeNames[r]; ok {
		return name
	}
	return fmt.Sprintf("invalid(%d)", int(r))
}

// Valid reports whether r is a member of the enumeration.
func (r Range) Valid() bool {
	_, ok := rangeNames[r]
	return ok
}

// Days returns the window length in days; 0 for All and invalid values.
func (r Range) Days() int {
	return rangeDays[r]
}

// Parse converts a token into a Range. Matching is case-insensitive.
func Parse(token string) (Range, error) {
	t := strings.ToLower(strings.TrimSpace(token))
	for r, name := range rangeNames {
		if name == t {
			return r, nil
		}
	}
	return All, fmt.Errorf("%w: %q", ErrUnknownRange, token)
}

// ParseOrAll applies the fail-open policy: unknown tokens map to All and the
// substitution is logged at warn level.
func ParseOrAll(token string, logger logging.Logger) Range {
	r, err := Parse(token)
	if err != nil && logger != nil {
		logger.WithError(err).Warn("Unrecognized time range, falling back to all",
			logging.F(logging.FieldRange, token))
	}
	return r
}

// MarshalText implements encoding.TextMarshaler.
func (r Range) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownRange, int(r))
	}
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Range) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Window is an inclusive [Start, End] interval.
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t lies within the window, bounds included.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// Window returns the rolling window for r ending at now. ok is false for All.
// Day arithmetic is done in UTC so that every window is an exact multiple of 24h.
func (r Range) Window(now time.Time) (Window, bool) {
	days := r.Days()
	if days == 0 {
		return Window{}, false
	}
	return Window{Start: now.UTC().AddDate(0, 0, -days), End: now}, true
}

// Filter returns the transactions whose normalized date falls inside the window of r.
// The input order is preserved and the input slice is never modified. All, or any
// value outside the enumeration, returns the input unchanged. Transactions with an
// unparseable date are excluded from ranged windows. Date strings without an offset
// are read in the location of now.
func Filter(transactions []models.Transaction, r Range, now time.Time) []models.Transaction {
	if transactions == nil {
		return []models.Transaction{}
	}
	w, ok := r.Window(now)
	if !ok {
		return transactions
	}
	return filterWindow(transactions, now.Location(), func(t time.Time) bool { return w.Contains(t) })
}

// Previous returns the transactions inside the window immediately preceding the current
// one: for length L days ending at now, [now - 2L, now - L). All has no previous window.
func Previous(transactions []models.Transaction, r Range, now time.Time) []models.Transaction {
	days := r.Days()
	if days == 0 || len(transactions) == 0 {
		return []models.Transaction{}
	}
	start := now.UTC().AddDate(0, 0, -2*days)
	end := now.UTC().AddDate(0, 0, -days)
	return filterWindow(transactions, now.Location(), func(t time.Time) bool {
		return !t.Before(start) && t.Before(end)
	})
}

func filterWindow(transactions []models.Transaction, loc *time.Location, keep func(time.Time) bool) []models.Transaction {
	out := make([]models.Transaction, 0, len(transactions))
	for _, tx := range transactions {
		when, ok := tx.WhenIn(loc)
		if !ok {
			continue
		}
		if keep(when) {
			out = append(out, tx)
		}
	}
	return out
}
