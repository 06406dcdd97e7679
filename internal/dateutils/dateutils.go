// Package dateutils provides date normalization and calendar boundary helpers used by
// the time-window filter and the trend bucketing.
package dateutils

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"
)

// Common date layouts accepted for string-typed transaction dates.
const (
	DateLayoutISO      = "2006-01-02"
	DateLayoutEuropean = "02.01.2006"
	DateLayoutUS       = "01/02/2006"
	DateLayoutFull     = "2006-01-02 15:04:05"
	MonthKeyLayout     = "2006-01"
)

// ErrEmptyDate is returned when a date string is blank.
var ErrEmptyDate = errors.New("empty date")

// parseLayouts is tried in order; layouts carrying an offset come first so that
// timestamps keep their instant.
var parseLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	DateLayoutFull,
	DateLayoutISO,
	DateLayoutEuropean,
	"02/01/2006",
	"2006/01/02",
	"02-01-2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
}

var whitespace = regexp.MustCompile(`\s+`)

// CleanDateString trims and collapses whitespace.
func CleanDateString(dateStr string) string {
	return whitespace.ReplaceAllString(strings.TrimSpace(dateStr), " ")
}

// ParseDateString parses a date string using the accepted layouts. Strings without an
// offset are interpreted as UTC.
func ParseDateString(dateStr string) (time.Time, error) {
	return ParseDateStringIn(dateStr, time.UTC)
}

// ParseDateStringIn parses a date string using the accepted layouts. Strings without an
// offset name a wall-clock date in loc; strings with an offset keep their instant.
func ParseDateStringIn(dateStr string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	clean := CleanDateString(dateStr)
	if clean == "" {
		return time.Time{}, ErrEmptyDate
	}
	for _, layout := range parseLayouts {
		if t, err := time.ParseInLocation(layout, clean, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse date: %s", dateStr)
}

// StartOfDay returns midnight of t's calendar day in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// EndOfDay returns the last instant of t's calendar day in loc.
func EndOfDay(t time.Time, loc *time.Location) time.Time {
	return StartOfDay(t, loc).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// StartOfMonth returns the first instant of t's month in loc.
func StartOfMonth(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, loc)
}

// EndOfMonth returns the last instant of t's month in loc.
func EndOfMonth(t time.Time, loc *time.Location) time.Time {
	return StartOfMonth(t, loc).AddDate(0, 1, 0).Add(-time.Nanosecond)
}

// SameDay reports whether a and b fall on the same calendar day in loc.
func SameDay(a, b time.Time, loc *time.Location) bool {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}

// MonthKey returns the YYYY-MM key of t in loc.
func MonthKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(MonthKeyLayout)
}

// WithinInclusive reports whether start <= t <= end.
func WithinInclusive(t, start, end time.Time) bool {
	return !t.Before(start) && !t.After(end)
}

// CeilDays returns ceil(d / 24h), or 0 for non-positive durations.
func CeilDays(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(math.Ceil(d.Hours() / 24))
}
