// Package datetime provides date utility functions for bid dates.
package datetime

import (
	"strings"
	"time"

	"github.com/iwvelando/dev-underwriter/pkg/constants"
)

const (
	// DateLayout is the format expected in config files and is also the output
	// date format.
	DateLayout = constants.BidDateLayout
)

// MustParseTime parses a date string using the given layout and panics on error.
// This is intended for use in tests where the date string is known to be valid.
func MustParseTime(layout, dateStr string) time.Time {
	t, err := time.Parse(layout, dateStr)
	if err != nil {
		panic(err)
	}
	return t
}

// ParseDate parses a bid date. Surrounding whitespace is ignored.
func ParseDate(date string) (time.Time, error) {
	return time.Parse(DateLayout, strings.TrimSpace(date))
}

// ValidDate reports whether date is empty or parses as a bid date.
func ValidDate(date string) bool {
	if strings.TrimSpace(date) == "" {
		return true
	}
	_, err := ParseDate(date)
	return err == nil
}

// DateBeforeDate returns true if firstDate is strictly before secondDate.
func DateBeforeDate(firstDate string, secondDate string) (bool, error) {
	firstDateT, err := ParseDate(firstDate)
	if err != nil {
		return false, err
	}
	secondDateT, err := ParseDate(secondDate)
	if err != nil {
		return false, err
	}
	return firstDateT.Before(secondDateT), nil
}
