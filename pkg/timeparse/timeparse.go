// Package timeparse handles the operator-facing timestamp forms and
// event naming rules of the interruption report pipeline.
//
// Two input forms are accepted, matching the mission's long-standing
// command-line convention:
//
//	2024:170:12:30:00   year : day-of-year : H : M : S
//	2024:06:18:12:30:00 year : month : day : H : M : S
//
// The day-of-year field may be unpadded. All times are UTC.
package timeparse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/cxo-ops/interrupt/pkg/errclass"
)

const (
	// CalendarLayout is the calendar-date input form.
	CalendarLayout = "2006:01:02:15:04:05"
	// HeaderLayout is the short calendar form used in extract headers.
	HeaderLayout = "2006:01:02:15:04"
)

var nameRegex = regexp.MustCompile(`^[0-9]{8}$`)

// Parse accepts either supported timestamp form and returns a UTC instant.
func Parse(s string) (time.Time, error) {
	s = norm.NFC.String(strings.TrimSpace(s))
	for _, r := range s {
		if unicode.IsControl(r) {
			return time.Time{}, errclass.ErrTimeFormat.WithMessagef("timestamp contains control characters: %q", s)
		}
	}

	if t, err := time.ParseInLocation(CalendarLayout, s, time.UTC); err == nil {
		return t, nil
	}
	if t, ok := parseDayOfYear(s); ok {
		return t, nil
	}
	return time.Time{}, errclass.ErrTimeFormat.WithMessagef(
		"timestamp must be yyyy:ddd:hh:mm:ss or yyyy:mm:dd:hh:mm:ss: %q", s)
}

// parseDayOfYear handles the yyyy:ddd:hh:mm:ss form. The standard
// library has no day-of-year layout token, so the fields are split by
// hand.
func parseDayOfYear(s string) (time.Time, bool) {
	parts := strings.Split(s, ":")
	if len(parts) != 5 {
		return time.Time{}, false
	}
	// Day-of-year may arrive unpadded ("50" for day 050).
	if len(parts[1]) > 3 {
		return time.Time{}, false
	}
	nums := make([]int, 5)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return time.Time{}, false
		}
		nums[i] = n
	}
	year, doy, hh, mm, ss := nums[0], nums[1], nums[2], nums[3], nums[4]
	if doy < 1 || doy > 366 || hh > 23 || mm > 59 || ss > 59 {
		return time.Time{}, false
	}
	t := time.Date(year, time.January, 1, hh, mm, ss, 0, time.UTC).
		AddDate(0, 0, doy-1)
	if t.Year() != year {
		// Day-of-year ran past the end of the year (e.g. 366 in a
		// non-leap year).
		return time.Time{}, false
	}
	return t, true
}

// EventName derives the store key from an interruption start instant.
func EventName(tstart time.Time) string {
	return tstart.UTC().Format("20060102")
}

// ValidateName checks an operator-supplied event name.
func ValidateName(name string) error {
	name = norm.NFC.String(name)
	if name == "" {
		return errclass.ErrNameInvalid.WithMessage("event name must not be empty")
	}
	if !nameRegex.MatchString(name) {
		return errclass.ErrNameInvalid.WithMessagef("event name must be yyyymmdd: %q", name)
	}
	return nil
}

// FormatDOY renders an instant in the archive-native
// year:day-of-year form.
func FormatDOY(t time.Time) string {
	t = t.UTC()
	return fmt.Sprintf("%04d:%03d:%02d:%02d:%02d",
		t.Year(), t.YearDay(), t.Hour(), t.Minute(), t.Second())
}
