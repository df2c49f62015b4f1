package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/julianstephens/trackpro/internal/constants"
)

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(timezone)
}

// ValidateTimezone checks if the timezone name is valid.
func ValidateTimezone(timezone string) bool {
	_, err := LoadLocation(timezone)
	return err == nil
}

// Today returns the calendar date of now in loc as YYYY-MM-DD.
func Today(now time.Time, loc *time.Location) string {
	return now.In(loc).Format(constants.DateFormat)
}

// ParseDate parses a YYYY-MM-DD string into midnight UTC of that day.
// Day arithmetic is done in UTC so daylight saving never skips or repeats a date.
func ParseDate(date string) (time.Time, error) {
	t, err := time.Parse(constants.DateFormat, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD): %w", date, err)
	}
	return t, nil
}

// ValidateDate checks if the string matches the standard date format.
func ValidateDate(date string) bool {
	_, err := ParseDate(date)
	return err == nil
}

// ShiftDate moves a YYYY-MM-DD date by the given number of days.
func ShiftDate(date string, days int) (string, error) {
	t, err := ParseDate(date)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, 0, days).Format(constants.DateFormat), nil
}

// TrailingDates returns n consecutive dates ending at (and including) end, oldest first.
func TrailingDates(end string, n int) ([]string, error) {
	t, err := ParseDate(end)
	if err != nil {
		return nil, err
	}
	dates := make([]string, 0, n)
	for i := n - 1; i >= 0; i-- {
		dates = append(dates, t.AddDate(0, 0, -i).Format(constants.DateFormat))
	}
	return dates, nil
}

// ShortWeekday returns the three-letter weekday name of a YYYY-MM-DD date.
func ShortWeekday(date string) string {
	t, err := ParseDate(date)
	if err != nil {
		return ""
	}
	return t.Weekday().String()[:3]
}

// ExpandPath replaces a leading "~" with the user's home directory.
func ExpandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}
