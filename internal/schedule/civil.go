// Package schedule derives a competition's lifecycle status from the civil
// date and time fields stored against it.
package schedule

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // Europe/London must resolve on hosts without a zoneinfo database
)

const (
	civilDateLayout = "2006-01-02"

	// DefaultStartTime applies when a competition has no start time recorded
	DefaultStartTime = "00:00"
	// EndOfDayTime is the implied finish when no end time is recorded
	EndOfDayTime = "23:59"
)

var (
	civilDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	civilTimePattern = regexp.MustCompile(`^(\d{2}):(\d{2})$`)
)

// CivilDate is a calendar date without a time zone
type CivilDate struct {
	Year  int
	Month time.Month
	Day   int
}

// valid catches hand-built dates that time.Date would silently roll over
func (d CivilDate) valid() bool {
	probe := time.Date(d.Year, d.Month, d.Day, 12, 0, 0, 0, time.UTC)
	return probe.Year() == d.Year && probe.Month() == d.Month && probe.Day() == d.Day
}

// String formats the date as YYYY-MM-DD
func (d CivilDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// CivilTime is a wall-clock time of day with minute precision
type CivilTime struct {
	Hour   int
	Minute int
}

// String formats the time as HH:MM
func (t CivilTime) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// ParseCivilDate parses a YYYY-MM-DD string and rejects impossible dates such as 2024-02-30.
func ParseCivilDate(value string) (CivilDate, error) {
	value = strings.TrimSpace(value)
	if !civilDatePattern.MatchString(value) {
		return CivilDate{}, newValidationError("date", value, "expected YYYY-MM-DD")
	}

	parsed, err := time.Parse(civilDateLayout, value)
	if err != nil {
		return CivilDate{}, newValidationError("date", value, "not a calendar date")
	}

	return CivilDate{Year: parsed.Year(), Month: parsed.Month(), Day: parsed.Day()}, nil
}

// ParseCivilTime parses a 24-hour HH:MM string
func ParseCivilTime(value string) (CivilTime, error) {
	value = strings.TrimSpace(value)
	match := civilTimePattern.FindStringSubmatch(value)
	if match == nil {
		return CivilTime{}, newValidationError("time", value, "expected HH:MM")
	}

	hour, _ := strconv.Atoi(match[1])
	minute, _ := strconv.Atoi(match[2])
	if hour > 23 {
		return CivilTime{}, newValidationError("time", value, "hour must be 00-23")
	}
	if minute > 59 {
		return CivilTime{}, newValidationError("time", value, "minute must be 00-59")
	}

	return CivilTime{Hour: hour, Minute: minute}, nil
}

// ResolveCivilDateTime interprets date and t as wall-clock time in loc and
// returns the matching instant in UTC.
//
// Wall times inside a spring-forward gap are shifted forward by the size of
// the gap. Wall times repeated by an autumn fall-back resolve the way
// time.Date resolves them, which for Europe/London is the GMT occurrence.
func ResolveCivilDateTime(date CivilDate, t CivilTime, loc *time.Location) (time.Time, error) {
	if loc == nil {
		return time.Time{}, fmt.Errorf("resolve %s %s: nil location", date, t)
	}

	if t.Hour < 0 || t.Hour > 23 || t.Minute < 0 || t.Minute > 59 {
		return time.Time{}, newValidationError("time", t.String(), "out of range")
	}

	if !date.valid() {
		return time.Time{}, newValidationError("date", date.String(), "not a calendar date")
	}

	local := time.Date(date.Year, date.Month, date.Day, t.Hour, t.Minute, 0, 0, loc)
	return local.UTC(), nil
}
