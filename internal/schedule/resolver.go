package schedule

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultZone is the civil time zone every stored schedule is written in
const DefaultZone = "Europe/London"

// CompetitionSchedule holds the raw schedule fields of a competition record
type CompetitionSchedule struct {
	Date    string `json:"date"`
	Time    string `json:"time,omitempty"`
	EndDate string `json:"endDate,omitempty"`
	EndTime string `json:"endTime,omitempty"`
}

// NewSchedule builds a normalized schedule from raw record fields
func NewSchedule(date, startTime, endDate, endTime string) CompetitionSchedule {
	return CompetitionSchedule{
		Date:    date,
		Time:    startTime,
		EndDate: endDate,
		EndTime: endTime,
	}.Normalize()
}

// Normalize trims every field and applies the 00:00 start-time default
func (s CompetitionSchedule) Normalize() CompetitionSchedule {
	s.Date = strings.TrimSpace(s.Date)
	s.Time = strings.TrimSpace(s.Time)
	s.EndDate = strings.TrimSpace(s.EndDate)
	s.EndTime = strings.TrimSpace(s.EndTime)
	if s.Time == "" {
		s.Time = DefaultStartTime
	}
	return s
}

// Resolver resolves schedules against a single fixed civil time zone
type Resolver struct {
	loc    *time.Location
	logger *logrus.Entry
}

// NewResolver creates a resolver for the named IANA zone. A nil logger discards output.
func NewResolver(zone string, logger *logrus.Logger) (*Resolver, error) {
	if zone == "" {
		zone = DefaultZone
	}

	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, fmt.Errorf("failed to load time zone %s: %w", zone, err)
	}

	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}

	return &Resolver{
		loc:    loc,
		logger: logger.WithField("component", "schedule"),
	}, nil
}

var defaultResolver = mustResolver(DefaultZone)

func mustResolver(zone string) *Resolver {
	r, err := NewResolver(zone, nil)
	if err != nil {
		panic(err)
	}
	return r
}

// Default returns the shared Europe/London resolver
func Default() *Resolver {
	return defaultResolver
}

// Location returns the zone schedules are interpreted in
func (r *Resolver) Location() *time.Location {
	return r.loc
}

// ResolveStart returns the instant the competition starts
func (r *Resolver) ResolveStart(s CompetitionSchedule) (time.Time, error) {
	s = s.Normalize()
	return r.resolve("date", s.Date, "time", s.Time)
}

// ResolveEnd returns the instant the competition ends. Missing end fields
// default in this order: end date and time as given, end date at 23:59,
// start date at the given end time, start date at 23:59.
func (r *Resolver) ResolveEnd(s CompetitionSchedule) (time.Time, error) {
	s = s.Normalize()

	switch {
	case s.EndDate != "" && s.EndTime != "":
		return r.resolve("endDate", s.EndDate, "endTime", s.EndTime)
	case s.EndDate != "":
		return r.resolve("endDate", s.EndDate, "endTime", EndOfDayTime)
	case s.EndTime != "":
		return r.resolve("date", s.Date, "endTime", s.EndTime)
	default:
		return r.resolve("date", s.Date, "time", EndOfDayTime)
	}
}

// Window returns both ends of the competition
func (r *Resolver) Window(s CompetitionSchedule) (start, end time.Time, err error) {
	start, err = r.ResolveStart(s)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	end, err = r.ResolveEnd(s)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	return start, end, nil
}

// Status classifies the competition at now. Both window bounds are
// inclusive, so the exact start and end instants are live.
func (r *Resolver) Status(s CompetitionSchedule, now time.Time) (Status, error) {
	start, end, err := r.Window(s)
	if err != nil {
		return "", err
	}

	switch {
	case now.Before(start):
		return StatusUpcoming, nil
	case now.After(end):
		return StatusCompleted, nil
	default:
		return StatusLive, nil
	}
}

// SafeStatus is the display form of Status: a schedule that fails
// validation is logged and reported as StatusUnknown instead of an error.
func (r *Resolver) SafeStatus(s CompetitionSchedule, now time.Time) Status {
	status, err := r.Status(s, now)
	if err != nil {
		r.reportInvalid(s, err)
		return StatusUnknown
	}
	return status
}

// Classification is the outcome of classifying one schedule in a batch
type Classification struct {
	Status Status
	Err    error
}

// ClassifyAll classifies every schedule against the same instant so that a
// listing never mixes results from two different clocks. Failures are
// returned, not logged; reporting them is up to the caller.
func (r *Resolver) ClassifyAll(schedules []CompetitionSchedule, now time.Time) []Classification {
	out := make([]Classification, len(schedules))
	for i, s := range schedules {
		status, err := r.Status(s, now)
		if err != nil {
			out[i] = Classification{Status: StatusUnknown, Err: err}
			continue
		}
		out[i] = Classification{Status: status}
	}
	return out
}

// resolve parses one date and time pair, naming the schedule fields they
// came from in any ValidationError.
func (r *Resolver) resolve(dateField, dateValue, timeField, timeValue string) (time.Time, error) {
	date, err := ParseCivilDate(dateValue)
	if err != nil {
		return time.Time{}, withField(err, dateField)
	}

	clock, err := ParseCivilTime(timeValue)
	if err != nil {
		return time.Time{}, withField(err, timeField)
	}

	return ResolveCivilDateTime(date, clock, r.loc)
}

func (r *Resolver) reportInvalid(s CompetitionSchedule, err error) {
	r.logger.WithFields(logrus.Fields{
		"field":    InvalidField(err),
		"date":     s.Date,
		"time":     s.Time,
		"end_date": s.EndDate,
		"end_time": s.EndTime,
	}).WithError(err).Warn("Competition schedule failed validation")
}

// GetStatus classifies s with the default Europe/London resolver
func GetStatus(s CompetitionSchedule, now time.Time) (Status, error) {
	return defaultResolver.Status(s, now)
}
