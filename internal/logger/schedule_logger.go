package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// ScheduleLogger records competition lifecycle events and schedule data problems.
type ScheduleLogger struct {
	*logrus.Entry
}

// NewScheduleLogger creates a new schedule logger.
func NewScheduleLogger(baseLogger *logrus.Logger) *ScheduleLogger {
	return &ScheduleLogger{
		Entry: baseLogger.WithField("component", "schedule"),
	}
}

// LogStatusTransition logs a competition moving between lifecycle statuses.
func (sl *ScheduleLogger) LogStatusTransition(competitionID, title, from, to string, at time.Time) {
	sl.WithFields(logrus.Fields{
		"competition_id": competitionID,
		"title":          title,
		"from_status":    from,
		"to_status":      to,
		"observed_at":    at.UTC().Format(time.RFC3339),
		"event_type":     "status_transition",
	}).Info("Competition status changed")
}

// LogInvalidSchedule flags a competition record whose schedule needs admin correction.
func (sl *ScheduleLogger) LogInvalidSchedule(competitionID, title string, err error) {
	sl.WithFields(logrus.Fields{
		"competition_id": competitionID,
		"title":          title,
		"event_type":     "data_integrity",
	}).WithError(err).Warn("Competition schedule is invalid; status shown as unknown")
}

// LogRefresh logs a completed status refresh run.
func (sl *ScheduleLogger) LogRefresh(evaluated, transitions, invalid int, duration time.Duration) {
	sl.WithFields(logrus.Fields{
		"evaluated":   evaluated,
		"transitions": transitions,
		"invalid":     invalid,
		"duration_ms": duration.Milliseconds(),
	}).Debug("Status refresh completed")
}
