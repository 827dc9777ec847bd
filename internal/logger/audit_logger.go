// Package logger provides audit logging.
package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// AuditLogger provides dedicated audit trail logging.
type AuditLogger struct {
	*logrus.Entry
}

// NewAuditLogger creates a new audit logger.
func NewAuditLogger(baseLogger *logrus.Logger) *AuditLogger {
	return &AuditLogger{
		Entry: baseLogger.WithField("component", "audit"),
	}
}

// LogWeighIn logs a recorded weigh-in.
func (al *AuditLogger) LogWeighIn(entryID, competitionID, anglerName string, peg int, weight string, totalOunces int, timestamp time.Time) {
	al.WithFields(logrus.Fields{
		"entry_id":       entryID,
		"competition_id": competitionID,
		"angler_name":    anglerName,
		"peg":            peg,
		"weight":         weight,
		"total_ounces":   totalOunces,
		"timestamp":      timestamp.Unix(),
	}).Info("Weigh-in recorded")
}

// LogWeightCorrection logs a change to an existing leaderboard weight.
func (al *AuditLogger) LogWeightCorrection(entryID, oldWeight, newWeight, changedBy string) {
	al.WithFields(logrus.Fields{
		"entry_id":   entryID,
		"old_weight": oldWeight,
		"new_weight": newWeight,
		"changed_by": changedBy,
	}).Warn("Leaderboard weight corrected")
}
