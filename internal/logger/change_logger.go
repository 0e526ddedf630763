// Package logger provides structured logging helpers.
package logger

import (
	"github.com/sirupsen/logrus"

	"github.com/yourusername/tdv-tracker/internal/models"
	"github.com/yourusername/tdv-tracker/internal/stats"
)

// ChangeLogger writes one structured line per accepted record mutation. It
// satisfies the tracker subscriber contract, so it sees every change together
// with the resulting totals.
type ChangeLogger struct {
	*logrus.Entry
}

// NewChangeLogger creates a new change logger.
func NewChangeLogger(baseLogger *logrus.Logger) *ChangeLogger {
	return &ChangeLogger{
		Entry: baseLogger.WithField("component", "changes"),
	}
}

// RecordChanged logs an accepted mutation of the sorties record.
func (cl *ChangeLogger) RecordChanged(event string, data *models.SortiesData) {
	cl.WithFields(logrus.Fields{
		"event":        event,
		"sortie_count": len(data.Sorties),
		"completed":    len(stats.CompletedSorties(data)),
		"total_km":     stats.TotalKm(data),
		"target_km":    data.TargetKm,
	}).Info("Record mutated")
}
