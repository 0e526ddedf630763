package metrics

import (
	"time"

	"github.com/yourusername/tdv-tracker/internal/models"
	"github.com/yourusername/tdv-tracker/internal/stats"
)

// UpdateProgress refreshes the dashboard gauges from a computed summary.
// Called after every mutation and periodically by the scheduler so scrapes
// stay fresh even without traffic.
func UpdateProgress(s stats.Summary) {
	TotalKm.Set(s.TotalKm)
	RemainingKm.Set(s.RemainingKm)
	ProgressPercent.Set(s.ProgressPercent)
	SortiesCompleted.Set(float64(s.CompletedCount))
	SortiesPlanned.Set(float64(s.SortieCount))
}

// ProgressSubscriber refreshes the gauges whenever the record changes. It
// implements tracker.Subscriber.
type ProgressSubscriber struct{}

// RecordChanged recomputes the summary and updates the gauges.
func (ProgressSubscriber) RecordChanged(event string, data *models.SortiesData) {
	UpdateProgress(stats.Summarize(data, time.Now()))
}
