package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/yourusername/tdv-tracker/internal/stats"
)

func TestMetricsRegistry(t *testing.T) {
	InitRegistry()
	registry := GetRegistry()

	assert.NotNil(t, registry)
	assert.IsType(t, &prometheus.Registry{}, registry)
}

func TestRecordHelpers(t *testing.T) {
	InitRegistry()

	assert.NotPanics(t, func() {
		RecordMutation("sortie_added")
		RecordAuthFailure()
		RecordStorageError("read")
	})
}

func TestUpdateProgress(t *testing.T) {
	InitRegistry()

	assert.NotPanics(t, func() {
		UpdateProgress(stats.Summary{
			TotalKm:        80,
			RemainingKm:    170,
			CompletedCount: 2,
			SortieCount:    15,
		})
	})
}

func TestHandler(t *testing.T) {
	InitRegistry()
	assert.NotNil(t, Handler())
}
