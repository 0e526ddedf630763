package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/tdv-tracker/internal/models"
)

func setupTestLogger() (*logrus.Logger, *bytes.Buffer) {
	log := logrus.New()
	buf := &bytes.Buffer{}
	log.SetOutput(buf)
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.DebugLevel)
	return log, buf
}

func parseLogOutput(buf *bytes.Buffer) map[string]interface{} {
	var logEntry map[string]interface{}
	err := json.Unmarshal(buf.Bytes(), &logEntry)
	if err != nil {
		return nil
	}
	return logEntry
}

func TestNewLoggerParsesLevel(t *testing.T) {
	log := NewLogger("debug")
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())
}

func TestNewLoggerDefaultsToInfo(t *testing.T) {
	log := NewLogger("shouting")
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
}

func TestChangeLoggerRecordChanged(t *testing.T) {
	log, buf := setupTestLogger()
	changeLogger := NewChangeLogger(log)

	km := 42.5
	changeLogger.RecordChanged("sorties_replaced", &models.SortiesData{
		TargetKm: 250,
		Sorties: []models.Sortie{
			{ID: 1, Date: "2026-01-16", Km: &km},
			{ID: 2, Date: "2026-01-23"},
		},
	})

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "changes", logEntry["component"])
	assert.Equal(t, "sorties_replaced", logEntry["event"])
	assert.Equal(t, float64(2), logEntry["sortie_count"])
	assert.Equal(t, float64(1), logEntry["completed"])
	assert.Equal(t, 42.5, logEntry["total_km"])
}
