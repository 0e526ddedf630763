// Package notify posts mutation events to an optional webhook so an external
// channel (class blog, chat room) can announce progress.
package notify

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/tdv-tracker/internal/models"
	"github.com/yourusername/tdv-tracker/internal/stats"
)

// Payload is the JSON body posted to the webhook after each mutation.
type Payload struct {
	Event           string  `json:"event"`
	TotalKm         float64 `json:"total_km"`
	RemainingKm     float64 `json:"remaining_km"`
	ProgressPercent float64 `json:"progress_percent"`
	SortieCount     int     `json:"sortie_count"`
}

// Webhook posts mutation events to a configured URL. This is the notify
// path, not the mutation path, so a small retry budget is fine here.
type Webhook struct {
	client *retryablehttp.Client
	url    string
	log    *logrus.Logger
}

// NewWebhook creates a webhook notifier. Returns nil when url is empty;
// callers simply do not subscribe a nil notifier.
func NewWebhook(url string, timeout time.Duration, log *logrus.Logger) *Webhook {
	if url == "" {
		return nil
	}

	client := retryablehttp.NewClient()
	client.HTTPClient.Timeout = timeout
	client.RetryMax = 3
	client.RetryWaitMin = 200 * time.Millisecond
	client.RetryWaitMax = 2 * time.Second
	client.Logger = nil

	return &Webhook{client: client, url: url, log: log}
}

// RecordChanged implements tracker.Subscriber.
func (w *Webhook) RecordChanged(event string, data *models.SortiesData) {
	summary := stats.Summarize(data, time.Now())
	payload := Payload{
		Event:           event,
		TotalKm:         summary.TotalKm,
		RemainingKm:     summary.RemainingKm,
		ProgressPercent: summary.ProgressPercent,
		SortieCount:     summary.SortieCount,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		w.log.WithError(err).Error("Failed to marshal webhook payload")
		return
	}

	req, err := retryablehttp.NewRequest(http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		w.log.WithError(err).Error("Failed to build webhook request")
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		w.log.WithError(err).Warn("Webhook delivery failed")
		return
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 300 {
		w.log.WithFields(logrus.Fields{
			"status": resp.StatusCode,
			"event":  event,
		}).Warn("Webhook rejected notification")
	}
}
