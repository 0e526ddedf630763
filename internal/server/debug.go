package server

import (
	"net/http"
	"time"
)

// debugInfo reports which pieces of configuration are present, never their
// values.
type debugInfo struct {
	Timestamp         string `json:"timestamp"`
	Backend           string `json:"backend"`
	AdminPasswordSet  bool   `json:"admin_password_set"`
	WebhookConfigured bool   `json:"webhook_configured"`
	MetricsEnabled    bool   `json:"metrics_enabled"`
	LiveUpdates       bool   `json:"live_updates"`
}

// handleDebug answers deployment questions ("is the password actually set in
// this environment?") without leaking secrets.
func (s *Server) handleDebug(w http.ResponseWriter, r *http.Request) {
	info := debugInfo{
		Timestamp:         time.Now().UTC().Format(time.RFC3339),
		Backend:           s.cfg.Storage.Backend,
		AdminPasswordSet:  s.cfg.Admin.Password != "",
		WebhookConfigured: s.cfg.Notify.WebhookURL != "",
		MetricsEnabled:    s.cfg.Metrics.Enabled,
		LiveUpdates:       s.hub != nil,
	}

	w.Header().Set("Cache-Control", "no-store")
	respondJSON(w, http.StatusOK, info)
}
