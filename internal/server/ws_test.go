package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/tdv-tracker/internal/models"
)

func TestHubBroadcast(t *testing.T) {
	hub := NewHub(testLogger())
	srv := httptest.NewServer(http.HandlerFunc(hub.HandleWS))
	defer srv.Close()
	defer hub.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	// Registration happens during the upgrade, before Dial returns.
	require.Equal(t, 1, hub.Count())

	km := 80.0
	hub.RecordChanged("sorties_replaced", &models.SortiesData{
		TargetKm: 250,
		Sorties:  []models.Sortie{{ID: 1, Date: "2026-01-16", Km: &km}},
	})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg wsMessage
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "sorties_replaced", msg.Event)
	assert.Equal(t, 80.0, msg.Summary.TotalKm)
}

func TestHubBroadcastWithNoClients(t *testing.T) {
	hub := NewHub(testLogger())
	assert.NotPanics(t, func() {
		hub.RecordChanged("sortie_deleted", models.DefaultData())
	})
}
