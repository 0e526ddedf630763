package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/tdv-tracker/internal/config"
	"github.com/yourusername/tdv-tracker/internal/models"
	"github.com/yourusername/tdv-tracker/internal/storage"
	"github.com/yourusername/tdv-tracker/internal/tracker"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func testConfig() *config.Config {
	return &config.Config{
		App:     config.AppConfig{Name: "tdv-tracker", Environment: "development", LogLevel: "info"},
		Server:  config.ServerConfig{Port: 0, TokenTTLMinutes: 15},
		Admin:   config.AdminConfig{Password: "secret"},
		Storage: config.StorageConfig{Backend: config.BackendFile},
	}
}

func newTestServer(t *testing.T, data *models.SortiesData) (*Server, *storage.MemoryStore) {
	t.Helper()
	store := storage.NewMemoryStore(data)
	cfg := testConfig()
	svc := tracker.NewService(store, cfg.Admin.Password, tracker.NewTokenIssuer(cfg.TokenTTL()), testLogger())
	return New(svc, cfg, testLogger(), nil), store
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestGetSorties(t *testing.T) {
	srv, _ := newTestServer(t, models.DefaultData())

	rec := doJSON(t, srv.Router(), http.MethodGet, "/api/sorties", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var data models.SortiesData
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &data))
	assert.Equal(t, 250.0, data.TargetKm)
	assert.Len(t, data.Sorties, 15)
}

func TestGetSortiesSoftFailsToSeed(t *testing.T) {
	srv, store := newTestServer(t, models.DefaultData())
	store.ReadErr = errors.New("backend down")

	rec := doJSON(t, srv.Router(), http.MethodGet, "/api/sorties", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReplaceSortiesRequiresPassword(t *testing.T) {
	srv, _ := newTestServer(t, models.DefaultData())

	rec := doJSON(t, srv.Router(), http.MethodPost, "/api/sorties", replaceRequest{
		Password: "wrong",
		Sorties:  []models.Sortie{{ID: 1}},
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body["error"])
}

func TestReplaceSortiesPersistsKm(t *testing.T) {
	srv, store := newTestServer(t, models.DefaultData())
	km := 25.0

	rec := doJSON(t, srv.Router(), http.MethodPost, "/api/sorties", replaceRequest{
		Password: "secret",
		Sorties:  []models.Sortie{{ID: 1, Km: &km}},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	got, err := store.Read(httptest.NewRequest(http.MethodGet, "/", nil).Context())
	require.NoError(t, err)
	require.NotNil(t, got.Sorties[0].Km)
	assert.Equal(t, 25.0, *got.Sorties[0].Km)
}

func TestReplaceSortiesStorageFailure(t *testing.T) {
	srv, store := newTestServer(t, models.DefaultData())
	store.WriteErr = errors.New("disk full")
	km := 25.0

	rec := doJSON(t, srv.Router(), http.MethodPost, "/api/sorties", replaceRequest{
		Password: "secret",
		Sorties:  []models.Sortie{{ID: 1, Km: &km}},
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestAddSortie(t *testing.T) {
	srv, _ := newTestServer(t, models.DefaultData())

	rec := doJSON(t, srv.Router(), http.MethodPost, "/api/sorties/add", addRequest{
		Password: "secret",
		Date:     "2026-07-01",
		Creneau:  "13h00-16h30",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success bool          `json:"success"`
		Sortie  models.Sortie `json:"sortie"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, 16, body.Sortie.ID)
}

func TestAddSortieMissingDate(t *testing.T) {
	srv, _ := newTestServer(t, models.DefaultData())

	rec := doJSON(t, srv.Router(), http.MethodPost, "/api/sorties/add", addRequest{
		Password: "secret",
		Creneau:  "13h00-16h30",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteSortieIsIdempotent(t *testing.T) {
	srv, _ := newTestServer(t, models.DefaultData())

	rec := doJSON(t, srv.Router(), http.MethodDelete, "/api/sorties/3", deleteRequest{Password: "secret"})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, srv.Router(), http.MethodDelete, "/api/sorties/3", deleteRequest{Password: "secret"})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDeleteSortieBadID(t *testing.T) {
	srv, _ := newTestServer(t, models.DefaultData())

	rec := doJSON(t, srv.Router(), http.MethodDelete, "/api/sorties/abc", deleteRequest{Password: "secret"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthFlow(t *testing.T) {
	srv, _ := newTestServer(t, models.DefaultData())
	router := srv.Router()

	rec := doJSON(t, router, http.MethodPost, "/api/auth", authRequest{Password: "wrong"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/auth", authRequest{Password: "secret"})
	require.Equal(t, http.StatusOK, rec.Code)

	var auth authResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &auth))
	require.NotEmpty(t, auth.Token)
	assert.True(t, auth.ExpiresAt.After(time.Now()))

	// The token replaces the password on mutating calls.
	rec = doJSON(t, router, http.MethodDelete, "/api/sorties/1", deleteRequest{Password: auth.Token})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCheckEntry(t *testing.T) {
	data := models.DefaultData()
	km := 50.0
	data.Sorties[0].Km = &km
	srv, _ := newTestServer(t, data)

	rec := doJSON(t, srv.Router(), http.MethodPost, "/api/sorties/check", checkRequest{
		Index: 1, Km: 30, Answer: 170.005,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var body checkResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.OK)
	assert.Equal(t, 200.0, body.KmBefore)

	rec = doJSON(t, srv.Router(), http.MethodPost, "/api/sorties/check", checkRequest{
		Index: 1, Km: 30, Answer: 170.02,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.OK)
}

func TestStats(t *testing.T) {
	data := models.DefaultData()
	km := 80.0
	data.Sorties[0].Km = &km
	srv, _ := newTestServer(t, data)

	rec := doJSON(t, srv.Router(), http.MethodGet, "/api/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 80.0, body["total_km"])
	assert.Equal(t, 170.0, body["remaining_km"])
	assert.Equal(t, 32.0, body["progress_percent"])
}

func TestDebug(t *testing.T) {
	srv, _ := newTestServer(t, models.DefaultData())

	rec := doJSON(t, srv.Router(), http.MethodGet, "/api/debug", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

	var body debugInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.AdminPasswordSet)
	assert.Equal(t, config.BackendFile, body.Backend)
}
