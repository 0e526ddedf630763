package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/yourusername/tdv-tracker/internal/metrics"
	"github.com/yourusername/tdv-tracker/internal/models"
	"github.com/yourusername/tdv-tracker/internal/stats"
	"github.com/yourusername/tdv-tracker/internal/tracker"
)

// handleGetSorties serves the raw record. Reads soft-fail to the seed inside
// the service, so this endpoint always renders.
func (s *Server) handleGetSorties(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.svc.FetchRecord(r.Context()))
}

// handleStats serves the computed dashboard metrics.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	data := s.svc.FetchRecord(r.Context())
	respondJSON(w, http.StatusOK, stats.Summarize(data, time.Now()))
}

type replaceRequest struct {
	Password string          `json:"password"`
	Sorties  []models.Sortie `json:"sorties"`
}

// handleReplaceSorties overwrites recorded distances per sortie id.
func (s *Server) handleReplaceSorties(w http.ResponseWriter, r *http.Request) {
	var req replaceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := s.svc.ReplaceSorties(r.Context(), req.Password, req.Sorties); err != nil {
		s.respondMutationError(w, err, "Failed to save data")
		return
	}

	metrics.RecordMutation(tracker.EventReplace)
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

type addRequest struct {
	Password string `json:"password"`
	Date     string `json:"date"`
	Creneau  string `json:"creneau"`
}

// handleAddSortie appends a new sortie with an auto-assigned id.
func (s *Server) handleAddSortie(w http.ResponseWriter, r *http.Request) {
	var req addRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	sortie, err := s.svc.AppendSortie(r.Context(), req.Password, req.Date, req.Creneau)
	if err != nil {
		s.respondMutationError(w, err, "Failed to add sortie")
		return
	}

	metrics.RecordMutation(tracker.EventAppend)
	respondJSON(w, http.StatusOK, map[string]interface{}{"success": true, "sortie": sortie})
}

type deleteRequest struct {
	Password string `json:"password"`
}

// handleDeleteSortie removes a sortie by id. Absent ids are a successful no-op.
func (s *Server) handleDeleteSortie(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid sortie id")
		return
	}

	var req deleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := s.svc.DeleteSortie(r.Context(), req.Password, id); err != nil {
		s.respondMutationError(w, err, "Failed to delete sortie")
		return
	}

	metrics.RecordMutation(tracker.EventDelete)
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

type authRequest struct {
	Password string `json:"password"`
}

type authResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// handleAuth exchanges the shared password for a short-lived capability token.
func (s *Server) handleAuth(w http.ResponseWriter, r *http.Request) {
	var req authRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	token, expires, err := s.svc.Authenticate(req.Password)
	if err != nil {
		metrics.RecordAuthFailure()
		respondError(w, http.StatusUnauthorized, "Invalid password")
		return
	}

	respondJSON(w, http.StatusOK, authResponse{Token: token, ExpiresAt: expires})
}

type checkRequest struct {
	Index  int     `json:"index"`
	Km     float64 `json:"km"`
	Answer float64 `json:"answer"`
}

type checkResponse struct {
	OK       bool    `json:"ok"`
	KmBefore float64 `json:"km_before"`
}

// handleCheckEntry verifies the subtraction pupils do before a distance is
// recorded. Open to everyone; it mutates nothing.
func (s *Server) handleCheckEntry(w http.ResponseWriter, r *http.Request) {
	var req checkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	kmBefore, ok := s.svc.CheckEntry(r.Context(), req.Index, req.Km, req.Answer)
	respondJSON(w, http.StatusOK, checkResponse{OK: ok, KmBefore: kmBefore})
}

// respondMutationError maps service errors onto the transport contract:
// 401 only for a credential mismatch, 400 for rejected input, 500 otherwise.
func (s *Server) respondMutationError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, models.ErrUnauthorized):
		metrics.RecordAuthFailure()
		respondError(w, http.StatusUnauthorized, "Invalid password")
	case errors.Is(err, models.ErrInvalidInput):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		metrics.RecordStorageError("write")
		s.log.WithError(err).Error("Mutation failed")
		respondError(w, http.StatusInternalServerError, fallback)
	}
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
