// Package server exposes the tracker over HTTP: the dashboard read API, the
// credential-gated mutation API and the live-update websocket.
package server

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/tdv-tracker/internal/config"
	"github.com/yourusername/tdv-tracker/internal/metrics"
	"github.com/yourusername/tdv-tracker/internal/tracker"
)

// Server is the HTTP transport in front of the tracker service.
type Server struct {
	svc        *tracker.Service
	cfg        *config.Config
	log        *logrus.Logger
	hub        *Hub
	httpServer *http.Server
}

// New creates the HTTP server. hub may be nil when live updates are disabled.
func New(svc *tracker.Service, cfg *config.Config, log *logrus.Logger, hub *Hub) *Server {
	return &Server{svc: svc, cfg: cfg, log: log, hub: hub}
}

// Router builds the route table.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Route("/api", func(r chi.Router) {
		r.Get("/sorties", s.handleGetSorties)
		r.Post("/sorties", s.handleReplaceSorties)
		r.Post("/sorties/add", s.handleAddSortie)
		r.Delete("/sorties/{id}", s.handleDeleteSortie)
		r.Post("/sorties/check", s.handleCheckEntry)
		r.Get("/stats", s.handleStats)
		r.Post("/auth", s.handleAuth)
		r.Get("/debug", s.handleDebug)
	})

	if s.hub != nil {
		r.Get("/ws", s.hub.HandleWS)
	}

	if s.cfg.Metrics.Enabled {
		r.Handle("/metrics", metrics.Handler())
	}

	return r
}

// Start runs the server until the context is cancelled, then shuts down
// gracefully.
func (s *Server) Start(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Server.Port),
		Handler:      s.Router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("port", s.cfg.Server.Port).Info("HTTP server starting")
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s.log.Info("HTTP server shutting down")
	return s.httpServer.Shutdown(shutdownCtx)
}

// requestLogger logs every request and feeds the request counter.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = r.URL.Path
		}
		metrics.HTTPRequestsTotal.WithLabelValues(route, strconv.Itoa(ww.Status())).Inc()

		s.log.WithFields(logrus.Fields{
			"method":   r.Method,
			"route":    route,
			"status":   ww.Status(),
			"duration": time.Since(start).String(),
		}).Debug("Request handled")
	})
}
