// Package api exposes the regression detector over HTTP. The engine itself
// is synchronous and stateless, so concurrent requests need no coordination;
// timeouts and cancellation live here, not in the engine.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/llmbench/regression-detector/detector/config"
	"github.com/llmbench/regression-detector/detector/storage"
)

// Server provides HTTP endpoints for regression detection and decision
// record access
type Server interface {
	Start(ctx context.Context) error
	Stop() error
}

// server implements the API server
type server struct {
	addr       string
	cfg        config.DetectionConfig
	store      storage.DecisionStore
	log        logrus.FieldLogger
	httpServer *http.Server
	metrics    *serverMetrics
	registry   *prometheus.Registry
}

// NewServer creates a new API server. The decision store may be nil, in
// which case detections are not persisted and the decision endpoints return
// 404.
func NewServer(addr string, cfg config.DetectionConfig, store storage.DecisionStore, log logrus.FieldLogger) Server {
	registry := prometheus.NewRegistry()
	return &server{
		addr:     addr,
		cfg:      cfg.ApplyDefaults(),
		store:    store,
		log:      log.WithField("component", "api-server"),
		metrics:  newServerMetrics(registry),
		registry: registry,
	}
}

// Start initializes and starts the HTTP API server
func (s *server) Start(ctx context.Context) error {
	s.log.WithField("addr", s.addr).Info("Starting API server")

	router := s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         s.addr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.log.WithError(err).Error("HTTP server failed")
		}
	}()

	return nil
}

// Stop gracefully shuts down the HTTP server
func (s *server) Stop() error {
	s.log.Info("Stopping API server")

	if s.httpServer == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return s.httpServer.Shutdown(ctx)
}

// setupRoutes configures all API routes
func (s *server) setupRoutes() *mux.Router {
	router := mux.NewRouter()

	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/regressions/detect", s.handleDetect).Methods(http.MethodPost)
	api.HandleFunc("/decisions", s.handleListDecisions).Methods(http.MethodGet)
	api.HandleFunc("/decisions/{id}", s.handleGetDecision).Methods(http.MethodGet)

	router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	return router
}
