package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/magdaondimu/Capstone-Project-Phase-5/pkg/dataset"
	"github.com/magdaondimu/Capstone-Project-Phase-5/pkg/exporter"
	"github.com/magdaondimu/Capstone-Project-Phase-5/pkg/metadatastore"
	"github.com/magdaondimu/Capstone-Project-Phase-5/pkg/metrics"
	"github.com/magdaondimu/Capstone-Project-Phase-5/pkg/predictor"
	"github.com/magdaondimu/Capstone-Project-Phase-5/pkg/scheduler"
)

// Options configures the HTTP surface
type Options struct {
	DefaultEndYear int
	AllowedOrigins []string
	// Refresher, when set, reports the scheduled dataset reloads in /ready
	Refresher      *scheduler.Service
}

// Server provides HTTP API endpoints
type Server struct {
	router   *mux.Router
	pipeline *predictor.Pipeline
	datasets *dataset.Store
	store    metadatastore.MetadataStore
	exporter *exporter.Service
	metrics  *metrics.Metrics
	logger   *zap.Logger
	opts     Options
}

// NewServer creates a new API server and registers its routes
func NewServer(
	pipeline *predictor.Pipeline,
	datasets *dataset.Store,
	store metadatastore.MetadataStore,
	exports *exporter.Service,
	m *metrics.Metrics,
	logger *zap.Logger,
	opts Options,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if m == nil {
		m = metrics.New()
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}

	s := &Server{
		router:   mux.NewRouter(),
		pipeline: pipeline,
		datasets: datasets,
		store:    store,
		exporter: exports,
		metrics:  m,
		logger:   logger.Named("http"),
		opts:     opts,
	}

	s.setupRoutes()
	return s
}

// setupRoutes sets up the HTTP routes
func (s *Server) setupRoutes() {
	s.router.Use(s.errorRecoveryMiddleware)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(s.metricsMiddleware)

	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	s.router.HandleFunc("/ready", s.handleReady).Methods(http.MethodGet)
	s.router.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)

	predictions := NewPredictHandler(s.pipeline, s.store, s.metrics, s.logger)
	datasets := NewDatasetHandler(s.datasets, s.opts.DefaultEndYear)
	exports := NewExportHandler(s.exporter)

	v1 := s.router.PathPrefix("/api/v1").Subrouter()

	v1.HandleFunc("/predict/options", predictions.HandleOptions).Methods(http.MethodGet)
	v1.HandleFunc("/predict", predictions.HandlePredict).Methods(http.MethodPost)
	v1.HandleFunc("/predictions", predictions.HandleHistory).Methods(http.MethodGet)
	v1.HandleFunc("/predictions/{id}", predictions.HandleGet).Methods(http.MethodGet)

	v1.HandleFunc("/dataset/summary", datasets.HandleSummary).Methods(http.MethodGet)
	v1.HandleFunc("/dataset/years", datasets.HandleYears).Methods(http.MethodGet)
	v1.HandleFunc("/dataset/regions", datasets.HandleRegions).Methods(http.MethodGet)
	v1.HandleFunc("/dataset/countries", datasets.HandleCountries).Methods(http.MethodGet)
	v1.HandleFunc("/world", datasets.HandleWorld).Methods(http.MethodGet)
	v1.HandleFunc("/trends/{scope}/{name}/{topic}", datasets.HandleTrend).Methods(http.MethodGet)

	v1.HandleFunc("/exports", exports.HandleSubmit).Methods(http.MethodPost)
	v1.HandleFunc("/exports/{id}", exports.HandleGet).Methods(http.MethodGet)
}

// Handler returns the router wrapped with CORS handling
func (s *Server) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: s.opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{"Content-Disposition"},
	})
	return c.Handler(s.router)
}

// Run serves HTTP on port until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context, port string) error {
	httpServer := &http.Server{
		Addr:         ":" + port,
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("HTTP server failed: %w", err)
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTP server forced to shutdown: %w", err)
	}
	return nil
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSONResponse(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// handleReady reports whether the model and the dataset are loaded
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.pipeline == nil || s.datasets == nil || s.datasets.Current() == nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(map[string]string{"status": "not ready"})
		return
	}

	status := map[string]any{
		"status": "ready",
		"events": s.datasets.Current().Len(),
	}
	if s.exporter != nil {
		status["export_queue"] = s.exporter.QueueLength()
	}
	if s.opts.Refresher != nil {
		status["dataset_refresh"] = s.opts.Refresher.Status()
	}
	writeJSONResponse(w, http.StatusOK, status)
}
