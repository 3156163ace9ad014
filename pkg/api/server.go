// Package api serves stored documents and their decoded form over HTTP.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/ssargent/bdat/pkg/decoder"
	"github.com/ssargent/bdat/pkg/metrics"
)

const defaultMaxBodyBytes = 64 << 20

// Server holds the API server state
type Server struct {
	store    BlobStore
	decoder  *decoder.Decoder
	config   ServerConfig
	metrics  *metrics.Metrics
	gatherer prometheus.Gatherer
	logger   *zap.Logger
}

// NewServer creates a new API server. m must be registered on gatherer's
// registry for /metrics to expose it.
func NewServer(store BlobStore, dec *decoder.Decoder, config ServerConfig, m *metrics.Metrics, gatherer prometheus.Gatherer, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	if config.MaxBodyBytes <= 0 {
		config.MaxBodyBytes = defaultMaxBodyBytes
	}
	return &Server{
		store:    store,
		decoder:  dec,
		config:   config,
		metrics:  m,
		gatherer: gatherer,
		logger:   logger,
	}
}

// Routes builds the HTTP handler with all routes configured
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)

	// Prometheus metrics endpoint (unprotected for scraping)
	r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	r.Route("/api/v1", func(r chi.Router) {
		if s.config.APIKey != "" {
			r.Use(apiKeyMiddleware(s.config.APIKey))
		}

		r.Get("/health", s.metrics.InstrumentHandler("GET", "/api/v1/health", s.handleHealth))

		r.Post("/blobs", s.metrics.InstrumentHandler("POST", "/api/v1/blobs", s.handlePutBlob))
		r.Get("/blobs", s.metrics.InstrumentHandler("GET", "/api/v1/blobs", s.handleListBlobs))
		r.Get("/blobs/{id}", s.metrics.InstrumentHandler("GET", "/api/v1/blobs/{id}", s.handleGetBlob))
		r.Delete("/blobs/{id}", s.metrics.InstrumentHandler("DELETE", "/api/v1/blobs/{id}", s.handleDeleteBlob))

		r.Get("/blobs/{id}/decode", s.metrics.InstrumentHandler("GET", "/api/v1/blobs/{id}/decode", s.handleDecode))
		r.Get("/blobs/{id}/filter", s.metrics.InstrumentHandler("GET", "/api/v1/blobs/{id}/filter", s.handleFilter))
	})

	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.config.Addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting bdat API server", zap.String("addr", s.config.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down bdat API server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
