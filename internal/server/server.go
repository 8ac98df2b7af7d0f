// Package server is the UI boundary: it accepts statement uploads and
// Plaid fetch requests and answers with the transaction table.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/finview-dev/finview/internal/config"
	"github.com/finview-dev/finview/internal/metrics"
	"github.com/finview-dev/finview/internal/model"
)

// maxUploadBytes bounds one statement upload. Statements are a few
// hundred KB; 16 MB leaves room for image-heavy PDFs.
const maxUploadBytes = 16 << 20

// Fetcher pulls transactions from the external transaction API.
type Fetcher interface {
	RecentTransactions(ctx context.Context, accessToken string, days int) ([]model.Transaction, error)
}

// Server serves the upload UI and the JSON endpoints.
type Server struct {
	fetcher Fetcher
	metrics *metrics.Metrics
	logger  *zap.Logger
	server  *http.Server
}

// New creates a Server. fetcher may be nil when no Plaid credentials
// are configured; the fetch endpoint then answers 503.
func New(cfg config.ServerConfig, fetcher Fetcher, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	reg := prometheus.NewRegistry()

	s := &Server{
		fetcher: fetcher,
		metrics: metrics.New(reg),
		logger:  logger,
	}

	r := mux.NewRouter()
	r.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/api/statements", s.handleUpload).Methods(http.MethodPost)
	r.HandleFunc("/api/plaid/transactions", s.handlePlaidFetch).Methods(http.MethodPost)
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	r.Use(s.logRequests)

	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      r,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return s
}

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() http.Handler { return s.server.Handler }

// Start begins serving and blocks until the listener fails or Stop is
// called.
func (s *Server) Start() error {
	s.logger.Info("http server listening", zap.String("addr", s.server.Addr))
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("duration", time.Since(start)),
		)
	})
}
