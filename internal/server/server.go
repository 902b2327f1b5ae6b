package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tournevent/ongkir/internal/graphql"
	"github.com/tournevent/ongkir/internal/telemetry"
	"github.com/tournevent/ongkir/pkg/rajaongkir"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// Server is the HTTP gateway in front of the RajaOngkir client.
type Server struct {
	port     int
	client   *rajaongkir.Client
	logger   *otelzap.Logger
	metrics  *telemetry.Metrics
	resolver *graphql.Resolver
}

// Config holds server configuration.
type Config struct {
	Port int
}

// New creates a new server instance.
func New(cfg Config, client *rajaongkir.Client, logger *otelzap.Logger, metrics *telemetry.Metrics) *Server {
	return &Server{
		port:     cfg.Port,
		client:   client,
		logger:   logger,
		metrics:  metrics,
		resolver: graphql.NewResolver(client, logger, metrics),
	}
}

// Handler returns the routed handler, wrapped with request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", s.handleHealth)

	// Prometheus metrics
	mux.Handle("GET /metrics", promhttp.Handler())

	// GraphQL endpoint
	mux.HandleFunc("/graphql", s.handleGraphQL)

	// REST endpoints, one per client operation
	mux.HandleFunc("GET /v1/provinces", s.handleProvinces)
	mux.HandleFunc("GET /v1/cities", s.handleCities)
	mux.HandleFunc("GET /v1/subdistricts", s.handleSubdistricts)
	mux.HandleFunc("POST /v1/cost", s.handleCost)
	mux.HandleFunc("GET /v1/international/origins", s.handleInternationalOrigins)
	mux.HandleFunc("GET /v1/international/destinations", s.handleInternationalDestinations)
	mux.HandleFunc("POST /v1/international/cost", s.handleInternationalCost)
	mux.HandleFunc("POST /v1/waybill", s.handleWaybill)

	return s.withRequestID(mux)
}

// Run starts the HTTP server and blocks until context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting server", zap.Int("port", s.port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Wait for context cancellation or error
	select {
	case <-ctx.Done():
		s.logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
