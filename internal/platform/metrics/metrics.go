// Package metrics exposes projection and gRPC metrics to Prometheus
package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "wealthsim"

// Metrics holds the service collectors
type Metrics struct {
	ProjectionsTotal   *prometheus.CounterVec
	ProjectionDuration prometheus.Histogram
	ProjectionYears    prometheus.Histogram
	GRPCRequestsTotal  *prometheus.CounterVec
	GRPCRequestSeconds *prometheus.HistogramVec
}

// New creates the collectors and registers them on reg
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		ProjectionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "projections_total",
			Help:      "Projections served, by outcome",
		}, []string{"outcome"}),
		ProjectionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "projection_duration_seconds",
			Help:      "Time spent producing a projection",
			Buckets:   prometheus.DefBuckets,
		}),
		ProjectionYears: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "projection_years",
			Help:      "Horizon of projected scenarios in years",
			Buckets:   []float64{5, 10, 20, 30, 40, 50, 75, 100},
		}),
		GRPCRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "grpc_requests_total",
			Help:      "gRPC requests, by method and status code",
		}, []string{"method", "code"}),
		GRPCRequestSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "grpc_request_duration_seconds",
			Help:      "gRPC request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
	}

	collectors := []prometheus.Collector{
		m.ProjectionsTotal,
		m.ProjectionDuration,
		m.ProjectionYears,
		m.GRPCRequestsTotal,
		m.GRPCRequestSeconds,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// ObserveProjection records one finished projection
func (m *Metrics) ObserveProjection(outcome string, years int, elapsed time.Duration) {
	m.ProjectionsTotal.WithLabelValues(outcome).Inc()
	m.ProjectionDuration.Observe(elapsed.Seconds())
	if years > 0 {
		m.ProjectionYears.Observe(float64(years))
	}
}

// RecordGRPCRequest records one unary call with its status code
func (m *Metrics) RecordGRPCRequest(method string, code uint32, elapsed time.Duration) {
	m.GRPCRequestsTotal.WithLabelValues(method, strconv.FormatUint(uint64(code), 10)).Inc()
	m.GRPCRequestSeconds.WithLabelValues(method).Observe(elapsed.Seconds())
}

// Server serves the metrics of gatherer over HTTP
type Server struct {
	srv    *http.Server
	logger *slog.Logger
}

// NewServer creates a metrics HTTP server listening on addr
func NewServer(addr, path string, gatherer prometheus.Gatherer, logger *slog.Logger) *Server {
	if path == "" {
		path = "/metrics"
	}
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()
	mux.Handle(path, promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger,
	}
}

// Start serves in the background until Shutdown
func (s *Server) Start() {
	s.logger.Info("starting metrics server", "addr", s.srv.Addr)
	go func() {
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("metrics server failed", "error", err)
		}
	}()
}

// Shutdown stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

// Handler returns the HTTP handler, for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}
