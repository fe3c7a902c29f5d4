// Package monitor exposes gameplay metrics to Prometheus.
package monitor

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "simon"

// Metrics records sessions and games. A nil *Metrics ignores every call.
type Metrics struct {
	registry       *prometheus.Registry
	SessionsActive prometheus.Gauge
	GamesStarted   *prometheus.CounterVec
	GamesFinished  *prometheus.CounterVec
	SequenceLength prometheus.Histogram
}

// NewMetrics creates the collectors on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		SessionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_active",
			Help:      "Number of connected play sessions",
		}),
		GamesStarted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_started_total",
			Help:      "Total number of games started",
		}, []string{"variant"}),
		GamesFinished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_finished_total",
			Help:      "Total number of games finished",
		}, []string{"variant", "outcome"}),
		SequenceLength: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sequence_length",
			Help:      "Sequence length reached when a game finished",
			Buckets:   prometheus.LinearBuckets(1, 4, 8),
		}),
	}

	m.registry.MustRegister(
		m.SessionsActive,
		m.GamesStarted,
		m.GamesFinished,
		m.SequenceLength,
	)
	return m
}

// SessionStarted counts a connected session.
func (m *Metrics) SessionStarted() {
	if m == nil {
		return
	}
	m.SessionsActive.Inc()
}

// SessionEnded uncounts a session.
func (m *Metrics) SessionEnded() {
	if m == nil {
		return
	}
	m.SessionsActive.Dec()
}

// GameStarted counts a new game of the given ruleset.
func (m *Metrics) GameStarted(variant string) {
	if m == nil {
		return
	}
	m.GamesStarted.WithLabelValues(variant).Inc()
}

// GameFinished records the outcome and final length of a game.
func (m *Metrics) GameFinished(variant, outcome string, length int) {
	if m == nil {
		return
	}
	m.GamesFinished.WithLabelValues(variant, outcome).Inc()
	m.SequenceLength.Observe(float64(length))
}

// Handler serves the metrics in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Server serves /metrics until its context is cancelled.
type Server struct {
	srv *http.Server
	ln  net.Listener
}

// Listen binds addr and returns a server ready to Serve.
func (m *Metrics) Listen(addr string) (*Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	return &Server{
		srv: &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second},
		ln:  ln,
	}, nil
}

// Addr returns the bound address.
func (s *Server) Addr() string {
	return s.ln.Addr().String()
}

// Serve blocks until ctx is done, then shuts the server down.
func (s *Server) Serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.srv.Serve(s.ln)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
