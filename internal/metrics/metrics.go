// Package metrics exposes ingest counters in Prometheus format.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds every collector. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	BytesReceived prometheus.Counter
	Lines         *prometheus.CounterVec
	Sessions      *prometheus.CounterVec
	WindowPoints  prometheus.Gauge
}

// New creates the collectors on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		BytesReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sigscope",
			Name:      "bytes_received_total",
			Help:      "Bytes read from the device",
		}),
		Lines: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sigscope",
			Name:      "lines_total",
			Help:      "Non-empty lines by classification",
		}, []string{"kind"}),
		Sessions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sigscope",
			Name:      "sessions_total",
			Help:      "Connection sessions by how they ended (cancelled, eof, error, open_failed)",
		}, []string{"result"}),
		WindowPoints: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "sigscope",
			Name:      "window_points",
			Help:      "Ticks currently held in the rolling window",
		}),
	}

	m.registry.MustRegister(m.BytesReceived, m.Lines, m.Sessions, m.WindowPoints)
	return m
}

// Registry returns the registry the collectors live on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// AddBytes counts bytes read from the transport.
func (m *Metrics) AddBytes(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.BytesReceived.Add(float64(n))
}

// CountLine counts one classified line.
func (m *Metrics) CountLine(kind string) {
	if m == nil {
		return
	}
	m.Lines.WithLabelValues(kind).Inc()
}

// CountSession records how a session ended.
func (m *Metrics) CountSession(result string) {
	if m == nil {
		return
	}
	m.Sessions.WithLabelValues(result).Inc()
}

// SetWindow records the current window length.
func (m *Metrics) SetWindow(n int) {
	if m == nil {
		return
	}
	m.WindowPoints.Set(float64(n))
}

// Handler serves the registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is cancelled.
func (m *Metrics) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
