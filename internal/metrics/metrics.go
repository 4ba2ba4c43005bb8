// Package metrics exposes key operation counters and RPC latencies to Prometheus.
package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

const namespace = "tlskey"

// Metrics owns a private registry. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry   *prometheus.Registry
	operations *prometheus.CounterVec
	rpcLatency *prometheus.HistogramVec
	loadedKeys *prometheus.GaugeVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pkey",
			Name:      "operations_total",
			Help:      "Key handle operations by variant and result.",
		}, []string{"op", "variant", "result"}),
		rpcLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "grpc",
			Name:      "duration_seconds",
			Help:      "Unary RPC latency by method and status code.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"method", "code"}),
		loadedKeys: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "keystore",
			Name:      "keys",
			Help:      "Keys held in the store by variant.",
		}, []string{"variant"}),
	}
	m.registry.MustRegister(
		collectors.NewBuildInfoCollector(),
		collectors.NewGoCollector(),
		m.operations,
		m.rpcLatency,
		m.loadedKeys,
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Observe counts one key operation.
func (m *Metrics) Observe(op, variant, result string) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(op, variant, result).Inc()
}

// SetKeys records how many keys of a variant are loaded.
func (m *Metrics) SetKeys(variant string, n int) {
	if m == nil {
		return
	}
	m.loadedKeys.WithLabelValues(variant).Set(float64(n))
}

// UnaryInterceptor measures handler latency.
func (m *Metrics) UnaryInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if m == nil {
			return handler(ctx, req)
		}
		start := time.Now()
		resp, err := handler(ctx, req)
		m.rpcLatency.WithLabelValues(info.FullMethod, status.Code(err).String()).Observe(time.Since(start).Seconds())
		return resp, err
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on lis until ctx is done.
func (m *Metrics) Serve(ctx context.Context, lis net.Listener) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Warn("metrics shutdown", "error", err)
		}
	}()

	if err := srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
