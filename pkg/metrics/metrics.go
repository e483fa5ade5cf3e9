package metrics

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the client-side Prometheus collectors
type Metrics struct {
	Registry *prometheus.Registry

	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Cart metrics
	CartMutationsTotal     *prometheus.CounterVec
	CartReloadsTotal       *prometheus.CounterVec
	CartTotalMismatchTotal prometheus.Counter
	CartSkippedItemsTotal  prometheus.Counter

	// Chat metrics
	ChatFramesTotal *prometheus.CounterVec
}

var (
	instance *Metrics
	once     sync.Once
)

// Get returns the process-wide metrics, creating them on first use
func Get() *Metrics {
	once.Do(func() {
		reg := prometheus.NewRegistry()
		factory := promauto.With(reg)

		instance = &Metrics{
			Registry: reg,
			HTTPRequestsTotal: factory.NewCounterVec(
				prometheus.CounterOpts{
					Name: "socialcommerce_http_requests_total",
					Help: "Total number of backend HTTP requests",
				},
				[]string{"method", "status"},
			),
			HTTPRequestDuration: factory.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "socialcommerce_http_request_duration_seconds",
					Help:    "Backend HTTP request latency in seconds",
					Buckets: []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
				},
				[]string{"method"},
			),
			CartMutationsTotal: factory.NewCounterVec(
				prometheus.CounterOpts{
					Name: "socialcommerce_cart_mutations_total",
					Help: "Cart mutation intents by kind and outcome",
				},
				[]string{"kind", "outcome"},
			),
			CartReloadsTotal: factory.NewCounterVec(
				prometheus.CounterOpts{
					Name: "socialcommerce_cart_reloads_total",
					Help: "Authoritative cart reloads by outcome",
				},
				[]string{"outcome"},
			),
			CartTotalMismatchTotal: factory.NewCounter(
				prometheus.CounterOpts{
					Name: "socialcommerce_cart_total_mismatch_total",
					Help: "Reloads where the client-derived total differed from the server total",
				},
			),
			CartSkippedItemsTotal: factory.NewCounter(
				prometheus.CounterOpts{
					Name: "socialcommerce_cart_skipped_items_total",
					Help: "Malformed cart line items skipped during aggregation",
				},
			),
			ChatFramesTotal: factory.NewCounterVec(
				prometheus.CounterOpts{
					Name: "socialcommerce_chat_frames_total",
					Help: "STOMP frames by command and direction",
				},
				[]string{"command", "direction"},
			),
		}
	})
	return instance
}

// ObserveHTTP records one completed backend request
func ObserveHTTP(method string, status string, elapsed time.Duration) {
	m := Get()
	m.HTTPRequestsTotal.WithLabelValues(method, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}

// Handler exposes the registry in the Prometheus text format
func Handler() http.Handler {
	return promhttp.HandlerFor(Get().Registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is cancelled
func Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
