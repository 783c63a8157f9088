package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "hbnb", Name: "http_requests_total", Help: "HTTP requests."},
		[]string{"route", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "hbnb", Name: "http_request_duration_seconds",
			Help:    "HTTP request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	BackendRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "hbnb", Name: "backend_requests_total", Help: "Requests sent to the HBnB API."},
		[]string{"endpoint", "status"},
	)
	BackendLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "hbnb", Name: "backend_request_duration_seconds",
			Help:    "HBnB API request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)
	CacheEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "hbnb", Name: "cache_events_total", Help: "Cache hits/misses/sets/dels."},
		[]string{"cache", "event"}, // event: hit|miss|set|del
	)
	FragmentLoads = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "hbnb", Name: "fragment_loads_total", Help: "Shared partial loads by outcome."},
		[]string{"outcome"}, // outcome: ok|error
	)
)

// Serve exposes reg on a dedicated listener. An empty addr disables it.
func Serve(addr string, reg *prometheus.Registry) {
	if addr == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", MetricsHandler(reg))

	go func() {
		srv := &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		log.Info().Str("addr", addr).Msg("metrics server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("metrics server failed")
		}
	}()
}

func InitRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(HTTPRequests, HTTPLatency, BackendRequests, BackendLatency, CacheEvents, FragmentLoads)
	return reg
}

func MetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

func ObserveHTTP(route, method string, status int, dur time.Duration) {
	HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPLatency.WithLabelValues(route, method).Observe(dur.Seconds())
}

// ObserveBackend records one outbound call. status is 0 for network failures.
func ObserveBackend(endpoint string, status int, dur time.Duration) {
	BackendRequests.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()
	BackendLatency.WithLabelValues(endpoint).Observe(dur.Seconds())
}

func ObserveCache(cache, event string) { // event: hit|miss|set|del
	CacheEvents.WithLabelValues(cache, event).Inc()
}

func ObserveFragment(err error) {
	if err != nil {
		FragmentLoads.WithLabelValues("error").Inc()
		return
	}
	FragmentLoads.WithLabelValues("ok").Inc()
}
