package observability

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"reviewlens/internal/domain"
)

const namespace = "reviewlens"

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "http_requests_total", Help: "HTTP requests."},
		[]string{"route", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace, Name: "http_request_duration_seconds",
			Help:    "HTTP request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	ExternalRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "external_requests_total", Help: "Outbound requests."},
		[]string{"service", "endpoint", "status"},
	)
	ExternalLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace, Name: "external_request_duration_seconds",
			Help:    "Outbound request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "endpoint"},
	)
	CacheEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "cache_events_total", Help: "Cache hits/misses/sets/dels/errors."},
		[]string{"cache", "event"}, // event: hit|miss|set|del|error
	)
	IntentRouted = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "intent_routed_total", Help: "Questions answered per intent."},
		[]string{"intent"},
	)
	FallbackSteps = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "fallback_steps_total", Help: "Free-form answer steps by outcome."},
		[]string{"step", "outcome"}, // outcome: ok|failed
	)
)

// Serve exposes reg on a dedicated listener. An empty addr disables it; the API router still
// serves /metrics.
func Serve(addr string, reg *prometheus.Registry) *http.Server {
	if addr == "" {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", MetricsHandler(reg))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info().Str("addr", addr).Msg("metrics server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("metrics server failed")
		}
	}()
	return srv
}

func InitRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(HTTPRequests, HTTPLatency, ExternalRequests, ExternalLatency, CacheEvents, IntentRouted, FallbackSteps)
	return reg
}

func MetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

func ObserveHTTP(route, method string, status int, dur time.Duration) {
	HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPLatency.WithLabelValues(route, method).Observe(dur.Seconds())
}

// ObserveExternal records one outbound call. status 0 means the request never got a response.
func ObserveExternal(service, endpoint string, status int, dur time.Duration) {
	ExternalRequests.WithLabelValues(service, endpoint, strconv.Itoa(status)).Inc()
	ExternalLatency.WithLabelValues(service, endpoint).Observe(dur.Seconds())
}

func ObserveCache(cache, event string) { // event: hit|miss|set|del|error
	CacheEvents.WithLabelValues(cache, event).Inc()
}

// AssistantMetrics counts routed intents and fallback steps for the assistant.
type AssistantMetrics struct{}

func (AssistantMetrics) IntentRouted(intent string) {
	IntentRouted.WithLabelValues(intent).Inc()
}

func (AssistantMetrics) FallbackStep(step, outcome string) {
	FallbackSteps.WithLabelValues(step, outcome).Inc()
}

// LabelErr names an error for log and metric labels, preferring the domain sentinels.
func LabelErr(err error) string {
	var se *domain.StatusError
	var ie *domain.InputError
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, domain.ErrGeneratorTimeout):
		return "timeout"
	case errors.Is(err, domain.ErrGeneratorEmpty):
		return "empty"
	case errors.Is(err, domain.ErrMissingCredentials):
		return "missing_credentials"
	case errors.Is(err, domain.ErrSourceAuth):
		return "auth"
	case errors.Is(err, domain.ErrSourceNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrSourceUnavailable):
		return "unavailable"
	case errors.As(err, &se):
		return "status_" + strconv.Itoa(se.Code)
	case errors.As(err, &ie):
		return "input"
	}
	return fmt.Sprintf("%T", err)
}
