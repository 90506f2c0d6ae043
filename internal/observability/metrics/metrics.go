package metrics

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

type PollPhase string

const (
	SourcePhase      PollPhase = "source_settlement"
	DestinationPhase PollPhase = "destination_arrival"
)

func (p PollPhase) String() string {
	return string(p)
}

var (
	once                         sync.Once
	metricsRouter                *chi.Mux
	httpRequestDurationHistogram *prometheus.HistogramVec
	pollAttemptsCounter          *prometheus.CounterVec
	pollOutcomeCounter           *prometheus.CounterVec
	bridgingDurationHistogram    prometheus.Histogram
)

// Init initializes the metrics package.
func Init(metricsPort int) {
	once.Do(func() {
		initMetricsRouter(metricsPort)
		registerMetrics()
	})
}

// initMetricsRouter initializes the metrics router.
func initMetricsRouter(metricsPort int) {
	metricsRouter = chi.NewRouter()
	metricsRouter.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	go func() {
		metricsAddr := fmt.Sprintf(":%d", metricsPort)
		err := http.ListenAndServe(metricsAddr, metricsRouter)
		if err != nil {
			log.Fatal().Err(err).Msgf("error starting metrics server on %s", metricsAddr)
		}
	}()
}

// registerMetrics initializes and register the Prometheus metrics.
func registerMetrics() {
	defaultHistogramBucketsSeconds := []float64{0.1, 0.5, 1, 2.5, 5, 10, 30}

	httpRequestDurationHistogram = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of http request durations in seconds.",
			Buckets: defaultHistogramBucketsSeconds,
		},
		[]string{"endpoint", "status"},
	)

	pollAttemptsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reconciler_poll_attempts_total",
			Help: "Total poll attempts per phase and result.",
		},
		[]string{"phase", "result"},
	)

	pollOutcomeCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reconciler_poll_outcomes_total",
			Help: "Terminal poll-phase outcomes per phase and state.",
		},
		[]string{"phase", "state"},
	)

	bridgingDurationHistogram = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "reconciler_bridging_duration_seconds",
			Help:    "Elapsed time between source settlement and matched destination arrival.",
			Buckets: []float64{5, 10, 30, 60, 120, 300, 600, 1800},
		},
	)

	prometheus.MustRegister(
		httpRequestDurationHistogram,
		pollAttemptsCounter,
		pollOutcomeCounter,
		bridgingDurationHistogram,
	)
}

// StartHttpRequestDurationTimer starts a timer to measure http request handling duration.
func StartHttpRequestDurationTimer(endpoint string) func(statusCode int) {
	startTime := time.Now()
	return func(statusCode int) {
		duration := time.Since(startTime).Seconds()
		httpRequestDurationHistogram.WithLabelValues(endpoint, fmt.Sprintf("%d", statusCode)).Observe(duration)
	}
}

// RecordPollAttempt counts one poll tick. result is "ok" or "error".
func RecordPollAttempt(phase PollPhase, err bool) {
	if pollAttemptsCounter == nil {
		return
	}
	result := "ok"
	if err {
		result = "error"
	}
	pollAttemptsCounter.WithLabelValues(phase.String(), result).Inc()
}

// RecordPollOutcome counts a terminal poll-phase state.
func RecordPollOutcome(phase PollPhase, state string) {
	if pollOutcomeCounter == nil {
		return
	}
	pollOutcomeCounter.WithLabelValues(phase.String(), state).Inc()
}

// RecordBridgingDuration observes a completed bridge round trip.
func RecordBridgingDuration(d time.Duration) {
	if bridgingDurationHistogram == nil {
		return
	}
	bridgingDurationHistogram.Observe(d.Seconds())
}
