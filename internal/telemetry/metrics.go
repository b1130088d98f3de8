package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	LoadFound    = "found"
	LoadAbsent   = "absent"
	LoadFallback = "fallback"
	LoadError    = "error"

	AIOk           = "ok"
	AIEmpty        = "empty"
	AIError        = "error"
	AINoCredential = "no_credential"
)

var (
	slotSavesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitbot_slot_saves_total",
			Help: "Slot writes labeled by slot and status",
		},
		[]string{"slot", "status"},
	)
	slotSaveDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fitbot_slot_save_duration_seconds",
			Help:    "Duration of slot writes in seconds, retries included",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"slot"},
	)
	slotLoadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitbot_slot_loads_total",
			Help: "Slot reads at startup labeled by outcome",
		},
		[]string{"slot", "outcome"},
	)
	slotRecordsDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitbot_slot_records_dropped_total",
			Help: "Stored list records skipped at startup because they failed validation",
		},
		[]string{"slot"},
	)
	aiRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitbot_ai_requests_total",
			Help: "AI summary requests labeled by provider and outcome",
		},
		[]string{"provider", "outcome"},
	)
	aiRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fitbot_ai_request_duration_seconds",
			Help:    "Duration of AI summary requests in seconds",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30},
		},
		[]string{"provider"},
	)
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitbot_http_requests_total",
			Help: "HTTP requests labeled by method, route and status",
		},
		[]string{"method", "route", "status"},
	)
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fitbot_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)
)

func ObserveSlotSave(slot string, started time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	slotSavesTotal.WithLabelValues(slot, status).Inc()
	slotSaveDuration.WithLabelValues(slot).Observe(time.Since(started).Seconds())
}

func ObserveSlotLoad(slot, outcome string) {
	slotLoadsTotal.WithLabelValues(slot, outcome).Inc()
}

func ObserveSlotRecordDropped(slot string) {
	slotRecordsDropped.WithLabelValues(slot).Inc()
}

func ObserveAI(provider, outcome string, started time.Time) {
	aiRequestsTotal.WithLabelValues(provider, outcome).Inc()
	aiRequestDuration.WithLabelValues(provider).Observe(time.Since(started).Seconds())
}

func ObserveHTTP(method, route, status string, started time.Time) {
	httpRequestsTotal.WithLabelValues(method, route, status).Inc()
	httpRequestDuration.WithLabelValues(route).Observe(time.Since(started).Seconds())
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
