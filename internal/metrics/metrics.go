package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "voxgate_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "voxgate_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	GenerationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "voxgate_generations_total",
			Help: "Total number of generation attempts by outcome.",
		},
		[]string{"outcome"},
	)

	AdmissionDenialsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "voxgate_admission_denials_total",
			Help: "Total number of requests denied by the admission guard, by reason.",
		},
		[]string{"reason"},
	)

	SynthesisDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "voxgate_synthesis_duration_seconds",
			Help:    "Upstream synthesis call duration in seconds.",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 40, 60, 90},
		},
	)

	MinuteWindowUsage = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "voxgate_minute_window_usage",
			Help: "Requests counted in the current fixed-origin minute window.",
		},
	)

	AudioCacheHitsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "voxgate_audio_cache_total",
			Help: "Audio cache lookups by result.",
		},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		GenerationsTotal,
		AdmissionDenialsTotal,
		SynthesisDuration,
		MinuteWindowUsage,
		AudioCacheHitsTotal,
	)
}
