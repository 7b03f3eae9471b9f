package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	APIRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cf_api_requests_total",
			Help: "Number of API requests",
		},
		[]string{"method", "path", "status"},
	)
	APILatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cf_api_latency_seconds",
			Help:    "API latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
	Fields = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cf_fields_total",
			Help: "Number of configured fields by type",
		},
		[]string{"type"},
	)
	FieldValidations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cf_field_validations_total",
			Help: "Field values validated, by type and result",
		},
		[]string{"type", "result"},
	)
	FieldConfigErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cf_field_config_errors_total",
			Help: "Field definitions rejected at configuration time",
		},
		[]string{"type"},
	)
	Reloads = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cf_registry_reloads_total",
			Help: "Registry file reloads by result",
		},
		[]string{"result"},
	)
	EventsPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cf_events_published_total",
			Help: "Field change events delivered to a sink, by name and result",
		},
		[]string{"name", "result"},
	)
)

func init() {
	prometheus.MustRegister(
		APIRequests,
		APILatency,
		Fields,
		FieldValidations,
		FieldConfigErrors,
		Reloads,
		EventsPublished,
	)
}

// SetFieldCounts replaces the per-type field gauge.
func SetFieldCounts(counts map[string]int) {
	Fields.Reset()
	for t, n := range counts {
		Fields.WithLabelValues(t).Set(float64(n))
	}
}
