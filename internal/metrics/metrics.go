package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Registry holds all Prometheus metrics.
type Registry struct {
	*prometheus.Registry

	// HTTP metrics
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsInFlight prometheus.Gauge

	// Business metrics
	ratingsTotal   *prometheus.CounterVec
	ratingScore    prometheus.Histogram
	fetchDuration  *prometheus.HistogramVec
	fetchErrors    *prometheus.CounterVec
	chartsRendered *prometheus.CounterVec
	insightsTotal  *prometheus.CounterVec
	aiRatingsTotal *prometheus.CounterVec
	archiveWrites  *prometheus.CounterVec
}

// NewRegistry creates a new metrics registry with all metrics registered.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	// Register Go runtime metrics
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := &Registry{
		Registry: reg,

		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),

		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		httpRequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Number of HTTP requests currently in flight",
			},
		),
	}

	reg.MustRegister(r.httpRequestsTotal)
	reg.MustRegister(r.httpRequestDuration)
	reg.MustRegister(r.httpRequestsInFlight)

	// Business metrics
	r.ratingsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stockcopilot_ratings_total",
			Help: "Total number of rating lookups by outcome",
		},
		[]string{"outcome"},
	)
	r.ratingScore = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "stockcopilot_rating_score",
			Help:    "Distribution of computed ratings",
			Buckets: []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
		},
	)
	r.fetchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "stockcopilot_fetch_duration_seconds",
			Help:    "Market data fetch duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"source", "kind"},
	)
	r.fetchErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stockcopilot_fetch_errors_total",
			Help: "Total number of failed market data fetches",
		},
		[]string{"source", "kind"},
	)
	r.chartsRendered = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stockcopilot_charts_rendered_total",
			Help: "Total number of chart renders by status",
		},
		[]string{"status"},
	)
	r.insightsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stockcopilot_insights_total",
			Help: "Total number of AI insight requests by status",
		},
		[]string{"status"},
	)
	r.aiRatingsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stockcopilot_ai_ratings_total",
			Help: "Total number of AI rating requests by status",
		},
		[]string{"status"},
	)
	r.archiveWrites = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stockcopilot_archive_writes_total",
			Help: "Total number of chart archive writes by status",
		},
		[]string{"status"},
	)

	reg.MustRegister(r.ratingsTotal)
	reg.MustRegister(r.ratingScore)
	reg.MustRegister(r.fetchDuration)
	reg.MustRegister(r.fetchErrors)
	reg.MustRegister(r.chartsRendered)
	reg.MustRegister(r.insightsTotal)
	reg.MustRegister(r.aiRatingsTotal)
	reg.MustRegister(r.archiveWrites)

	return r
}

// RecordRequest records metrics for an HTTP request.
func (r *Registry) RecordRequest(method, path string, status int, duration float64) {
	statusStr := statusToString(status)
	r.httpRequestsTotal.WithLabelValues(method, path, statusStr).Inc()
	r.httpRequestDuration.WithLabelValues(method, path).Observe(duration)
}

// InFlightInc increments in-flight requests.
func (r *Registry) InFlightInc() {
	r.httpRequestsInFlight.Inc()
}

// InFlightDec decrements in-flight requests.
func (r *Registry) InFlightDec() {
	r.httpRequestsInFlight.Dec()
}

// RecordRating records a rating lookup by outcome; the score is observed only for rated lookups.
func (r *Registry) RecordRating(outcome string, score float64) {
	r.ratingsTotal.WithLabelValues(outcome).Inc()
	if outcome == OutcomeRated {
		r.ratingScore.Observe(score)
	}
}

// RecordFetch records a market data fetch of kind "bars" or "info".
func (r *Registry) RecordFetch(source, kind string, duration float64, err error) {
	r.fetchDuration.WithLabelValues(source, kind).Observe(duration)
	if err != nil {
		r.fetchErrors.WithLabelValues(source, kind).Inc()
	}
}

// RecordChart records a chart render attempt.
func (r *Registry) RecordChart(ok bool) {
	r.chartsRendered.WithLabelValues(okStatus(ok)).Inc()
}

// RecordInsight records an AI insight request.
func (r *Registry) RecordInsight(ok bool) {
	r.insightsTotal.WithLabelValues(okStatus(ok)).Inc()
}

// RecordAIRating records an AI rating request.
func (r *Registry) RecordAIRating(ok bool) {
	r.aiRatingsTotal.WithLabelValues(okStatus(ok)).Inc()
}

// RecordArchiveWrite records a chart archive write.
func (r *Registry) RecordArchiveWrite(ok bool) {
	r.archiveWrites.WithLabelValues(okStatus(ok)).Inc()
}

// Rating outcomes
const (
	OutcomeRated   = "rated"
	OutcomeUnrated = "unrated"
	OutcomeNoData  = "no_data"
)

func okStatus(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}

func statusToString(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	case status >= 200:
		return "2xx"
	default:
		return "1xx"
	}
}
