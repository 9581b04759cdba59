package metrics

import (
	"time"

	"clickshift-alpha/internal/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements signal.Recorder using Prometheus.
type Recorder struct {
	providerCalls    *prometheus.CounterVec
	providerDuration *prometheus.HistogramVec
	analysisDuration prometheus.Histogram
	signals          *prometheus.CounterVec
	posts            *prometheus.CounterVec
}

// New registers the analysis metrics with reg.
func New(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		providerCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "analysis_provider_calls_total",
				Help: "Provider calls by source and outcome status",
			},
			[]string{"source", "status"},
		),
		providerDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "analysis_provider_duration_seconds",
				Help:    "Duration of provider calls in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"source"},
		),
		analysisDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "analysis_duration_seconds",
				Help:    "End-to-end duration of successful analyses in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		signals: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "analysis_signals_total",
				Help: "Analyses completed by signal class",
			},
			[]string{"signal"},
		),
		posts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "analysis_posts_total",
				Help: "Channel posts by result",
			},
			[]string{"result"},
		),
	}
}

func (r *Recorder) ObserveProvider(source, status string, elapsed time.Duration) {
	r.providerCalls.WithLabelValues(source, status).Inc()
	r.providerDuration.WithLabelValues(source).Observe(elapsed.Seconds())
}

func (r *Recorder) ObserveAnalysis(signal domain.SignalClass, elapsed time.Duration) {
	r.signals.WithLabelValues(string(signal)).Inc()
	r.analysisDuration.Observe(elapsed.Seconds())
}

// ObservePost counts a channel post attempt.
func (r *Recorder) ObservePost(ok bool) {
	result := "ok"
	if !ok {
		result = "error"
	}
	r.posts.WithLabelValues(result).Inc()
}
