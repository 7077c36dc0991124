package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// serverMetrics holds the Prometheus instruments for the API server
type serverMetrics struct {
	detectionsTotal   *prometheus.CounterVec
	detectionDuration prometheus.Histogram
	requestsTotal     *prometheus.CounterVec
}

func newServerMetrics(reg prometheus.Registerer) *serverMetrics {
	factory := promauto.With(reg)
	return &serverMetrics{
		detectionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "regression_detections_total",
			Help: "Completed regression detections by worst severity.",
		}, []string{"worst_severity"}),
		detectionDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "regression_detection_duration_seconds",
			Help:    "Wall time spent inside the detection engine.",
			Buckets: prometheus.DefBuckets,
		}),
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "regression_api_requests_total",
			Help: "API requests by route and status code.",
		}, []string{"route", "status"}),
	}
}
