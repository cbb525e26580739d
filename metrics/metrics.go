// Package metrics holds the Prometheus collectors of the popup service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_image_popup_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "media_image_popup_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

// Rendering metrics
var (
	PopupResolutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_image_popup_resolutions_total",
			Help: "Total number of popup image URL resolutions",
		},
		[]string{"kind", "result"}, // kind: original|styled
	)

	FormatterElementsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "media_image_popup_formatter_elements_total",
			Help: "Total number of field items rendered by the popup formatter",
		},
	)

	FormatterSkippedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "media_image_popup_formatter_skipped_total",
			Help: "Field items skipped because the referenced media could not be loaded",
		},
	)
)
