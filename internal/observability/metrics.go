package observability

import (
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registerOnce          sync.Once
	adminRequestsTotal    *prometheus.CounterVec
	adminLatencySeconds   *prometheus.HistogramVec
	adminErrorsTotal      *prometheus.CounterVec
	announcementsTotal    *prometheus.CounterVec
	announcementsLatency  prometheus.Histogram
	submissionsGradeTotal *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used for admin observability.
func RegisterMetrics() {
	registerOnce.Do(func() {
		adminRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "admin_requests_total",
			Help: "Total number of admin API requests served.",
		}, []string{"method", "route", "status"})

		adminLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "admin_latency_seconds",
			Help:    "Latency distribution for admin API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		adminErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "admin_errors_total",
			Help: "Total number of error responses returned by admin endpoints.",
		}, []string{"method", "route", "status"})

		announcementsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "announcements_requests_total",
			Help: "Announcement list requests by cache outcome.",
		}, []string{"outcome"})

		announcementsLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "announcements_latency_seconds",
			Help:    "Latency distribution for announcement list requests.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5},
		})

		submissionsGradeTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "submissions_graded_total",
			Help: "Total number of grading operations by outcome.",
		}, []string{"outcome"})

		prometheus.MustRegister(
			adminRequestsTotal,
			adminLatencySeconds,
			adminErrorsTotal,
			announcementsTotal,
			announcementsLatency,
			submissionsGradeTotal,
		)
	})
}

// AdminRequests exposes the counter for admin requests.
func AdminRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return adminRequestsTotal
}

// AdminLatency exposes the latency histogram for admin requests.
func AdminLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return adminLatencySeconds
}

// AdminErrors exposes the counter for admin error responses.
func AdminErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return adminErrorsTotal
}

// AnnouncementsRequests exposes the announcement cache outcome counter.
func AnnouncementsRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return announcementsTotal
}

// AnnouncementsLatency exposes the announcement list latency histogram.
func AnnouncementsLatency() prometheus.Histogram {
	RegisterMetrics()
	return announcementsLatency
}

// SubmissionsGraded exposes the grading outcome counter.
func SubmissionsGraded() *prometheus.CounterVec {
	RegisterMetrics()
	return submissionsGradeTotal
}

// MetricsHandler exposes the Prometheus scrape endpoint via Fiber.
func MetricsHandler() fiber.Handler {
	RegisterMetrics()
	return adaptor.HTTPHandler(promhttp.Handler())
}
