package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "eventhorizon",
			Name:      "http_requests_total",
			Help:      "HTTP requests by endpoint.",
		},
		[]string{"endpoint"},
	)

	BookingsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "eventhorizon",
			Name:      "bookings_created_total",
			Help:      "Bookings created.",
		},
	)

	BookingConflicts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "eventhorizon",
			Name:      "booking_conflicts_total",
			Help:      "Availability conflicts reported to callers.",
		},
	)

	NotificationsSent = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "eventhorizon",
			Name:      "notifications_sent_total",
			Help:      "In-app notifications stored.",
		},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, BookingsCreated, BookingConflicts, NotificationsSent)
	})
}

// IncHTTP increments the counter for an endpoint label.
func IncHTTP(endpoint string) {
	httpRequests.WithLabelValues(endpoint).Inc()
}
