package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	apiRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "salonbook",
			Name:      "api_requests_total",
			Help:      "Outbound API requests by endpoint and outcome.",
		},
		[]string{"endpoint", "outcome"},
	)

	bookingsConfirmed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "salonbook",
			Name:      "bookings_confirmed_total",
			Help:      "Bookings confirmed after payment verification.",
		},
	)

	paymentFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "salonbook",
			Name:      "payment_failures_total",
			Help:      "Payment attempts that failed, by phase.",
		},
		[]string{"phase"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(apiRequests, bookingsConfirmed, paymentFailures)
	})
}

// IncAPIRequest counts one outbound request for an endpoint label.
// Outcome is "ok" or the error class.
func IncAPIRequest(endpoint, outcome string) {
	apiRequests.WithLabelValues(endpoint, outcome).Inc()
}

// IncBookingConfirmed counts a confirmed booking.
func IncBookingConfirmed() {
	bookingsConfirmed.Inc()
}

// IncPaymentFailure counts a failed payment attempt for a phase label
// ("order", "collect", "verify").
func IncPaymentFailure(phase string) {
	paymentFailures.WithLabelValues(phase).Inc()
}
