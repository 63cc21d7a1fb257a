package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/aanand-mishra/student-manager/internal/storage"
)

// Outcomes recorded for each store call.
const (
	OutcomeOK           = "ok"
	OutcomeAccessDenied = "access_denied"
	OutcomeStoreError   = "store_error"
	OutcomeUnexpected   = "unexpected"
)

// Metrics provides observability for store traffic and user notifications.
type Metrics struct {
	StoreRequests *prometheus.CounterVec
	StoreDuration *prometheus.HistogramVec
	Notifications *prometheus.CounterVec
}

// New creates a Metrics instance registered with reg. Pass
// prometheus.DefaultRegisterer in production and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		StoreRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "students_store_requests_total",
			Help: "Store calls by operation and outcome",
		}, []string{"op", "outcome"}),
		StoreDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "students_store_request_duration_seconds",
			Help:    "Duration of store calls",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"op"}),
		Notifications: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "students_notifications_total",
			Help: "Toasts shown to the user by level",
		}, []string{"level"}),
	}
}

// ObserveStore records one store call. Call with time.Now() taken before
// the call and the error it returned.
func (m *Metrics) ObserveStore(op string, start time.Time, err error) {
	m.StoreDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	m.StoreRequests.WithLabelValues(op, Outcome(err)).Inc()
}

// IncNotification counts a toast.
func (m *Metrics) IncNotification(level string) {
	m.Notifications.WithLabelValues(level).Inc()
}

// Outcome classifies err with the same taxonomy the manager reports.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, storage.ErrAccessDenied):
		return OutcomeAccessDenied
	}
	if _, ok := storage.AsStoreError(err); ok {
		return OutcomeStoreError
	}
	return OutcomeUnexpected
}
