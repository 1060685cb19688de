package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the request service. All helpers are
// nil-safe so tests can pass a nil *Metrics.
type Metrics struct {
	RequestsCreated prometheus.Counter

	// Transition outcomes by target status and result ("applied", "denied", "conflict")
	Transitions *prometheus.CounterVec

	// Notification publish outcomes ("published", "failed")
	Notifications *prometheus.CounterVec

	DirectoryDegraded prometheus.Counter
}

// New registers and returns the service metrics.
func New() *Metrics {
	return &Metrics{
		RequestsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "blood_requests_created_total",
			Help: "Total blood requests created",
		}),
		Transitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "blood_request_transitions_total",
			Help: "Total request status transition attempts by target and outcome",
		}, []string{"target", "outcome"}),
		Notifications: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "blood_request_notifications_total",
			Help: "Total donor notification jobs by outcome",
		}, []string{"outcome"}),
		DirectoryDegraded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "blood_request_directory_degraded_total",
			Help: "Total donor directory lookups that degraded to zero candidates",
		}),
	}
}

func (m *Metrics) IncRequestCreated() {
	if m != nil {
		m.RequestsCreated.Inc()
	}
}

func (m *Metrics) IncTransition(target, outcome string) {
	if m != nil {
		m.Transitions.WithLabelValues(target, outcome).Inc()
	}
}

func (m *Metrics) IncNotification(outcome string) {
	if m != nil {
		m.Notifications.WithLabelValues(outcome).Inc()
	}
}

func (m *Metrics) IncDirectoryDegraded() {
	if m != nil {
		m.DirectoryDegraded.Inc()
	}
}
