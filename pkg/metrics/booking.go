package metrics

import "github.com/prometheus/client_golang/prometheus"

// Admission decision outcomes used as metric labels.
const (
	AdmissionOutcomeAdmitted    = "admitted"
	AdmissionOutcomeRejected    = "rejected_stock"
	AdmissionOutcomeMaintenance = "rejected_maintenance"
)

// BookingMetrics tracks reservation admission outcomes.
type BookingMetrics struct {
	decisions *prometheus.CounterVec
}

// NewBookingMetrics registers the booking metrics on the provided registerer.
func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	if reg == nil {
		return &BookingMetrics{}
	}
	decisions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "reservation_admission_decisions",
		Help: "Reservation admission decisions by outcome.",
	}, []string{"outcome"})
	reg.MustRegister(decisions)
	return &BookingMetrics{decisions: decisions}
}

// IncDecision increments the counter for the given admission outcome.
func (b *BookingMetrics) IncDecision(outcome string) {
	if b == nil || b.decisions == nil {
		return
	}
	if outcome == "" {
		outcome = "unknown"
	}
	b.decisions.WithLabelValues(outcome).Inc()
}
