package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the provisioning module. Stage-labelled
// failure counts make the non-transactional saga's partial states visible:
// a rising account_issued failure count means orphaned profiles are
// accumulating.
type Metrics struct {
	SeniorsProvisioned prometheus.Counter
	SeniorsDeleted     prometheus.Counter
	ProvisionFailures  *prometheus.CounterVec
	ProvisionDuration  prometheus.Histogram
	DeletionDuration   prometheus.Histogram
}

// New creates a new Metrics instance with all provisioning metrics registered.
func New() *Metrics {
	return &Metrics{
		SeniorsProvisioned: promauto.NewCounter(prometheus.CounterOpts{
			Name: "carelink_seniors_provisioned_total",
			Help: "Total number of senior identities provisioned",
		}),
		SeniorsDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "carelink_seniors_deleted_total",
			Help: "Total number of senior identities deleted",
		}),
		ProvisionFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "carelink_provision_failures_total",
			Help: "Provisioning saga failures by stage",
		}, []string{"stage"}),
		ProvisionDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "carelink_provision_duration_seconds",
			Help:    "Duration of the full creation saga",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		DeletionDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "carelink_deletion_duration_seconds",
			Help:    "Duration of the full deletion saga",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
	}
}

// IncrementProvisioned records a successful creation saga.
func (m *Metrics) IncrementProvisioned() {
	if m != nil {
		m.SeniorsProvisioned.Inc()
	}
}

// IncrementDeleted records a deletion saga that removed the profile.
func (m *Metrics) IncrementDeleted() {
	if m != nil {
		m.SeniorsDeleted.Inc()
	}
}

// IncrementFailure records a saga failure at the named stage.
func (m *Metrics) IncrementFailure(stage string) {
	if m != nil {
		m.ProvisionFailures.WithLabelValues(stage).Inc()
	}
}

// ObserveProvision records the duration of a creation saga.
func (m *Metrics) ObserveProvision(start time.Time) {
	if m != nil {
		m.ProvisionDuration.Observe(time.Since(start).Seconds())
	}
}

// ObserveDeletion records the duration of a deletion saga.
func (m *Metrics) ObserveDeletion(start time.Time) {
	if m != nil {
		m.DeletionDuration.Observe(time.Since(start).Seconds())
	}
}
