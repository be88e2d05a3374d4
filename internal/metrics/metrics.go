package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome label values
const (
	OutcomeSuccess    = "success"
	OutcomeError      = "error"
	OutcomeUserErrors = "user_errors"
	OutcomePanic      = "panic"
)

// Metrics holds the app's Prometheus instruments. A nil *Metrics is a valid no-op.
type Metrics struct {
	deferredTasks     *prometheus.CounterVec
	variantCreates    *prometheus.CounterVec
	variantsDeleted   prometheus.Counter
	settingsPublishes *prometheus.CounterVec
}

// New creates and registers the instruments. A nil registerer uses the default registry.
func New(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		deferredTasks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "articmaze",
			Name:      "deferred_tasks_total",
			Help:      "Deferred background tasks by task name and outcome.",
		}, []string{"task", "outcome"}),
		variantCreates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "articmaze",
			Name:      "variant_creates_total",
			Help:      "Storefront variant create requests by outcome.",
		}, []string{"outcome"}),
		variantsDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "articmaze",
			Name:      "stale_variants_deleted_total",
			Help:      "Variants submitted for deletion by the stale-variant cleanup.",
		}),
		settingsPublishes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "articmaze",
			Name:      "settings_publishes_total",
			Help:      "Settings metafield publishes by outcome.",
		}, []string{"outcome"}),
	}

	registerer.MustRegister(m.deferredTasks, m.variantCreates, m.variantsDeleted, m.settingsPublishes)
	return m
}

func (m *Metrics) DeferredTask(task, outcome string) {
	if m == nil {
		return
	}
	m.deferredTasks.WithLabelValues(task, outcome).Inc()
}

func (m *Metrics) VariantCreate(outcome string) {
	if m == nil {
		return
	}
	m.variantCreates.WithLabelValues(outcome).Inc()
}

func (m *Metrics) VariantsDeleted(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.variantsDeleted.Add(float64(n))
}

func (m *Metrics) SettingsPublish(outcome string) {
	if m == nil {
		return
	}
	m.settingsPublishes.WithLabelValues(outcome).Inc()
}
