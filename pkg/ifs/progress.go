package ifs

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

// Progress is a sink for phase-name and progress-count updates. The
// core never implements a UI itself; this is the narrow interface a
// progress/logging UI implements against.
type Progress interface {
	// SetPhase announces the name of the phase now driving the search
	// (e.g. "construction", "hill climbing").
	SetPhase(name string)

	// SetProgress reports current/total counts, e.g. assigned variables
	// out of total variables.
	SetProgress(current, total int)
}

// NoopProgress implements Progress with no-ops, the default when an
// embedder supplies none.
type NoopProgress struct{}

func (NoopProgress) SetPhase(string)      {}
func (NoopProgress) SetProgress(int, int) {}

// LoggingProgress reports phase transitions and progress counts through an
// injected logrus.FieldLogger rather than reaching for a package global.
type LoggingProgress struct {
	Log logrus.FieldLogger
}

func (l LoggingProgress) SetPhase(name string) {
	l.Log.WithField("phase", name).Info("ifs: phase transition")
}

func (l LoggingProgress) SetProgress(current, total int) {
	l.Log.WithFields(logrus.Fields{"current": current, "total": total}).Debug("ifs: progress")
}

// Metrics wraps the core's Prometheus instrumentation
// (prometheus.NewGauge + prometheus.MustRegister). A nil *Metrics is safe
// to use — every method is a no-op — so embedders that don't want a
// metrics server never have to special-case anything.
type Metrics struct {
	iteration       prometheus.Gauge
	currentValue    prometheus.Gauge
	bestValue       prometheus.Gauge
	phaseTransition *prometheus.CounterVec
}

// NewMetrics builds a Metrics instance and registers its collectors with
// reg. If reg is nil, NewMetrics returns nil (instrumentation disabled).
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		return nil
	}
	m := &Metrics{
		iteration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "ifs",
			Name:      "solver_iteration",
			Help:      "Current solver iteration counter.",
		}),
		currentValue: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "ifs",
			Name:      "solver_current_value",
			Help:      "Current total objective value.",
		}),
		bestValue: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "ifs",
			Name:      "solver_best_value",
			Help:      "Best-ever total objective value observed.",
		}),
		phaseTransition: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ifs",
			Name:      "solver_phase_transitions_total",
			Help:      "Count of composite-search phase transitions, by phase name.",
		}, []string{"phase"}),
	}
	reg.MustRegister(m.iteration, m.currentValue, m.bestValue, m.phaseTransition)
	return m
}

func (m *Metrics) observeIteration(iteration int, current float64) {
	if m == nil {
		return
	}
	m.iteration.Set(float64(iteration))
	m.currentValue.Set(current)
}

func (m *Metrics) observeBest(best float64) {
	if m == nil {
		return
	}
	m.bestValue.Set(best)
}

func (m *Metrics) observePhase(name string) {
	if m == nil {
		return
	}
	m.phaseTransition.WithLabelValues(name).Inc()
}

// ObservePhase records a composite-search phase transition. Exported so
// pkg/ifs/search's SimpleSearch controller, which owns the phase state
// machine, can report into the same Metrics a Solver uses.
func (m *Metrics) ObservePhase(name string) { m.observePhase(name) }
