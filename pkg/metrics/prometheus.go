package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns the mitigation metrics on a private registry. A nil Manager
// accepts every call and records nothing.
type Manager struct {
	namespace   string
	subsystem   string
	constLabels map[string]string
	registry    *prometheus.Registry

	actionsResolved *prometheus.CounterVec
	actionsRejected *prometheus.CounterVec
	targetsResolved prometheus.Counter
	engagedStations prometheus.Gauge
	targetRiskScore *prometheus.GaugeVec
}

// NewManager creates a metrics manager with its own registry unless one is supplied.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:   "drone",
		subsystem:   "risk",
		constLabels: make(map[string]string),
	}

	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	factory := promauto.With(m.registry)

	m.actionsResolved = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "actions_resolved_total",
		Help:        "Mitigation actions resolved, by action and status",
		ConstLabels: m.constLabels,
	}, []string{"action", "status"})

	m.actionsRejected = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "actions_rejected_total",
		Help:        "Mitigation requests rejected, by reason",
		ConstLabels: m.constLabels,
	}, []string{"reason"})

	m.targetsResolved = factory.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "targets_resolved_total",
		Help:        "Targets whose full action set has been used",
		ConstLabels: m.constLabels,
	})

	m.engagedStations = factory.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "engaged_stations",
		Help:        "Stations with at least one target inside coverage",
		ConstLabels: m.constLabels,
	})

	m.targetRiskScore = factory.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "target_risk_score",
		Help:        "Risk score of each target",
		ConstLabels: m.constLabels,
	}, []string{"target"})
}

// RecordResolution counts a resolved action
func (m *Manager) RecordResolution(action, status string) {
	if m == nil {
		return
	}
	m.actionsResolved.WithLabelValues(action, status).Inc()
}

// RecordRejection counts a rejected request
func (m *Manager) RecordRejection(reason string) {
	if m == nil {
		return
	}
	m.actionsRejected.WithLabelValues(reason).Inc()
}

// RecordTargetResolved counts a target reaching the resolved state
func (m *Manager) RecordTargetResolved() {
	if m == nil {
		return
	}
	m.targetsResolved.Inc()
}

// SetEngagedStations sets the engaged station gauge
func (m *Manager) SetEngagedStations(n int) {
	if m == nil {
		return
	}
	m.engagedStations.Set(float64(n))
}

// SetRiskScore sets the risk score gauge of a target
func (m *Manager) SetRiskScore(target string, score int) {
	if m == nil {
		return
	}
	m.targetRiskScore.WithLabelValues(target).Set(float64(score))
}

// Registry returns the registry the metrics live on
func (m *Manager) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// WriteTextfile writes the current metrics in the Prometheus text format,
// suitable for the node exporter textfile collector.
func (m *Manager) WriteTextfile(path string) error {
	if m == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
