// Package engine composes risk scoring, coverage, the mitigation state
// machine and the audit log into one session-scoped entry point.
package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/picogrid/drone-risk-engine/pkg/audit"
	"github.com/picogrid/drone-risk-engine/pkg/coverage"
	"github.com/picogrid/drone-risk-engine/pkg/geo"
	"github.com/picogrid/drone-risk-engine/pkg/logger"
	"github.com/picogrid/drone-risk-engine/pkg/metrics"
	"github.com/picogrid/drone-risk-engine/pkg/mitigation"
	"github.com/picogrid/drone-risk-engine/pkg/models"
	"github.com/picogrid/drone-risk-engine/pkg/risk"
)

// ErrUnknownTarget is returned for target ids not in the session
var ErrUnknownTarget = errors.New("unknown target")

// Config is the fixed input of one session
type Config struct {
	Targets              []models.TargetDefinition
	Stations             []models.Station
	Weights              risk.Weights
	Actions              []mitigation.Action
	CoverageRadiusMeters float64
}

// Option configures an Engine
type Option func(*Engine)

// WithLogger sets the logger used for resolution events
func WithLogger(l logger.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithMetrics sets the metrics manager
func WithMetrics(m *metrics.Manager) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// WithClock sets the time source for audit entries and exports
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithIDs sets the id source for audit entries
func WithIDs(next func() uuid.UUID) Option {
	return func(e *Engine) {
		if next != nil {
			e.nextID = next
		}
	}
}

// WithOnResolved registers a hook called once per target when its last action is used
func WithOnResolved(fn func(*models.Target)) Option {
	return func(e *Engine) {
		e.onResolved = fn
	}
}

// Engine is the in-memory state of one dashboard session
type Engine struct {
	sessionID uuid.UUID
	scorer    *risk.Scorer
	radius    float64
	targets   []*models.Target
	byID      map[string]*models.Target
	stations  []models.Station
	machine   *mitigation.Machine
	log       *audit.Log

	logger     logger.Logger
	metrics    *metrics.Manager
	now        func() time.Time
	nextID     func() uuid.UUID
	onResolved func(*models.Target)
}

// New builds a session from its configuration. Missing weights, actions and
// radius fall back to the extended weight table, the canonical actions and
// the default coverage radius.
func New(cfg Config, opts ...Option) (*Engine, error) {
	e := &Engine{
		sessionID: uuid.New(),
		log:       audit.NewLog(),
		logger:    logger.WithPrefix("engine"),
		now:       time.Now,
		nextID:    uuid.New,
	}
	for _, opt := range opts {
		opt(e)
	}

	weights := cfg.Weights
	if len(weights) == 0 {
		weights = risk.ExtendedWeights()
	}
	e.scorer = risk.NewScorer(risk.WithWeights(weights))

	actions := cfg.Actions
	if len(actions) == 0 {
		actions = mitigation.CanonicalActions()
	}
	table, err := mitigation.NewTable(actions)
	if err != nil {
		return nil, fmt.Errorf("invalid action table: %w", err)
	}
	e.machine = mitigation.NewMachine(table,
		mitigation.WithRecorder(e.log),
		mitigation.WithClock(e.now),
		mitigation.WithIDs(e.nextID),
	)

	e.radius = cfg.CoverageRadiusMeters
	if e.radius <= 0 {
		e.radius = coverage.DefaultRadiusMeters
	}

	e.byID = make(map[string]*models.Target, len(cfg.Targets))
	for _, def := range cfg.Targets {
		target, err := models.NewTarget(def, e.scorer)
		if err != nil {
			return nil, fmt.Errorf("invalid target: %w", err)
		}
		if _, dup := e.byID[target.ID]; dup {
			return nil, fmt.Errorf("duplicate target id: %s", target.ID)
		}
		e.targets = append(e.targets, target)
		e.byID[target.ID] = target
		e.metrics.SetRiskScore(target.ID, target.RiskScore)
	}

	e.stations = make([]models.Station, len(cfg.Stations))
	copy(e.stations, cfg.Stations)
	e.metrics.SetEngagedStations(len(e.EngagedStations()))

	e.logger.WithFields(map[string]interface{}{
		"session":  e.sessionID.String(),
		"targets":  len(e.targets),
		"stations": len(e.stations),
		"actions":  table.Len(),
	}).Debug("Session initialized")

	return e, nil
}

// SessionID identifies this session
func (e *Engine) SessionID() uuid.UUID {
	return e.sessionID
}

// ComputeRisk scores an indicator set with the session's weight table
func (e *Engine) ComputeRisk(set risk.Indicators) risk.Assessment {
	return e.scorer.Assess(set)
}

// ComputeHeading returns the heading of a track
func (e *Engine) ComputeHeading(track geo.Track) float64 {
	return geo.HeadingFromTrack(track)
}

// ComputeDistance returns the great-circle distance in meters
func (e *Engine) ComputeDistance(a, b geo.Position) float64 {
	return geo.DistanceMeters(a, b)
}

// RadiusMeters returns the coverage radius of the session
func (e *Engine) RadiusMeters() float64 {
	return e.radius
}

// Scorer returns the session's risk scorer
func (e *Engine) Scorer() *risk.Scorer {
	return e.scorer
}

// Actions returns the action table
func (e *Engine) Actions() *mitigation.Table {
	return e.machine.Actions()
}

// Stations returns the configured stations
func (e *Engine) Stations() []models.Station {
	stations := make([]models.Station, len(e.stations))
	copy(stations, e.stations)
	return stations
}

// EngagedStations returns the ids of stations with a target in coverage
func (e *Engine) EngagedStations() []string {
	return coverage.EngagedStations(e.stations, e.targets, e.radius)
}

// CoveredTargets returns the ids of targets inside some station's coverage
func (e *Engine) CoveredTargets() []string {
	return coverage.CoveredTargets(e.stations, e.targets, e.radius)
}

// Contacts returns every station/target pair inside coverage
func (e *Engine) Contacts() []coverage.Contact {
	return coverage.Contacts(e.stations, e.targets, e.radius)
}

// Target looks up a target by id
func (e *Engine) Target(id string) (*models.Target, error) {
	target, ok := e.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTarget, id)
	}
	return target, nil
}

// Targets returns the targets in configuration order with resolved targets
// moved to the end, keeping their relative order.
func (e *Engine) Targets() []*models.Target {
	active := make([]*models.Target, 0, len(e.targets))
	var resolved []*models.Target
	for _, t := range e.targets {
		if e.machine.Snapshot(t.ID).State == models.StateResolved {
			resolved = append(resolved, t)
			continue
		}
		active = append(active, t)
	}
	return append(active, resolved...)
}

// State returns the action state of a target
func (e *Engine) State(id string) (mitigation.Snapshot, error) {
	if _, err := e.Target(id); err != nil {
		return mitigation.Snapshot{}, err
	}
	return e.machine.Snapshot(id), nil
}

// Available returns the actions still open for a target
func (e *Engine) Available(id string) ([]mitigation.Action, error) {
	target, err := e.Target(id)
	if err != nil {
		return nil, err
	}
	return e.machine.Available(target), nil
}

// ResolveAction applies an action to a target. The only error is an unknown
// target; invalid or repeated actions come back as a rejected Result.
func (e *Engine) ResolveAction(targetID, actionKey string) (mitigation.Result, error) {
	target, err := e.Target(targetID)
	if err != nil {
		return mitigation.Result{}, err
	}

	res := e.machine.Resolve(target, actionKey)

	log := e.logger.WithFields(map[string]interface{}{
		"target": target.ID,
		"action": actionKey,
		"status": string(res.Status),
	})

	if res.Status == mitigation.StatusRejected {
		e.metrics.RecordRejection(res.Reason.Error())
		log.Debugf("Action rejected: %v", res.Reason)
		return res, nil
	}

	e.metrics.RecordResolution(actionKey, string(res.Status))
	log.Debug(res.Message)

	if res.Resolved {
		e.metrics.RecordTargetResolved()
		e.logger.Infof("Target %s resolved, all actions used", target.CallSign)
		if e.onResolved != nil {
			e.onResolved(target)
		}
	}

	return res, nil
}

// Log returns the session's audit log
func (e *Engine) Log() *audit.Log {
	return e.log
}

// Summary summarizes the audit log against the session's targets
func (e *Engine) Summary() audit.Summary {
	return audit.Summarize(e.log.Entries(), len(e.targets))
}

// ExportAuditLog renders the audit log in the given format, stamped with the
// session clock. It returns the content and the export file name.
func (e *Engine) ExportAuditLog(format string) (string, string, error) {
	generatedAt := e.now()
	entries := e.log.Entries()

	content, err := audit.RenderFormat(format, entries, audit.Summarize(entries, len(e.targets)), e.targets, generatedAt)
	if err != nil {
		return "", "", err
	}
	return content, audit.Filename(generatedAt, format), nil
}

// SaveAuditLog renders the audit log and writes it into dir
func (e *Engine) SaveAuditLog(dir, format string) (string, error) {
	generatedAt := e.now()
	entries := e.log.Entries()

	content, err := audit.RenderFormat(format, entries, audit.Summarize(entries, len(e.targets)), e.targets, generatedAt)
	if err != nil {
		return "", err
	}

	path, err := audit.Save(dir, format, content, generatedAt)
	if err != nil {
		return "", err
	}
	e.logger.Infof("Action log exported to %s", path)
	return path, nil
}
