package mitigation

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/picogrid/drone-risk-engine/pkg/audit"
	"github.com/picogrid/drone-risk-engine/pkg/models"
)

// Status is the outcome class of a resolution request
type Status string

const (
	StatusSuccess  Status = "success"
	StatusError    Status = "error"
	StatusRejected Status = "rejected"
)

// Reasons a request is rejected
var (
	ErrUnknownAction       = errors.New("unknown action")
	ErrActionNotApplicable = errors.New("action not applicable to target")
	ErrActionAlreadyUsed   = errors.New("action already used")
)

// Result describes what a resolution request did
type Result struct {
	Status  Status
	Message string
	// Reason is set only for rejected requests
	Reason error
	// Entry is the recorded audit entry, nil when rejected
	Entry *audit.Entry
	// Resolved is true only on the call that used the target's last action
	Resolved bool
}

// Snapshot is a read-only view of a target's action state
type Snapshot struct {
	State       models.TargetState
	UsedActions []string
	Mitigated   bool
}

type actionState struct {
	used      map[string]struct{}
	order     []string
	mitigated bool
}

// Option configures a Machine
type Option func(*Machine)

// WithClock sets the time source for audit entries
func WithClock(now func() time.Time) Option {
	return func(m *Machine) {
		m.now = now
	}
}

// WithIDs sets the id source for audit entries
func WithIDs(next func() uuid.UUID) Option {
	return func(m *Machine) {
		m.nextID = next
	}
}

// WithRecorder sets where audit entries are recorded
func WithRecorder(r audit.Recorder) Option {
	return func(m *Machine) {
		m.recorder = r
	}
}

// Machine holds the per-target action state for one session. Resolve calls
// are serialized so every action is used at most once per target.
type Machine struct {
	actions  *Table
	recorder audit.Recorder
	now      func() time.Time
	nextID   func() uuid.UUID

	mu     sync.Mutex
	states map[string]*actionState
}

// NewMachine creates a machine over an action table
func NewMachine(actions *Table, opts ...Option) *Machine {
	m := &Machine{
		actions: actions,
		now:     time.Now,
		nextID:  uuid.New,
		states:  make(map[string]*actionState),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Actions returns the action table
func (m *Machine) Actions() *Table {
	return m.actions
}

// Resolve applies an action to a target. Unknown, inapplicable and repeated
// actions are rejected with no state change and no audit entry. Every other
// call marks the action used and the target mitigated, whatever the outcome.
func (m *Machine) Resolve(target *models.Target, key string) Result {
	action, ok := m.actions.Get(key)
	if !ok {
		return rejected(ErrUnknownAction)
	}
	outcome, ok := target.Outcome(key)
	if !ok {
		return rejected(ErrActionNotApplicable)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	st := m.stateLocked(target.ID)
	if _, used := st.used[key]; used {
		return rejected(ErrActionAlreadyUsed)
	}

	success := action.Succeeds(outcome)
	status, message := StatusError, action.ErrorMessage
	if success {
		status, message = StatusSuccess, action.SuccessMessage
	}

	st.used[key] = struct{}{}
	st.order = append(st.order, key)
	st.mitigated = true

	entry := audit.Entry{
		ID:              m.nextID(),
		Timestamp:       m.now(),
		TargetID:        target.ID,
		CallSign:        target.CallSign,
		ActionKey:       key,
		ActionLabel:     action.Label,
		Success:         success,
		CountsAsSuccess: success && key != Report,
		Reported:        success && key == Report,
		Message:         message,
		Position:        target.Position(),
	}
	if m.recorder != nil {
		m.recorder.Record(entry)
	}

	return Result{
		Status:   status,
		Message:  message,
		Entry:    &entry,
		Resolved: len(st.used) == m.actions.Len(),
	}
}

// Snapshot returns the current action state of a target
func (m *Machine) Snapshot(targetID string) Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	st, ok := m.states[targetID]
	if !ok {
		return Snapshot{State: models.StateUntouched, UsedActions: []string{}}
	}

	used := make([]string, len(st.order))
	copy(used, st.order)
	return Snapshot{
		State:       models.StateFor(len(st.used), m.actions.Len()),
		UsedActions: used,
		Mitigated:   st.mitigated,
	}
}

// Available returns the actions that can still be resolved for a target, in table order
func (m *Machine) Available(target *models.Target) []Action {
	m.mu.Lock()
	defer m.mu.Unlock()

	st := m.states[target.ID]
	var available []Action
	for _, a := range m.actions.Actions() {
		if _, ok := target.Outcome(a.Key); !ok {
			continue
		}
		if st != nil {
			if _, used := st.used[a.Key]; used {
				continue
			}
		}
		available = append(available, a)
	}
	return available
}

// Resolved returns the ids of resolved targets, sorted
func (m *Machine) Resolved() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	var ids []string
	for id, st := range m.states {
		if len(st.used) >= m.actions.Len() {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

func (m *Machine) stateLocked(targetID string) *actionState {
	st, ok := m.states[targetID]
	if !ok {
		st = &actionState{used: make(map[string]struct{})}
		m.states[targetID] = st
	}
	return st
}

func rejected(reason error) Result {
	return Result{
		Status:  StatusRejected,
		Message: reason.Error(),
		Reason:  reason,
	}
}
