// Package console is the interactive operator front end: it owns the
// presentation state and drives the engine from terminal prompts.
package console

import (
	"sort"
	"sync"
	"time"

	"github.com/picogrid/drone-risk-engine/pkg/scheduler"
)

// ToastTTL is how long a toast stays visible
const ToastTTL = 4 * time.Second

// Toast is a transient notification attached to a target or station
type Toast struct {
	ID      string
	Message string
	Shown   time.Time

	seq uint64
}

// AppState is the presentation state of one console session
type AppState struct {
	mu       sync.Mutex
	selected string
	toasts   map[string]Toast
	seq      uint64
	now      func() time.Time
	ttl      time.Duration

	timers *scheduler.Scheduler
	icons  *IconCache
}

// StateOption configures an AppState
type StateOption func(*AppState)

// WithScheduler sets the scheduler used for auto-dismissal
func WithScheduler(s *scheduler.Scheduler) StateOption {
	return func(a *AppState) {
		if s != nil {
			a.timers = s
		}
	}
}

// WithToastTTL overrides ToastTTL
func WithToastTTL(ttl time.Duration) StateOption {
	return func(a *AppState) {
		if ttl > 0 {
			a.ttl = ttl
		}
	}
}

// NewAppState creates an empty presentation state
func NewAppState(opts ...StateOption) *AppState {
	a := &AppState{
		toasts: make(map[string]Toast),
		now:    time.Now,
		ttl:    ToastTTL,
		icons:  NewIconCache(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.timers == nil {
		a.timers = scheduler.New()
	}
	return a
}

// Select marks a target as selected
func (a *AppState) Select(id string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.selected = id
}

// Selected returns the selected target id
func (a *AppState) Selected() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.selected
}

// Icons returns the icon cache
func (a *AppState) Icons() *IconCache {
	return a.icons
}

// ShowToast shows a toast for id, replacing any toast already shown for it.
// The toast is dismissed after the TTL unless replaced first.
func (a *AppState) ShowToast(id, message string) error {
	a.mu.Lock()
	a.seq++
	seq := a.seq
	a.toasts[id] = Toast{ID: id, Message: message, Shown: a.now(), seq: seq}
	a.mu.Unlock()

	return a.timers.Schedule(id, a.ttl, func() {
		a.expire(id, seq)
	})
}

// expire drops the toast for id only if it is still the one scheduled
func (a *AppState) expire(id string, seq uint64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if t, ok := a.toasts[id]; ok && t.seq == seq {
		delete(a.toasts, id)
	}
}

// DismissToast removes the toast for id
func (a *AppState) DismissToast(id string) {
	a.timers.Cancel(id)

	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.toasts, id)
}

// Toast returns the visible toast for id
func (a *AppState) Toast(id string) (Toast, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	t, ok := a.toasts[id]
	return t, ok
}

// Toasts returns the visible toasts ordered by id
func (a *AppState) Toasts() []Toast {
	a.mu.Lock()
	defer a.mu.Unlock()

	toasts := make([]Toast, 0, len(a.toasts))
	for _, t := range a.toasts {
		toasts = append(toasts, t)
	}
	sort.Slice(toasts, func(i, j int) bool { return toasts[i].ID < toasts[j].ID })
	return toasts
}

// Close cancels every pending dismissal
func (a *AppState) Close() {
	a.timers.Stop()
}
