// Package scheduler runs delayed callbacks keyed by entity id. Scheduling a
// key again replaces its pending callback, and callbacks run one at a time.
package scheduler

import (
	"errors"
	"sync"
	"time"
)

// ErrStopped is returned when scheduling on a stopped scheduler
var ErrStopped = errors.New("scheduler stopped")

// Timer is the part of *time.Timer the scheduler needs
type Timer interface {
	Stop() bool
}

// AfterFunc starts a timer that calls f after d
type AfterFunc func(d time.Duration, f func()) Timer

func realAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Option configures a Scheduler
type Option func(*Scheduler)

// WithAfterFunc replaces the timer source
func WithAfterFunc(fn AfterFunc) Option {
	return func(s *Scheduler) {
		if fn != nil {
			s.afterFunc = fn
		}
	}
}

type task struct {
	gen   uint64
	timer Timer
}

// Scheduler holds at most one pending callback per key
type Scheduler struct {
	afterFunc AfterFunc

	mu      sync.Mutex
	tasks   map[string]task
	gen     uint64
	stopped bool

	// run serializes callbacks
	run sync.Mutex
	wg  sync.WaitGroup
}

// New creates a scheduler
func New(opts ...Option) *Scheduler {
	s := &Scheduler{
		afterFunc: realAfterFunc,
		tasks:     make(map[string]task),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Schedule runs fn after delay unless it is cancelled or replaced first.
// Any callback already pending for key is cancelled.
func (s *Scheduler) Schedule(key string, delay time.Duration, fn func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return ErrStopped
	}

	if prev, ok := s.tasks[key]; ok {
		prev.timer.Stop()
	}

	s.gen++
	gen := s.gen
	s.tasks[key] = task{
		gen:   gen,
		timer: s.afterFunc(delay, func() { s.fire(key, gen, fn) }),
	}
	return nil
}

// Cancel drops the pending callback for key and reports whether there was one
func (s *Scheduler) Cancel(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[key]
	if !ok {
		return false
	}
	t.timer.Stop()
	delete(s.tasks, key)
	return true
}

// Pending reports whether key has a callback waiting
func (s *Scheduler) Pending(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.tasks[key]
	return ok
}

// Len returns the number of pending callbacks
func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// Stop cancels every pending callback, rejects further scheduling and waits
// for a running callback to return. It must not be called from a callback.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	s.stopped = true
	for key, t := range s.tasks {
		t.timer.Stop()
		delete(s.tasks, key)
	}
	s.mu.Unlock()

	s.wg.Wait()
}

// fire runs fn if the task for key is still generation gen. A timer that
// already fired but was replaced or cancelled finds a different generation
// or no task and does nothing.
func (s *Scheduler) fire(key string, gen uint64, fn func()) {
	s.run.Lock()
	defer s.run.Unlock()

	s.mu.Lock()
	t, ok := s.tasks[key]
	if s.stopped || !ok || t.gen != gen {
		s.mu.Unlock()
		return
	}
	delete(s.tasks, key)
	s.wg.Add(1)
	s.mu.Unlock()

	defer s.wg.Done()
	fn()
}
