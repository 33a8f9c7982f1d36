package scheduler

import (
	"errors"
	"sync"
	"testing"
	"time"
)

// fakeClock collects timers and fires them on demand
type fakeClock struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

type fakeTimer struct {
	delay   time.Duration
	fn      func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{delay: d, fn: f}
	c.timers = append(c.timers, t)
	return t
}

// fireAll runs every timer, including stopped ones, to mimic timers that
// fired just before being stopped.
func (c *fakeClock) fireAll() {
	c.mu.Lock()
	timers := append([]*fakeTimer(nil), c.timers...)
	c.mu.Unlock()
	for _, t := range timers {
		t.fn()
	}
}

func newFake() (*Scheduler, *fakeClock) {
	clock := &fakeClock{}
	return New(WithAfterFunc(clock.AfterFunc)), clock
}

func TestScheduleRuns(t *testing.T) {
	s, clock := newFake()
	ran := 0

	if err := s.Schedule("t1", time.Second, func() { ran++ }); err != nil {
		t.Fatalf("Failed to schedule: %v", err)
	}
	if !s.Pending("t1") {
		t.Error("Expected t1 to be pending")
	}

	clock.fireAll()
	if ran != 1 {
		t.Errorf("Expected callback to run once, got %d", ran)
	}
	if s.Pending("t1") || s.Len() != 0 {
		t.Error("Expected nothing pending after firing")
	}

	clock.fireAll()
	if ran != 1 {
		t.Errorf("Expected a fired timer not to run again, got %d", ran)
	}
}

func TestScheduleReplaces(t *testing.T) {
	s, clock := newFake()
	var got []string

	_ = s.Schedule("t1", time.Second, func() { got = append(got, "first") })
	_ = s.Schedule("t1", time.Second, func() { got = append(got, "second") })
	_ = s.Schedule("t2", time.Second, func() { got = append(got, "other") })

	if s.Len() != 2 {
		t.Errorf("Expected 2 pending keys, got %d", s.Len())
	}
	if !clock.timers[0].stopped {
		t.Error("Expected the replaced timer to be stopped")
	}

	clock.fireAll()
	if len(got) != 2 || got[0] != "second" || got[1] != "other" {
		t.Errorf("Expected [second other], got %v", got)
	}
}

func TestCancel(t *testing.T) {
	s, clock := newFake()
	ran := false

	_ = s.Schedule("t1", time.Second, func() { ran = true })
	if !s.Cancel("t1") {
		t.Error("Expected Cancel to report a pending callback")
	}
	if s.Cancel("t1") {
		t.Error("Expected second Cancel to report nothing pending")
	}

	clock.fireAll()
	if ran {
		t.Error("Expected cancelled callback not to run")
	}
}

func TestStop(t *testing.T) {
	s, clock := newFake()
	ran := 0

	_ = s.Schedule("a", time.Second, func() { ran++ })
	_ = s.Schedule("b", time.Second, func() { ran++ })
	s.Stop()

	clock.fireAll()
	if ran != 0 {
		t.Errorf("Expected no callbacks after Stop, got %d", ran)
	}
	if err := s.Schedule("c", time.Second, func() {}); !errors.Is(err, ErrStopped) {
		t.Errorf("Expected ErrStopped, got %v", err)
	}
}

func TestRealTimers(t *testing.T) {
	s := New()
	defer s.Stop()

	done := make(chan string, 2)
	_ = s.Schedule("k", time.Hour, func() { done <- "stale" })
	_ = s.Schedule("k", 10*time.Millisecond, func() { done <- "fresh" })

	select {
	case got := <-done:
		if got != "fresh" {
			t.Errorf("Expected fresh callback, got %s", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Timed out waiting for callback")
	}
}
