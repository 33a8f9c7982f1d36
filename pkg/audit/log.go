// Package audit keeps the append-only record of mitigation actions and renders
// it into the exportable action report.
package audit

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/picogrid/drone-risk-engine/pkg/geo"
)

// Entry is the immutable record of one resolved action
type Entry struct {
	ID              uuid.UUID    `json:"id"`
	Timestamp       time.Time    `json:"timestamp"`
	TargetID        string       `json:"target_id"`
	CallSign        string       `json:"call_sign"`
	ActionKey       string       `json:"action_key"`
	ActionLabel     string       `json:"action_label"`
	Success         bool         `json:"success"`
	CountsAsSuccess bool         `json:"counts_as_success"`
	Reported        bool         `json:"reported"`
	Message         string       `json:"message"`
	Position        geo.Position `json:"position"`
}

// Recorder accepts new entries
type Recorder interface {
	Record(entry Entry)
}

// Listener is notified after an entry has been appended
type Listener func(entry Entry)

// Log is the chronological, append-only action log for one session
type Log struct {
	mu        sync.RWMutex
	entries   []Entry
	listeners []Listener
}

// NewLog creates an empty log
func NewLog() *Log {
	return &Log{
		entries: make([]Entry, 0),
	}
}

// Subscribe registers a listener for every entry recorded from now on
func (l *Log) Subscribe(fn Listener) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.listeners = append(l.listeners, fn)
}

// Record appends an entry. Entries are never reordered or deduplicated.
func (l *Log) Record(entry Entry) {
	l.mu.Lock()
	l.entries = append(l.entries, entry)
	listeners := make([]Listener, len(l.listeners))
	copy(listeners, l.listeners)
	l.mu.Unlock()

	for _, fn := range listeners {
		fn(entry)
	}
}

// Entries returns a copy of all entries in recording order
func (l *Log) Entries() []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	entries := make([]Entry, len(l.entries))
	copy(entries, l.entries)
	return entries
}

// Len returns the number of recorded entries
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}
