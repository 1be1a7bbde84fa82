package trigger

import (
	"sync"

	"github.com/RyanBlaney/wavecap/pkg/capture"
)

// Manual is fired from other goroutines (signal handlers, tests) and polled
// by the capture loop.
type Manual struct {
	mu      sync.Mutex
	pending []capture.Event
	closed  bool
}

// NewManual creates an empty manual trigger
func NewManual() *Manual {
	return &Manual{}
}

// Fire queues an event for the next poll
func (m *Manual) Fire(ev capture.Event) {
	if ev == capture.EventNone {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	m.pending = append(m.pending, ev)
}

func (m *Manual) Poll() capture.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return popEvent(&m.pending)
}

// Close stops accepting events. Done turns true once the queue drains.
func (m *Manual) Close() {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
}

func (m *Manual) Done() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed && len(m.pending) == 0
}
