// Package pending holds error events captured before the runtime
// configuration settles. The buffer is bounded: once full, new events are
// counted as dropped rather than queued, keeping memory use flat when the
// metadata fetch hangs or the configuration never settles.
package pending

import (
	"sync"

	"github.com/jsamuelsen11/errtrack/internal/domain/report"
)

// DefaultCapacity bounds the pre-settlement buffer.
const DefaultCapacity = 100

// Buffer is a bounded, thread-safe FIFO of unsent error events.
// Multiple goroutines may Add concurrently; Drain atomically takes
// ownership of everything buffered so far.
type Buffer struct {
	mu       sync.Mutex
	events   []*report.ErrorEvent
	capacity int
	dropped  int
}

// NewBuffer creates a Buffer holding at most capacity events.
// Non-positive capacities fall back to DefaultCapacity.
func NewBuffer(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Buffer{capacity: capacity}
}

// Add appends ev to the buffer. Returns false when the buffer is full;
// the event is counted as dropped and not stored.
func (b *Buffer) Add(ev *report.ErrorEvent) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.events) >= b.capacity {
		b.dropped++
		return false
	}
	b.events = append(b.events, ev)
	return true
}

// Drain returns all buffered events in insertion order and empties the
// buffer. The returned slice is owned by the caller.
func (b *Buffer) Drain() []*report.ErrorEvent {
	b.mu.Lock()
	defer b.mu.Unlock()

	events := b.events
	b.events = nil
	return events
}

// Len returns the number of buffered events.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.events)
}

// Dropped returns how many events were rejected because the buffer was full.
func (b *Buffer) Dropped() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dropped
}
