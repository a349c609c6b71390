package watching

import (
	"github.com/assetgrid/catalog/pkg/state"
)

// NoOpSource is a Source that never emits an event. It is used when a
// provider's root does not exist on disk, and in tests that want
// deterministic control over event delivery without touching the
// filesystem.
type NoOpSource struct {
	events  chan Event
	stopped state.Marker
}

// NewNoOpSource constructs a Source that never emits anything until Stop is
// called, at which point its Events channel is closed.
func NewNoOpSource() *NoOpSource {
	return &NoOpSource{events: make(chan Event)}
}

// Events implements Source.
func (s *NoOpSource) Events() <-chan Event {
	return s.events
}

// Stop implements Source. Safe to call more than once.
func (s *NoOpSource) Stop() {
	if s.stopped.Marked() {
		return
	}
	s.stopped.Mark()
	close(s.events)
}

// InjectableSource is a Source backed by a caller-controlled channel, used
// by tests that need to simulate specific event sequences (including
// RescanRequired) without a real filesystem watcher.
type InjectableSource struct {
	events  chan Event
	stopped state.Marker
}

// NewInjectableSource constructs a Source whose events are whatever the
// caller sends on the returned channel via Inject.
func NewInjectableSource() *InjectableSource {
	return &InjectableSource{events: make(chan Event, 64)}
}

// Events implements Source.
func (s *InjectableSource) Events() <-chan Event {
	return s.events
}

// Inject delivers an event to subscribers. It blocks if the internal buffer
// is full.
func (s *InjectableSource) Inject(event Event) {
	s.events <- event
}

// Stop implements Source. Safe to call more than once.
func (s *InjectableSource) Stop() {
	if s.stopped.Marked() {
		return
	}
	s.stopped.Mark()
	close(s.events)
}
