package catalog

import (
	"sync"

	"github.com/google/uuid"
)

// subscriberBufferSize is the per-subscriber bounded buffer size. A
// subscriber that falls behind receives a single Overflow change instead of
// blocking the publisher, per §5's "bounded buffer with drop-and-signal"
// requirement.
const subscriberBufferSize = 256

// Changefeed is a multicast AssetChange stream. Every provider owns exactly
// one; subscribers each get an independent buffered channel so that one slow
// subscriber cannot block delivery to others or to the publisher.
type Changefeed struct {
	mu          sync.Mutex
	subscribers map[*Subscription]struct{}
	closed      bool

	// onFirstSubscribe and onEmptied support lazy ref-counted upstream
	// subscriptions (§4.H, §9 "shared ownership"): the composite catalog
	// uses them to start forwarding from its children on the first
	// subscriber and stop when the last one leaves.
	onFirstSubscribe func()
	onEmptied        func()
}

// NewChangefeed constructs an empty, open Changefeed.
func NewChangefeed() *Changefeed {
	return &Changefeed{subscribers: make(map[*Subscription]struct{})}
}

// SetRefCountHooks installs callbacks invoked when the subscriber count
// transitions from zero to one (onFirstSubscribe) and from one to zero
// (onEmptied). It must be called before any subscriber attaches.
func (f *Changefeed) SetRefCountHooks(onFirstSubscribe, onEmptied func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.onFirstSubscribe = onFirstSubscribe
	f.onEmptied = onEmptied
}

// Subscription is a single observer's view of a Changefeed.
type Subscription struct {
	id     uuid.UUID
	events chan AssetChange
	feed   *Changefeed
	once   sync.Once
}

// ID returns a handle unique to this subscription, stable for its lifetime.
// Callers use it to correlate log lines across a watch session without
// exposing the underlying channel.
func (s *Subscription) ID() uuid.UUID {
	return s.id
}

// Events returns the channel on which this subscription's changes are
// delivered. The channel is closed when the subscription or its feed is
// closed.
func (s *Subscription) Events() <-chan AssetChange {
	return s.events
}

// Close unsubscribes from the feed. Safe to call more than once.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.feed.mu.Lock()
		delete(s.feed.subscribers, s)
		emptied := len(s.feed.subscribers) == 0
		onEmptied := s.feed.onEmptied
		s.feed.mu.Unlock()
		close(s.events)
		if emptied && onEmptied != nil {
			onEmptied()
		}
	})
}

// Subscribe registers a new subscriber. If the feed has already been
// closed, the returned subscription's Events channel is immediately closed
// and empty, matching "empty composition returns ... an empty completed
// stream" (§4.H).
func (f *Changefeed) Subscribe() *Subscription {
	sub := &Subscription{id: uuid.New(), events: make(chan AssetChange, subscriberBufferSize), feed: f}

	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		close(sub.events)
		return sub
	}
	f.subscribers[sub] = struct{}{}
	first := len(f.subscribers) == 1
	onFirstSubscribe := f.onFirstSubscribe
	f.mu.Unlock()

	if first && onFirstSubscribe != nil {
		onFirstSubscribe()
	}
	return sub
}

// Publish delivers change to every current subscriber. The last slot of each
// subscriber's buffer is kept for the Overflow signal: a subscriber whose
// buffer has only that slot left receives an Overflow change instead, and
// changes published while its buffer is full are dropped for it.
// Publish never blocks the caller on a slow subscriber.
func (f *Changefeed) Publish(change AssetChange) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	for sub := range f.subscribers {
		next := change
		if len(sub.events) >= cap(sub.events)-1 {
			next = AssetChange{Kind: Overflow}
		}
		select {
		case sub.events <- next:
		default:
		}
	}
}

// Close completes the feed: every current subscriber's channel is closed
// and no further subscriptions will receive events. Safe to call more than
// once.
func (f *Changefeed) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.closed = true
	for sub := range f.subscribers {
		close(sub.events)
	}
	f.subscribers = nil
}

// SubscriberCount reports the number of active subscriptions, used by the
// composite catalog to decide when to release its upstream subscriptions.
func (f *Changefeed) SubscriberCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subscribers)
}
