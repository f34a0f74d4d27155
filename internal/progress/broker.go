// Package progress provides an in-process event stream for upload
// progress, with per-session subscriptions delivered over websockets.
package progress

import "sync"

// Event reports upload progress for one entry of an upload session.
// Key is the stable per-entry identifier (the storage object name) and
// Percent is monotonically non-decreasing from 0 to 100 per key.
type Event struct {
	Session string `json:"session"`
	Key     string `json:"key"`
	Percent int    `json:"percent"`
}

// subscriberBuffer bounds the per-subscriber event queue. Events beyond
// the buffer are dropped rather than blocking the publisher.
const subscriberBuffer = 256

// Broker fans progress events out to session subscribers. Publishing
// never blocks: slow subscribers lose events.
type Broker struct {
	mu   sync.RWMutex
	subs map[string]map[chan Event]struct{}
}

// NewBroker creates an empty broker.
func NewBroker() *Broker {
	return &Broker{
		subs: make(map[string]map[chan Event]struct{}),
	}
}

// Subscribe registers a listener for the given session. The returned
// cancel function removes the subscription and closes the channel.
func (b *Broker) Subscribe(session string) (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)

	b.mu.Lock()
	if b.subs[session] == nil {
		b.subs[session] = make(map[chan Event]struct{})
	}
	b.subs[session][ch] = struct{}{}
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		if set, ok := b.subs[session]; ok {
			if _, ok := set[ch]; ok {
				delete(set, ch)
				close(ch)
			}
			if len(set) == 0 {
				delete(b.subs, session)
			}
		}
		b.mu.Unlock()
	}

	return ch, cancel
}

// Publish delivers an event to every subscriber of its session.
func (b *Broker) Publish(ev Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for ch := range b.subs[ev.Session] {
		select {
		case ch <- ev:
		default:
			// drop on slow subscriber
		}
	}
}
