// Package stream carries telemetry from rovers to consoles: an
// in-process broker fans ingested records out to subscribers, and an
// adapter on the consuming side parses frames and dispatches them to
// the marker registry and status display.
package stream

import "sync"

// Broker fans out telemetry frames to any number of subscribers. Each
// subscriber gets its own buffered channel; frames for a subscriber
// are delivered in publish order, and a subscriber that cannot keep up
// loses frames rather than blocking ingest.
type Broker struct {
	mu   sync.Mutex
	subs map[chan []byte]struct{}
}

func NewBroker() *Broker {
	return &Broker{subs: make(map[chan []byte]struct{})}
}

// Subscribe registers a new consumer. The returned cancel func must be
// called exactly once; it closes the channel.
func (b *Broker) Subscribe() (<-chan []byte, func()) {
	ch := make(chan []byte, 64)

	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		if _, ok := b.subs[ch]; ok {
			delete(b.subs, ch)
			close(ch)
		}
		b.mu.Unlock()
	}
	return ch, cancel
}

// Publish delivers one frame to every current subscriber.
func (b *Broker) Publish(frame []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for ch := range b.subs {
		select {
		case ch <- frame:
		default:
			// Subscriber is full; drop rather than stall ingest.
		}
	}
}

// SubscriberCount reports how many consumers are attached.
func (b *Broker) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
