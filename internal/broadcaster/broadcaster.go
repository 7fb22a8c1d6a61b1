// Package broadcaster fans the current camera roster out to subscribed
// viewers. A full roster snapshot is pushed on subscribe and on every
// announce; deltas are never sent.
package broadcaster

import (
	"sync"

	"go.uber.org/zap"
)

// RosterSource provides the current set of known camera identifiers
type RosterSource interface {
	List() []string
}

// Broadcaster maintains the roster subscriber list
type Broadcaster struct {
	source RosterSource
	log    *zap.Logger

	mu     sync.Mutex
	subs   map[chan []string]struct{}
	closed bool
}

// New creates a broadcaster reading rosters from source. If log is nil a
// no-op logger is used.
func New(source RosterSource, log *zap.Logger) *Broadcaster {
	if log == nil {
		log = zap.NewNop()
	}
	return &Broadcaster{
		source: source,
		log:    log,
		subs:   make(map[chan []string]struct{}),
	}
}

// Subscribe registers a roster subscriber and immediately seeds it with the
// current roster, so a new viewer does not have to wait for the next upload
// to learn about existing cameras. Returns the update channel and a cleanup
// function that must be called when the viewer disconnects.
func (b *Broadcaster) Subscribe(buffer int) (<-chan []string, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan []string, buffer)

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	b.subs[ch] = struct{}{}
	// Seed with the current snapshot before a concurrent Close can reach the
	// channel; the buffer guarantees this never blocks.
	ch <- b.source.List()
	b.mu.Unlock()

	cleanup := func() {
		b.unsubscribe(ch)
	}
	return ch, cleanup
}

// Announce pushes a fresh full-roster snapshot to every subscriber. The push
// is non-blocking: a subscriber whose buffer is full misses this update and
// catches up on the next one, since every payload is the complete roster.
// Announce runs on every accepted upload, whether or not the roster changed.
func (b *Broadcaster) Announce() {
	roster := b.source.List()

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}

	for ch := range b.subs {
		select {
		case ch <- roster:
		default:
			// Subscriber is not draining; drop this snapshot.
			b.log.Debug("roster subscriber lagging, snapshot dropped",
				zap.Int("roster_size", len(roster)))
		}
	}
}

// Roster returns the current roster snapshot on demand, with the same payload
// as a push.
func (b *Broadcaster) Roster() []string {
	return b.source.List()
}

// SubscriberCount returns the number of connected roster subscribers
func (b *Broadcaster) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Close disconnects all subscribers. Subscribe after Close returns an already
// closed channel.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true

	for ch := range b.subs {
		close(ch)
		delete(b.subs, ch)
	}
}

// unsubscribe removes a subscriber channel
func (b *Broadcaster) unsubscribe(ch chan []string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.subs[ch]; !exists {
		return
	}
	delete(b.subs, ch)
	close(ch)
}
