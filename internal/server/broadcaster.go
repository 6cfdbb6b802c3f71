package server

import "sync"

// broadcastBufferSize bounds how far a slow subscriber can lag before
// it starts missing state snapshots rather than blocking the publisher.
const broadcastBufferSize = 8

// Broadcaster fans ServerMsg values out to every subscribed transport
// connection. Publish never blocks on a slow reader: a subscriber
// whose channel is full simply misses that update, since every
// ServerMsg carries a full state snapshot and a later one supersedes
// it anyway.
type Broadcaster struct {
	mu   sync.Mutex
	subs map[chan ServerMsg]struct{}
}

// NewBroadcaster creates an empty Broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[chan ServerMsg]struct{})}
}

// Subscribe registers a new receiver channel. Call Unsubscribe when
// the connection closes to release it.
func (b *Broadcaster) Subscribe() chan ServerMsg {
	ch := make(chan ServerMsg, broadcastBufferSize)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes and closes a receiver channel.
func (b *Broadcaster) Unsubscribe(ch chan ServerMsg) {
	b.mu.Lock()
	delete(b.subs, ch)
	b.mu.Unlock()
	close(ch)
}

// Publish fans msg out to every current subscriber without blocking.
func (b *Broadcaster) Publish(msg ServerMsg) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs {
		select {
		case ch <- msg:
		default:
			// Subscriber is behind; drop this update for it.
		}
	}
}
