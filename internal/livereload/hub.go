// Package livereload fans dataset reload notifications out to connected
// browsers so open tabs refresh their galleries when a record file changes
// on disk.
package livereload

import (
	"sync"
	"time"
)

const (
	// Hard cap to keep the web process responsive even if someone opens
	// a silly number of tabs.
	maxReloadStreams = 200
)

// Event announces that a dataset was reloaded.
type Event struct {
	Dataset     string
	Fingerprint string
	ReloadedAt  time.Time
}

// Hub manages reload subscribers and stream slots.
type Hub struct {
	mu sync.Mutex

	subs    map[chan Event]struct{}
	streams int
}

// NewHub creates a new reload hub.
func NewHub() *Hub {
	return &Hub{
		subs: make(map[chan Event]struct{}),
	}
}

// AcquireStream attempts to reserve an SSE slot.
func (h *Hub) AcquireStream() bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.streams >= maxReloadStreams {
		return false
	}
	h.streams++
	return true
}

// ReleaseStream frees an SSE slot.
func (h *Hub) ReleaseStream() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.streams > 0 {
		h.streams--
	}
}

// Subscribe returns a channel that receives reload events, and an
// unsubscribe function. Unsubscribing closes the channel.
func (h *Hub) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 32)

	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	unsubscribe := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if _, ok := h.subs[ch]; ok {
			delete(h.subs, ch)
			close(ch)
		}
	}

	return ch, unsubscribe
}

// Broadcast notifies every subscriber of a reload.
func (h *Hub) Broadcast(evt Event) {
	h.mu.Lock()
	for sub := range h.subs {
		select {
		case sub <- evt:
		default:
			// Drop rather than block the webserver.
		}
	}
	h.mu.Unlock()
}

// Subscribers reports how many subscribers are connected.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
