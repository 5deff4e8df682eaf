// Package registry implements the connection registry (C2): the single
// authority that allocates UserIds and names users to the rest of the
// server. Higher layers never invent or persist a UserId — they only ever
// reference one handed out by Register.
package registry

import (
	"sync"

	"github.com/1ureka/rendezvous/internal/protocol"
)

// Sink is the outbound message sink for one connection. It is
// single-producer from the dispatcher side: only the registry's Send calls
// into it for a given user.
type Sink interface {
	// Send enqueues data for delivery to the remote end. An error return
	// is treated identically to the recipient being unknown: logged and
	// dropped by the caller.
	Send(data []byte) error
}

// Registry maps UserId to outbound Sink. It is the only component that
// allocates UserIds.
type Registry struct {
	mu      sync.RWMutex
	sinks   map[protocol.UserId]Sink
	nextID  uint64
}

// New creates an empty registry. UserIds are allocated starting at 1.
func New() *Registry {
	return &Registry{
		sinks:  make(map[protocol.UserId]Sink),
		nextID: 0,
	}
}

// Register allocates a fresh UserId for sink and records it. The returned
// id is unique for the lifetime of the process and never reused, even
// after Unregister.
func (r *Registry) Register(sink Sink) protocol.UserId {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	id := protocol.UserId(r.nextID)
	r.sinks[id] = sink
	return id
}

// Unregister removes a user's sink. Safe to call more than once or for an
// id that was never registered.
func (r *Registry) Unregister(id protocol.UserId) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sinks, id)
}

// Send delivers data to id's sink. ok is false when the user is unknown
// (already disconnected) or the sink rejected the write — both cases are
// non-fatal per spec §4.2 and §7: the caller logs and drops.
func (r *Registry) Send(id protocol.UserId, data []byte) (ok bool) {
	r.mu.RLock()
	sink, found := r.sinks[id]
	r.mu.RUnlock()

	if !found {
		return false
	}
	return sink.Send(data) == nil
}

// Lookup reports whether id currently names a live sink.
func (r *Registry) Lookup(id protocol.UserId) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, found := r.sinks[id]
	return found
}

// Count returns the number of currently registered users. Exposed for
// logging/observability only, never to clients.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sinks)
}
