package session

import (
	"errors"
	"sync"

	"github.com/1ureka/rendezvous/internal/protocol"
)

// ErrSessionFull is returned (wrapped into an Error message) when a third
// peer attempts to join an already-full 1:1 session.
var ErrSessionFull = errors.New("session already has two members")

type oneToOneSession struct {
	first, second  *protocol.UserId
	offerReceived  bool
}

// OneToOne implements the 1:1 membership rule from spec §4.3: at most two
// members; the first joiner becomes host (is_host=true in its
// SessionReady), the second becomes the non-host counterpart; a third join
// is rejected with an Error.
type OneToOne struct {
	mu       sync.RWMutex
	sessions map[protocol.SessionId]*oneToOneSession
}

var _ Registry = (*OneToOne)(nil)

// NewOneToOne creates an empty 1:1 session registry.
func NewOneToOne() *OneToOne {
	return &OneToOne{sessions: make(map[protocol.SessionId]*oneToOneSession)}
}

func boolPtr(b bool) *bool { return &b }

// OnJoin implements Registry.
func (o *OneToOne) OnJoin(sid protocol.SessionId, user protocol.UserId, _ bool) JoinResult {
	o.mu.Lock()
	defer o.mu.Unlock()

	s, ok := o.sessions[sid]
	if !ok {
		s = &oneToOneSession{}
		o.sessions[sid] = s
	}

	switch {
	case s.first == nil:
		s.first = &user
		// Nothing to introduce yet; wait for the second member.
		return JoinResult{}

	case s.second == nil:
		s.second = &user
		first := *s.first
		return JoinResult{Introductions: []Introduction{
			{To: first, Ready: protocol.SessionReady(sid, user, boolPtr(true))},
			{To: user, Ready: protocol.SessionReady(sid, first, boolPtr(false))},
		}}

	default:
		return JoinResult{Err: ErrSessionFull}
	}
}

// OnDisconnect implements Registry.
func (o *OneToOne) OnDisconnect(user protocol.UserId) []protocol.SessionId {
	o.mu.Lock()
	defer o.mu.Unlock()

	var deleted []protocol.SessionId
	for sid, s := range o.sessions {
		changed := false
		if s.first != nil && *s.first == user {
			s.first = nil
			changed = true
		}
		if s.second != nil && *s.second == user {
			s.second = nil
			changed = true
		}
		if !changed {
			continue
		}
		if s.first == nil && s.second == nil {
			delete(o.sessions, sid)
			deleted = append(deleted, sid)
		}
	}
	return deleted
}

// Peers implements Registry: the 1:1 recipient is always implicit (the
// other member), but this is still exposed for forwarding validation.
func (o *OneToOne) Peers(sid protocol.SessionId, user protocol.UserId) []protocol.UserId {
	o.mu.RLock()
	defer o.mu.RUnlock()

	s, ok := o.sessions[sid]
	if !ok {
		return nil
	}
	switch {
	case s.first != nil && *s.first != user:
		return []protocol.UserId{*s.first}
	case s.second != nil && *s.second != user:
		return []protocol.UserId{*s.second}
	default:
		return nil
	}
}

// SessionCount implements Registry.
func (o *OneToOne) SessionCount() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return len(o.sessions)
}

// MarkOfferReceived sets the session's offer_received flag and reports
// whether this call was the one that set it (i.e. the first offer for the
// session). The handler uses this to implement offer idempotence (spec
// §8 scenario 6): only the first SdpOffer for a 1:1 session is relayed.
func (o *OneToOne) MarkOfferReceived(sid protocol.SessionId) (firstTime bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	s, ok := o.sessions[sid]
	if !ok {
		return false
	}
	if s.offerReceived {
		return false
	}
	s.offerReceived = true
	return true
}
