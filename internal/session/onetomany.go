package session

import (
	"errors"
	"sync"

	"github.com/1ureka/rendezvous/internal/protocol"
)

// ErrHostAlreadyPresent is returned when a second peer attempts to claim
// the host role in a 1:N session.
var ErrHostAlreadyPresent = errors.New("host already present")

type oneToManySession struct {
	host            *protocol.UserId
	hostEverClaimed bool
	users           map[protocol.UserId]struct{}
}

// OneToMany implements the 1:N membership rule from spec §4.3: exactly one
// host may ever be claimed for a session; every newcomer (host or client)
// is introduced to, and is the offerer toward, every already-present
// member, while each already-present member is told to expect that
// newcomer as the answerer. Non-host peers may arrive before or after the
// host.
type OneToMany struct {
	mu       sync.RWMutex
	sessions map[protocol.SessionId]*oneToManySession
}

var _ Registry = (*OneToMany)(nil)

// NewOneToMany creates an empty 1:N session registry.
func NewOneToMany() *OneToMany {
	return &OneToMany{sessions: make(map[protocol.SessionId]*oneToManySession)}
}

// OnJoin implements Registry.
func (o *OneToMany) OnJoin(sid protocol.SessionId, user protocol.UserId, isHost bool) JoinResult {
	o.mu.Lock()
	defer o.mu.Unlock()

	s, ok := o.sessions[sid]
	if !ok {
		s = &oneToManySession{users: make(map[protocol.UserId]struct{})}
		o.sessions[sid] = s
	}

	if isHost && s.hostEverClaimed {
		return JoinResult{Err: ErrHostAlreadyPresent}
	}

	// Snapshot existing members before mutating, so the newcomer is never
	// introduced to itself.
	var others []protocol.UserId
	if s.host != nil {
		others = append(others, *s.host)
	}
	for u := range s.users {
		others = append(others, u)
	}

	if isHost {
		s.hostEverClaimed = true
		s.host = &user
	} else {
		s.users[user] = struct{}{}
	}

	var introductions []Introduction
	for _, other := range others {
		introductions = append(introductions,
			Introduction{To: user, Ready: protocol.SessionReady(sid, other, boolPtr(true))},
			Introduction{To: other, Ready: protocol.SessionReady(sid, user, boolPtr(false))},
		)
	}
	return JoinResult{Introductions: introductions}
}

// OnDisconnect implements Registry.
func (o *OneToMany) OnDisconnect(user protocol.UserId) []protocol.SessionId {
	o.mu.Lock()
	defer o.mu.Unlock()

	var deleted []protocol.SessionId
	for sid, s := range o.sessions {
		changed := false
		if s.host != nil && *s.host == user {
			s.host = nil
			changed = true
		}
		if _, present := s.users[user]; present {
			delete(s.users, user)
			changed = true
		}
		if !changed {
			continue
		}
		if s.host == nil && len(s.users) == 0 {
			delete(o.sessions, sid)
			deleted = append(deleted, sid)
		}
	}
	return deleted
}

// Peers implements Registry: every other current member (host and
// clients) is a valid forwarding recipient.
func (o *OneToMany) Peers(sid protocol.SessionId, user protocol.UserId) []protocol.UserId {
	o.mu.RLock()
	defer o.mu.RUnlock()

	s, ok := o.sessions[sid]
	if !ok {
		return nil
	}
	var peers []protocol.UserId
	if s.host != nil && *s.host != user {
		peers = append(peers, *s.host)
	}
	for u := range s.users {
		if u != user {
			peers = append(peers, u)
		}
	}
	return peers
}

// SessionCount implements Registry.
func (o *OneToMany) SessionCount() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return len(o.sessions)
}

// Host reports the current host of sid, if any.
func (o *OneToMany) Host(sid protocol.SessionId) (protocol.UserId, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	s, ok := o.sessions[sid]
	if !ok || s.host == nil {
		return 0, false
	}
	return *s.host, true
}
