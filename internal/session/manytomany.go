package session

import (
	"sync"

	"github.com/1ureka/rendezvous/internal/protocol"
)

type manyToManySession struct {
	users map[protocol.UserId]struct{}
}

// ManyToMany implements the N:N membership rule from spec §4.3: no
// distinguished role; a newcomer is introduced to, and is the offerer
// toward, every already-present member, so that every pair of members
// negotiates exactly once.
type ManyToMany struct {
	mu       sync.RWMutex
	sessions map[protocol.SessionId]*manyToManySession
}

var _ Registry = (*ManyToMany)(nil)

// NewManyToMany creates an empty N:N session registry.
func NewManyToMany() *ManyToMany {
	return &ManyToMany{sessions: make(map[protocol.SessionId]*manyToManySession)}
}

// OnJoin implements Registry. The isHost argument is accepted for
// interface symmetry but has no meaning in this topology.
func (m *ManyToMany) OnJoin(sid protocol.SessionId, user protocol.UserId, _ bool) JoinResult {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[sid]
	if !ok {
		s = &manyToManySession{users: make(map[protocol.UserId]struct{})}
		m.sessions[sid] = s
	}

	var others []protocol.UserId
	for u := range s.users {
		others = append(others, u)
	}
	s.users[user] = struct{}{}

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
func (m *ManyToMany) OnDisconnect(user protocol.UserId) []protocol.SessionId {
	m.mu.Lock()
	defer m.mu.Unlock()

	var deleted []protocol.SessionId
	for sid, s := range m.sessions {
		if _, present := s.users[user]; !present {
			continue
		}
		delete(s.users, user)
		if len(s.users) == 0 {
			delete(m.sessions, sid)
			deleted = append(deleted, sid)
		}
	}
	return deleted
}

// Peers implements Registry.
func (m *ManyToMany) Peers(sid protocol.SessionId, user protocol.UserId) []protocol.UserId {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[sid]
	if !ok {
		return nil
	}
	var peers []protocol.UserId
	for u := range s.users {
		if u != user {
			peers = append(peers, u)
		}
	}
	return peers
}

// SessionCount implements Registry.
func (m *ManyToMany) SessionCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
