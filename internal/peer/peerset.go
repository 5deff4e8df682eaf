package peer

import (
	"sync"

	"github.com/1ureka/rendezvous/internal/protocol"
	"github.com/1ureka/rendezvous/internal/rtcutil"
	"github.com/1ureka/rendezvous/internal/util"
)

// peerSet tracks one negotiator per remote peer, for the topologies (1:N
// host, N:N) where a façade fans out to more than one counterpart.
type peerSet struct {
	mu   sync.Mutex
	negs map[protocol.UserId]*negotiator

	client         *signalingClient
	sessionID      protocol.SessionId
	connType       rtcutil.ConnectionType
	maxRetransmits uint16

	onOpen         func(protocol.UserId)
	onMessage      func(protocol.UserId, []byte)
	onStateChanged func(protocol.UserId, State, State)
}

func newPeerSet(client *signalingClient, sessionID protocol.SessionId, connType rtcutil.ConnectionType, maxRetransmits uint16) *peerSet {
	return &peerSet{
		client:         client,
		sessionID:      sessionID,
		connType:       connType,
		maxRetransmits: maxRetransmits,
		negs:           make(map[protocol.UserId]*negotiator),
	}
}

// getOrCreate returns the existing negotiator for peerID, or builds one.
func (s *peerSet) getOrCreate(peerID protocol.UserId) *negotiator {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n, ok := s.negs[peerID]; ok {
		return n
	}
	n := newNegotiator(peerID, s.sessionID, s.connType, s.maxRetransmits, s.client.send, s.onOpen, s.onMessage, s.onStateChanged)
	s.negs[peerID] = n
	return n
}

func (s *peerSet) get(peerID protocol.UserId) (*negotiator, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.negs[peerID]
	return n, ok
}

func (s *peerSet) all() []*negotiator {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*negotiator, 0, len(s.negs))
	for _, n := range s.negs {
		out = append(out, n)
	}
	return out
}

func (s *peerSet) closeAll() {
	for _, n := range s.all() {
		n.close()
	}
}

// sendAll is best-effort per spec §4.7: per-peer failures are logged, not
// surfaced, and the caller always gets success once the batch is
// dispatched.
func (s *peerSet) sendAll(value []byte) {
	for _, n := range s.all() {
		if err := n.send(value); err != nil {
			util.LogWarning("send_all: dropping message to %s: %v", n.peerID, err)
		}
	}
}
