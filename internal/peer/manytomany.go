package peer

import (
	"context"

	"github.com/1ureka/rendezvous/internal/protocol"
	"github.com/1ureka/rendezvous/internal/rtcutil"
	"github.com/1ureka/rendezvous/internal/util"
)

// ManyToMany is the peer-side façade for the N:N topology (spec §4.7):
// no distinguished role, one negotiator per other member, every pair
// negotiates exactly once by the newcomer-offers rule.
type ManyToMany struct {
	client    *signalingClient
	sessionID protocol.SessionId
	peers     *peerSet
}

// ConstructManyToMany dials signalingURL and prepares to join sessionID.
func ConstructManyToMany(ctx context.Context, signalingURL string, sessionID protocol.SessionId, connType rtcutil.ConnectionType, maxRetransmits uint16) (*ManyToMany, *Error) {
	client, err := dialSignaling(ctx, signalingURL)
	if err != nil {
		return nil, newError(ErrKindTransport, "connect to signaling server", err)
	}
	return &ManyToMany{
		client:    client,
		sessionID: sessionID,
		peers:     newPeerSet(client, sessionID, connType, maxRetransmits),
	}, nil
}

// OnStateChanged installs an observer fired whenever any member negotiator's
// state changes (spec SPEC_FULL §C6). Must be called before Start.
func (m *ManyToMany) OnStateChanged(fn func(peerID protocol.UserId, oldState, newState State)) {
	m.peers.onStateChanged = fn
}

// Start installs handlers and joins the session.
func (m *ManyToMany) Start(onOpen func(peerID protocol.UserId), onMessage func(peerID protocol.UserId, value []byte)) *Error {
	m.peers.onOpen = onOpen
	m.peers.onMessage = onMessage

	go m.client.readLoop(m.dispatch)

	if err := m.client.send(protocol.SessionJoin(m.sessionID, nil)); err != nil {
		return newError(ErrKindTransport, "send session join", err)
	}
	return nil
}

func (m *ManyToMany) dispatch(msg protocol.Message) {
	if msg.Type == protocol.TypeError {
		util.LogWarning("server rejected session join: %s", msg.ErrorMessage)
		return
	}
	if msg.PeerId == nil {
		util.LogWarning("dropping %s with no peer id", msg.Type)
		return
	}
	peerID := *msg.PeerId

	var err *Error
	switch msg.Type {
	case protocol.TypeSessionReady:
		n := m.peers.getOrCreate(peerID)
		if msg.IsHost != nil && *msg.IsHost {
			err = n.becomeOfferer()
		} else {
			err = n.becomeAnswerer()
		}
	case protocol.TypeSdpOffer:
		err = m.peers.getOrCreate(peerID).onSdpOffer(msg.SDP)
	case protocol.TypeSdpAnswer:
		if n, ok := m.peers.get(peerID); ok {
			err = n.onSdpAnswer(msg.SDP)
		}
	case protocol.TypeIceCandidate:
		if n, ok := m.peers.get(peerID); ok && msg.Candidate != nil {
			n.onIceCandidate(*msg.Candidate)
		}
	}
	if err != nil {
		util.LogError("negotiation error with %s: %v", peerID, err)
	}
}

// Send writes value to a specific member's data channel.
func (m *ManyToMany) Send(userID protocol.UserId, value []byte) *Error {
	n, ok := m.peers.get(userID)
	if !ok {
		return newError(ErrKindNotReady, "unknown peer", nil)
	}
	return n.send(value)
}

// SendAll broadcasts value to every connected member, best-effort.
func (m *ManyToMany) SendAll(value []byte) {
	m.peers.sendAll(value)
}

// Close tears down every peer connection and the signaling socket.
func (m *ManyToMany) Close() *Error {
	m.peers.closeAll()
	if err := m.client.close(); err != nil {
		return newError(ErrKindTransport, "close signaling socket", err)
	}
	return nil
}
