package peer

import (
	"context"

	"github.com/1ureka/rendezvous/internal/protocol"
	"github.com/1ureka/rendezvous/internal/rtcutil"
	"github.com/1ureka/rendezvous/internal/util"
)

// OneToManyHost is the host-side façade for the 1:N topology. It fans out
// to every client that joins the session: per spec §4.4/§4.5, the
// newcomer is always the offerer, so the host answers clients that join
// after it and offers to clients already present when it joins.
type OneToManyHost struct {
	client    *signalingClient
	sessionID protocol.SessionId
	peers     *peerSet
}

// ConstructOneToManyHost dials signalingURL and claims the host role. An
// empty sessionID mints a fresh one for the host to share with clients
// out of band.
func ConstructOneToManyHost(ctx context.Context, signalingURL string, sessionID protocol.SessionId, connType rtcutil.ConnectionType, maxRetransmits uint16) (*OneToManyHost, *Error) {
	if sessionID == "" {
		sessionID = protocol.NewSessionId()
	}

	client, err := dialSignaling(ctx, signalingURL)
	if err != nil {
		return nil, newError(ErrKindTransport, "connect to signaling server", err)
	}
	return &OneToManyHost{
		client:    client,
		sessionID: sessionID,
		peers:     newPeerSet(client, sessionID, connType, maxRetransmits),
	}, nil
}

// OnStateChanged installs an observer fired whenever any client negotiator's
// state changes (spec SPEC_FULL §C6). Must be called before Start.
func (h *OneToManyHost) OnStateChanged(fn func(peerID protocol.UserId, oldState, newState State)) {
	h.peers.onStateChanged = fn
}

// Start installs handlers, invoked per joining client, and claims the
// host slot via SessionJoin(is_host=true).
func (h *OneToManyHost) Start(onOpen func(peerID protocol.UserId), onMessage func(peerID protocol.UserId, value []byte)) *Error {
	h.peers.onOpen = onOpen
	h.peers.onMessage = onMessage

	go h.client.readLoop(h.dispatch)

	isHost := true
	if err := h.client.send(protocol.SessionJoin(h.sessionID, &isHost)); err != nil {
		return newError(ErrKindTransport, "send session join", err)
	}
	return nil
}

func (h *OneToManyHost) dispatch(msg protocol.Message) {
	if msg.Type == protocol.TypeError {
		util.LogWarning("server rejected host join: %s", msg.ErrorMessage)
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
		// The server settles offerer/answerer per spec §4.4's newcomer rule
		// and echoes it back as is_host: true means this side offers
		// toward peerID, which is the host's own role whenever it is the
		// one arriving late to an already-populated session.
		n := h.peers.getOrCreate(peerID)
		if msg.IsHost != nil && *msg.IsHost {
			err = n.becomeOfferer()
		} else {
			err = n.becomeAnswerer()
		}
	case protocol.TypeSdpOffer:
		err = h.peers.getOrCreate(peerID).onSdpOffer(msg.SDP)
	case protocol.TypeSdpAnswer:
		if n, ok := h.peers.get(peerID); ok {
			err = n.onSdpAnswer(msg.SDP)
		}
	case protocol.TypeIceCandidate:
		if n, ok := h.peers.get(peerID); ok && msg.Candidate != nil {
			n.onIceCandidate(*msg.Candidate)
		}
	}
	if err != nil {
		util.LogError("negotiation error with %s: %v", peerID, err)
	}
}

// Send writes value to a specific client's data channel.
func (h *OneToManyHost) Send(userID protocol.UserId, value []byte) *Error {
	n, ok := h.peers.get(userID)
	if !ok {
		return newError(ErrKindNotReady, "unknown peer", nil)
	}
	return n.send(value)
}

// SendAll broadcasts value to every connected client, best-effort.
func (h *OneToManyHost) SendAll(value []byte) {
	h.peers.sendAll(value)
}

// Close tears down every peer connection and the signaling socket.
func (h *OneToManyHost) Close() *Error {
	h.peers.closeAll()
	if err := h.client.close(); err != nil {
		return newError(ErrKindTransport, "close signaling socket", err)
	}
	return nil
}

// OneToManyClient is the client-side façade for the 1:N topology: a
// single negotiator toward the host, entered as offerer or answerer
// according to the is_host flag on the server's SessionReady.
type OneToManyClient struct {
	client    *signalingClient
	sessionID protocol.SessionId
	neg       *negotiator
}

// ConstructOneToManyClient dials signalingURL and joins as a non-host.
func ConstructOneToManyClient(ctx context.Context, signalingURL string, sessionID protocol.SessionId, connType rtcutil.ConnectionType, maxRetransmits uint16) (*OneToManyClient, *Error) {
	client, err := dialSignaling(ctx, signalingURL)
	if err != nil {
		return nil, newError(ErrKindTransport, "connect to signaling server", err)
	}
	c := &OneToManyClient{client: client, sessionID: sessionID}
	c.neg = newNegotiator(0, sessionID, connType, maxRetransmits, client.send, nil, nil, nil)
	return c, nil
}

// OnStateChanged installs an observer fired whenever the negotiator toward
// the host changes state (spec SPEC_FULL §C6). Must be called before Start.
func (c *OneToManyClient) OnStateChanged(fn func(peerID protocol.UserId, oldState, newState State)) {
	c.neg.onStateChanged = fn
}

// Start installs handlers and joins the session as a client.
func (c *OneToManyClient) Start(onOpen func(), onMessage func([]byte)) *Error {
	c.neg.onOpen = func(protocol.UserId) { onOpen() }
	c.neg.onMessage = func(_ protocol.UserId, data []byte) { onMessage(data) }

	go c.client.readLoop(c.dispatch)

	isHost := false
	if err := c.client.send(protocol.SessionJoin(c.sessionID, &isHost)); err != nil {
		return newError(ErrKindTransport, "send session join", err)
	}
	return nil
}

func (c *OneToManyClient) dispatch(msg protocol.Message) {
	var err *Error
	switch msg.Type {
	case protocol.TypeSessionReady:
		// is_host tells this client its role toward the introduced peer:
		// true when this client is the newcomer (offerer), false when a
		// later-arriving host is being introduced to an already-present
		// client (this client then answers).
		if msg.PeerId != nil {
			c.neg.setPeerID(*msg.PeerId)
		}
		if msg.IsHost != nil && *msg.IsHost {
			err = c.neg.becomeOfferer()
		} else {
			err = c.neg.becomeAnswerer()
		}
	case protocol.TypeSdpOffer:
		err = c.neg.onSdpOffer(msg.SDP)
	case protocol.TypeSdpAnswer:
		err = c.neg.onSdpAnswer(msg.SDP)
	case protocol.TypeIceCandidate:
		if msg.Candidate != nil {
			c.neg.onIceCandidate(*msg.Candidate)
		}
	case protocol.TypeError:
		util.LogWarning("server rejected session join: %s", msg.ErrorMessage)
	}
	if err != nil {
		util.LogError("negotiation error: %v", err)
	}
}

// SendToHost is implemented as a broadcast over the client's sole
// connection, per spec §4.7.
func (c *OneToManyClient) SendToHost(value []byte) *Error {
	return c.neg.send(value)
}

// Close tears down the peer connection and the signaling socket.
func (c *OneToManyClient) Close() *Error {
	c.neg.close()
	if err := c.client.close(); err != nil {
		return newError(ErrKindTransport, "close signaling socket", err)
	}
	return nil
}
