package peer

import (
	"context"

	"github.com/1ureka/rendezvous/internal/protocol"
	"github.com/1ureka/rendezvous/internal/rtcutil"
	"github.com/1ureka/rendezvous/internal/util"
)

// OneToOne is the peer-side façade for the 1:1 topology (spec §4.7). It
// owns exactly one negotiator, elected offerer or answerer by the
// server's echoed is_host flag on SessionReady.
type OneToOne struct {
	client    *signalingClient
	sessionID protocol.SessionId
	isHost    bool
	neg       *negotiator
}

// ConstructOneToOne dials signalingURL and prepares a 1:1 session. isHost
// is sent on SessionJoin, but the server's 1:1 registry does not use it:
// the first member to join is elected offerer, and Start takes the role
// from the server's SessionReady. An empty sessionID mints a fresh one, for
// a host that hasn't already agreed on a rendezvous name with its
// counterpart.
func ConstructOneToOne(ctx context.Context, signalingURL string, sessionID protocol.SessionId, connType rtcutil.ConnectionType, isHost bool, maxRetransmits uint16) (*OneToOne, *Error) {
	if sessionID == "" {
		sessionID = protocol.NewSessionId()
	}

	client, err := dialSignaling(ctx, signalingURL)
	if err != nil {
		return nil, newError(ErrKindTransport, "connect to signaling server", err)
	}

	o := &OneToOne{client: client, sessionID: sessionID, isHost: isHost}
	o.neg = newNegotiator(0, sessionID, connType, maxRetransmits, client.send, nil, nil, nil)
	return o, nil
}

// OnStateChanged installs an observer fired whenever the negotiator's state
// changes (spec SPEC_FULL §C6). Must be called before Start.
func (o *OneToOne) OnStateChanged(fn func(peerID protocol.UserId, oldState, newState State)) {
	o.neg.onStateChanged = fn
}

// Start installs the message handlers and joins the session. The server
// is the source of truth for who offers: it echoes is_host back on
// SessionReady, and that value (not the caller's) drives the transition.
func (o *OneToOne) Start(onOpen func(), onMessage func([]byte)) *Error {
	o.neg.onOpen = func(protocol.UserId) { onOpen() }
	o.neg.onMessage = func(_ protocol.UserId, data []byte) { onMessage(data) }

	go o.client.readLoop(o.dispatch)

	isHost := o.isHost
	if err := o.client.send(protocol.SessionJoin(o.sessionID, &isHost)); err != nil {
		return newError(ErrKindTransport, "send session join", err)
	}
	return nil
}

func (o *OneToOne) dispatch(msg protocol.Message) {
	var err *Error
	switch msg.Type {
	case protocol.TypeSessionReady:
		if msg.PeerId != nil {
			o.neg.setPeerID(*msg.PeerId)
		}
		host := msg.IsHost != nil && *msg.IsHost
		if host {
			err = o.neg.becomeOfferer()
		} else {
			err = o.neg.becomeAnswerer()
		}
	case protocol.TypeSdpOffer:
		err = o.neg.onSdpOffer(msg.SDP)
	case protocol.TypeSdpAnswer:
		err = o.neg.onSdpAnswer(msg.SDP)
	case protocol.TypeIceCandidate:
		if msg.Candidate != nil {
			o.neg.onIceCandidate(*msg.Candidate)
		}
	case protocol.TypeError:
		util.LogWarning("server rejected session join: %s", msg.ErrorMessage)
	}
	if err != nil {
		util.LogError("negotiation error: %v", err)
	}
}

// Send writes value to the sole counterpart's data channel.
func (o *OneToOne) Send(value []byte) *Error {
	return o.neg.send(value)
}

// Close tears down the peer connection and the signaling socket.
func (o *OneToOne) Close() *Error {
	o.neg.close()
	if err := o.client.close(); err != nil {
		return newError(ErrKindTransport, "close signaling socket", err)
	}
	return nil
}
