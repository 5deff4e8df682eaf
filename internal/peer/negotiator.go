package peer

import (
	"sync"

	"github.com/pion/webrtc/v4"

	"github.com/1ureka/rendezvous/internal/protocol"
	"github.com/1ureka/rendezvous/internal/rtcutil"
	"github.com/1ureka/rendezvous/internal/util"
)

// negotiator drives the per-remote-peer finite automaton from spec §4.6:
// Idle -> Offering|AwaitingOffer -> AwaitingIce -> Open, with a Closed
// state reachable from anywhere. One negotiator exists per remote peer a
// façade has been introduced to.
type negotiator struct {
	mu    sync.Mutex
	state State

	peerID    protocol.UserId
	sessionID protocol.SessionId

	pc *webrtc.PeerConnection
	dc *webrtc.DataChannel

	connType       rtcutil.ConnectionType
	maxRetransmits uint16

	// sendSignal enqueues a message onto the signaling socket; supplied by
	// the owning façade so the negotiator never touches the WebSocket
	// directly.
	sendSignal func(protocol.Message) error

	onOpen         func(protocol.UserId)
	onMessage      func(protocol.UserId, []byte)
	onStateChanged func(peerID protocol.UserId, oldState, newState State)
}

func newNegotiator(
	peerID protocol.UserId,
	sessionID protocol.SessionId,
	connType rtcutil.ConnectionType,
	maxRetransmits uint16,
	sendSignal func(protocol.Message) error,
	onOpen func(protocol.UserId),
	onMessage func(protocol.UserId, []byte),
	onStateChanged func(protocol.UserId, State, State),
) *negotiator {
	return &negotiator{
		state:          StateIdle,
		peerID:         peerID,
		sessionID:      sessionID,
		connType:       connType,
		maxRetransmits: maxRetransmits,
		sendSignal:     sendSignal,
		onOpen:         onOpen,
		onMessage:      onMessage,
		onStateChanged: onStateChanged,
	}
}

// setPeerID records the counterpart's UserId, learned from the server's
// SessionReady echo. Every subsequent signal this negotiator emits is
// addressed to it.
func (n *negotiator) setPeerID(id protocol.UserId) {
	n.mu.Lock()
	n.peerID = id
	n.mu.Unlock()
}

func (n *negotiator) setState(s State) {
	n.mu.Lock()
	old := n.state
	n.state = s
	n.mu.Unlock()

	if n.onStateChanged != nil && old != s {
		n.onStateChanged(n.peerID, old, s)
	}
}

func (n *negotiator) currentState() State {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state
}

// becomeOfferer enters Offering: builds a peer connection, creates the
// data channel, wires callbacks, creates and sends an SDP offer.
func (n *negotiator) becomeOfferer() *Error {
	pc, err := rtcutil.BuildPeerConnection(n.connType)
	if err != nil {
		return newError(ErrKindPlatform, "build peer connection", err)
	}
	n.mu.Lock()
	n.pc = pc
	n.mu.Unlock()

	n.wireICE(pc)
	n.wireConnectionState(pc)

	dc, err := rtcutil.CreateDataChannel(pc, "data", n.maxRetransmits)
	if err != nil {
		pc.Close()
		return newError(ErrKindPlatform, "create data channel", err)
	}
	n.mu.Lock()
	n.dc = dc
	n.mu.Unlock()
	n.wireDataChannel(dc)

	sdp, err := rtcutil.CreateOffer(pc)
	if err != nil {
		return newError(ErrKindPlatform, "create offer", err)
	}

	n.setState(StateOffering)

	if err := n.sendSignal(protocol.SdpOfferMsg(n.sessionID, &n.peerID, sdp)); err != nil {
		return newError(ErrKindTransport, "send offer", err)
	}
	return nil
}

// becomeAnswerer enters AwaitingOffer: builds a peer connection and
// installs on-datachannel so the eventual remote-created channel is
// captured.
func (n *negotiator) becomeAnswerer() *Error {
	pc, err := rtcutil.BuildPeerConnection(n.connType)
	if err != nil {
		return newError(ErrKindPlatform, "build peer connection", err)
	}
	n.mu.Lock()
	n.pc = pc
	n.mu.Unlock()

	n.wireICE(pc)
	n.wireConnectionState(pc)

	pc.OnDataChannel(func(dc *webrtc.DataChannel) {
		n.mu.Lock()
		n.dc = dc
		n.mu.Unlock()
		n.wireDataChannel(dc)
	})

	n.setState(StateAwaitingOffer)
	return nil
}

func (n *negotiator) wireICE(pc *webrtc.PeerConnection) {
	pc.OnICECandidate(func(c *webrtc.ICECandidate) {
		if c == nil {
			return
		}
		msg := protocol.IceCandidateMsg(n.sessionID, &n.peerID, rtcutil.FromCandidate(c))
		if err := n.sendSignal(msg); err != nil {
			util.LogWarning("failed to send ICE candidate to %s: %v", n.peerID, err)
		}
	})
}

func (n *negotiator) wireConnectionState(pc *webrtc.PeerConnection) {
	pc.OnICEConnectionStateChange(func(state webrtc.ICEConnectionState) {
		if state == webrtc.ICEConnectionStateFailed || state == webrtc.ICEConnectionStateClosed {
			n.setState(StateClosed)
		}
	})
}

func (n *negotiator) wireDataChannel(dc *webrtc.DataChannel) {
	dc.OnOpen(func() {
		n.setState(StateOpen)
		if n.onOpen != nil {
			n.onOpen(n.peerID)
		}
	})
	dc.OnError(func(err error) {
		util.LogError("data channel error with %s: %v", n.peerID, err)
	})
	dc.OnMessage(func(msg webrtc.DataChannelMessage) {
		if n.onMessage != nil {
			n.onMessage(n.peerID, msg.Data)
		}
	})
	dc.OnClose(func() {
		n.setState(StateClosed)
	})
}

// onSdpOffer implements the AwaitingOffer -> AwaitingIce transition.
func (n *negotiator) onSdpOffer(sdp string) *Error {
	n.mu.Lock()
	pc := n.pc
	n.mu.Unlock()
	if pc == nil {
		return newError(ErrKindProtocol, "received offer with no peer connection", nil)
	}

	answer, err := rtcutil.CreateAnswer(pc, sdp)
	if err != nil {
		return newError(ErrKindPlatform, "create answer", err)
	}

	n.setState(StateAwaitingIce)

	if err := n.sendSignal(protocol.SdpAnswerMsg(n.sessionID, &n.peerID, answer)); err != nil {
		return newError(ErrKindTransport, "send answer", err)
	}
	return nil
}

// onSdpAnswer implements the Offering -> AwaitingIce transition.
func (n *negotiator) onSdpAnswer(sdp string) *Error {
	n.mu.Lock()
	pc := n.pc
	n.mu.Unlock()
	if pc == nil {
		return newError(ErrKindProtocol, "received answer with no peer connection", nil)
	}

	if err := rtcutil.SetRemoteAnswer(pc, sdp); err != nil {
		return newError(ErrKindPlatform, "set remote answer", err)
	}
	n.setState(StateAwaitingIce)
	return nil
}

// onIceCandidate adds a trickled remote candidate. Per spec §4.6/§7, a
// rejected candidate never fails the state machine — it is logged and
// negotiation continues, since ICE tolerates individual candidate errors.
func (n *negotiator) onIceCandidate(c protocol.IceCandidate) {
	n.mu.Lock()
	pc := n.pc
	n.mu.Unlock()
	if pc == nil {
		util.LogWarning("dropping ICE candidate for %s: no peer connection yet", n.peerID)
		return
	}
	if err := pc.AddICECandidate(rtcutil.ToCandidateInit(c)); err != nil {
		util.LogWarning("AddICECandidate rejected for %s: %v", n.peerID, err)
	}
}

// send writes value to the data channel if it is Open; otherwise it
// returns a NotReady error without touching any state (spec §7).
func (n *negotiator) send(value []byte) *Error {
	n.mu.Lock()
	state := n.state
	dc := n.dc
	n.mu.Unlock()

	if state != StateOpen || dc == nil {
		return newError(ErrKindNotReady, "data channel not open", nil)
	}
	if err := dc.Send(value); err != nil {
		return newError(ErrKindPlatform, "data channel send", err)
	}
	return nil
}

// close tears down the peer connection and data channel.
func (n *negotiator) close() {
	n.mu.Lock()
	pc, dc := n.pc, n.dc
	n.mu.Unlock()

	if dc != nil {
		dc.Close()
	}
	if pc != nil {
		pc.Close()
	}
	n.setState(StateClosed)
}
