package protocol

// MessageType identifies the kind of signaling message on the wire.
type MessageType string

const (
	TypeSessionJoin  MessageType = "session_join"
	TypeSessionReady MessageType = "session_ready"
	TypeSdpOffer     MessageType = "sdp_offer"
	TypeSdpAnswer    MessageType = "sdp_answer"
	TypeIceCandidate MessageType = "ice_candidate"
	TypeError        MessageType = "error"
)

// Message is the single discriminated JSON object exchanged over the
// signaling WebSocket. Every variant shares one struct; unused fields are
// omitted on the wire via `omitempty`. This uniform representation resolves
// the candidate-encoding open question in favor of one shape used
// everywhere (never a re-encoded sub-frame, never a bare JSON string).
//
// Fields annotated (to) below are filled in by the client on
// SdpOffer/SdpAnswer/IceCandidate to name the intended recipient and are
// overwritten by the server on the offer/answer/candidate
// forwarding path: the server always substitutes the sender's UserId
// before relaying, so a receiving peer never has to trust a client-
// asserted PeerId on an inbound forwarded message.
type Message struct {
	Type MessageType `json:"type"`

	SessionId SessionId `json:"session_id"`

	// PeerId on SessionJoin is unused. On SessionReady sent by the server
	// it names the already-joined counterpart being introduced. On
	// SdpOffer/SdpAnswer/IceCandidate sent BY a peer it names the intended
	// recipient; sent BY the server it has been rewritten to the sender's
	// id (to).
	PeerId *UserId `json:"peer_id,omitempty"`

	// IsHost is set by the client on SessionJoin (1:N host claim; the 1:1
	// registry ignores it). On SessionReady the server sets it in every
	// topology to tell the recipient whether it is the offerer toward the
	// introduced peer.
	IsHost *bool `json:"is_host,omitempty"`

	SDP       string        `json:"sdp,omitempty"`
	Candidate *IceCandidate `json:"candidate,omitempty"`

	// ErrorMessage carries the human-readable text of a server-originated
	// Error message.
	ErrorMessage string `json:"error_message,omitempty"`
}

// SessionJoin builds a peer->server join request.
func SessionJoin(session SessionId, isHost *bool) Message {
	return Message{Type: TypeSessionJoin, SessionId: session, IsHost: isHost}
}

// SessionReady builds a server->peer introduction to peerID.
func SessionReady(session SessionId, peerID UserId, isHost *bool) Message {
	pid := peerID
	return Message{Type: TypeSessionReady, SessionId: session, PeerId: &pid, IsHost: isHost}
}

// SdpOfferMsg builds an offer addressed to peerID (peerID is nil when the
// recipient is implicit, as in the 1:1 topology).
func SdpOfferMsg(session SessionId, peerID *UserId, sdp string) Message {
	return Message{Type: TypeSdpOffer, SessionId: session, PeerId: peerID, SDP: sdp}
}

// SdpAnswerMsg builds an answer addressed to peerID.
func SdpAnswerMsg(session SessionId, peerID *UserId, sdp string) Message {
	return Message{Type: TypeSdpAnswer, SessionId: session, PeerId: peerID, SDP: sdp}
}

// IceCandidateMsg builds a trickled ICE candidate addressed to peerID.
func IceCandidateMsg(session SessionId, peerID *UserId, candidate IceCandidate) Message {
	return Message{Type: TypeIceCandidate, SessionId: session, PeerId: peerID, Candidate: &candidate}
}

// ErrorMsg builds a server->peer error notification.
func ErrorMsg(session SessionId, peerID *UserId, text string) Message {
	return Message{Type: TypeError, SessionId: session, PeerId: peerID, ErrorMessage: text}
}

// WithSender returns a copy of m with PeerId rewritten to sender. The
// server calls this on every forwarded offer/answer/ICE message so that
// recipients always see the true sender's identity rather than whatever
// the original sender placed in the PeerId slot (which, on the inbound
// leg, names the intended recipient instead).
func (m Message) WithSender(sender UserId) Message {
	s := sender
	m.PeerId = &s
	return m
}
