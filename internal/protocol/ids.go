// Package protocol defines the wire message taxonomy and identifier types
// shared between the signaling server and the peer library.
package protocol

import (
	"fmt"

	"github.com/google/uuid"
)

// SessionId is an opaque, caller-supplied rendezvous name. Uniqueness is
// scoped to a single server process; the core places no constraint on its
// character set.
type SessionId string

// NewSessionId mints a fresh, collision-resistant SessionId for callers that
// don't have an out-of-band rendezvous name to share (e.g. a host generating
// one to hand to a client via a side channel).
func NewSessionId() SessionId {
	return SessionId(uuid.NewString())
}

// UserId is a server-assigned identifier, unique for the lifetime of the
// server process. It is allocated by the connection registry from a
// monotonic counter starting at 1 and is never reused after disconnect.
//
// UserId is ephemeral and process-local — it must never be persisted.
type UserId uint64

// String renders the UserId for logging.
func (u UserId) String() string {
	return fmt.Sprintf("user-%d", uint64(u))
}

// IceCandidate is the opaque ICE candidate payload relayed verbatim between
// peers. SDPMid and SDPMLineIndex are optional, matching the platform's
// RTCIceCandidateInit shape.
type IceCandidate struct {
	Candidate     string  `json:"candidate"`
	SDPMid        *string `json:"sdpMid,omitempty"`
	SDPMLineIndex *uint16 `json:"sdpMLineIndex,omitempty"`
}
