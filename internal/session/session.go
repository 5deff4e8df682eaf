// Package session implements the three session-registry topologies (C3):
// one-to-one, one-to-many (with a distinguished host), and many-to-many.
// All three expose the same shape so the server router (C4) can select one
// per URL path and dispatch through it uniformly.
package session

import "github.com/1ureka/rendezvous/internal/protocol"

// Introduction is one SessionReady fan-out target produced by a join: send
// the ready notification described by Ready to the user named by To.
type Introduction struct {
	To    protocol.UserId
	Ready protocol.Message
}

// JoinResult is the outcome of a join attempt.
type JoinResult struct {
	// Introductions to deliver, in order, to session members (which may
	// include the joiner itself, e.g. a 1:N client joining after the host
	// being introduced to that host).
	Introductions []Introduction

	// Err, when non-nil, should be relayed to the joiner as
	// protocol.ErrorMsg(session, nil, Err.Error()) instead of the
	// Introductions being sent (Introductions is empty in that case).
	Err error
}

// Registry is the shape common to all three topologies.
type Registry interface {
	// OnJoin records user as a member of session and returns the
	// SessionReady fan-out (or an error) per the topology's membership
	// rule.
	OnJoin(session protocol.SessionId, user protocol.UserId, isHost bool) JoinResult

	// OnDisconnect removes user from every session it belongs to and
	// reports which sessions became empty and were deleted as a result.
	OnDisconnect(user protocol.UserId) []protocol.SessionId

	// Peers returns the other current members of session that user may
	// route offer/answer/ICE messages to, used to validate a forwarding
	// recipient.
	Peers(session protocol.SessionId, user protocol.UserId) []protocol.UserId

	// SessionCount reports the number of live sessions. Observability
	// only, never exposed to clients.
	SessionCount() int
}
