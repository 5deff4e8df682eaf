package server

import (
	"github.com/1ureka/rendezvous/internal/protocol"
	"github.com/1ureka/rendezvous/internal/registry"
	"github.com/1ureka/rendezvous/internal/session"
	"github.com/1ureka/rendezvous/internal/util"
)

// Dispatcher implements the single message-type dispatch from spec §4.5,
// generic across all three topologies via the session.Registry interface.
// It is the only place routing decisions are made; conn/server code never
// inspects message contents itself.
type Dispatcher struct {
	Conns    *registry.Registry
	Sessions session.Registry

	// OfferGate, when set, gates SdpOffer forwarding and is consulted
	// before every offer is relayed. Only the 1:1 topology wires this,
	// implementing the offer-idempotence invariant from spec §8 scenario
	// 6: a session's second SdpOffer is dropped, never relayed.
	OfferGate func(protocol.SessionId) (firstTime bool)
}

// Dispatch routes a single decoded inbound message from sender.
func (d *Dispatcher) Dispatch(sender protocol.UserId, msg protocol.Message) {
	switch msg.Type {
	case protocol.TypeSessionJoin:
		d.handleJoin(sender, msg)

	case protocol.TypeSdpOffer:
		if d.OfferGate != nil && !d.OfferGate(msg.SessionId) {
			util.LogWarning("dropping duplicate offer for session %s from %s", msg.SessionId, sender)
			return
		}
		d.forward(sender, msg)

	case protocol.TypeSdpAnswer, protocol.TypeIceCandidate:
		d.forward(sender, msg)

	case protocol.TypeSessionReady:
		// A client re-broadcasting an introduction, used by N:N to relay
		// late-join information; routed exactly like any other
		// peer-addressed message.
		d.forward(sender, msg)

	case protocol.TypeError:
		util.LogWarning("dropping Error message received from peer %s: servers only emit this variant", sender)

	default:
		util.LogWarning("dropping unknown message type %q from %s", msg.Type, sender)
	}
}

func (d *Dispatcher) handleJoin(sender protocol.UserId, msg protocol.Message) {
	isHost := msg.IsHost != nil && *msg.IsHost

	res := d.Sessions.OnJoin(msg.SessionId, sender, isHost)
	if res.Err != nil {
		util.LogWarning("join rejected for %s in session %s: %v", sender, msg.SessionId, res.Err)
		d.sendTo(sender, protocol.ErrorMsg(msg.SessionId, nil, res.Err.Error()))
		return
	}

	for _, intro := range res.Introductions {
		d.sendTo(intro.To, intro.Ready)
	}
}

func (d *Dispatcher) forward(sender protocol.UserId, msg protocol.Message) {
	recipient, ok := d.resolveRecipient(sender, msg)
	if !ok {
		util.LogWarning("dropping %s from %s: no resolvable recipient in session %s", msg.Type, sender, msg.SessionId)
		d.sendTo(sender, protocol.ErrorMsg(msg.SessionId, nil, "recipient not a session member"))
		return
	}
	d.sendTo(recipient, msg.WithSender(sender))
}

// resolveRecipient prefers an explicit, membership-validated PeerId; when
// absent it falls back to the sole other session member. This generically
// covers the 1:1 topology's implicit-recipient rule (spec §4.5) — the
// fallback is only ever reachable in 1:N/N:N when exactly one peer
// happens to be present, which is harmless.
func (d *Dispatcher) resolveRecipient(sender protocol.UserId, msg protocol.Message) (protocol.UserId, bool) {
	peers := d.Sessions.Peers(msg.SessionId, sender)

	if msg.PeerId != nil {
		for _, p := range peers {
			if p == *msg.PeerId {
				return p, true
			}
		}
		return 0, false
	}

	if len(peers) == 1 {
		return peers[0], true
	}
	return 0, false
}

func (d *Dispatcher) sendTo(user protocol.UserId, msg protocol.Message) {
	data, err := protocol.Encode(msg)
	if err != nil {
		util.LogError("failed to encode outbound %s for %s: %v", msg.Type, user, err)
		return
	}
	if !d.Conns.Send(user, data) {
		util.LogWarning("dropping %s for %s: recipient not connected", msg.Type, user)
		util.Stats.AddDropped()
		return
	}
	util.Stats.AddRouted()
}
