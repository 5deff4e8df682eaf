package peer

import (
	"testing"
	"time"

	"github.com/1ureka/rendezvous/internal/protocol"
	"github.com/1ureka/rendezvous/internal/rtcutil"
)

// TestNegotiatorFullHandshake drives two negotiators through the complete
// offerer/answerer exchange from spec §4.6 without a signaling server: the
// sendSignal callbacks hand messages directly to the counterpart, playing
// the role the WebSocket relay plays in production.
func TestNegotiatorFullHandshake(t *testing.T) {
	var offerer, answerer *negotiator

	offererOpen := make(chan struct{})
	answererOpen := make(chan struct{})
	offererMsgs := make(chan []byte, 1)
	answererMsgs := make(chan []byte, 1)

	offerer = newNegotiator(
		1, "session", rtcutil.NewLocal(), 10,
		func(msg protocol.Message) error { return answerer.receive(msg) },
		func(protocol.UserId) { close(offererOpen) },
		func(_ protocol.UserId, data []byte) { offererMsgs <- data },
		nil,
	)
	answerer = newNegotiator(
		2, "session", rtcutil.NewLocal(), 10,
		func(msg protocol.Message) error { return offerer.receive(msg) },
		func(protocol.UserId) { close(answererOpen) },
		func(_ protocol.UserId, data []byte) { answererMsgs <- data },
		nil,
	)

	if err := answerer.becomeAnswerer(); err != nil {
		t.Fatalf("becomeAnswerer: %v", err)
	}
	if err := offerer.becomeOfferer(); err != nil {
		t.Fatalf("becomeOfferer: %v", err)
	}

	waitFor(t, offererOpen, "offerer data channel open")
	waitFor(t, answererOpen, "answerer data channel open")

	if err := offerer.send([]byte("ping")); err != nil {
		t.Fatalf("offerer send: %v", err)
	}
	if err := answerer.send([]byte("pong")); err != nil {
		t.Fatalf("answerer send: %v", err)
	}

	select {
	case got := <-answererMsgs:
		if string(got) != "ping" {
			t.Errorf("answerer received %q, want ping", got)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for answerer to receive ping")
	}

	select {
	case got := <-offererMsgs:
		if string(got) != "pong" {
			t.Errorf("offerer received %q, want pong", got)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for offerer to receive pong")
	}

	if offerer.currentState() != StateOpen {
		t.Errorf("offerer state = %v, want Open", offerer.currentState())
	}
	if answerer.currentState() != StateOpen {
		t.Errorf("answerer state = %v, want Open", answerer.currentState())
	}

	offerer.close()
	answerer.close()
}

func waitFor(t *testing.T, ch <-chan struct{}, what string) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for %s", what)
	}
}

// receive routes an inbound signaling message into the negotiator exactly
// as the peer façades' dispatch functions do.
func (n *negotiator) receive(msg protocol.Message) error {
	switch msg.Type {
	case protocol.TypeSdpOffer:
		if err := n.onSdpOffer(msg.SDP); err != nil {
			return err
		}
	case protocol.TypeSdpAnswer:
		if err := n.onSdpAnswer(msg.SDP); err != nil {
			return err
		}
	case protocol.TypeIceCandidate:
		if msg.Candidate != nil {
			n.onIceCandidate(*msg.Candidate)
		}
	}
	return nil
}

// TestNegotiatorSendBeforeOpenFails verifies the not-ready contract from
// spec §7: sending before Open returns a typed error without touching
// state.
func TestNegotiatorSendBeforeOpenFails(t *testing.T) {
	n := newNegotiator(1, "s", rtcutil.NewLocal(), 10, func(protocol.Message) error { return nil }, nil, nil, nil)

	err := n.send([]byte("too soon"))
	if err == nil {
		t.Fatal("expected an error sending before Open")
	}
	if err.Kind != ErrKindNotReady {
		t.Errorf("Kind = %v, want ErrKindNotReady", err.Kind)
	}
	if n.currentState() != StateIdle {
		t.Errorf("state changed on failed send: %v", n.currentState())
	}
}
