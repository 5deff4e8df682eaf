package peer

import (
	"testing"

	"github.com/1ureka/rendezvous/internal/protocol"
	"github.com/1ureka/rendezvous/internal/rtcutil"
)

func TestPeerSetGetOrCreateDedups(t *testing.T) {
	client := &signalingClient{}
	set := newPeerSet(client, "s1", rtcutil.NewLocal(), 10)

	a := set.getOrCreate(protocol.UserId(1))
	b := set.getOrCreate(protocol.UserId(1))
	if a != b {
		t.Fatal("getOrCreate returned distinct negotiators for the same peer id")
	}

	if _, ok := set.get(protocol.UserId(2)); ok {
		t.Fatal("get found a negotiator that was never created")
	}

	set.getOrCreate(protocol.UserId(2))
	if len(set.all()) != 2 {
		t.Fatalf("all() = %d entries, want 2", len(set.all()))
	}
}

func TestPeerSetSendAllDoesNotPanicWhenNotReady(t *testing.T) {
	client := &signalingClient{}
	set := newPeerSet(client, "s1", rtcutil.NewLocal(), 10)
	set.getOrCreate(protocol.UserId(1))
	set.getOrCreate(protocol.UserId(2))

	// Neither negotiator ever opened a data channel; sendAll must be
	// best-effort and silent per spec §4.7, never panicking or blocking.
	set.sendAll([]byte("hello"))
}
