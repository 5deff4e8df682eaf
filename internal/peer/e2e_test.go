package peer_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/1ureka/rendezvous/internal/config"
	"github.com/1ureka/rendezvous/internal/peer"
	"github.com/1ureka/rendezvous/internal/protocol"
	"github.com/1ureka/rendezvous/internal/rtcutil"
	"github.com/1ureka/rendezvous/internal/server"

	"net/http/httptest"
)

// TestOneToOneEndToEnd drives two real OneToOne façades against a real
// signaling server, exercising C1 through C8 together: join, SessionReady
// election, SDP/ICE exchange, and application messages over the opened
// data channel.
func TestOneToOneEndToEnd(t *testing.T) {
	srv := server.New(config.Default())
	httpSrv := httptest.NewServer(srv.Handler())
	defer httpSrv.Close()
	wsURL := "ws" + strings.TrimPrefix(httpSrv.URL, "http") + "/one-to-one"

	ctx := context.Background()

	hostOpen := make(chan struct{})
	clientOpen := make(chan struct{})
	hostMsgs := make(chan []byte, 1)
	clientMsgs := make(chan []byte, 1)

	host, perr := peer.ConstructOneToOne(ctx, wsURL, "e2e-session", rtcutil.NewLocal(), true, 10)
	require.Nil(t, perr)
	client, perr := peer.ConstructOneToOne(ctx, wsURL, "e2e-session", rtcutil.NewLocal(), false, 10)
	require.Nil(t, perr)

	var stateChanges []peer.State
	var stateMu sync.Mutex
	host.OnStateChanged(func(peerID protocol.UserId, oldState, newState peer.State) {
		stateMu.Lock()
		stateChanges = append(stateChanges, newState)
		stateMu.Unlock()
	})

	require.Nil(t, host.Start(func() { close(hostOpen) }, func(data []byte) { hostMsgs <- data }))
	require.Nil(t, client.Start(func() { close(clientOpen) }, func(data []byte) { clientMsgs <- data }))

	waitForClose(t, hostOpen, "host data channel open")
	waitForClose(t, clientOpen, "client data channel open")

	require.Nil(t, host.Send([]byte("hello from host")))
	require.Nil(t, client.Send([]byte("hello from client")))

	select {
	case got := <-clientMsgs:
		require.Equal(t, "hello from host", string(got))
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for client to receive host's message")
	}

	select {
	case got := <-hostMsgs:
		require.Equal(t, "hello from client", string(got))
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for host to receive client's message")
	}

	stateMu.Lock()
	require.Contains(t, stateChanges, peer.StateOpen)
	stateMu.Unlock()

	require.Nil(t, host.Close())
	require.Nil(t, client.Close())
}

func waitForClose(t *testing.T, ch <-chan struct{}, what string) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for %s", what)
	}
}
