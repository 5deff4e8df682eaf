package peer

import (
	"context"
	"fmt"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/1ureka/rendezvous/internal/protocol"
	"github.com/1ureka/rendezvous/internal/util"
)

// signalingClient owns the WebSocket connection to a signaling-server URL
// path (spec §6's /one-to-one, /one-to-many, /many-to-many). It serializes
// writes, since both the façade's Join call and every negotiator's ICE
// trickle callback write concurrently, and drives a single read loop that
// hands decoded messages to the owning façade.
type signalingClient struct {
	conn *websocket.Conn

	mu sync.Mutex

	done chan struct{}
}

// dialSignaling connects to url, following the teacher's Connect helper.
func dialSignaling(ctx context.Context, url string) (*signalingClient, error) {
	dialer := websocket.DefaultDialer
	conn, _, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial signaling server: %w", err)
	}
	return &signalingClient{conn: conn, done: make(chan struct{})}, nil
}

// send encodes and writes msg under the write lock.
func (c *signalingClient) send(msg protocol.Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(msg)
}

// readLoop decodes inbound messages and hands each to onMsg until the
// connection closes, then closes done.
func (c *signalingClient) readLoop(onMsg func(protocol.Message)) {
	defer close(c.done)
	for {
		var msg protocol.Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			util.LogDebug("signaling read loop ended: %v", err)
			return
		}
		onMsg(msg)
	}
}

func (c *signalingClient) close() error {
	return c.conn.Close()
}
