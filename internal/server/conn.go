package server

import (
	"github.com/gorilla/websocket"

	"github.com/1ureka/rendezvous/internal/registry"
)

// conn adapts a single WebSocket connection into a registry.Sink backed by
// an unbounded outbound queue, and owns the writer goroutine that drains
// the queue onto the wire.
type conn struct {
	ws    *websocket.Conn
	queue *outboundQueue
	done  chan struct{}
}

var _ registry.Sink = (*conn)(nil)

func newConn(ws *websocket.Conn) *conn {
	return &conn{ws: ws, queue: newOutboundQueue(), done: make(chan struct{})}
}

// Send implements registry.Sink by enqueueing; the actual write happens on
// the writer goroutine. It never fails from the caller's perspective
// because the queue is unbounded — failures surface only as a closed
// connection, discovered by the reader/writer loops.
func (c *conn) Send(data []byte) error {
	c.queue.push(data)
	return nil
}

// writeLoop drains the outbound queue onto the WebSocket until the
// connection is closed. It runs on its own goroutine, independent from the
// reader, so a slow reader on the remote end never blocks dispatch for
// other connections (spec §5: per-recipient FIFO queue decouples the
// registry's write lock from network I/O).
func (c *conn) writeLoop() {
	for {
		for _, frame := range c.queue.drain() {
			if err := c.ws.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		}

		select {
		case <-c.queue.notify:
		case <-c.done:
			return
		}
	}
}

// close shuts down the outbound queue and the underlying WebSocket,
// unblocking both the writer and reader loops.
func (c *conn) close() {
	select {
	case <-c.done:
	default:
		close(c.done)
	}
	c.queue.close()
	c.ws.Close()
}
