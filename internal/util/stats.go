package util

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/pterm/pterm"
)

// Stats is the process-wide connection/routing counter for the signaling
// server.
var Stats = &stats{}

type stats struct {
	TotalConns      atomic.Int64 // cumulative accepted connections since process start
	ClosedConns     atomic.Int64 // cumulative closed connections since process start
	MessagesRouted  atomic.Int64 // cumulative messages queued to a connected recipient (forwards, SessionReady, Error)
	MessagesDropped atomic.Int64 // cumulative dropped messages (unknown recipient, malformed frame, ...)
}

func (s *stats) AddConn()    { s.TotalConns.Add(1) }
func (s *stats) RemoveConn() { s.ClosedConns.Add(1) }
func (s *stats) AddRouted()  { s.MessagesRouted.Add(1) }
func (s *stats) AddDropped() { s.MessagesDropped.Add(1) }

// StartStatsReporter launches a goroutine that logs server activity every
// 10 seconds, following the teacher's periodic-reporter idiom but counting
// connections and routed/dropped signal messages instead of tunnel bytes.
// It stops when ctx is cancelled.
func StartStatsReporter(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(10 * time.Second)
		defer ticker.Stop()

		var prevRouted, prevDropped, prevTotal, prevClosed int64
		for {
			select {
			case <-ticker.C:
				total := Stats.TotalConns.Load()
				closed := Stats.ClosedConns.Load()
				routed := Stats.MessagesRouted.Load()
				dropped := Stats.MessagesDropped.Load()

				connDelta := total - prevTotal
				closeDelta := closed - prevClosed
				routedDelta := routed - prevRouted
				droppedDelta := dropped - prevDropped

				if connDelta > 0 || closeDelta > 0 || routedDelta > 0 || droppedDelta > 0 {
					pterm.DefaultLogger.Info(formatStats(connDelta, closeDelta, routedDelta, droppedDelta))
				}

				prevTotal = total
				prevClosed = closed
				prevRouted = routed
				prevDropped = dropped

			case <-ctx.Done():
				return
			}
		}
	}()
}

func formatStats(connIn, connOut, routed, dropped int64) string {
	return fmt.Sprintf("Conn: %2d↑ %2d↓ | Routed: %4d | Dropped: %3d",
		connIn, connOut, routed, dropped)
}
