// Package server implements the signaling server router (C4) and message
// handler (C5): it accepts duplex WebSocket connections on three
// topology-scoped paths plus a health probe, and forwards decoded signal
// messages through a Dispatcher wired to the matching session registry.
package server

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/1ureka/rendezvous/internal/config"
	"github.com/1ureka/rendezvous/internal/protocol"
	"github.com/1ureka/rendezvous/internal/registry"
	"github.com/1ureka/rendezvous/internal/session"
	"github.com/1ureka/rendezvous/internal/util"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Server bundles the connection registry and the three topology session
// registries behind the router described in spec §4.4.
type Server struct {
	Conns      *registry.Registry
	OneToOne   *session.OneToOne
	OneToMany  *session.OneToMany
	ManyToMany *session.ManyToMany

	iceServers     []config.ICEServer
	maxRetransmits uint16
}

// New creates a Server with empty registries, advertising cfg's ICE
// server list and default retransmit bound on /config so that peer
// applications deployed against this server don't have to hardcode
// NAT-traversal settings the operator controls.
func New(cfg config.Config) *Server {
	return &Server{
		Conns:          registry.New(),
		OneToOne:       session.NewOneToOne(),
		OneToMany:      session.NewOneToMany(),
		ManyToMany:     session.NewManyToMany(),
		iceServers:     cfg.ICEServers,
		maxRetransmits: cfg.MaxRetransmits,
	}
}

// Handler builds the HTTP mux routing the four paths from spec §6 plus
// the /config discovery endpoint.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/one-to-one", s.topologyHandler(s.OneToOne, s.OneToOne.MarkOfferReceived))
	mux.HandleFunc("/one-to-many", s.topologyHandler(s.OneToMany, nil))
	mux.HandleFunc("/many-to-many", s.topologyHandler(s.ManyToMany, nil))
	mux.HandleFunc("/health", handleHealth)
	mux.HandleFunc("/config", s.handleConfig)

	return mux
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// configResponse is the JSON body served at /config.
type configResponse struct {
	ICEServers     []config.ICEServer `json:"ice_servers"`
	MaxRetransmits uint16             `json:"max_retransmits"`
}

func (s *Server) handleConfig(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(configResponse{
		ICEServers:     s.iceServers,
		MaxRetransmits: s.maxRetransmits,
	})
}

// topologyHandler accepts one connection, allocates a UserId, and runs its
// reader/writer lifecycle against sessions until the transport closes.
func (s *Server) topologyHandler(sessions session.Registry, offerGate func(protocol.SessionId) bool) http.HandlerFunc {
	dispatcher := &Dispatcher{Conns: s.Conns, Sessions: sessions, OfferGate: offerGate}

	return func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			util.LogWarning("websocket upgrade failed: %v", err)
			return
		}

		c := newConn(ws)
		id := s.Conns.Register(c)
		util.Stats.AddConn()
		util.LogInfo("%s connected from %s", id, r.RemoteAddr)

		go c.writeLoop()

		s.readLoop(id, c, dispatcher)

		c.close()
		s.Conns.Unregister(id)
		util.Stats.RemoveConn()
		for _, sid := range sessions.OnDisconnect(id) {
			util.LogInfo("session %s deleted: last member %s disconnected", sid, id)
		}
		util.LogInfo("%s disconnected", id)
	}
}

// readLoop feeds inbound frames to dispatcher until the transport closes.
// A malformed frame is logged and dropped; the connection stays open per
// spec §7 — only a transport-level read error ends the loop.
func (s *Server) readLoop(sender protocol.UserId, c *conn, dispatcher *Dispatcher) {
	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			return
		}

		msg, err := protocol.Decode(data)
		if err != nil {
			util.LogWarning("malformed frame from %s: %v", sender, err)
			util.Stats.AddDropped()
			continue
		}

		dispatcher.Dispatch(sender, msg)
	}
}
